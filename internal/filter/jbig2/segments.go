// corvus - a library for reading and rendering PDF files
// Copyright (C) 2026  Corvus Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package jbig2

import "encoding/binary"

type segmentType int

const (
	segSymbolDict        segmentType = 0
	segTextRegion        segmentType = 4
	segTextRegionImm     segmentType = 6
	segTextRegionImmLoss segmentType = 7
	segPatternDict       segmentType = 16
	segGenericRegion     segmentType = 36
	segGenericRegionImm  segmentType = 38
	segGenericRegionIL   segmentType = 39
	segPageInfo          segmentType = 48
	segEndOfPage         segmentType = 49
	segEndOfFile         segmentType = 51
)

type segmentHeader struct {
	number  uint32
	typ     segmentType
	dataLen uint32
}

// parseSegments walks a JBIG2 embedded-organization segment stream (no
// file header, ITU-T T.88 Annex D.4) and returns each segment header
// together with a slice of its data payload.
func parseSegments(data []byte) []struct {
	hdr  segmentHeader
	body []byte
} {
	var out []struct {
		hdr  segmentHeader
		body []byte
	}
	pos := 0
	for pos+11 <= len(data) {
		start := pos
		number := binary.BigEndian.Uint32(data[pos:])
		pos += 4
		flags := data[pos]
		pos++
		typ := segmentType(flags & 0x3F)
		pageAssocLong := flags&0x40 != 0

		if pos >= len(data) {
			break
		}
		rtsByte := data[pos]
		var refCount int
		if rtsByte>>5 == 7 {
			if pos+4 > len(data) {
				break
			}
			refCount = int(binary.BigEndian.Uint32(data[pos:]) & 0x1FFFFFFF)
			pos += 4
			retainBytes := (refCount + 8) / 8
			pos += retainBytes
		} else {
			refCount = int(rtsByte >> 5)
			pos++
		}

		refSize := 1
		if number > 65536 {
			refSize = 4
		} else if number > 256 {
			refSize = 2
		}
		pos += refCount * refSize

		if pageAssocLong {
			pos += 4
		} else {
			pos += 1
		}

		if pos+4 > len(data) {
			break
		}
		dataLen := binary.BigEndian.Uint32(data[pos:])
		pos += 4

		if dataLen == 0xFFFFFFFF {
			// Unknown-length segments require scanning for a terminator;
			// not produced by the PDF embedding profile, so stop here
			// rather than misparse the remainder.
			break
		}
		if pos+int(dataLen) > len(data) {
			dataLen = uint32(len(data) - pos)
		}
		body := data[pos : pos+int(dataLen)]
		pos += int(dataLen)

		out = append(out, struct {
			hdr  segmentHeader
			body []byte
		}{segmentHeader{number: number, typ: typ, dataLen: dataLen}, body})

		if pos <= start {
			break
		}
	}
	return out
}

type regionInfo struct {
	width, height int
	x, y          int
	combOp        byte
}

func parseRegionInfo(body []byte) (regionInfo, int) {
	if len(body) < 17 {
		return regionInfo{}, 0
	}
	w := int(binary.BigEndian.Uint32(body[0:]))
	h := int(binary.BigEndian.Uint32(body[4:]))
	x := int(binary.BigEndian.Uint32(body[8:]))
	y := int(binary.BigEndian.Uint32(body[12:]))
	flags := body[16]
	return regionInfo{width: w, height: h, x: x, y: y, combOp: flags & 0x7}, 17
}
