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

// Package jpx recognizes the PDF JPXDecode filter's container format
// far enough to report image geometry, without performing
// the JPEG2000 wavelet decode itself. A full EBCOT/wavelet pipeline is out
// of scope; the tolerant-decode policy
// calls for a clean diagnostic and a correctly-sized blank image rather
// than an error that aborts the page.
package jpx

import "fmt"

// Result carries whatever geometry could be recovered from the JP2/J2K
// container headers. Data is a zeroed placeholder of the right size so
// callers that only need bounding-box layout (e.g. a page thumbnailer)
// still get a usable image.
type Result struct {
	Data       []byte
	Width      int
	Height     int
	Components int
}

// Decode parses JP2 box headers or a raw J2K codestream's SIZ marker to
// recover image dimensions, then returns a blank raster of that size.
// Pixel data is never reconstructed.
func Decode(data []byte) (*Result, error) {
	w, h, comps, err := probeDimensions(data)
	if err != nil {
		return nil, fmt.Errorf("jpx: %w", err)
	}
	if comps <= 0 {
		comps = 1
	}
	return &Result{
		Data:       make([]byte, w*h*comps),
		Width:      w,
		Height:     h,
		Components: comps,
	}, nil
}

// probeDimensions looks for a raw codestream (starting with the SOC/SIZ
// markers 0xFF4F 0xFF51) or a JP2 box container (starts with the
// signature box "\x00\x00\x00\x0cjP  \r\n\x87\n") wrapping one, and reads
// the SIZ marker segment's Xsiz/Ysiz/Csiz fields (ISO/IEC 15444-1 A.5.1).
func probeDimensions(data []byte) (w, h, comps int, err error) {
	off := findSIZMarker(data)
	if off < 0 {
		return 0, 0, 0, fmt.Errorf("no SIZ marker found")
	}
	// SIZ marker segment layout (after the 2-byte marker and 2-byte
	// length): Rsiz(2) Xsiz(4) Ysiz(4) XOsiz(4) YOsiz(4) XTsiz(4)
	// YTsiz(4) XTOsiz(4) YTOsiz(4) Csiz(2) ...
	const hdr = 2 + 2 // marker + length
	p := off + hdr
	if p+38 > len(data) {
		return 0, 0, 0, fmt.Errorf("truncated SIZ segment")
	}
	xsiz := be32(data[p+2:])
	ysiz := be32(data[p+6:])
	xosiz := be32(data[p+10:])
	yosiz := be32(data[p+14:])
	csiz := int(be16(data[p+34:]))
	return int(xsiz - xosiz), int(ysiz - yosiz), csiz, nil
}

func findSIZMarker(data []byte) int {
	for i := 0; i+1 < len(data); i++ {
		if data[i] == 0xFF && data[i+1] == 0x51 {
			return i
		}
	}
	return -1
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func be16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
