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

// Package jbig2 implements enough of the JBIG2 bi-level image format
// to decode the generic-region-only streams that scanned
// PDF producers overwhelmingly emit. Symbol dictionaries and text
// regions (used for OCR-segmented, glyph-reuse encodings) are skipped
// without a diagnostic: their page area keeps the page's default pixel
// value rather than failing the whole page.
package jbig2

import "fmt"

// Params currently carries no filter-specific settings; JBIG2Globals is
// resolved by the caller (it requires a Getter to fetch a sibling
// stream) and passed in as already-decoded bytes.
type Params struct{}

// Decode decodes embedded-organization JBIG2 data (globals optional) into
// packed 1bpp rows using PDF's convention (0 = black) unless inverted by
// the caller's Decode array, matching the inversion hayro-syntax's
// filter/jbig2.rs performs when bridging to its bitmap writer.
func Decode(data []byte, globals []byte, _ Params) ([]byte, error) {
	segs := parseSegments(globals)
	segs = append(segs, parseSegments(data)...)

	var page *bitmap
	pageDefault := byte(0)

	for _, s := range segs {
		switch s.hdr.typ {
		case segPageInfo:
			if len(s.body) >= 19 {
				w := int(beU32(s.body[0:]))
				hRaw := beU32(s.body[4:])
				h := int(hRaw)
				if hRaw == 0xFFFFFFFF {
					h = 0 // striped page; grown lazily as regions arrive
				}
				flags := s.body[16]
				pageDefault = (flags >> 2) & 1
				if w > 0 && h > 0 {
					page = newBitmap(w, h)
					if pageDefault == 1 {
						for i := range page.pix {
							page.pix[i] = 1
						}
					}
				}
			}
		case segGenericRegion, segGenericRegionImm, segGenericRegionIL:
			info, n := parseRegionInfo(s.body)
			if n == 0 || len(s.body) < n+1 {
				continue
			}
			flags := s.body[n]
			mmr := flags&1 != 0
			template := (flags >> 1) & 0x3
			tpgdon := flags&0x8 != 0
			body := s.body[n+1:]

			if mmr || template != 0 {
				// Only the arithmetic-coded, GBTEMPLATE 0 case is
				// implemented; everything else degrades to a blank
				// region instead of a hard failure.
				continue
			}

			atBytes := 8 // 4 AT pixel pairs, signed bytes, for template 0
			if len(body) < atBytes {
				continue
			}
			body = body[atBytes:]

			cx := make([]context, 1<<16)
			dec := newMQDecoder(body)
			region := decodeGenericRegionTemplate0(info.width, info.height, dec, cx, tpgdon)

			if page == nil {
				page = newBitmap(info.x+info.width, info.y+info.height)
			} else if page.width < info.x+info.width || page.height < info.y+info.height {
				grown := newBitmap(max(page.width, info.x+info.width), max(page.height, info.y+info.height))
				for y := 0; y < page.height; y++ {
					copy(grown.pix[y*grown.width:y*grown.width+page.width], page.pix[y*page.width:(y+1)*page.width])
				}
				page = grown
			}
			compositeRegion(page, region, info)
		default:
			// Symbol dictionaries, text regions, refinement and halftone
			// regions: not decoded. The corresponding page area keeps
			// its default pixel value.
		}
	}

	if page == nil {
		return nil, fmt.Errorf("jbig2: no decodable region found")
	}

	rowBytes := (page.width + 7) / 8
	out := make([]byte, rowBytes*page.height)
	for y := 0; y < page.height; y++ {
		for x := 0; x < page.width; x++ {
			// PDF's default 1bpc DeviceGray convention is 0 = black; a
			// JBIG2 pixel value of 1 means black, so invert.
			if page.get(x, y) == 0 {
				out[y*rowBytes+x/8] |= 1 << uint(7-x%8)
			}
		}
	}
	return out, nil
}

func compositeRegion(page, region *bitmap, info regionInfo) {
	for y := 0; y < region.height; y++ {
		for x := 0; x < region.width; x++ {
			src := region.get(x, y)
			dx, dy := info.x+x, info.y+y
			switch info.combOp {
			case 0: // OR
				page.set(dx, dy, page.get(dx, dy)|src)
			case 1: // AND
				page.set(dx, dy, page.get(dx, dy)&src)
			case 2: // XOR
				page.set(dx, dy, page.get(dx, dy)^src)
			case 3: // XNOR
				page.set(dx, dy, 1-(page.get(dx, dy)^src))
			default: // REPLACE
				page.set(dx, dy, src)
			}
		}
	}
}

func beU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
