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

// Package image implements Image XObject decoding: the
// decode-filter chain has already run by the time this package sees an
// image (see pdf.DecodeStream); this package unpacks samples by
// bits-per-component, applies the /Decode array, converts through the
// image's colorspace, and recognizes stencil (/ImageMask) treatment.
package image

import (
	"github.com/corvuspdf/corvus/graphics"
	"github.com/corvuspdf/corvus/graphics/color"
	"github.com/corvuspdf/corvus/internal/bitio"
)

// Params describes an Image XObject's geometry and sample layout, read
// from its stream dictionary by the caller (package content).
type Params struct {
	Width, Height    int
	BitsPerComponent int
	ColorSpace       color.Space // nil for an ImageMask
	Decode           []float64   // raw /Decode array, or nil for the default range
	IsMask           bool        // /ImageMask true: 1-bit stencil, no colorspace
	MaskInvert       bool        // ImageMask /Decode [1 0]: 1 means "don't paint"
}

// Decode unpacks decoded (post-filter-chain) sample bytes into either an
// RGBA raster or a stencil bitmap, depending on Params.IsMask.
func Decode(decoded []byte, p Params) (*graphics.RGBAImage, *graphics.StencilImage, error) {
	if p.IsMask {
		return nil, decodeStencil(decoded, p), nil
	}
	img, err := decodeColor(decoded, p)
	return img, nil, err
}

func decodeStencil(decoded []byte, p Params) *graphics.StencilImage {
	rowBytes := (p.Width + 7) / 8
	bits := make([]byte, rowBytes*p.Height)
	copy(bits, decoded)
	invert := p.MaskInvert
	if len(p.Decode) == 2 && p.Decode[0] == 1 && p.Decode[1] == 0 {
		invert = !invert
	}
	return &graphics.StencilImage{Width: p.Width, Height: p.Height, Bits: bits, Invert: invert}
}

func decodeColor(decoded []byte, p Params) (*graphics.RGBAImage, error) {
	if p.ColorSpace == nil {
		p.ColorSpace = color.DeviceGray
	}
	nComp := p.ColorSpace.NumComponents()
	bpc := p.BitsPerComponent
	if bpc == 0 {
		bpc = 8
	}
	maxVal := float64(int(1)<<uint(bpc) - 1)

	decodeRange := p.Decode
	if len(decodeRange) != 2*nComp {
		decodeRange = defaultDecode(p.ColorSpace, nComp, maxVal)
	}

	out := &graphics.RGBAImage{Width: p.Width, Height: p.Height, Pix: make([]byte, p.Width*p.Height*4)}

	rowBits := p.Width * nComp * bpc
	rowBytes := (rowBits + 7) / 8

	isIndexed := p.ColorSpace.Family() == "Indexed"
	comps := make([]float64, nComp)
	for y := 0; y < p.Height; y++ {
		rowStart := y * rowBytes
		if rowStart >= len(decoded) {
			break
		}
		rowEnd := rowStart + rowBytes
		if rowEnd > len(decoded) {
			rowEnd = len(decoded)
		}
		br := bitio.NewReader(decoded[rowStart:rowEnd])
		for x := 0; x < p.Width; x++ {
			for c := 0; c < nComp; c++ {
				raw, ok := br.ReadBits(bpc)
				v := float64(raw)
				if !ok {
					v = 0
				}
				lo, hi := decodeRange[2*c], decodeRange[2*c+1]
				if isIndexed {
					comps[c] = lo + v*(hi-lo)/maxVal
				} else {
					comps[c] = lo + (v/maxVal)*(hi-lo)
				}
			}
			col, err := p.ColorSpace.NewColor(comps)
			if err != nil {
				col = p.ColorSpace.Default()
			}
			r, g, b, a := col.RGBA()
			i := (y*p.Width + x) * 4
			out.Pix[i] = byte(r >> 8)
			out.Pix[i+1] = byte(g >> 8)
			out.Pix[i+2] = byte(b >> 8)
			out.Pix[i+3] = byte(a >> 8)
		}
	}
	return out, nil
}

func defaultDecode(s color.Space, nComp int, maxVal float64) []float64 {
	out := make([]float64, 2*nComp)
	if s.Family() == "Indexed" {
		out[1] = maxVal
		return out
	}
	if s.Family() == "Lab" {
		out[0], out[1] = 0, 100
		for c := 1; c < nComp; c++ {
			out[2*c], out[2*c+1] = -100, 100
		}
		return out
	}
	for c := 0; c < nComp; c++ {
		out[2*c], out[2*c+1] = 0, 1
	}
	return out
}
