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

// Package dct implements the PDF DCTDecode filter on top of
// the standard library's baseline JPEG decoder. Adobe's DCTDecode allows a
// 4-component (CMYK/YCCK) JPEG; image/jpeg already inverts the Adobe YCCK
// transform for such images and hands back color.CMYK pixels directly.
package dct

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// Result is the decoded raster plus enough metadata for the caller to
// reinterpret the component interleaving.
type Result struct {
	Data       []byte
	Width      int
	Height     int
	Components int
}

// Decode decodes baseline or progressive JPEG data as used by DCTDecode.
// Adobe APP14 markers that indicate a YCCK transform are not visible to
// image/jpeg's public API, so 4-component images are always treated as
// already-inverted CMYK, matching the common case produced by PDF
// producers.
func Decode(data []byte) (*Result, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("dct: %w", err)
	}

	switch im := img.(type) {
	case *image.Gray:
		b := im.Bounds()
		out := make([]byte, b.Dx()*b.Dy())
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				out[i] = im.GrayAt(x, y).Y
				i++
			}
		}
		return &Result{Data: out, Width: b.Dx(), Height: b.Dy(), Components: 1}, nil
	case *image.YCbCr:
		b := im.Bounds()
		out := make([]byte, b.Dx()*b.Dy()*3)
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := im.At(x, y).RGBA()
				out[i] = byte(r >> 8)
				out[i+1] = byte(g >> 8)
				out[i+2] = byte(bl >> 8)
				i += 3
			}
		}
		return &Result{Data: out, Width: b.Dx(), Height: b.Dy(), Components: 3}, nil
	case *image.CMYK:
		b := im.Bounds()
		out := make([]byte, b.Dx()*b.Dy()*4)
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				p := im.CMYKAt(x, y)
				out[i] = p.C
				out[i+1] = p.M
				out[i+2] = p.Y
				out[i+3] = p.K
				i += 4
			}
		}
		return &Result{Data: out, Width: b.Dx(), Height: b.Dy(), Components: 4}, nil
	default:
		b := img.Bounds()
		out := make([]byte, b.Dx()*b.Dy()*3)
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				out[i] = byte(r >> 8)
				out[i+1] = byte(g >> 8)
				out[i+2] = byte(bl >> 8)
				i += 3
			}
		}
		return &Result{Data: out, Width: b.Dx(), Height: b.Dy(), Components: 3}, nil
	}
}
