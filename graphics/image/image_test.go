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

package image

import (
	"testing"

	"github.com/corvuspdf/corvus/graphics/color"
)

func TestDecode1BitGray(t *testing.T) {
	// 2x1 image, 1 bit per component: one white pixel, one black.
	decoded := []byte{0b10000000}
	img, _, err := Decode(decoded, Params{
		Width: 2, Height: 1, BitsPerComponent: 1, ColorSpace: color.DeviceGray,
	})
	if err != nil {
		t.Fatal(err)
	}
	if img.Pix[0] != 0xff {
		t.Errorf("pixel 0 = %d, want 255 (white)", img.Pix[0])
	}
	if img.Pix[4] != 0 {
		t.Errorf("pixel 1 = %d, want 0 (black)", img.Pix[4])
	}
}

func TestDecodeStencilInvert(t *testing.T) {
	decoded := []byte{0b10000000}
	_, stencil, err := Decode(decoded, Params{
		Width: 8, Height: 1, IsMask: true, Decode: []float64{1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !stencil.Invert {
		t.Errorf("Decode [1 0] should set Invert")
	}
}

func TestDecode8BitRGB(t *testing.T) {
	decoded := []byte{255, 0, 0}
	img, _, err := Decode(decoded, Params{
		Width: 1, Height: 1, BitsPerComponent: 8, ColorSpace: color.DeviceRGB,
	})
	if err != nil {
		t.Fatal(err)
	}
	if img.Pix[0] != 255 || img.Pix[1] != 0 || img.Pix[2] != 0 {
		t.Errorf("pixel = %v, want [255 0 0 ...]", img.Pix[:4])
	}
}
