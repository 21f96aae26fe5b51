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

package color

import (
	pdf "github.com/corvuspdf/corvus"
)

// SpaceIndexed implements the Indexed family (ISO 32000-1 §8.6.6.3): a
// palette of Base colors selected by a single integer component.
type SpaceIndexed struct {
	Base   Space
	HiVal  int
	Lookup []Color // len HiVal+1
}

// Indexed builds an indexed space directly from a palette.
func Indexed(palette []Color) (*SpaceIndexed, error) {
	return &SpaceIndexed{Base: DeviceRGB, HiVal: len(palette) - 1, Lookup: palette}, nil
}

func (s *SpaceIndexed) Family() string     { return "Indexed" }
func (s *SpaceIndexed) NumComponents() int { return 1 }
func (s *SpaceIndexed) Default() Color     { return colorIndexed{space: s, Index: 0} }

func (s *SpaceIndexed) NewColor(c []float64) (Color, error) {
	idx := int(at(c, 0))
	return colorIndexed{space: s, Index: idx}, nil
}

type colorIndexed struct {
	space *SpaceIndexed
	Index int
}

func (c colorIndexed) resolve() Color {
	if c.Index < 0 || c.Index >= len(c.space.Lookup) || c.space.Lookup[c.Index] == nil {
		return DeviceGray.Default()
	}
	return c.space.Lookup[c.Index]
}

func (c colorIndexed) RGBA() (r, g, b, a uint32)  { return c.resolve().RGBA() }
func (c colorIndexed) ToXYZ() (X, Y, Z float64)   { return c.resolve().ToXYZ() }

// parseIndexed builds the palette by decoding the base space's
// components from the lookup string/stream, one base-colorspace-sized
// tuple per index ("Indexed (palette + base)").
func parseIndexed(r pdf.Getter, arr pdf.Array, resources pdf.Dict) (Space, error) {
	if len(arr) < 4 {
		return DeviceRGB, &pdf.MalformedFileError{Err: errBadColorSpace}
	}
	base, err := ParseSpace(r, arr[1], resources)
	if err != nil {
		base = DeviceRGB
	}
	hival, err := pdf.GetInteger(r, arr[2])
	if err != nil || hival < 0 {
		hival = 0
	}

	var raw []byte
	switch v := mustResolve(r, arr[3]).(type) {
	case pdf.String:
		raw = []byte(v)
	case *pdf.Stream:
		raw, _ = pdf.DecodeStream(r, v, nil)
	}

	n := base.NumComponents()
	palette := make([]Color, hival+1)
	for i := 0; i <= int(hival); i++ {
		comps := make([]float64, n)
		for j := 0; j < n; j++ {
			off := i*n + j
			if off < len(raw) {
				comps[j] = float64(raw[off]) / 255
			}
		}
		c, err := base.NewColor(comps)
		if err != nil {
			c = base.Default()
		}
		palette[i] = c
	}
	return &SpaceIndexed{Base: base, HiVal: int(hival), Lookup: palette}, nil
}

func mustResolve(r pdf.Getter, obj pdf.Object) pdf.Native {
	n, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil
	}
	return n
}
