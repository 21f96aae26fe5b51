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

package shading

import (
	"seehuhn.de/go/geom/matrix"

	"github.com/corvuspdf/corvus/graphics/color"
)

// FunctionBased implements Type 1 shading (ISO 32000-1 §8.7.4.5.2):
// Function is evaluated directly over a 2-D domain (x, y) -> color,
// after mapping through Matrix into the function's own domain.
type FunctionBased struct {
	Space  color.Space
	Fn     []Function
	Domain [4]float64 // xmin, xmax, ymin, ymax
	Matrix matrix.Matrix
	HasBG  bool
	BG     []float64
}

// invert2x3 returns the inverse of an affine matrix [a b c d e f]
// (mapping (x,y) -> (a*x+c*y+e, b*x+d*y+f)), or the identity if the
// matrix is singular.
func invert2x3(m matrix.Matrix) matrix.Matrix {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return matrix.Identity
	}
	a, b, c, d, e, f := m[0], m[1], m[2], m[3], m[4], m[5]
	ia := d / det
	ib := -b / det
	ic := -c / det
	id := a / det
	ie := -(e*ia + f*ic)
	iff := -(e*ib + f*id)
	return matrix.Matrix{ia, ib, ic, id, ie, iff}
}

func (s *FunctionBased) At(x, y float64) (color.Color, bool) {
	inv := invert2x3(s.Matrix)
	u := inv[0]*x + inv[2]*y + inv[4]
	v := inv[1]*x + inv[3]*y + inv[5]

	if u < s.Domain[0] || u > s.Domain[1] || v < s.Domain[2] || v > s.Domain[3] {
		if s.HasBG {
			c, _ := s.Space.NewColor(s.BG)
			return c, true
		}
		return nil, false
	}

	out, err := evalFunctions(s.Fn, []float64{u, v})
	if err != nil {
		return nil, false
	}
	c, err := s.Space.NewColor(out)
	if err != nil {
		return nil, false
	}
	return c, true
}
