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

import "github.com/corvuspdf/corvus/graphics/color"

// Axial implements Type 2 shading (ISO 32000-1 §8.7.4.5.3): color
// varies linearly along the line from (X0,Y0) to (X1,Y1), parameterized
// by t in [Domain[0], Domain[1]] mapped from s in [0,1] along the line.
type Axial struct {
	common
	X0, Y0, X1, Y1 float64
}

func (s *Axial) At(x, y float64) (color.Color, bool) {
	dx, dy := s.X1-s.X0, s.Y1-s.Y0
	denom := dx*dx + dy*dy
	var sParam float64
	if denom == 0 {
		sParam = 0
	} else {
		sParam = ((x-s.X0)*dx + (y-s.Y0)*dy) / denom
	}

	if sParam < 0 {
		if !s.Extend[0] {
			return nil, false
		}
		sParam = 0
	}
	if sParam > 1 {
		if !s.Extend[1] {
			return nil, false
		}
		sParam = 1
	}

	t := s.Domain[0] + sParam*(s.Domain[1]-s.Domain[0])
	return s.eval(t)
}
