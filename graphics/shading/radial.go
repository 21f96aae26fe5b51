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
	"math"

	"github.com/corvuspdf/corvus/graphics/color"
)

// Radial implements Type 3 shading (ISO 32000-1 §8.7.4.5.4): color
// varies between two circles, (X0,Y0,R0) and (X1,Y1,R1), parameterized
// by s in [0,1] over the family of interpolated circles.
type Radial struct {
	common
	X0, Y0, R0 float64
	X1, Y1, R1 float64
}

// At solves for the largest s in the valid range (extended per
// Extend[0]/Extend[1]) such that the point lies on circle(s), per the
// quadratic in ISO 32000-1 §8.7.4.5.4.
func (s *Radial) At(x, y float64) (color.Color, bool) {
	dx, dy, dr := s.X1-s.X0, s.Y1-s.Y0, s.R1-s.R0

	a := dx*dx + dy*dy - dr*dr
	fx, fy := x-s.X0, y-s.Y0
	b := 2 * (fx*dx + fy*dy + s.R0*dr)
	c := fx*fx + fy*fy - s.R0*s.R0

	var candidates []float64
	if math.Abs(a) < 1e-9 {
		if b != 0 {
			candidates = append(candidates, -c/b)
		}
	} else {
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			candidates = append(candidates, (-b+sq)/(2*a), (-b-sq)/(2*a))
		}
	}

	best, found := math.Inf(-1), false
	for _, sv := range candidates {
		if s.R0+sv*dr < 0 {
			continue // radius must stay non-negative along the extension
		}
		clipped := sv
		if clipped < 0 {
			if !s.Extend[0] {
				continue
			}
			clipped = 0
		}
		if clipped > 1 {
			if !s.Extend[1] {
				continue
			}
			clipped = 1
		}
		if sv < 0 || sv > 1 {
			// only accept an out-of-range root if it still lands
			// exactly at the clamp after extension
			if clipped != 0 && clipped != 1 {
				continue
			}
		}
		if sv > best || !found {
			best, found = sv, true
		}
	}
	if !found {
		return nil, false
	}
	sParam := best
	if sParam < 0 {
		sParam = 0
	}
	if sParam > 1 {
		sParam = 1
	}

	t := s.Domain[0] + sParam*(s.Domain[1]-s.Domain[0])
	return s.eval(t)
}
