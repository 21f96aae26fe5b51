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

package function

import "math"

// Type2 is the exponential interpolation function (ISO 32000-1
// §7.10.3): a single input x in [XMin, XMax] produces C0 + x^N*(C1-C0).
type Type2 struct {
	XMin, XMax float64
	C0, C1     []float64
	N          float64
	Range      []float64
}

func (f *Type2) Eval(in []float64) ([]float64, error) {
	if len(in) != 1 {
		return nil, errWrongArity("Type2", 1, len(in))
	}
	x := clamp(in[0], f.XMin, f.XMax)

	c0, c1 := f.C0, f.C1
	if len(c0) == 0 {
		c0 = []float64{0}
	}
	if len(c1) == 0 {
		c1 = []float64{1}
	}
	n := len(c0)
	if len(c1) > n {
		n = len(c1)
	}

	xn := math.Pow(x, f.N)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		a := at(c0, i)
		b := at(c1, i)
		out[i] = a + xn*(b-a)
	}
	if len(f.Range) > 0 {
		clampRange(out, f.Range)
	}
	return out, nil
}

func at(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}
