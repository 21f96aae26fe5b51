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

// Type3 is the stitching function (ISO 32000-1 §7.10.4): a single
// input x in [XMin, XMax] selects one of k sub-functions by Bounds,
// remaps x into that sub-function's Encode interval, and delegates.
type Type3 struct {
	XMin, XMax float64
	Functions  []Function
	Bounds     []float64
	Encode     []float64
	Range      []float64
}

// selectSubdomain returns the index of the sub-function x falls into
// and the subdomain boundaries [lo, hi] that sub-function's x range
// covers, per the boundary rules of §7.10.4: each interval is
// half-open [Bounds[i-1], Bounds[i]), with the final interval closed
// on the right at XMax. A degenerate interval (lo == hi, which only
// arises when XMin == Bounds[0]) is treated as closed on both ends so
// it still claims exactly the one point it spans.
func (f *Type3) selectSubdomain(x float64) (idx int, lo, hi float64) {
	k := len(f.Functions)
	if k == 0 {
		return 0, f.XMin, f.XMax
	}
	lo = f.XMin
	for i := 0; i < k-1; i++ {
		hi = f.Bounds[i]
		if lo == hi {
			if x <= hi {
				return i, lo, hi
			}
		} else if x < hi {
			return i, lo, hi
		}
		lo = hi
	}
	return k - 1, lo, f.XMax
}

func (f *Type3) Eval(in []float64) ([]float64, error) {
	if len(in) != 1 {
		return nil, errWrongArity("Type3", 1, len(in))
	}
	if len(f.Functions) == 0 {
		return nil, nil
	}
	x := clamp(in[0], f.XMin, f.XMax)

	idx, lo, hi := f.selectSubdomain(x)
	var e0, e1 float64 = 0, 1
	if 2*idx+1 < len(f.Encode) {
		e0, e1 = f.Encode[2*idx], f.Encode[2*idx+1]
	}
	xe := interpolate(x, lo, hi, e0, e1)

	out, err := f.Functions[idx].Eval([]float64{xe})
	if err != nil {
		return nil, err
	}
	if len(f.Range) > 0 {
		clampRange(out, f.Range)
	}
	return out, nil
}
