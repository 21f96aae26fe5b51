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

// Package function evaluates the four PDF function types:
// sampled (0), exponential (2), stitching (3), and PostScript calculator
// (4). Every Function has fixed input/output dimensions known at
// construction and clamps inputs to Domain (and outputs to Range, when
// present) before and after evaluation.
package function

import (
	"fmt"
)

// Function is the common evaluator interface the graphics packages
// consume (color.Function, shading.Function have the identical shape;
// this package implements it directly rather than importing either, so
// both of them can accept a *function.TypeN value without this package
// needing to import them back).
type Function interface {
	Eval(in []float64) ([]float64, error)
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func errWrongArity(kind string, want, got int) error {
	return fmt.Errorf("function: %s expects %d input(s), got %d", kind, want, got)
}

func clampRange(out []float64, rng []float64) {
	for i := range out {
		if 2*i+1 < len(rng) {
			out[i] = clamp(out[i], rng[2*i], rng[2*i+1])
		}
	}
}

// interpolate linearly remaps x from [xmin,xmax] to [ymin,ymax] (ISO
// 32000-1 §7.10.1's generic Interpolate function, used by Domain/Encode
// and Range/Decode pairs throughout the four function types).
func interpolate(x, xmin, xmax, ymin, ymax float64) float64 {
	if xmax == xmin {
		return ymin
	}
	return ymin + (x-xmin)*(ymax-ymin)/(xmax-xmin)
}
