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

// Package shading evaluates the seven PDF shading types:
// function-based, axial, radial, and the four mesh types.
package shading

import (
	"github.com/corvuspdf/corvus/graphics/color"
)

// Function is the evaluator interface shadings need: N domain inputs to
// M range outputs. Identical in shape to color.Function, but declared
// as this package's own type.
type Function interface {
	Eval(in []float64) ([]float64, error)
}

// Shading is anything that can answer "what color (if any) is painted
// at this point in shading space".
type Shading interface {
	// At evaluates the shading at (x, y) in the shading's own
	// coordinate space (the CTM active when `sh` or a shading-pattern
	// fill ran). ok is false outside the shading's domain/extend.
	At(x, y float64) (c color.Color, ok bool)
}

// common fields shared by every shading type.
type common struct {
	Space  color.Space
	Fn     []Function // one function of N inputs producing NumComponents() outputs, or N 1-output functions
	Domain [2]float64
	Extend [2]bool
	HasBG  bool
	BG     []float64
}

func (c *common) eval(t float64) (color.Color, bool) {
	out, err := evalFunctions(c.Fn, []float64{t})
	if err != nil {
		if c.HasBG {
			col, _ := c.Space.NewColor(c.BG)
			return col, true
		}
		return nil, false
	}
	col, err := c.Space.NewColor(out)
	if err != nil {
		return nil, false
	}
	return col, true
}

// evalFunctions applies either a single multi-output function or a
// parallel array of single-output functions (both forms are legal for
// /Function per ISO 32000-1 §8.7.4.5.2) and concatenates the results.
func evalFunctions(fns []Function, in []float64) ([]float64, error) {
	if len(fns) == 1 {
		return fns[0].Eval(in)
	}
	out := make([]float64, 0, len(fns))
	for _, f := range fns {
		v, err := f.Eval(in)
		if err != nil {
			return nil, err
		}
		if len(v) > 0 {
			out = append(out, v[0])
		}
	}
	return out, nil
}
