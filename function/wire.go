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

import (
	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/graphics/color"
	"github.com/corvuspdf/corvus/graphics/pattern"
	"github.com/corvuspdf/corvus/graphics/shading"
	"github.com/corvuspdf/corvus/graphics/softmask"
)

// init wires this package's evaluator into the function-pointer seams
// color, pattern, shading, and softmask expose to avoid importing function
// themselves (which would cycle back through shading, a color
// consumer). A package-init side effect registers the handler with
// each dispatcher without creating an import cycle.
func init() {
	color.SetTintTransformParser(parseColorFunction)
	pattern.ParseShadingFunc = shading.Parse
	softmask.ParseTransferFunc = parseTransferFunction
	shading.ParseFunctions = parseShadingFunctions
	shading.ParseColorSpace = color.ParseSpace
	softmask.SetColorSpaceResolver(color.ParseSpace)
}

func parseShadingFunctions(r pdf.Getter, obj pdf.Object) ([]shading.Function, error) {
	fns, err := Parse(r, obj)
	if err != nil {
		return nil, err
	}
	out := make([]shading.Function, len(fns))
	for i, fn := range fns {
		out[i] = fn
	}
	return out, nil
}

func parseColorFunction(r pdf.Getter, obj pdf.Object) (color.Function, error) {
	fns, err := Parse(r, obj)
	if err != nil {
		return nil, err
	}
	return asOne(fns), nil
}

func parseTransferFunction(r pdf.Getter, obj pdf.Object) (softmask.TransferFunc, error) {
	fns, err := Parse(r, obj)
	if err != nil {
		return nil, err
	}
	fn := asOne(fns)
	return func(v float64) float64 {
		out, err := fn.Eval([]float64{v})
		if err != nil || len(out) == 0 {
			return v
		}
		return out[0]
	}, nil
}

// asOne collapses a parsed function list (ISO 32000-1 §8.7.4.5.2 allows
// /Function to be one N-in/M-out function or an array of N 1-out
// functions) into a single evaluator that concatenates each array
// member's single output, matching evalFunctions' convention elsewhere
// in this codebase.
func asOne(fns []Function) Function {
	if len(fns) == 1 {
		return fns[0]
	}
	return multiFunc(fns)
}

type multiFunc []Function

func (m multiFunc) Eval(in []float64) ([]float64, error) {
	out := make([]float64, 0, len(m))
	for _, fn := range m {
		v, err := fn.Eval(in)
		if err != nil {
			return nil, err
		}
		if len(v) > 0 {
			out = append(out, v[0])
		}
	}
	return out, nil
}
