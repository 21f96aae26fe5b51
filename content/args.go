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

package content

import (
	"seehuhn.de/go/geom/matrix"

	pdf "github.com/corvuspdf/corvus"
)

// argReader walks an operator's accumulated operands left to right,
// the order they appeared in the content stream (and the order every
// operator's operand list is documented in, e.g. "a b c d e f cm").
// Each accessor advances past the operand it consumed and reports
// whether one was actually available; operators that get fewer
// operands than they expect just skip the corresponding state change,
// silently.
type argReader struct {
	r    pdf.Getter
	args []pdf.Object
	pos  int
}

func (a *argReader) next() (pdf.Object, bool) {
	if a.pos >= len(a.args) {
		return nil, false
	}
	obj := a.args[a.pos]
	a.pos++
	return obj, true
}

// rest returns the remaining operands as they are, unresolved and
// including any non-numeric tail (a pattern name), which
// splitPatternOperand then separates from the numeric components.
func (a *argReader) rest() []pdf.Object {
	out := a.args[a.pos:]
	a.pos = len(a.args)
	return out
}

func (a *argReader) num() (float64, bool) {
	obj, ok := a.next()
	if !ok {
		return 0, false
	}
	v, err := pdf.GetNumber(a.r, obj)
	return v, err == nil
}

func (a *argReader) integer() (int, bool) {
	v, ok := a.num()
	return int(v), ok
}

func (a *argReader) name() (pdf.Name, bool) {
	obj, ok := a.next()
	if !ok {
		return "", false
	}
	n, err := pdf.GetName(a.r, obj)
	return n, err == nil
}

func (a *argReader) str() (pdf.String, bool) {
	obj, ok := a.next()
	if !ok {
		return nil, false
	}
	s, err := pdf.GetString(a.r, obj)
	return s, err == nil
}

func (a *argReader) array() (pdf.Array, bool) {
	obj, ok := a.next()
	if !ok {
		return nil, false
	}
	arr, err := pdf.GetArray(a.r, obj)
	return arr, err == nil
}

func (a *argReader) point() (float64, float64, bool) {
	x, ok1 := a.num()
	y, ok2 := a.num()
	return x, y, ok1 && ok2
}

func (a *argReader) floats(n int) ([]float64, bool) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := a.num()
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (a *argReader) matrix6() (matrix.Matrix, bool) {
	vs, ok := a.floats(6)
	if !ok {
		return matrix.Identity, false
	}
	return matrix.Matrix{vs[0], vs[1], vs[2], vs[3], vs[4], vs[5]}, true
}
