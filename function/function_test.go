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
	"math"
	"testing"

	pdf "github.com/corvuspdf/corvus"
)

func TestType0BitExtraction(t *testing.T) {
	tests := []struct {
		name    string
		bits    int
		samples []byte
		want    []uint64
	}{
		{"1-bit", 1, []byte{0xAA}, []uint64{1, 0, 1, 0, 1, 0, 1, 0}},
		{"2-bit", 2, []byte{0xE4}, []uint64{3, 2, 1, 0}},
		{"4-bit misaligned", 4, []byte{0x12, 0x34, 0x50}, []uint64{1, 2, 3, 4, 5}},
		{"12-bit nibble-aligned", 12, []byte{0xAB, 0xCD, 0xEF, 0x12, 0x00}, []uint64{0xABC, 0xDEF, 0x120}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Type0{BitsPerSample: tt.bits, Samples: tt.samples}
			for i, want := range tt.want {
				if got := f.extractSampleAtIndex(i); got != want {
					t.Errorf("sample %d: got %#x, want %#x", i, got, want)
				}
			}
		})
	}
}

func TestType0EvalInterpolates(t *testing.T) {
	// single input, single output, 2 grid points spanning [0,1] -> [0,1],
	// 1-bit samples 1,0: halfway between the two grid points should land
	// at the midpoint of the decoded range.
	f := &Type0{
		Domain:        []float64{0, 1},
		Range:         []float64{0, 1},
		Size:          []int{2},
		BitsPerSample: 1,
		Samples:       []byte{0x80}, // 1, 0
	}
	out, err := f.Eval([]float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out[0]-1) > 1e-9 {
		t.Errorf("x=0: got %v, want 1", out[0])
	}
	out, _ = f.Eval([]float64{1})
	if math.Abs(out[0]-0) > 1e-9 {
		t.Errorf("x=1: got %v, want 0", out[0])
	}
	out, _ = f.Eval([]float64{0.5})
	if math.Abs(out[0]-0.5) > 1e-9 {
		t.Errorf("x=0.5: got %v, want 0.5", out[0])
	}
}

func TestType2Linear(t *testing.T) {
	f := &Type2{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{10}, N: 1}
	out, err := f.Eval([]float64{0.3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out[0]-3) > 1e-9 {
		t.Errorf("got %v, want 3", out[0])
	}
}

func TestType2WrongArity(t *testing.T) {
	f := &Type2{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 1}
	if _, err := f.Eval([]float64{0, 0}); err == nil {
		t.Error("expected arity error")
	}
}

func TestType3BoundarySelection(t *testing.T) {
	f := &Type3{
		XMin: 0, XMax: 2,
		Functions: []Function{
			&Type2{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 1},
			&Type2{XMin: 0, XMax: 1, C0: []float64{1}, C1: []float64{0}, N: 1},
		},
		Bounds: []float64{1.0},
		Encode: []float64{0, 1, 0, 1},
	}
	cases := []struct {
		x        float64
		wantFunc int
	}{
		{0.0, 0}, {0.5, 0}, {0.999, 0}, {1.0, 1}, {1.5, 1}, {2.0, 1},
	}
	for _, c := range cases {
		idx, _, _ := f.selectSubdomain(c.x)
		if idx != c.wantFunc {
			t.Errorf("x=%v: got function %d, want %d", c.x, idx, c.wantFunc)
		}
	}
}

func TestType3DegenerateFirstInterval(t *testing.T) {
	// XMin == Bounds[0]: the first interval collapses to the single
	// point [0,0], closed on both sides.
	f := &Type3{
		XMin: 0, XMax: 2,
		Functions: []Function{
			&Type2{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 1},
			&Type2{XMin: 0, XMax: 1, C0: []float64{1}, C1: []float64{0}, N: 1},
		},
		Bounds: []float64{0.0},
		Encode: []float64{0, 1, 0, 1},
	}
	if idx, _, _ := f.selectSubdomain(0.0); idx != 0 {
		t.Errorf("x=0: got function %d, want 0", idx)
	}
	if idx, _, _ := f.selectSubdomain(0.001); idx != 1 {
		t.Errorf("x=0.001: got function %d, want 1", idx)
	}
}

func TestType4Arithmetic(t *testing.T) {
	f := &Type4{Domain: []float64{0, 10, 0, 10}, Range: []float64{0, 100}, Program: "{ add }"}
	out, err := f.Eval([]float64{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 7 {
		t.Errorf("got %v, want 7", out[0])
	}
}

func TestType4IfElse(t *testing.T) {
	f := &Type4{
		Domain:  []float64{0, 10},
		Range:   []float64{0, 10},
		Program: "{ dup 5 gt { pop 1 } { pop 0 } ifelse }",
	}
	out, _ := f.Eval([]float64{7})
	if out[0] != 1 {
		t.Errorf("x=7: got %v, want 1", out[0])
	}
	out, _ = f.Eval([]float64{2})
	if out[0] != 0 {
		t.Errorf("x=2: got %v, want 0", out[0])
	}
}

func TestType4StackOps(t *testing.T) {
	f := &Type4{Domain: []float64{0, 10}, Range: []float64{0, 10}, Program: "{ dup mul }"}
	out, _ := f.Eval([]float64{4})
	if out[0] != 16 {
		t.Errorf("got %v, want 16", out[0])
	}
}

type memGetter map[pdf.Reference]pdf.Native

func (g memGetter) Get(ref pdf.Reference, canObjStm bool) (pdf.Native, error) {
	v, ok := g[ref]
	if !ok {
		return nil, pdf.Errorf("unknown reference %d", ref)
	}
	return v, nil
}

func TestParseExponential(t *testing.T) {
	r := memGetter{}
	dict := pdf.Dict{
		"FunctionType": pdf.Integer(2),
		"Domain":       pdf.Array{pdf.Real(0), pdf.Real(1)},
		"C0":           pdf.Array{pdf.Real(0)},
		"C1":           pdf.Array{pdf.Real(1)},
		"N":            pdf.Real(1),
	}
	fns, err := Parse(r, dict)
	if err != nil {
		t.Fatal(err)
	}
	if len(fns) != 1 {
		t.Fatalf("got %d functions, want 1", len(fns))
	}
	out, err := fns[0].Eval([]float64{0.5})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out[0]-0.5) > 1e-9 {
		t.Errorf("got %v, want 0.5", out[0])
	}
}

func TestParseArrayOfFunctions(t *testing.T) {
	r := memGetter{}
	arr := pdf.Array{
		pdf.Dict{"FunctionType": pdf.Integer(2), "Domain": pdf.Array{pdf.Real(0), pdf.Real(1)}, "C0": pdf.Array{pdf.Real(0)}, "C1": pdf.Array{pdf.Real(1)}, "N": pdf.Real(1)},
		pdf.Dict{"FunctionType": pdf.Integer(2), "Domain": pdf.Array{pdf.Real(0), pdf.Real(1)}, "C0": pdf.Array{pdf.Real(1)}, "C1": pdf.Array{pdf.Real(0)}, "N": pdf.Real(1)},
	}
	fns, err := Parse(r, arr)
	if err != nil {
		t.Fatal(err)
	}
	if len(fns) != 2 {
		t.Fatalf("got %d functions, want 2", len(fns))
	}
}
