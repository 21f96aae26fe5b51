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
	"testing"

	"seehuhn.de/go/geom/matrix"

	"github.com/corvuspdf/corvus/graphics/color"
)

type lerpFn struct {
	from, to float64
}

func (f lerpFn) Eval(in []float64) ([]float64, error) {
	t := in[0]
	return []float64{f.from + t*(f.to-f.from)}, nil
}

func TestAxialEndpoints(t *testing.T) {
	ax := &Axial{
		common: common{Space: color.DeviceGray, Fn: []Function{lerpFn{0, 1}}, Domain: [2]float64{0, 1}},
		X0:     0, Y0: 0, X1: 10, Y1: 0,
	}
	c, ok := ax.At(0, 0)
	if !ok {
		t.Fatal("expected hit at start")
	}
	r, _, _, _ := c.RGBA()
	if r != 0 {
		t.Errorf("start color: got r=%d, want 0", r)
	}

	c, ok = ax.At(10, 0)
	if !ok {
		t.Fatal("expected hit at end")
	}
	r, _, _, _ = c.RGBA()
	if r != 0xffff {
		t.Errorf("end color: got r=%d, want 0xffff", r)
	}
}

func TestAxialNoExtendMisses(t *testing.T) {
	ax := &Axial{
		common: common{Space: color.DeviceGray, Fn: []Function{lerpFn{0, 1}}, Domain: [2]float64{0, 1}},
		X0:     0, Y0: 0, X1: 10, Y1: 0,
	}
	if _, ok := ax.At(-5, 0); ok {
		t.Error("expected miss before start with Extend off")
	}
	if _, ok := ax.At(15, 0); ok {
		t.Error("expected miss past end with Extend off")
	}
}

func TestAxialExtend(t *testing.T) {
	ax := &Axial{
		common: common{Space: color.DeviceGray, Fn: []Function{lerpFn{0, 1}}, Domain: [2]float64{0, 1}, Extend: [2]bool{true, true}},
		X0:     0, Y0: 0, X1: 10, Y1: 0,
	}
	if _, ok := ax.At(-5, 0); !ok {
		t.Error("expected hit before start with Extend on")
	}
	if _, ok := ax.At(15, 0); !ok {
		t.Error("expected hit past end with Extend on")
	}
}

func TestRadialConcentric(t *testing.T) {
	rad := &Radial{
		common: common{Space: color.DeviceGray, Fn: []Function{lerpFn{0, 1}}, Domain: [2]float64{0, 1}},
		X0:     0, Y0: 0, R0: 0,
		X1: 0, Y1: 0, R1: 10,
	}
	c, ok := rad.At(5, 0)
	if !ok {
		t.Fatal("expected hit inside outer circle")
	}
	r, _, _, _ := c.RGBA()
	if r == 0 || r == 0xffff {
		t.Errorf("expected an interpolated gray, got r=%d", r)
	}
}

func TestFunctionBasedOutOfDomain(t *testing.T) {
	fb := &FunctionBased{
		Space:  color.DeviceGray,
		Fn:     []Function{lerpFn{0, 1}},
		Domain: [4]float64{0, 1, 0, 1},
		Matrix: matrix.Identity,
	}
	if _, ok := fb.At(5, 5); ok {
		t.Error("expected miss outside domain with no background")
	}
}

func TestFunctionBasedInDomain(t *testing.T) {
	fb := &FunctionBased{
		Space:  color.DeviceGray,
		Fn:     []Function{lerpFn{0, 1}},
		Domain: [4]float64{0, 1, 0, 1},
		Matrix: matrix.Identity,
	}
	if _, ok := fb.At(0.5, 0.5); !ok {
		t.Error("expected hit inside domain")
	}
}

func TestMeshFreeFormTriangle(t *testing.T) {
	// One flag=0 vertex, then two more at flag 0 (first triangle needs
	// three consecutive vertices): encode 3 vertices, 4 bits coord, 8
	// bits per gray component, 8 bit flag, byte-aligned per vertex.
	var w bitWriter
	w.put(0, 8)   // flag
	w.put(0, 4)   // x
	w.put(0, 4)   // y
	w.put(0, 8)   // gray
	w.align()
	w.put(0, 8)
	w.put(15, 4)
	w.put(0, 4)
	w.put(128, 8)
	w.align()
	w.put(0, 8)
	w.put(0, 4)
	w.put(15, 4)
	w.put(255, 8)
	w.align()

	mesh, err := DecodeMesh(w.bytes, MeshParams{
		ShadingType:       4,
		BitsPerCoordinate: 4,
		BitsPerComponent:  8,
		BitsPerFlag:       8,
		Decode:            []float64{0, 15, 0, 15, 0, 1},
		Space:             color.DeviceGray,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Triangles) != 1 {
		t.Fatalf("got %d triangles, want 1", len(mesh.Triangles))
	}
}

// bitWriter is a tiny MSB-first bit packer for building test fixtures;
// it mirrors internal/bitio.Reader's convention in reverse.
type bitWriter struct {
	bytes []byte
	pos   int // bit position within the last byte
}

func (w *bitWriter) put(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		if w.pos == 0 {
			w.bytes = append(w.bytes, 0)
		}
		w.bytes[len(w.bytes)-1] |= bit << uint(7-w.pos)
		w.pos = (w.pos + 1) % 8
	}
}

func (w *bitWriter) align() {
	w.pos = 0
}
