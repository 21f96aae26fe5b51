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

package softmask

import (
	"testing"

	"seehuhn.de/go/geom/matrix"

	pdf "github.com/corvuspdf/corvus"
)

type memGetter struct {
	objects map[pdf.Reference]pdf.Native
}

func (g memGetter) Get(ref pdf.Reference, canObjStm bool) (pdf.Native, error) {
	obj, ok := g.objects[ref]
	if !ok {
		return nil, pdf.Errorf("no such object: %v", ref)
	}
	return obj, nil
}

func TestParseNoneIsNoMask(t *testing.T) {
	g := memGetter{objects: map[pdf.Reference]pdf.Native{}}
	m, ok, err := Parse(g, pdf.Name("None"), matrix.Identity, [4]float64{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ok || m != nil {
		t.Error("expected /None to report no mask")
	}
}

func TestParseLuminosityDefault(t *testing.T) {
	groupRef := pdf.Reference(1)
	g := memGetter{objects: map[pdf.Reference]pdf.Native{
		groupRef: &pdf.Stream{Dict: pdf.Dict{}},
	}}
	dict := pdf.Dict{
		"S": pdf.Name("Luminosity"),
		"G": groupRef,
	}
	m, ok, err := Parse(g, dict, matrix.Identity, [4]float64{0, 0, 100, 100}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || m == nil {
		t.Fatal("expected a mask")
	}
	if m.Kind != Luminosity {
		t.Errorf("got Kind %v, want Luminosity", m.Kind)
	}
	if m.Group != groupRef {
		t.Errorf("got Group %v, want %v", m.Group, groupRef)
	}
}

func TestParseAlphaKind(t *testing.T) {
	groupRef := pdf.Reference(2)
	g := memGetter{objects: map[pdf.Reference]pdf.Native{
		groupRef: &pdf.Stream{Dict: pdf.Dict{}},
	}}
	dict := pdf.Dict{
		"S": pdf.Name("Alpha"),
		"G": groupRef,
	}
	m, ok, err := Parse(g, dict, matrix.Identity, [4]float64{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a mask")
	}
	if m.Kind != Alpha {
		t.Errorf("got Kind %v, want Alpha", m.Kind)
	}
}

func TestResolveLuminosityFromBuffer(t *testing.T) {
	groupRef := pdf.Reference(3)
	m := &Mask{Group: groupRef, Kind: Luminosity}
	buf := []byte{255, 255, 255, 255} // white pixel, fully luminous
	sample := Resolve(m, buf, 1, 1, 4)
	if v := sample(0, 0); v < 0.99 {
		t.Errorf("got luminance %v, want ~1", v)
	}
}

func TestResolveAlphaFromBuffer(t *testing.T) {
	m := &Mask{Kind: Alpha}
	buf := []byte{0, 0, 0, 128}
	sample := Resolve(m, buf, 1, 1, 4)
	if v := sample(0, 0); v < 0.45 || v > 0.55 {
		t.Errorf("got alpha %v, want ~0.5", v)
	}
}

func TestResolveOutOfBoundsUsesBackdrop(t *testing.T) {
	m := &Mask{Kind: Luminosity}
	sample := Resolve(m, []byte{}, 1, 1, 4)
	if v := sample(5, 5); v != 0 {
		t.Errorf("got %v, want 0 (nil Backdrop treated as black)", v)
	}
}

func TestKeyEqualityByGroupIdentity(t *testing.T) {
	a := &Mask{Group: pdf.Reference(7)}
	b := &Mask{Group: pdf.Reference(7)}
	c := &Mask{Group: pdf.Reference(8)}
	if a.Key() != b.Key() {
		t.Error("expected equal keys for the same group reference")
	}
	if a.Key() == c.Key() {
		t.Error("expected different keys for different group references")
	}
}
