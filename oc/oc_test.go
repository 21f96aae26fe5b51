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

package oc

import (
	"testing"

	pdf "github.com/corvuspdf/corvus"
)

type memGetter map[pdf.Reference]pdf.Native

func (g memGetter) Get(ref pdf.Reference, canObjStm bool) (pdf.Native, error) {
	v, ok := g[ref]
	if !ok {
		return nil, pdf.Errorf("unknown reference %d", ref)
	}
	return v, nil
}

func TestNoOCPropertiesIsAlwaysVisible(t *testing.T) {
	s := FromCatalog(memGetter{}, pdf.Dict{})
	if !s.IsVisible() {
		t.Error("expected visible with no /OCProperties")
	}
}

func TestOffListDeactivatesOCG(t *testing.T) {
	ocgRef := pdf.NewReference(1, 0)
	catalog := pdf.Dict{
		"OCProperties": pdf.Dict{
			"OCGs": pdf.Array{ocgRef},
			"D": pdf.Dict{
				"OFF": pdf.Array{ocgRef},
			},
		},
	}
	s := FromCatalog(memGetter{}, catalog)
	s.BeginOCG(ocgRef)
	if s.IsVisible() {
		t.Error("expected OCG in /OFF to be invisible")
	}
}

func TestBaseStateOffWithONList(t *testing.T) {
	onRef := pdf.NewReference(1, 0)
	otherRef := pdf.NewReference(2, 0)
	catalog := pdf.Dict{
		"OCProperties": pdf.Dict{
			"OCGs": pdf.Array{onRef, otherRef},
			"D": pdf.Dict{
				"BaseState": pdf.Name("OFF"),
				"ON":        pdf.Array{onRef},
			},
		},
	}
	s := FromCatalog(memGetter{}, catalog)
	s.BeginOCG(onRef)
	if !s.IsVisible() {
		t.Error("expected onRef to be visible (explicitly re-enabled)")
	}
	s.EndMarkedContent()
	s.BeginOCG(otherRef)
	if s.IsVisible() {
		t.Error("expected otherRef to stay invisible under BaseState OFF")
	}
}

func TestNestedVisibilityInheritsParent(t *testing.T) {
	ocgRef := pdf.NewReference(1, 0)
	catalog := pdf.Dict{
		"OCProperties": pdf.Dict{
			"OCGs": pdf.Array{ocgRef},
			"D":    pdf.Dict{"OFF": pdf.Array{ocgRef}},
		},
	}
	s := FromCatalog(memGetter{}, catalog)
	s.BeginOCG(ocgRef) // invisible
	s.BeginMarkedContent()
	if s.IsVisible() {
		t.Error("expected nested frame to inherit invisible parent")
	}
	s.EndMarkedContent()
	s.EndMarkedContent()
	if !s.IsVisible() {
		t.Error("expected visible again after popping back to the root")
	}
}

func TestEndMarkedContentPastEmptyStackIsNoOp(t *testing.T) {
	s := FromCatalog(memGetter{}, pdf.Dict{})
	s.EndMarkedContent()
	if !s.IsVisible() {
		t.Error("expected still visible")
	}
}
