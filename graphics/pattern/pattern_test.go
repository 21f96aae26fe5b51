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

package pattern

import (
	"testing"

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

func TestParseTilingPatternDefaults(t *testing.T) {
	dict := pdf.Dict{
		"PatternType": pdf.Integer(1),
		"PaintType":   pdf.Integer(1),
		"BBox":        pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(10), pdf.Integer(20)},
		"XStep":       pdf.Integer(10),
		"YStep":       pdf.Integer(20),
	}
	g := memGetter{objects: map[pdf.Reference]pdf.Native{}}

	p, err := Parse(g, dict)
	if err != nil {
		t.Fatal(err)
	}
	if p.Tiling == nil {
		t.Fatal("expected a tiling pattern")
	}
	if p.Tiling.PaintType != PaintTypeColored {
		t.Errorf("got PaintType %v, want colored", p.Tiling.PaintType)
	}
	if p.Tiling.XStep != 10 || p.Tiling.YStep != 20 {
		t.Errorf("got XStep/YStep %v/%v, want 10/20", p.Tiling.XStep, p.Tiling.YStep)
	}
}

func TestParseTilingPatternUncolored(t *testing.T) {
	dict := pdf.Dict{
		"PatternType": pdf.Integer(1),
		"PaintType":   pdf.Integer(2),
		"BBox":        pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(5), pdf.Integer(5)},
	}
	g := memGetter{objects: map[pdf.Reference]pdf.Native{}}

	p, err := Parse(g, dict)
	if err != nil {
		t.Fatal(err)
	}
	if p.Tiling.PaintType != PaintTypeUncolored {
		t.Errorf("got PaintType %v, want uncolored", p.Tiling.PaintType)
	}
	// XStep/YStep default to the BBox size when absent.
	if p.Tiling.XStep != 5 || p.Tiling.YStep != 5 {
		t.Errorf("got XStep/YStep %v/%v, want 5/5", p.Tiling.XStep, p.Tiling.YStep)
	}
}

func TestParseShadingPatternRequiresHook(t *testing.T) {
	saved := ParseShadingFunc
	ParseShadingFunc = nil
	defer func() { ParseShadingFunc = saved }()

	dict := pdf.Dict{
		"PatternType": pdf.Integer(2),
		"Shading":     pdf.Dict{"ShadingType": pdf.Integer(2)},
	}
	g := memGetter{objects: map[pdf.Reference]pdf.Native{}}

	if _, err := Parse(g, dict); err == nil {
		t.Fatal("expected an error when no shading parser is installed")
	}
}
