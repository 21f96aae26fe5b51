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

package font

import (
	"bytes"
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

func TestLoadSimpleFontWidths(t *testing.T) {
	dict := pdf.Dict{
		"Subtype":   pdf.Name("TrueType"),
		"FirstChar": pdf.Integer(65),
		"LastChar":  pdf.Integer(67),
		"Widths":    pdf.Array{pdf.Integer(600), pdf.Integer(0), pdf.Integer(700)},
		"FontDescriptor": pdf.Dict{
			"MissingWidth": pdf.Integer(250),
		},
	}
	inst, err := Load(memGetter{}, dict)
	if err != nil {
		t.Fatal(err)
	}
	if w := inst.Width('A'); w != 0.6 {
		t.Errorf("A width = %v, want 0.6", w)
	}
	if w := inst.Width('B'); w != 0.25 {
		t.Errorf("B width (explicit 0 -> MissingWidth) = %v, want 0.25", w)
	}
	if w := inst.Width('Z'); w != 0.25 {
		t.Errorf("out-of-range width = %v, want MissingWidth 0.25", w)
	}
}

func TestLoadSimpleFontEncodingDifferences(t *testing.T) {
	dict := pdf.Dict{
		"Subtype": pdf.Name("Type1"),
		"Encoding": pdf.Dict{
			"BaseEncoding": pdf.Name("WinAnsiEncoding"),
			"Differences": pdf.Array{
				pdf.Integer(65), pdf.Name("Agrave"),
			},
		},
	}
	inst, err := Load(memGetter{}, dict)
	if err != nil {
		t.Fatal(err)
	}
	if got := inst.simple.encoding[65]; got != "Agrave" {
		t.Errorf("code 65 = %q, want Agrave", got)
	}
	if got := inst.simple.encoding[66]; got != "B" {
		t.Errorf("code 66 (unaffected by Differences) = %q, want B", got)
	}
}

func TestLoadCIDFontWidths(t *testing.T) {
	dict := pdf.Dict{
		"Subtype": pdf.Name("Type0"),
		"DescendantFonts": pdf.Array{
			pdf.Dict{
				"DW": pdf.Integer(1000),
				"W": pdf.Array{
					pdf.Integer(1), pdf.Array{pdf.Integer(500), pdf.Integer(600)},
					pdf.Integer(10), pdf.Integer(12), pdf.Integer(750),
				},
			},
		},
	}
	inst, err := Load(memGetter{}, dict)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[uint32]float64{1: 0.5, 2: 0.6, 3: 1.0, 10: 0.75, 11: 0.75, 12: 0.75, 13: 1.0}
	for code, want := range cases {
		if got := inst.Width(code); got != want {
			t.Errorf("Width(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestLoadType3Font(t *testing.T) {
	dict := pdf.Dict{
		"Subtype":    pdf.Name("Type3"),
		"FontMatrix": pdf.Array{pdf.Real(0.001), pdf.Real(0), pdf.Real(0), pdf.Real(0.001), pdf.Real(0), pdf.Real(0)},
		"FirstChar":  pdf.Integer(65),
		"Widths":     pdf.Array{pdf.Integer(800)},
		"CharProcs": pdf.Dict{
			"a": &pdf.Stream{Dict: pdf.Dict{}},
		},
		"Encoding": pdf.Dict{
			"Differences": pdf.Array{pdf.Integer(65), pdf.Name("a")},
		},
	}
	inst, err := Load(memGetter{}, dict)
	if err != nil {
		t.Fatal(err)
	}
	if w := inst.Width(65); w != 0.8 {
		t.Errorf("width = %v, want 0.8", w)
	}
	gid := inst.GlyphID(65)
	if gid == 0 {
		t.Fatal("expected non-notdef glyph id for mapped code")
	}
	stream, err := inst.Type3Program(memGetter{}, gid)
	if err != nil {
		t.Fatal(err)
	}
	if stream == nil {
		t.Fatal("expected a CharProc stream")
	}
}

func TestLoadCIDFontEmbeddedCMap(t *testing.T) {
	cmapText := []byte(`/CIDInit /ProcSet findresource begin
12 dict begin
begincmap

/CMapName /TestCustomH def
/CMapType 1 def
/WMode 0 def

/CIDSystemInfo 3 dict dup begin
  /Registry (Test) def
  /Ordering (Custom) def
  /Supplement 0 def
end def

1 begincodespacerange
<0000> <FFFF>
endcodespacerange

1 begincidchar
<0020> 7
endcidchar

1 begincidrange
<0041> <0043> 100
endcidrange

endcmap
CMapName currentdict /CMap defineresource pop
end
end
`)

	dict := pdf.Dict{
		"Subtype":  pdf.Name("Type0"),
		"Encoding": &pdf.Stream{Dict: pdf.Dict{}, R: bytes.NewReader(cmapText)},
		"DescendantFonts": pdf.Array{
			pdf.Dict{"DW": pdf.Integer(1000)},
		},
	}
	inst, err := Load(memGetter{}, dict)
	if err != nil {
		t.Fatal(err)
	}
	if inst.cid.identity {
		t.Fatal("expected a parsed embedded CMap, not the identity fallback")
	}
	cases := map[uint32]uint32{0x20: 7, 0x41: 100, 0x42: 101, 0x43: 102}
	for code, want := range cases {
		if got := inst.cid.toCID(code); got != want {
			t.Errorf("toCID(%#x) = %d, want %d", code, got, want)
		}
	}
	// A code outside every range falls back to identity rather than erroring.
	if got := inst.cid.toCID(0x9999); got != 0x9999 {
		t.Errorf("toCID(0x9999) (out of range) = %d, want identity 0x9999", got)
	}
}

func TestToUnicodeBFChar(t *testing.T) {
	cmap := []byte(`
1 beginbfchar
<0041> <0041>
endbfchar
`)
	m := parseToUnicodeCMap(cmap)
	if m[0x41] != 'A' {
		t.Errorf("code 0x41 = %q, want 'A'", m[0x41])
	}
}

func TestToUnicodeBFRange(t *testing.T) {
	cmap := []byte(`
1 beginbfrange
<0041> <0043> <0061>
endbfrange
`)
	m := parseToUnicodeCMap(cmap)
	want := map[uint32]rune{0x41: 'a', 0x42: 'b', 0x43: 'c'}
	for code, r := range want {
		if m[code] != r {
			t.Errorf("code %#x = %q, want %q", code, m[code], r)
		}
	}
}

func TestOutlineDegradesToNotdefBox(t *testing.T) {
	dict := pdf.Dict{"Subtype": pdf.Name("TrueType")}
	inst, err := Load(memGetter{}, dict)
	if err != nil {
		t.Fatal(err)
	}
	var pen recordingPen
	inst.Outline('A', &pen)
	if len(pen.moves) != 1 || len(pen.lines) != 3 {
		t.Errorf("expected a 4-sided box (1 move + 3 lines + close), got %d moves %d lines", len(pen.moves), len(pen.lines))
	}
}

type recordingPen struct {
	moves [][2]float64
	lines [][2]float64
}

func (p *recordingPen) MoveTo(x, y float64)                      { p.moves = append(p.moves, [2]float64{x, y}) }
func (p *recordingPen) LineTo(x, y float64)                      { p.lines = append(p.lines, [2]float64{x, y}) }
func (p *recordingPen) QuadTo(cx, cy, x, y float64)               {}
func (p *recordingPen) CurveTo(x1, y1, x2, y2, x3, y3 float64)    {}
func (p *recordingPen) ClosePath()                                {}
