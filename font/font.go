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

// Package font implements the character-code -> glyph -> outline/advance
// pipeline: loading a font dictionary by /Subtype,
// mapping codes to glyphs through an encoding or CMap, and producing
// advance widths and outlines for the content interpreter.
//
// Font units are fixed at 1000 per em (UnitsPerEm), matching every
// Subtype's native PDF width convention and letting one Instance type
// serve simple and composite fonts alike.
package font

import (
	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/font/encoding"
)

// UnitsPerEm is the fixed glyph-space scale this package works in.
const UnitsPerEm = 1000

// Pen receives outline construction callbacks in glyph space (0..1000
// units per em). The content interpreter's device adapter implements
// this to translate into its own path representation.
type Pen interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()
}

// Instance is a loaded, ready-to-use font resource, resolved from a page
// resource dictionary's /Font entry.
type Instance struct {
	Subtype pdf.Name

	simple   *simpleFont
	cid      *cidFont
	type3    *type3Font
	notdef   [4]float64 // glyph-space notdef box, degrades to this on any miss
	toUni    map[uint32]rune
	glyphIDs *glyphInterner
}

// Width returns the advance width, in text-space units (fontSize==1), for
// the glyph the given code maps to.
func (inst *Instance) Width(code uint32) float64 {
	switch {
	case inst.simple != nil:
		return inst.simple.width(code) / UnitsPerEm
	case inst.cid != nil:
		return inst.cid.width(inst.cid.toCID(code)) / UnitsPerEm
	case inst.type3 != nil:
		return inst.type3.width(code) * inst.type3.matrix[0]
	default:
		return 0
	}
}

// ToUnicode returns the best-effort Unicode mapping for code, consulting
// an embedded /ToUnicode CMap first and falling back to the encoding's
// glyph name (for simple fonts) via the Adobe-Glyph-List convention.
func (inst *Instance) ToUnicode(code uint32) (rune, bool) {
	if r, ok := inst.toUni[code]; ok {
		return r, ok
	}
	if inst.simple != nil {
		name := inst.simple.encoding[code&0xFF]
		if r, ok := glyphNameToRune(name); ok {
			return r, true
		}
	}
	return 0, false
}

// Outline draws the glyph the given code maps to onto pen. Type3 glyphs
// are not handled here: their outline is a content stream the caller must
// interpret separately (see Type3Program).
//
// Simple fonts with an embedded Type1 program draw straight from its
// charstrings by glyph name; simple fonts with an embedded TrueType or
// OpenType-wrapped program resolve a glyph id through the program's
// Unicode cmap (falling back to treating the code itself as a glyph id)
// and draw from its glyf/CFF outline; CID fonts draw by glyph id directly
// (the CID, under the CIDToGIDMap=Identity assumption this package makes,
// see DESIGN.md). SyntheticOutline is the fallback for every code this
// package has no embedded program for, or whose program it cannot parse
// or does not contain the glyph.
func (inst *Instance) Outline(code uint32, pen Pen) {
	switch {
	case inst.simple != nil:
		prog := inst.simple.program
		name := inst.simple.encoding[code&0xFF]
		if prog.outlineByName(name, pen) {
			return
		}
		if rn, ok := glyphNameToRune(name); ok {
			if gid, ok := prog.gidForRune(rn); ok && prog.outlineByGID(gid, pen) {
				return
			}
		}
		if prog.outlineByGID(code, pen) {
			return
		}
	case inst.cid != nil:
		if prog := inst.cid.program; prog != nil {
			if prog.outlineByGID(inst.cid.toCID(code), pen) {
				return
			}
		}
	}
	SyntheticOutline(pen, inst.notdef)
}

// SyntheticOutline draws a simple rectangle outline: the degrade path
// used when no embedded outline program is resolvable for a glyph (see
// DESIGN.md). Any code with no embedded font program, any program this
// package cannot parse (bare CFF, most notably), and any glyph id or name
// missing from a program it did parse, renders as this box rather than
// nothing, keeping text layout and selection-by-bounding-box usable even
// without glyph fidelity.
func SyntheticOutline(pen Pen, box [4]float64) {
	x0, y0, x1, y1 := box[0], box[1], box[2], box[3]
	if x1 <= x0 || y1 <= y0 {
		return
	}
	pen.MoveTo(x0, y0)
	pen.LineTo(x1, y0)
	pen.LineTo(x1, y1)
	pen.LineTo(x0, y1)
	pen.ClosePath()
}

func glyphNameToRune(name string) (rune, bool) {
	if name == "" {
		return 0, false
	}
	for r, n := range aglReverse {
		if n == name {
			return r, true
		}
	}
	return 0, false
}

var aglReverse = map[rune]string{}

func init() {
	// Build the reverse map from the single-letter identities encoding
	// already relies on (agl is unexported in font/encoding, so this
	// package keeps its own small mirror for the few names it needs to
	// invert: letters, digits, and space).
	for c := 'A'; c <= 'Z'; c++ {
		aglReverse[c] = string(c)
	}
	for c := 'a'; c <= 'z'; c++ {
		aglReverse[c] = string(c)
	}
	for i, n := range []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"} {
		aglReverse['0'+rune(i)] = n
	}
	aglReverse[' '] = "space"
}

// Type3Program returns the glyph content stream for the synthetic glyph
// id gid, for Type3 fonts only.
func (inst *Instance) Type3Program(r pdf.Getter, gid uint32) (*pdf.Stream, error) {
	if inst.type3 == nil {
		return nil, pdf.Errorf("font: not a Type3 font")
	}
	name, ok := inst.glyphIDs.name(gid)
	if !ok {
		return nil, pdf.Errorf("font: unknown synthetic glyph id %d", gid)
	}
	obj, ok := inst.type3.charProcs[name]
	if !ok {
		return nil, pdf.Errorf("font: no CharProc for glyph %q", name)
	}
	return pdf.GetStream(r, obj)
}

// Type3Matrix returns a Type3 font's glyph-space-to-text-space matrix
// ([a b c d e f], PDF row-vector convention).
func (inst *Instance) Type3Matrix() [6]float64 {
	if inst.type3 == nil {
		return [6]float64{0.001, 0, 0, 0.001, 0, 0}
	}
	return inst.type3.matrix
}

// IsMultiByte reports whether character codes for this font are 2
// bytes wide (Type0/CID fonts, reduced to the Identity-H/V convention
// by this package, see DESIGN.md) rather than 1.
func (inst *Instance) IsMultiByte() bool {
	return inst.cid != nil
}

// GlyphID maps a character code to a glyph id: for Type3 fonts this
// interns the glyph name and fabricates an id, since Type3's CharProcs
// are keyed by name rather than a numeric id. Other subtypes resolve
// their own glyph id internally in Outline (by name for Type1, by cmap
// lookup for TrueType/OpenType, by CID for Type0), so this method
// returns the code unchanged for them; it exists only to drive
// Type3Program.
func (inst *Instance) GlyphID(code uint32) uint32 {
	if inst.type3 != nil {
		name := inst.type3.encoding[byte(code)]
		return inst.glyphIDs.intern(name)
	}
	return code
}

// encodingTable resolves which byte-to-name table a simple font's
// /Encoding entry selects, applying /Differences on top of the base.
func encodingTable(r pdf.Getter, enc pdf.Object, builtin encoding.Table) (encoding.Table, error) {
	native, err := pdf.Resolve(r, enc)
	if err != nil || native == nil {
		return builtin, nil
	}
	switch v := native.(type) {
	case pdf.Name:
		return baseTableByName(v, builtin), nil
	case pdf.Dict:
		base := builtin
		if n, err := pdf.GetName(r, v["BaseEncoding"]); err == nil && n != "" {
			base = baseTableByName(n, builtin)
		}
		diffArr, err := pdf.GetArray(r, v["Differences"])
		if err != nil {
			return base, nil
		}
		return encoding.ApplyDifferences(base, parseDifferences(r, diffArr)), nil
	default:
		return builtin, nil
	}
}

func baseTableByName(n pdf.Name, fallback encoding.Table) encoding.Table {
	switch n {
	case "WinAnsiEncoding":
		return encoding.WinAnsi
	case "MacRomanEncoding":
		return encoding.MacRoman
	case "StandardEncoding":
		return encoding.Standard
	default:
		return fallback
	}
}

func parseDifferences(r pdf.Getter, arr pdf.Array) []encoding.DifferenceEntry {
	out := make([]encoding.DifferenceEntry, 0, len(arr))
	for _, obj := range arr {
		native, err := pdf.Resolve(r, obj)
		if err != nil {
			continue
		}
		switch v := native.(type) {
		case pdf.Integer:
			out = append(out, encoding.DifferenceEntry{IsCode: true, Code: int(v)})
		case pdf.Real:
			out = append(out, encoding.DifferenceEntry{IsCode: true, Code: int(v)})
		case pdf.Name:
			out = append(out, encoding.DifferenceEntry{Name: string(v)})
		}
	}
	return out
}
