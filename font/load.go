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

	"seehuhn.de/go/postscript"
	pscmap "seehuhn.de/go/postscript/cmap"

	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/font/encoding"
)

const defaultMissingWidth = 0

// simpleFont backs Type1, TrueType, and MMType1 fonts: one byte per code,
// widths taken from /Widths, glyph names from an encoding table.
type simpleFont struct {
	firstChar    int
	widths       []float64
	missingWidth float64
	encoding     encoding.Table
	program      *embeddedProgram
}

func (f *simpleFont) width(code uint32) float64 {
	i := int(code) - f.firstChar
	if i < 0 || i >= len(f.widths) {
		return f.missingWidth
	}
	if w := f.widths[i]; w != 0 {
		return w
	}
	return f.missingWidth
}

// cidRange is one "low high cid" run of a parsed embedded CMap's CID
// range section (postscript.CMapInfo.Ranges), codes decoded to uint32.
type cidRange struct {
	first, last uint32
	cidBase     uint32
}

// cidFont backs Type0/CIDFont composite fonts: two-byte codes, mapped by
// a CMap to CIDs, then widths looked up from /W (default /DW).
type cidFont struct {
	defaultWidth float64
	widths       map[uint32]float64
	identity     bool // true for Identity-H/V and any CMap this package cannot parse
	singles      map[uint32]uint32
	ranges       []cidRange
	program      *embeddedProgram
}

func (f *cidFont) toCID(code uint32) uint32 {
	if f.identity {
		return code
	}
	if cid, ok := f.singles[code]; ok {
		return cid
	}
	for _, rg := range f.ranges {
		if code >= rg.first && code <= rg.last {
			return rg.cidBase + (code - rg.first)
		}
	}
	// Code falls outside every range the embedded CMap defined; identity
	// keeps width/outline lookups defined even when wrong.
	return code
}

func (f *cidFont) width(cid uint32) float64 {
	if w, ok := f.widths[cid]; ok {
		return w
	}
	return f.defaultWidth
}

// type3Font backs Type3 fonts: glyphs are content streams, not outline
// programs.
type type3Font struct {
	firstChar int
	widths    []float64
	encoding  encoding.Table
	matrix    [6]float64
	charProcs pdf.Dict
}

func (f *type3Font) width(code uint32) float64 {
	i := int(code) - f.firstChar
	if i < 0 || i >= len(f.widths) {
		return 0
	}
	return f.widths[i]
}

// glyphInterner fabricates stable synthetic glyph ids for glyph names
// that have no natural numeric id (Type3 CharProcs keyed by name), ported
// from the interning scheme original_source's font/glyph_simulator.rs
// uses for the same purpose: id 0 is reserved for .notdef, every other
// name gets the next sequential id on first sight.
type glyphInterner struct {
	byName map[string]uint32
	byID   map[uint32]string
	next   uint32
}

func newGlyphInterner() *glyphInterner {
	g := &glyphInterner{byName: map[string]uint32{}, byID: map[uint32]string{}, next: 1}
	g.byName[".notdef"] = 0
	g.byID[0] = ".notdef"
	return g
}

func (g *glyphInterner) intern(name string) uint32 {
	if name == "" {
		return 0
	}
	if id, ok := g.byName[name]; ok {
		return id
	}
	id := g.next
	g.next++
	g.byName[name] = id
	g.byID[id] = name
	return id
}

func (g *glyphInterner) name(id uint32) (string, bool) {
	name, ok := g.byID[id]
	return name, ok
}

// Load builds an Instance from a page resource dictionary's /Font entry,
// dispatching on /Subtype.
func Load(r pdf.Getter, dict pdf.Dict) (*Instance, error) {
	subtype, _ := pdf.GetName(r, dict["Subtype"])
	inst := &Instance{Subtype: subtype, notdef: [4]float64{100, 0, 900, 700}}

	if toUni, err := loadToUnicode(r, dict); err == nil {
		inst.toUni = toUni
	}

	switch subtype {
	case "Type0":
		cid, err := loadCIDFont(r, dict)
		if err != nil {
			return nil, err
		}
		inst.cid = cid
	case "Type3":
		t3, err := loadType3(r, dict)
		if err != nil {
			return nil, err
		}
		inst.type3 = t3
		inst.glyphIDs = newGlyphInterner()
		if m := t3.matrix; m != [6]float64{} {
			inst.notdef = [4]float64{0, 0, 1 / m[0], 1 / m[3]}
		}
	default: // Type1, TrueType, MMType1
		simple, err := loadSimpleFont(r, dict)
		if err != nil {
			return nil, err
		}
		inst.simple = simple
	}

	return inst, nil
}

func loadSimpleFont(r pdf.Getter, dict pdf.Dict) (*simpleFont, error) {
	first, _ := pdf.GetInteger(r, dict["FirstChar"])
	widths := readFloatArray(r, dict["Widths"])

	missing := float64(defaultMissingWidth)
	var program *embeddedProgram
	if desc, err := pdf.GetDict(r, dict["FontDescriptor"]); err == nil && desc != nil {
		if mw, err := pdf.GetNumber(r, desc["MissingWidth"]); err == nil {
			missing = mw
		}
		program = loadEmbeddedProgram(r, desc)
	}

	table, err := encodingTable(r, dict["Encoding"], encoding.Standard)
	if err != nil {
		table = encoding.Standard
	}

	return &simpleFont{
		firstChar:    int(first),
		widths:       widths,
		missingWidth: missing,
		encoding:     table,
		program:      program,
	}, nil
}

func loadCIDFont(r pdf.Getter, dict pdf.Dict) (*cidFont, error) {
	descendants, err := pdf.GetArray(r, dict["DescendantFonts"])
	if err != nil || len(descendants) == 0 {
		return &cidFont{defaultWidth: 1000, widths: map[uint32]float64{}, identity: true}, nil
	}
	cidDict, err := pdf.GetDict(r, descendants[0])
	if err != nil || cidDict == nil {
		return &cidFont{defaultWidth: 1000, widths: map[uint32]float64{}, identity: true}, nil
	}

	dw := 1000.0
	if v, err := pdf.GetNumber(r, cidDict["DW"]); err == nil {
		dw = v
	}

	widths := map[uint32]float64{}
	if arr, err := pdf.GetArray(r, cidDict["W"]); err == nil {
		parseCIDWidths(r, arr, widths)
	}

	cf := &cidFont{defaultWidth: dw, widths: widths, identity: true}

	if desc, err := pdf.GetDict(r, cidDict["FontDescriptor"]); err == nil && desc != nil {
		cf.program = loadEmbeddedProgram(r, desc)
	}

	// Identity-H/V (the overwhelmingly common case) needs nothing further:
	// cf.identity is already true, and /Encoding is a pdf.Name rather than
	// a stream so the GetStream below simply finds nothing to parse. A
	// predefined non-Identity name (e.g. UniGB-UCS2-H) would need the
	// Adobe CMap resource set this package does not carry, so it degrades
	// to identity too. An embedded CMap stream is parsed for real.
	if stream, err := pdf.GetStream(r, dict["Encoding"]); err == nil && stream != nil {
		if data, err := pdf.DecodeStream(r, stream, nil); err == nil {
			if singles, ranges, ok := parseEmbeddedCIDMap(data); ok {
				cf.singles = singles
				cf.ranges = ranges
				cf.identity = false
			}
		}
	}

	return cf, nil
}

// parseEmbeddedCIDMap parses an embedded CMap stream's character and
// range mappings into code->CID tables, using the raw PostScript-CMap
// reader (this package only needs CodeMap.Chars/Ranges, not the full
// CIDSystemInfo/UseCMap machinery a CMap-authoring API would track).
func parseEmbeddedCIDMap(data []byte) (map[uint32]uint32, []cidRange, bool) {
	raw, err := pscmap.Read(bytes.NewReader(data))
	if err != nil {
		return nil, nil, false
	}
	info, ok := raw["CodeMap"].(*postscript.CMapInfo)
	if !ok {
		return nil, nil, false
	}

	singles := map[uint32]uint32{}
	for _, m := range info.Chars {
		cid, ok := m.Dst.(postscript.Integer)
		if !ok {
			continue
		}
		singles[bytesToCode(m.Src)] = uint32(cid)
	}

	var ranges []cidRange
	for _, m := range info.Ranges {
		cid, ok := m.Dst.(postscript.Integer)
		if !ok {
			continue
		}
		ranges = append(ranges, cidRange{
			first:   bytesToCode(m.Low),
			last:    bytesToCode(m.High),
			cidBase: uint32(cid),
		})
	}

	if len(singles) == 0 && len(ranges) == 0 {
		return nil, nil, false
	}
	return singles, ranges, true
}

func bytesToCode(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

// parseCIDWidths decodes a /W array (ISO 32000-1 Table 117): runs of
// either "c [w1 w2 ... wn]" (consecutive CIDs starting at c) or
// "cFirst cLast w" (a uniform range).
func parseCIDWidths(r pdf.Getter, arr pdf.Array, out map[uint32]float64) {
	i := 0
	for i < len(arr) {
		c1, ok := asInt(r, arr[i])
		if !ok {
			i++
			continue
		}
		i++
		if i >= len(arr) {
			return
		}
		if sub, err := pdf.GetArray(r, arr[i]); err == nil {
			for j, wObj := range sub {
				if w, err := pdf.GetNumber(r, wObj); err == nil {
					out[uint32(c1)+uint32(j)] = w
				}
			}
			i++
			continue
		}
		c2, ok := asInt(r, arr[i])
		if !ok {
			i++
			continue
		}
		i++
		if i >= len(arr) {
			return
		}
		w, err := pdf.GetNumber(r, arr[i])
		i++
		if err != nil {
			continue
		}
		for c := c1; c <= c2; c++ {
			out[uint32(c)] = w
		}
	}
}

func asInt(r pdf.Getter, obj pdf.Object) (int, bool) {
	v, err := pdf.GetNumber(r, obj)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

func loadType3(r pdf.Getter, dict pdf.Dict) (*type3Font, error) {
	first, _ := pdf.GetInteger(r, dict["FirstChar"])
	widths := readFloatArray(r, dict["Widths"])

	matrix := [6]float64{0.001, 0, 0, 0.001, 0, 0}
	if m := readFloatArray(r, dict["FontMatrix"]); len(m) == 6 {
		copy(matrix[:], m)
	}

	table, err := encodingTable(r, dict["Encoding"], encoding.Table{})
	if err != nil {
		table = encoding.Table{}
	}

	charProcs, _ := pdf.GetDict(r, dict["CharProcs"])
	if charProcs == nil {
		charProcs = pdf.Dict{}
	}

	return &type3Font{
		firstChar: int(first),
		widths:    widths,
		encoding:  table,
		matrix:    matrix,
		charProcs: charProcs,
	}, nil
}

func readFloatArray(r pdf.Getter, obj pdf.Object) []float64 {
	arr, err := pdf.GetArray(r, obj)
	if err != nil {
		return nil
	}
	out := make([]float64, len(arr))
	for i, item := range arr {
		v, err := pdf.GetNumber(r, item)
		if err != nil {
			continue
		}
		out[i] = v
	}
	return out
}

// loadToUnicode parses a /ToUnicode CMap stream's bfchar/bfrange
// sections into a code->rune table. Only the single-rune destination
// form is handled; multi-rune ligature mappings are dropped (a partial
// ToUnicode is strictly better than none for the common case of
// copy/search support, which is all spec §4.7 asks this path to serve).
func loadToUnicode(r pdf.Getter, dict pdf.Dict) (map[uint32]rune, error) {
	stream, err := pdf.GetStream(r, dict["ToUnicode"])
	if err != nil || stream == nil {
		return nil, pdf.Errorf("font: no ToUnicode stream")
	}
	data, err := pdf.DecodeStream(r, stream, nil)
	if err != nil {
		return nil, err
	}
	return parseToUnicodeCMap(data), nil
}
