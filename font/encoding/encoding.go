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

// Package encoding implements the simple-font byte-to-glyph-name tables:
// Standard, WinAnsi, MacRoman, and a minimal Symbol set, plus the
// /Differences overlay that lets a font dictionary patch individual codes
// onto a base encoding.
//
// The full Adobe Glyph List and the complete 256-entry Standard/MacExpert
// tables are large, static lookup data rather than interesting logic.
// This package carries a reduced but representative table: the
// printable ASCII core shared by every encoding, plus WinAnsi/MacRoman's
// high-byte Latin-1 region derived from golang.org/x/text/encoding's
// charmap tables (the byte->rune side is exact; the rune->glyph-name side
// uses a small hand-authored subset of the Adobe Glyph List covering the
// accented Latin letters, punctuation, and symbols those two encodings
// actually use in their high half). A code with no table entry decodes to
// the empty glyph name, which the font subsystem treats as notdef.
package encoding

import (
	"golang.org/x/text/encoding/charmap"
)

// Table maps a single-byte character code to a PostScript glyph name.
type Table [256]string

// agl is a reduced Adobe-Glyph-List-style rune->name table, covering the
// ASCII range plus the Latin-1 supplement characters WinAnsi and MacRoman
// actually reference in their upper half.
var agl = map[rune]string{
	' ': "space", '!': "exclam", '"': "quotedbl", '#': "numbersign",
	'$': "dollar", '%': "percent", '&': "ampersand", '\'': "quotesingle",
	'(': "parenleft", ')': "parenright", '*': "asterisk", '+': "plus",
	',': "comma", '-': "hyphen", '.': "period", '/': "slash",
	'0': "zero", '1': "one", '2': "two", '3': "three", '4': "four",
	'5': "five", '6': "six", '7': "seven", '8': "eight", '9': "nine",
	':': "colon", ';': "semicolon", '<': "less", '=': "equal",
	'>': "greater", '?': "question", '@': "at",
	'[': "bracketleft", '\\': "backslash", ']': "bracketright",
	'^': "asciicircum", '_': "underscore", '`': "grave",
	'{': "braceleft", '|': "bar", '}': "braceright", '~': "asciitilde",
	0xA1: "exclamdown", 0xA2: "cent", 0xA3: "sterling", 0xA4: "currency",
	0xA5: "yen", 0xA6: "brokenbar", 0xA7: "section", 0xA8: "dieresis",
	0xA9: "copyright", 0xAA: "ordfeminine", 0xAB: "guillemotleft",
	0xAC: "logicalnot", 0xAE: "registered", 0xAF: "macron",
	0xB0: "degree", 0xB1: "plusminus", 0xB4: "acute", 0xB5: "mu",
	0xB6: "paragraph", 0xB7: "periodcentered", 0xB8: "cedilla",
	0xBA: "ordmasculine", 0xBB: "guillemotright", 0xBF: "questiondown",
	0xC0: "Agrave", 0xC1: "Aacute", 0xC2: "Acircumflex", 0xC3: "Atilde",
	0xC4: "Adieresis", 0xC5: "Aring", 0xC6: "AE", 0xC7: "Ccedilla",
	0xC8: "Egrave", 0xC9: "Eacute", 0xCA: "Ecircumflex", 0xCB: "Edieresis",
	0xCC: "Igrave", 0xCD: "Iacute", 0xCE: "Icircumflex", 0xCF: "Idieresis",
	0xD0: "Eth", 0xD1: "Ntilde", 0xD2: "Ograve", 0xD3: "Oacute",
	0xD4: "Ocircumflex", 0xD5: "Otilde", 0xD6: "Odieresis", 0xD7: "multiply",
	0xD8: "Oslash", 0xD9: "Ugrave", 0xDA: "Uacute", 0xDB: "Ucircumflex",
	0xDC: "Udieresis", 0xDD: "Yacute", 0xDE: "Thorn", 0xDF: "germandbls",
	0xE0: "agrave", 0xE1: "aacute", 0xE2: "acircumflex", 0xE3: "atilde",
	0xE4: "adieresis", 0xE5: "aring", 0xE6: "ae", 0xE7: "ccedilla",
	0xE8: "egrave", 0xE9: "eacute", 0xEA: "ecircumflex", 0xEB: "edieresis",
	0xEC: "igrave", 0xED: "iacute", 0xEE: "icircumflex", 0xEF: "idieresis",
	0xF0: "eth", 0xF1: "ntilde", 0xF2: "ograve", 0xF3: "oacute",
	0xF4: "ocircumflex", 0xF5: "otilde", 0xF6: "odieresis", 0xF7: "divide",
	0xF8: "oslash", 0xF9: "ugrave", 0xFA: "uacute", 0xFB: "ucircumflex",
	0xFC: "udieresis", 0xFD: "yacute", 0xFE: "thorn", 0xFF: "ydieresis",
}

func asciiName(b byte) string {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z':
		return string(rune(b))
	default:
		return agl[rune(b)]
	}
}

func fromCharmap(cm *charmap.Charmap) Table {
	var t Table
	for i := 0; i < 256; i++ {
		r := cm.DecodeByte(byte(i))
		if r == 0xFFFD {
			continue
		}
		if name, ok := agl[r]; ok {
			t[i] = name
		} else if i < 0x80 {
			t[i] = asciiName(byte(i))
		}
	}
	return t
}

// Standard is Adobe's StandardEncoding, reduced to the ASCII core plus the
// handful of high-byte punctuation marks (quoteleft, quotedblleft, etc.)
// PDF content most commonly hits; anything else falls back to notdef.
var Standard = buildStandard()

// WinAnsi is PDF's WinAnsiEncoding, derived from Windows-1252 (ISO
// 32000-1 Annex D.2's table is Windows-1252 with five codepoints
// replaced; this reduction does not special-case those five).
var WinAnsi = fromCharmap(charmap.Windows1252)

// MacRoman is PDF's MacRomanEncoding, derived from Mac OS Roman.
var MacRoman = fromCharmap(charmap.Macintosh)

func buildStandard() Table {
	var t Table
	for i := 0x20; i < 0x7F; i++ {
		t[i] = asciiName(byte(i))
	}
	t[0x27] = "quoteright"
	t[0x60] = "quoteleft"
	extra := map[int]string{
		0xA1: "exclamdown", 0xA2: "cent", 0xA3: "sterling", 0xA4: "fraction",
		0xA5: "yen", 0xA6: "florin", 0xA7: "section", 0xA8: "currency",
		0xA9: "quotesingle", 0xAA: "quotedblleft", 0xAB: "guillemotleft",
		0xAE: "fi", 0xAF: "fl", 0xB1: "endash", 0xB2: "dagger",
		0xB3: "daggerdbl", 0xB4: "periodcentered", 0xB6: "paragraph",
		0xB7: "bullet", 0xB8: "quotesinglbase", 0xB9: "quotedblbase",
		0xBA: "quotedblright", 0xBB: "guillemotright", 0xBC: "ellipsis",
		0xBD: "perthousand", 0xBF: "questiondown", 0xE1: "grave",
		0xE2: "acute", 0xE3: "circumflex", 0xE4: "tilde", 0xE5: "macron",
		0xE6: "breve", 0xE7: "dotaccent", 0xE8: "dieresis", 0xEA: "ring",
		0xEB: "cedilla", 0xED: "hungarumlaut", 0xEE: "ogonek",
		0xEF: "caron", 0xF0: "emdash",
	}
	for code, name := range extra {
		t[code] = name
	}
	return t
}

// Symbol stands in for the Symbol font's built-in encoding with a copy
// of the Standard table (the same names in the same slots), which
// avoids drawing notdef for ordinary alphanumeric runs; genuinely
// Symbol-specific glyphs (Greek letters, math operators) are not mapped.
var Symbol = buildStandard()

// ApplyDifferences overlays a font dictionary's /Differences array (a
// sequence of alternating code integers and glyph names, each name
// applying to codes starting at the preceding integer and incrementing)
// onto a copy of base.
func ApplyDifferences(base Table, diffs []DifferenceEntry) Table {
	t := base
	code := 0
	for _, d := range diffs {
		if d.IsCode {
			code = d.Code
			continue
		}
		if code >= 0 && code < 256 {
			t[code] = d.Name
		}
		code++
	}
	return t
}

// DifferenceEntry is one element of a /Differences array: either a code
// reset or a glyph-name assignment at the running code position.
type DifferenceEntry struct {
	IsCode bool
	Code   int
	Name   string
}
