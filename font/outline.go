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

	geompath "seehuhn.de/go/geom/path"
	"seehuhn.de/go/postscript/type1"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyph"

	pdf "github.com/corvuspdf/corvus"
)

// embeddedProgram wraps whichever glyph outline program loadEmbeddedProgram
// managed to parse out of a FontDescriptor's FontFile/FontFile2/FontFile3.
// Exactly one of the two fields is set.
type embeddedProgram struct {
	type1 *type1.Font // FontFile: Type1 charstrings
	sfnt  *sfnt.Font  // FontFile2, or FontFile3 with /Subtype /OpenType
}

// loadEmbeddedProgram reads and parses whichever font program stream desc
// carries, in FontFile/FontFile2/FontFile3 order. A bare (non-OpenType
// wrapped) FontFile3 CFF program (/Subtype /Type1C or /CIDFontType0C) has
// no reader wired in this package (see DESIGN.md) and falls through to
// nil, same as a stream this package fails to parse.
func loadEmbeddedProgram(r pdf.Getter, desc pdf.Dict) *embeddedProgram {
	if desc == nil {
		return nil
	}
	if stream, err := pdf.GetStream(r, desc["FontFile"]); err == nil && stream != nil {
		if data, err := pdf.DecodeStream(r, stream, nil); err == nil && len(data) > 0 {
			if f, err := type1.Read(bytes.NewReader(data)); err == nil {
				return &embeddedProgram{type1: f}
			}
		}
	}
	if stream, err := pdf.GetStream(r, desc["FontFile2"]); err == nil && stream != nil {
		if data, err := pdf.DecodeStream(r, stream, nil); err == nil && len(data) > 0 {
			if f, err := sfnt.Read(bytes.NewReader(data)); err == nil {
				return &embeddedProgram{sfnt: f}
			}
		}
	}
	if stream, err := pdf.GetStream(r, desc["FontFile3"]); err == nil && stream != nil {
		subtype, _ := pdf.GetName(r, stream.Dict["Subtype"])
		if subtype == "OpenType" {
			if data, err := pdf.DecodeStream(r, stream, nil); err == nil && len(data) > 0 {
				if f, err := sfnt.Read(bytes.NewReader(data)); err == nil {
					return &embeddedProgram{sfnt: f}
				}
			}
		}
		// Type1C / CIDFontType0C: bare CFF, not wrapped in an OpenType
		// container. No reader for this wire format is wired here.
	}
	return nil
}

// outlineByName draws the named glyph of a Type1 program onto pen,
// reporting whether it found and drew anything.
func (p *embeddedProgram) outlineByName(name string, pen Pen) bool {
	if p == nil || p.type1 == nil || name == "" {
		return false
	}
	g, ok := p.type1.Glyphs[name]
	if !ok || g == nil || len(g.Cmds) == 0 {
		return false
	}
	for _, cmd := range g.Cmds {
		switch cmd.Op {
		case type1.OpMoveTo:
			pen.MoveTo(cmd.Args[0], cmd.Args[1])
		case type1.OpLineTo:
			pen.LineTo(cmd.Args[0], cmd.Args[1])
		case type1.OpCurveTo:
			pen.CurveTo(cmd.Args[0], cmd.Args[1], cmd.Args[2], cmd.Args[3], cmd.Args[4], cmd.Args[5])
		case type1.OpClosePath:
			pen.ClosePath()
		}
	}
	return true
}

// gidForRune looks up rn in the program's best Unicode cmap subtable, for
// resolving a simple TrueType font's character code to a glyph id via its
// encoding-derived name when no CIDToGIDMap-style table applies.
func (p *embeddedProgram) gidForRune(rn rune) (uint32, bool) {
	if p == nil || p.sfnt == nil || p.sfnt.CMapTable == nil {
		return 0, false
	}
	subtable, err := p.sfnt.CMapTable.GetBest()
	if err != nil || subtable == nil {
		return 0, false
	}
	gid := subtable.Lookup(rn)
	if gid == 0 {
		return 0, false
	}
	return uint32(gid), true
}

// outlineByGID draws glyph id gid of an sfnt program onto pen, rescaled
// from the program's native UnitsPerEm into this package's fixed 1000
// units/em glyph space.
func (p *embeddedProgram) outlineByGID(gid uint32, pen Pen) bool {
	if p == nil || p.sfnt == nil || p.sfnt.Outlines == nil {
		return false
	}
	upem := float64(p.sfnt.UnitsPerEm)
	if upem == 0 {
		upem = UnitsPerEm
	}
	scale := UnitsPerEm / upem

	path := p.sfnt.Outlines.Path(glyph.ID(gid))
	drawn := false
	for cmd, pts := range path {
		drawn = true
		switch cmd {
		case geompath.CmdMoveTo:
			pen.MoveTo(pts[0].X*scale, pts[0].Y*scale)
		case geompath.CmdLineTo:
			pen.LineTo(pts[0].X*scale, pts[0].Y*scale)
		case geompath.CmdQuadTo:
			pen.QuadTo(pts[0].X*scale, pts[0].Y*scale, pts[1].X*scale, pts[1].Y*scale)
		case geompath.CmdCubeTo:
			pen.CurveTo(
				pts[0].X*scale, pts[0].Y*scale,
				pts[1].X*scale, pts[1].Y*scale,
				pts[2].X*scale, pts[2].Y*scale,
			)
		case geompath.CmdClose:
			pen.ClosePath()
		}
	}
	return drawn
}
