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

package content

import (
	"seehuhn.de/go/geom/matrix"

	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/font"
	"github.com/corvuspdf/corvus/graphics"
)

// loadFont resolves a /Font resource by name, caching the result for
// the lifetime of this Interpreter (a page commonly calls Tf with the
// same name many times).
func (ip *Interpreter) loadFont(name pdf.Name, resources pdf.Dict) *font.Instance {
	if inst, ok := ip.fonts[name]; ok {
		return inst
	}
	if resources == nil {
		return nil
	}
	fontRes, err := pdf.GetDict(ip.r, resources["Font"])
	if err != nil || fontRes == nil {
		return nil
	}
	dict, err := pdf.GetDict(ip.r, fontRes[name])
	if err != nil || dict == nil {
		return nil
	}
	inst, err := font.Load(ip.r, dict)
	if err != nil {
		return nil
	}
	ip.fonts[name] = inst
	return inst
}

// showText implements Tj (and the ' and " variants, whose line move the
// operator dispatch performs before calling showText).
func (ip *Interpreter) showText(s pdf.String, resources pdf.Dict) {
	ip.showCodes(s, resources)
}

// showTextArray implements TJ: strings interleaved with numeric
// displacements that adjust Tm without drawing anything.
func (ip *Interpreter) showTextArray(arr pdf.Array, resources pdf.Dict) {
	st := ip.g.Current()
	for _, item := range arr {
		switch v := item.(type) {
		case pdf.String:
			ip.showCodes(v, resources)
		case pdf.Integer:
			ip.adjustTm(st, float64(v))
		case pdf.Real:
			ip.adjustTm(st, float64(v))
		}
	}
}

// adjustTm applies a TJ numeric element: a displacement in thousandths
// of text space, opposing the writing direction ("TJ").
func (ip *Interpreter) adjustTm(st *graphics.State, amount float64) {
	tx := -amount / 1000 * st.Text.FontSize * st.Text.HScale
	st.Text.Tm = matrix.Translate(tx, 0).Mul(st.Text.Tm)
}

// showCodes walks s as a sequence of character codes (one byte per
// code for simple and Type3 fonts, two bytes per code for Type0 fonts
// whatever the codespace ranges of their CMap), painting each glyph and
// advancing Tm.
func (ip *Interpreter) showCodes(s pdf.String, resources pdf.Dict) {
	st := ip.g.Current()
	inst, _ := st.Text.Font.(*font.Instance)
	if inst == nil {
		return
	}

	codes := codesFor(inst, s)
	for _, code := range codes {
		ip.showGlyph(st, inst, code, resources)
		w0 := inst.Width(code)
		tc := st.Text.CharSpace
		tw := 0.0
		if code == 32 && !inst.IsMultiByte() {
			tw = st.Text.WordSpace
		}
		tx := (w0*st.Text.FontSize + tc + tw) * st.Text.HScale
		st.Text.Tm = matrix.Translate(tx, 0).Mul(st.Text.Tm)
	}
}

// codesFor splits a show-string into character codes: 2 bytes per code
// for composite (Type0) fonts, 1 byte per code for everything else.
func codesFor(inst *font.Instance, s pdf.String) []uint32 {
	if !inst.IsMultiByte() {
		out := make([]uint32, len(s))
		for i, b := range s {
			out[i] = uint32(b)
		}
		return out
	}
	out := make([]uint32, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		out = append(out, uint32(s[i])<<8|uint32(s[i+1]))
	}
	return out
}

// showGlyph paints one glyph's outline at the current text position,
// honoring the Tr render mode (fill, stroke, both, or invisible).
func (ip *Interpreter) showGlyph(st *graphics.State, inst *font.Instance, code uint32, resources pdf.Dict) {
	if st.Text.Render == 3 || !ip.visible() {
		return // invisible text
	}

	unit := matrix.Matrix{1.0 / font.UnitsPerEm, 0, 0, 1.0 / font.UnitsPerEm, 0, 0}
	if inst.Subtype == "Type3" {
		tm := inst.Type3Matrix()
		unit = matrix.Matrix{tm[0], tm[1], tm[2], tm[3], tm[4], tm[5]}
	}
	params := matrix.Matrix{st.Text.FontSize * st.Text.HScale, 0, 0, st.Text.FontSize, 0, st.Text.Rise}
	trm := unit.Mul(params).Mul(st.Text.Tm)
	deviceM := trm.Mul(st.CTM)

	if inst.Subtype == "Type3" {
		ip.showType3Glyph(inst, code, deviceM, resources)
		return
	}

	adapter := &penAdapter{path: &graphics.Path{}}
	inst.Outline(code, adapter)
	if adapter.path.IsEmpty() {
		return
	}

	ip.dev.SetTransform(deviceM)
	switch st.Text.Render {
	case 0, 4:
		ip.dev.SetPaint(ip.paintFor(st, false))
		ip.dev.FillPath(adapter.path, graphics.FillProps{Rule: graphics.FillNonZero})
	case 1, 5:
		ip.dev.SetPaint(ip.paintFor(st, true))
		ip.dev.StrokePath(adapter.path, strokePropsFor(st))
	case 2, 6:
		ip.dev.SetPaint(ip.paintFor(st, false))
		ip.dev.FillPath(adapter.path, graphics.FillProps{Rule: graphics.FillNonZero})
		ip.dev.SetPaint(ip.paintFor(st, true))
		ip.dev.StrokePath(adapter.path, strokePropsFor(st))
	}
	ip.dev.SetTransform(st.CTM)
}

// showType3Glyph interprets a Type3 glyph's content stream, which
// paints with ordinary path/text operators in glyph space (ISO 32000-1
// §9.6.5.2) rather than exposing a Pen outline.
func (ip *Interpreter) showType3Glyph(inst *font.Instance, code uint32, deviceM matrix.Matrix, resources pdf.Dict) {
	gid := inst.GlyphID(code)
	stream, err := inst.Type3Program(ip.r, gid)
	if err != nil || stream == nil {
		return
	}
	data, err := pdf.DecodeStream(ip.r, stream, nil)
	if err != nil {
		return
	}
	res := resources
	if stream.Dict != nil {
		if r2, err := pdf.GetDict(ip.r, stream.Dict["Resources"]); err == nil && r2 != nil {
			res = r2
		}
	}

	ip.g.Save()
	ip.g.Current().CTM = deviceM
	ip.dev.SetTransform(deviceM)
	_ = ip.run(data, res)
	ip.g.Restore()
	ip.dev.SetTransform(ip.g.Current().CTM)
}

func strokePropsFor(st *graphics.State) graphics.StrokeProps {
	return graphics.StrokeProps{
		LineWidth:  st.LineWidth,
		LineCap:    st.LineCap,
		LineJoin:   st.LineJoin,
		MiterLimit: st.MiterLimit,
		DashArray:  st.DashArray,
		DashPhase:  st.DashPhase,
	}
}

// penAdapter turns font.Pen callbacks (glyph space) into a graphics.Path,
// elevating the quadratic segments that TrueType (sfnt) outlines emit
// to cubic curves.
type penAdapter struct {
	path       *graphics.Path
	cur        [2]float64
	hasCurrent bool
}

func (p *penAdapter) MoveTo(x, y float64) {
	p.path.MoveTo(x, y)
	p.cur, p.hasCurrent = [2]float64{x, y}, true
}

func (p *penAdapter) LineTo(x, y float64) {
	p.path.LineTo(x, y)
	p.cur = [2]float64{x, y}
}

func (p *penAdapter) QuadTo(cx, cy, x, y float64) {
	if !p.hasCurrent {
		p.MoveTo(cx, cy)
	}
	x0, y0 := p.cur[0], p.cur[1]
	c1x, c1y := x0+2.0/3*(cx-x0), y0+2.0/3*(cy-y0)
	c2x, c2y := x+2.0/3*(cx-x), y+2.0/3*(cy-y)
	p.path.CurveTo(c1x, c1y, c2x, c2y, x, y)
	p.cur = [2]float64{x, y}
}

func (p *penAdapter) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	p.path.CurveTo(x1, y1, x2, y2, x3, y3)
	p.cur = [2]float64{x3, y3}
}

func (p *penAdapter) ClosePath() { p.path.Close() }
