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

// Package content interprets PDF content streams: it
// tokenizes operands with the root package's plain-mode Scanner,
// dispatches the roughly 73 operators onto a graphics.Stack, and drives
// a graphics.Device with the results. It is the one package that knows
// how page resources, fonts, colorspaces, patterns, shadings, optional
// content, and soft masks all come together around a single running
// interpreter; everything below it (graphics, font, graphics/color,
// graphics/pattern, graphics/shading, graphics/softmask, oc) stays
// content-stream-agnostic to avoid import cycles back up to here.
package content

import (
	"seehuhn.de/go/geom/matrix"

	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/font"
	"github.com/corvuspdf/corvus/graphics"
	"github.com/corvuspdf/corvus/oc"
)

// maxFormDepth bounds recursive Form XObject interpretation so a
// self-referencing /XObject resource dictionary cannot loop forever.
const maxFormDepth = 16

// Interpreter runs one content stream (a page or a Form XObject) against
// a graphics.Device. It is not safe for concurrent use.
type Interpreter struct {
	r   pdf.Getter
	dev graphics.Device
	g   *graphics.Stack

	oc *oc.State // nil disables optional-content visibility checks

	fonts map[pdf.Name]*font.Instance // cache across Tf calls in this run, keyed by resource name + dict identity is overkill; name is enough within one Resources scope

	currentResources pdf.Dict // the Resources dict in scope for the content currently executing

	path *graphics.Path

	pendingClip     bool
	pendingClipPath *graphics.Path
	pendingClipRule graphics.FillRule
	lastClipPath    *graphics.Path // most recent clip, for `sh` with no explicit path

	compatDepth int // BX/EX nesting
	formDepth   int
}

// New returns an Interpreter that draws onto dev. ocs may be nil, in
// which case every marked-content region is treated as visible.
func New(r pdf.Getter, dev graphics.Device, ocs *oc.State) *Interpreter {
	return &Interpreter{
		r:     r,
		dev:   dev,
		g:     graphics.NewStack(dev),
		oc:    ocs,
		fonts: map[pdf.Name]*font.Instance{},
		path:  &graphics.Path{},
	}
}

// Run interprets data as a content stream against resources. It is the
// entry point for a page; Form XObjects recurse through runForm instead,
// which additionally clips to the form's /BBox and concatenates /Matrix.
func (ip *Interpreter) Run(data []byte, resources pdf.Dict) error {
	return ip.run(data, resources)
}

func (ip *Interpreter) run(data []byte, resources pdf.Dict) error {
	prevResources := ip.currentResources
	ip.currentResources = resources
	defer func() { ip.currentResources = prevResources }()

	sc := pdf.NewScanner(data, nil)
	var args []pdf.Object
	for !sc.AtEnd() {
		tok, err := sc.ReadToken()
		if err != nil {
			break // malformed tail: stop rather than spin
		}
		if !tok.IsOperator() {
			args = append(args, tok.Obj)
			continue
		}
		switch tok.Op {
		case "BI":
			if err := ip.inlineImage(sc, data, resources); err != nil {
				// unreadable inline image: skip forward was already
				// attempted by inlineImage; nothing more to do but
				// continue scanning from wherever it left the cursor.
				_ = err
			}
			args = args[:0]
			continue
		}
		ip.do(tok.Op, args, resources)
		args = args[:0]
	}
	return nil
}

// do dispatches one operator against args: each handler pulls its
// operands off args with the argReader helpers below, tolerating short
// or malformed operand lists by simply doing nothing.
func (ip *Interpreter) do(op string, args []pdf.Object, resources pdf.Dict) {
	a := argReader{r: ip.r, args: args}
	st := ip.g.Current()

	switch op {
	// -- Graphics state --
	case "q":
		ip.g.Save()
	case "Q":
		ip.g.Restore()
	case "cm":
		if m, ok := a.matrix6(); ok {
			st.CTM = m.Mul(st.CTM)
			ip.dev.SetTransform(st.CTM)
		}
	case "gs":
		if name, ok := a.name(); ok {
			ip.applyExtGState(name, resources)
		}

	// -- Stroke/fill state --
	case "w":
		if v, ok := a.num(); ok {
			st.LineWidth = v
		}
	case "J":
		if v, ok := a.integer(); ok {
			st.LineCap = v
		}
	case "j":
		if v, ok := a.integer(); ok {
			st.LineJoin = v
		}
	case "M":
		if v, ok := a.num(); ok {
			st.MiterLimit = v
		}
	case "d":
		arr, okArr := a.array()
		phase, okPhase := a.num()
		if okArr {
			st.DashArray = floatsFromArray(ip.r, arr)
		}
		if okPhase {
			st.DashPhase = phase
		}
	case "ri":
		if _, ok := a.name(); ok {
			// rendering intent: no device hook carries it.
		}
	case "i":
		if v, ok := a.num(); ok {
			st.FlatnessTol = v
		}

	// -- Path construction --
	case "m":
		if x, y, ok := a.point(); ok {
			ip.path.MoveTo(x, y)
		}
	case "l":
		if x, y, ok := a.point(); ok {
			ip.path.LineTo(x, y)
		}
	case "c":
		if vs, ok := a.floats(6); ok {
			ip.path.CurveTo(vs[0], vs[1], vs[2], vs[3], vs[4], vs[5])
		}
	case "v":
		if vs, ok := a.floats(4); ok {
			ip.path.CurveToV(vs[0], vs[1], vs[2], vs[3])
		}
	case "y":
		if vs, ok := a.floats(4); ok {
			ip.path.CurveToY(vs[0], vs[1], vs[2], vs[3])
		}
	case "h":
		ip.path.Close()
	case "re":
		if vs, ok := a.floats(4); ok {
			ip.path.Rect(vs[0], vs[1], vs[2], vs[3])
		}

	// -- Path painting --
	case "S":
		ip.stroke()
		ip.endPath()
	case "s":
		ip.path.Close()
		ip.stroke()
		ip.endPath()
	case "f", "F":
		ip.fill(graphics.FillNonZero)
		ip.endPath()
	case "f*":
		ip.fill(graphics.FillEvenOdd)
		ip.endPath()
	case "B":
		ip.fill(graphics.FillNonZero)
		ip.stroke()
		ip.endPath()
	case "B*":
		ip.fill(graphics.FillEvenOdd)
		ip.stroke()
		ip.endPath()
	case "b":
		ip.path.Close()
		ip.fill(graphics.FillNonZero)
		ip.stroke()
		ip.endPath()
	case "b*":
		ip.path.Close()
		ip.fill(graphics.FillEvenOdd)
		ip.stroke()
		ip.endPath()
	case "n":
		ip.endPath()

	// -- Clipping --
	case "W":
		ip.pendingClip, ip.pendingClipRule = true, graphics.FillNonZero
	case "W*":
		ip.pendingClip, ip.pendingClipRule = true, graphics.FillEvenOdd

	// -- Color --
	case "CS":
		if name, ok := a.name(); ok {
			ip.setColorSpace(false, name, resources)
		}
	case "cs":
		if name, ok := a.name(); ok {
			ip.setColorSpace(true, name, resources)
		}
	case "SC":
		ip.setColor(false, a.rest(), resources, "")
	case "sc":
		ip.setColor(true, a.rest(), resources, "")
	case "SCN":
		comps, patName := splitPatternOperand(a.rest())
		ip.setColor(false, comps, resources, patName)
	case "scn":
		comps, patName := splitPatternOperand(a.rest())
		ip.setColor(true, comps, resources, patName)
	case "G":
		if v, ok := a.num(); ok {
			ip.setDeviceColor(false, "DeviceGray", []float64{v})
		}
	case "g":
		if v, ok := a.num(); ok {
			ip.setDeviceColor(true, "DeviceGray", []float64{v})
		}
	case "RG":
		if vs, ok := a.floats(3); ok {
			ip.setDeviceColor(false, "DeviceRGB", vs)
		}
	case "rg":
		if vs, ok := a.floats(3); ok {
			ip.setDeviceColor(true, "DeviceRGB", vs)
		}
	case "K":
		if vs, ok := a.floats(4); ok {
			ip.setDeviceColor(false, "DeviceCMYK", vs)
		}
	case "k":
		if vs, ok := a.floats(4); ok {
			ip.setDeviceColor(true, "DeviceCMYK", vs)
		}

	// -- Shading --
	case "sh":
		if name, ok := a.name(); ok {
			ip.paintShading(name, resources)
		}

	// -- External objects --
	case "Do":
		if name, ok := a.name(); ok {
			ip.doXObject(name, resources)
		}

	// -- Text object --
	case "BT":
		st.Text.Tm, st.Text.Tlm = matrix.Identity, matrix.Identity
	case "ET":
		// nothing to release; text clips are not accumulated: Tr
		// modes 4-7 degrade to their non-clipping counterparts.
	case "Tc":
		if v, ok := a.num(); ok {
			st.Text.CharSpace = v
		}
	case "Tw":
		if v, ok := a.num(); ok {
			st.Text.WordSpace = v
		}
	case "Tz":
		if v, ok := a.num(); ok {
			st.Text.HScale = v / 100
		}
	case "TL":
		if v, ok := a.num(); ok {
			st.Text.Leading = v
		}
	case "Tf":
		name, okName := a.name()
		size, okSize := a.num()
		if okName && okSize {
			st.Text.FontSize = size
			st.Text.Font = ip.loadFont(name, resources)
		}
	case "Tr":
		if v, ok := a.integer(); ok {
			st.Text.Render = v
		}
	case "Ts":
		if v, ok := a.num(); ok {
			st.Text.Rise = v
		}
	case "Td":
		if x, y, ok := a.point(); ok {
			st.Text.Tlm = matrix.Translate(x, y).Mul(st.Text.Tlm)
			st.Text.Tm = st.Text.Tlm
		}
	case "TD":
		if x, y, ok := a.point(); ok {
			st.Text.Leading = -y
			st.Text.Tlm = matrix.Translate(x, y).Mul(st.Text.Tlm)
			st.Text.Tm = st.Text.Tlm
		}
	case "Tm":
		if m, ok := a.matrix6(); ok {
			st.Text.Tlm = m
			st.Text.Tm = m
		}
	case "T*":
		st.Text.Tlm = matrix.Translate(0, -st.Text.Leading).Mul(st.Text.Tlm)
		st.Text.Tm = st.Text.Tlm
	case "Tj":
		if s, ok := a.str(); ok {
			ip.showText(s, resources)
		}
	case "'":
		if s, ok := a.str(); ok {
			st.Text.Tlm = matrix.Translate(0, -st.Text.Leading).Mul(st.Text.Tlm)
			st.Text.Tm = st.Text.Tlm
			ip.showText(s, resources)
		}
	case "\"":
		aw, okAw := a.num()
		ac, okAc := a.num()
		s, okS := a.str()
		if okAw && okAc && okS {
			st.Text.WordSpace, st.Text.CharSpace = aw, ac
			st.Text.Tlm = matrix.Translate(0, -st.Text.Leading).Mul(st.Text.Tlm)
			st.Text.Tm = st.Text.Tlm
			ip.showText(s, resources)
		}
	case "TJ":
		if arr, ok := a.array(); ok {
			ip.showTextArray(arr, resources)
		}

	// -- Marked content / optional content --
	case "MP", "DP":
		// point-level marked content carries no visibility state.
	case "BMC":
		ip.beginMarkedContent("", nil, resources)
	case "BDC":
		tag, _ := a.name()
		propsObj, _ := a.next()
		ip.beginMarkedContent(tag, propsObj, resources)
	case "EMC":
		ip.endMarkedContent()

	// -- Compatibility --
	case "BX":
		ip.compatDepth++
	case "EX":
		if ip.compatDepth > 0 {
			ip.compatDepth--
		}

	default:
		// Unknown operator: tolerate and continue.
	}
}

func (ip *Interpreter) endPath() {
	ip.applyPendingClip()
	ip.path.Reset()
}

func (ip *Interpreter) applyPendingClip() {
	if !ip.pendingClip {
		return
	}
	clip := ip.path.Clone()
	ip.g.PushClip(clip, ip.pendingClipRule)
	ip.lastClipPath = clip
	ip.pendingClip = false
}

func (ip *Interpreter) stroke() {
	if ip.path.IsEmpty() || !ip.visible() {
		return
	}
	st := ip.g.Current()
	ip.dev.SetPaint(ip.paintFor(st, true))
	ip.dev.StrokePath(ip.path, strokePropsFor(st))
}

func (ip *Interpreter) fill(rule graphics.FillRule) {
	if ip.path.IsEmpty() || !ip.visible() {
		return
	}
	st := ip.g.Current()
	ip.dev.SetPaint(ip.paintFor(st, false))
	ip.dev.FillPath(ip.path, graphics.FillProps{Rule: rule})
}

func (ip *Interpreter) visible() bool {
	return ip.oc == nil || ip.oc.IsVisible()
}

func floatsFromArray(r pdf.Getter, arr pdf.Array) []float64 {
	out := make([]float64, 0, len(arr))
	for _, o := range arr {
		if v, err := pdf.GetNumber(r, o); err == nil {
			out = append(out, v)
		}
	}
	return out
}
