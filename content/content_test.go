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
	"bytes"
	"testing"

	"seehuhn.de/go/geom/matrix"

	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/graphics"
	"github.com/corvuspdf/corvus/oc"
)

func stringReader(s string) *bytes.Reader { return bytes.NewReader([]byte(s)) }

// memGetter is a fixed in-memory object store, the same fixture shape
// package font tests with.
type memGetter map[pdf.Reference]pdf.Native

func (g memGetter) Get(ref pdf.Reference, canObjStm bool) (pdf.Native, error) {
	v, ok := g[ref]
	if !ok {
		return nil, pdf.Errorf("unknown reference %d", ref)
	}
	return v, nil
}

// recordingDevice implements graphics.Device by logging every call, so
// tests can assert on what the interpreter drove rather than on any
// particular rasterization.
type recordingDevice struct {
	transforms []matrix.Matrix
	paints     []graphics.Paint
	strokes    []*graphics.Path
	fills      []*graphics.Path
	fillRules  []graphics.FillRule
	clipPushes []*graphics.Path
	clipPops   int
	rgbaImages []*graphics.RGBAImage
	stencils   []*graphics.StencilImage
}

func (d *recordingDevice) SetTransform(m matrix.Matrix)      { d.transforms = append(d.transforms, m) }
func (d *recordingDevice) SetPaintTransform(m matrix.Matrix) {}
func (d *recordingDevice) SetPaint(p graphics.Paint)         { d.paints = append(d.paints, p) }

func (d *recordingDevice) StrokePath(path *graphics.Path, props graphics.StrokeProps) {
	d.strokes = append(d.strokes, path)
}
func (d *recordingDevice) FillPath(path *graphics.Path, props graphics.FillProps) {
	d.fills = append(d.fills, path)
	d.fillRules = append(d.fillRules, props.Rule)
}

func (d *recordingDevice) PushClip(path *graphics.Path, rule graphics.FillRule) {
	d.clipPushes = append(d.clipPushes, path)
}
func (d *recordingDevice) PopClip() { d.clipPops++ }

func (d *recordingDevice) PushLayer(props graphics.LayerProps) {}
func (d *recordingDevice) PopLayer()                           {}

func (d *recordingDevice) DrawRGBAImage(img *graphics.RGBAImage, m matrix.Matrix) {
	d.rgbaImages = append(d.rgbaImages, img)
}
func (d *recordingDevice) DrawStencilImage(img *graphics.StencilImage, m matrix.Matrix) {
	d.stencils = append(d.stencils, img)
}

func TestPathConstructionAndFill(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	err := ip.Run([]byte("1 0 0 rg 0 0 100 100 re f"), pdf.Dict{})
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(dev.fills))
	}
	if got := len(dev.fills[0].Segments); got != 5 {
		t.Errorf("rect path has %d segments, want 5 (move+3 lines+close)", got)
	}
	if dev.fillRules[0] != graphics.FillNonZero {
		t.Errorf("fill rule = %v, want FillNonZero", dev.fillRules[0])
	}
	if len(dev.paints) != 1 || dev.paints[0].Color != [4]float64{1, 0, 0, 0} {
		t.Errorf("paint = %+v, want solid red", dev.paints)
	}
}

func TestEvenOddFillRule(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	if err := ip.Run([]byte("0 0 10 10 re f*"), pdf.Dict{}); err != nil {
		t.Fatal(err)
	}
	if dev.fillRules[0] != graphics.FillEvenOdd {
		t.Errorf("fill rule = %v, want FillEvenOdd", dev.fillRules[0])
	}
}

func TestStrokeUsesLineState(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	err := ip.Run([]byte("3 w 1 J 0 0 m 10 10 l S"), pdf.Dict{})
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.strokes) != 1 {
		t.Fatalf("got %d strokes, want 1", len(dev.strokes))
	}
}

func TestCMConcatenatesOntoCTM(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	err := ip.Run([]byte("2 0 0 2 0 0 cm 1 0 0 1 5 5 cm 0 0 1 1 re f"), pdf.Dict{})
	if err != nil {
		t.Fatal(err)
	}
	// cm is "M.Mul(CTM)" applied left to right: first scale by 2, then
	// translate by (5,5) in the already-scaled space.
	want := matrix.Matrix{1, 0, 0, 1, 5, 5}.Mul(matrix.Matrix{2, 0, 0, 2, 0, 0})
	got := ip.g.Current().CTM
	if got != want {
		t.Errorf("CTM = %v, want %v", got, want)
	}
}

func TestQQRestoresGraphicsState(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	err := ip.Run([]byte("q 5 w Q"), pdf.Dict{})
	if err != nil {
		t.Fatal(err)
	}
	if ip.g.Current().LineWidth != 1 {
		t.Errorf("LineWidth after Q = %v, want 1 (initial)", ip.g.Current().LineWidth)
	}
}

func TestClipBalancesAcrossRestore(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	err := ip.Run([]byte("q 0 0 10 10 re W n Q"), pdf.Dict{})
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.clipPushes) != 1 {
		t.Fatalf("got %d clip pushes, want 1", len(dev.clipPushes))
	}
	if dev.clipPops != 1 {
		t.Errorf("got %d clip pops, want 1 (Q must balance W/n)", dev.clipPops)
	}
}

func TestMalformedOperandListDoesNotPanic(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	// "cm" with too few operands, "re" with none: both must be silently
	// skipped rather than panicking or corrupting later state.
	if err := ip.Run([]byte("1 0 0 cm re 5 w"), pdf.Dict{}); err != nil {
		t.Fatal(err)
	}
	if ip.g.Current().LineWidth != 5 {
		t.Errorf("LineWidth = %v, want 5 (later valid operator still applied)", ip.g.Current().LineWidth)
	}
}

func TestUnknownOperatorIsIgnored(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	if err := ip.Run([]byte("5 w ZZ 7 w"), pdf.Dict{}); err != nil {
		t.Fatal(err)
	}
	if ip.g.Current().LineWidth != 7 {
		t.Errorf("LineWidth = %v, want 7", ip.g.Current().LineWidth)
	}
}

func TestDeviceColorOperators(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	err := ip.Run([]byte("0.2 0.4 0.6 rg 0 0 1 1 re f"), pdf.Dict{})
	if err != nil {
		t.Fatal(err)
	}
	want := [4]float64{0.2, 0.4, 0.6, 0}
	if dev.paints[0].Color != want {
		t.Errorf("fill color = %v, want %v", dev.paints[0].Color, want)
	}
}

func TestGrayDeviceColorRoundTrips(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	if err := ip.Run([]byte("0.5 g 0 0 1 1 re f"), pdf.Dict{}); err != nil {
		t.Fatal(err)
	}
	want := [4]float64{0.5, 0.5, 0.5, 0}
	if dev.paints[0].Color != want {
		t.Errorf("fill color = %v, want %v", dev.paints[0].Color, want)
	}
}

func TestShWithoutPriorClipIsNoOp(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	resources := pdf.Dict{"Shading": pdf.Dict{}}
	if err := ip.Run([]byte("/Sh1 sh"), resources); err != nil {
		t.Fatal(err)
	}
	if len(dev.fills) != 0 {
		t.Errorf("sh with no prior clip painted %d fills, want 0", len(dev.fills))
	}
}

func TestFormXObjectConcatenatesMatrixAndClipsToBBox(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	form := &pdf.Stream{
		Dict: pdf.Dict{
			"Subtype": pdf.Name("Form"),
			"BBox":    pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(50), pdf.Integer(50)},
			"Matrix":  pdf.Array{pdf.Real(1), pdf.Real(0), pdf.Real(0), pdf.Real(1), pdf.Real(10), pdf.Real(10)},
		},
		R: stringReader("0 0 1 1 re f"),
	}
	resources := pdf.Dict{
		"XObject": pdf.Dict{"Fm1": form},
	}
	if err := ip.Run([]byte("/Fm1 Do"), resources); err != nil {
		t.Fatal(err)
	}
	if len(dev.fills) != 1 {
		t.Fatalf("form content did not run: got %d fills, want 1", len(dev.fills))
	}
	if len(dev.clipPushes) != 1 {
		t.Errorf("got %d clip pushes for /BBox, want 1", len(dev.clipPushes))
	}
	if dev.clipPops != 1 {
		t.Errorf("got %d clip pops after form returns, want 1", dev.clipPops)
	}
	// CTM after Do must be restored to what it was before (identity),
	// not left at the form's concatenated matrix.
	if ip.g.Current().CTM != matrix.Identity {
		t.Errorf("CTM after Do = %v, want identity", ip.g.Current().CTM)
	}
}

func TestFormXObjectRecursionIsBounded(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	form := &pdf.Stream{
		Dict: pdf.Dict{"Subtype": pdf.Name("Form")},
		R:    stringReader("/Fm1 Do"),
	}
	resources := pdf.Dict{"XObject": pdf.Dict{"Fm1": form}}
	form.Dict["Resources"] = resources

	// a self-referencing form must terminate via maxFormDepth, never
	// recurse unboundedly.
	if err := ip.Run([]byte("/Fm1 Do"), resources); err != nil {
		t.Fatal(err)
	}
}

func TestMarkedContentHidesDrawingWhenOCGInactive(t *testing.T) {
	dev := &recordingDevice{}
	ocgRef := pdf.NewReference(5, 0)
	catalog := pdf.Dict{
		"OCProperties": pdf.Dict{
			"D": pdf.Dict{"OFF": pdf.Array{ocgRef}},
		},
	}
	ocs := oc.FromCatalog(memGetter{}, catalog)
	ip := New(memGetter{}, dev, ocs)
	resources := pdf.Dict{"Properties": pdf.Dict{"P1": ocgRef}}
	err := ip.Run([]byte("/OC /P1 BDC 0 0 10 10 re f EMC 0 0 10 10 re f"), resources)
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.fills) != 1 {
		t.Errorf("got %d fills, want 1 (only the fill outside the hidden OCG)", len(dev.fills))
	}
}

func TestMarkedContentKeepsDrawingWhenOCGActive(t *testing.T) {
	dev := &recordingDevice{}
	ocgRef := pdf.NewReference(5, 0)
	catalog := pdf.Dict{}
	ocs := oc.FromCatalog(memGetter{}, catalog) // no OFF list: everything visible
	ip := New(memGetter{}, dev, ocs)
	resources := pdf.Dict{"Properties": pdf.Dict{"P1": ocgRef}}
	err := ip.Run([]byte("/OC /P1 BDC 0 0 10 10 re f EMC"), resources)
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.fills) != 1 {
		t.Errorf("got %d fills, want 1", len(dev.fills))
	}
}

func TestTextShowingAdvancesTmAndPaintsGlyphBoxes(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	fontDict := pdf.Dict{
		"Subtype":   pdf.Name("TrueType"),
		"FirstChar": pdf.Integer(65),
		"LastChar":  pdf.Integer(65),
		"Widths":    pdf.Array{pdf.Integer(600)},
	}
	resources := pdf.Dict{"Font": pdf.Dict{"F1": fontDict}}
	err := ip.Run([]byte("BT /F1 12 Tf 100 100 Td (AA) Tj ET"), resources)
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.fills) != 2 {
		t.Fatalf("got %d glyph fills, want 2 (one per 'A')", len(dev.fills))
	}
	st := ip.g.Current()
	// Each 'A' advances by w0*Tfs = 0.6*12 = 7.2 text-space units; two
	// glyphs move Tm.e from 100 to 114.4.
	wantE := 100 + 2*0.6*12
	if got := st.Text.Tm[4]; got < wantE-1e-9 || got > wantE+1e-9 {
		t.Errorf("Tm.e after two glyphs = %v, want %v", got, wantE)
	}
}

func TestTJArrayAdjustsSpacingWithoutDrawing(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	fontDict := pdf.Dict{
		"Subtype":   pdf.Name("TrueType"),
		"FirstChar": pdf.Integer(65),
		"LastChar":  pdf.Integer(65),
		"Widths":    pdf.Array{pdf.Integer(600)},
	}
	resources := pdf.Dict{"Font": pdf.Dict{"F1": fontDict}}
	err := ip.Run([]byte("BT /F1 10 Tf [(A) -250 (A)] TJ ET"), resources)
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.fills) != 2 {
		t.Fatalf("got %d glyph fills, want 2", len(dev.fills))
	}
	st := ip.g.Current()
	// Two glyph advances (0.6*10 each) plus the -250/1000*10 = -2.5
	// adjustment between them, which *widens* the gap (negative amount
	// moves right, since tx = -(amount/1000) * Tfs).
	wantE := 0.6*10 + (250.0/1000)*10 + 0.6*10
	if got := st.Text.Tm[4]; got < wantE-1e-9 || got > wantE+1e-9 {
		t.Errorf("Tm.e after TJ = %v, want %v", got, wantE)
	}
}

func TestInvisibleRenderModeSkipsPainting(t *testing.T) {
	dev := &recordingDevice{}
	ip := New(memGetter{}, dev, nil)
	fontDict := pdf.Dict{
		"Subtype":   pdf.Name("TrueType"),
		"FirstChar": pdf.Integer(65),
		"LastChar":  pdf.Integer(65),
		"Widths":    pdf.Array{pdf.Integer(600)},
	}
	resources := pdf.Dict{"Font": pdf.Dict{"F1": fontDict}}
	err := ip.Run([]byte("BT /F1 12 Tf 3 Tr (A) Tj ET"), resources)
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.fills) != 0 {
		t.Errorf("Tr 3 (invisible) painted %d fills, want 0", len(dev.fills))
	}
	// the advance still happens even though nothing is drawn
	if ip.g.Current().Text.Tm[4] == 0 {
		t.Errorf("Tm.e did not advance under invisible render mode")
	}
}
