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

package graphics

import (
	"seehuhn.de/go/geom/matrix"

	pdf "github.com/corvuspdf/corvus"
)

// StrokeProps bundles the stroke-state slots consulted when a path is
// stroked.
type StrokeProps struct {
	LineWidth  float64
	LineCap    int // 0 butt, 1 round, 2 square
	LineJoin   int // 0 miter, 1 round, 2 bevel
	MiterLimit float64
	DashArray  []float64
	DashPhase  float64
}

// FillProps bundles the fill-state slots consulted by fill_path.
type FillProps struct {
	Rule FillRule
}

// Paint is the current paint source: a solid color, or a pattern (a
// tiling-pattern replay callback or a shading evaluator) that the device
// resolves at fill time. Kind selects which of Color and Pattern is
// meaningful.
type Paint struct {
	Kind    PaintKind
	Color   [4]float64 // sRGB components as produced by color.ToSRGB, padded with zeros
	NComp   int
	Pattern PatternPaint
}

type PaintKind uint8

const (
	PaintSolid PaintKind = iota
	PaintPattern
)

// PatternPaint carries everything a device needs to realize a pattern
// fill: either a tiling-pattern replay callback or a shading evaluator.
// Both are supplied by package content/pattern; graphics only threads
// them through to the device.
type PatternPaint struct {
	Matrix matrix.Matrix
	// Tile, if non-nil, replays the pattern's content stream once per
	// cell; Shading, if non-nil, evaluates a shading's color function.
	Tile    func(dev Device) error
	Shading func(x, y float64) (color [4]float64, nComp int, ok bool)
}

// LayerProps configures a transparency layer opened by PushLayer.
type LayerProps struct {
	Opacity   float64
	BlendMode pdf.Name
	SoftMask  *SoftMask
	Clip      *Path
	ClipRule  FillRule
	Isolated  bool
	Knockout  bool
}

// SoftMask identifies a resolved soft mask by the object identity of
// its source Form XObject group: the device may use
// this as a cache key.
type SoftMask struct {
	ObjectID    uint64
	Luminosity  bool // Luminosity if true, Alpha if false
	Backdrop    [4]float64
	Luma        func(x, y float64) float64 // resolved mask sampler in device space
}

// RGBAImage is a fully decoded, colorspace-converted raster ready to
// paint.
type RGBAImage struct {
	Width, Height int
	Pix           []byte // 4 bytes per pixel, non-premultiplied RGBA
}

// StencilImage is a 1-bit mask painted with the current paint; a set
// bit means "paint here" unless Invert flips the convention (image-mask
// /Decode [1 0]).
type StencilImage struct {
	Width, Height int
	Bits          []byte // packed MSB-first, rowBytes = (Width+7)/8
	Invert        bool
}

// Device is the rendering backend capability set. The
// interpreter in package content drives a Device; package raster
// supplies the one concrete implementation in this module.
//
// Exit-path guarantee: for every push_clip/push_layer the interpreter
// issues exactly one matching pop_clip/pop_layer, even along abort
// paths, so a Device never needs to reconcile mismatched nesting.
type Device interface {
	SetTransform(m matrix.Matrix)
	SetPaintTransform(m matrix.Matrix)
	SetPaint(p Paint)

	StrokePath(path *Path, props StrokeProps)
	FillPath(path *Path, props FillProps)

	PushClip(path *Path, rule FillRule)
	PopClip()

	PushLayer(props LayerProps)
	PopLayer()

	DrawRGBAImage(img *RGBAImage, m matrix.Matrix)
	DrawStencilImage(img *StencilImage, m matrix.Matrix)
}

// NopDevice implements Device by discarding every drawing call. Push/Pop
// calls are still forwarded to an inner device so clip/layer balance is
// preserved across a region drawn through it.
type NopDevice struct {
	Inner Device
}

func (d NopDevice) SetTransform(m matrix.Matrix)      {}
func (d NopDevice) SetPaintTransform(m matrix.Matrix) {}
func (d NopDevice) SetPaint(p Paint)                  {}
func (d NopDevice) StrokePath(path *Path, props StrokeProps) {}
func (d NopDevice) FillPath(path *Path, props FillProps)     {}

func (d NopDevice) PushClip(path *Path, rule FillRule) {
	if d.Inner != nil {
		d.Inner.PushClip(path, rule)
	}
}
func (d NopDevice) PopClip() {
	if d.Inner != nil {
		d.Inner.PopClip()
	}
}
func (d NopDevice) PushLayer(props LayerProps) {
	if d.Inner != nil {
		d.Inner.PushLayer(props)
	}
}
func (d NopDevice) PopLayer() {
	if d.Inner != nil {
		d.Inner.PopLayer()
	}
}
func (d NopDevice) DrawRGBAImage(img *RGBAImage, m matrix.Matrix)     {}
func (d NopDevice) DrawStencilImage(img *StencilImage, m matrix.Matrix) {}
