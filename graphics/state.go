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

import "seehuhn.de/go/geom/matrix"

// TextState holds the per-text-object parameters mutated by Tc Tw Tz TL
// Tf Tr Ts and the text-positioning operators ("Text
// object").
type TextState struct {
	CharSpace    float64
	WordSpace    float64
	HScale       float64 // Tz, stored as a fraction (100 -> 1.0)
	Leading      float64
	Font         any // *font.Instance; typed any here to avoid an import cycle with package font
	FontSize     float64
	Render       int // Tr: 0 fill, 1 stroke, 2 fill+stroke, 3 invisible, 4-7 add to clip
	Rise         float64

	// Tm/Tlm: text and text-line matrices. Only meaningful between BT/ET.
	Tm, Tlm matrix.Matrix
}

// State is the PDF graphics state: everything a `q`
// saves and a `Q` restores, plus the interpreter-only bookkeeping
// (pending clip, clip depth) needed to keep device-level clips balanced
// across save/restore even when operators interleave.
type State struct {
	CTM matrix.Matrix

	StrokeColorSpace any // graphics/color.Space
	StrokeColor      [4]float64
	StrokeNComp      int
	StrokePattern    PatternPaint
	StrokeIsPattern  bool

	FillColorSpace any
	FillColor      [4]float64
	FillNComp      int
	FillPattern    PatternPaint
	FillIsPattern  bool

	LineWidth  float64
	LineCap    int
	LineJoin   int
	MiterLimit float64
	DashArray  []float64
	DashPhase  float64

	RenderingIntent any
	FlatnessTol     float64
	StrokeAdjust    bool

	StrokeAlpha float64
	FillAlpha   float64
	BlendMode   any
	SoftMask    *SoftMask

	Text TextState

	// clipDepth counts how many device-level PushClip calls happened
	// since this state was pushed; Restore pops exactly that many.
	clipDepth int
}

// NewState returns the PDF-specified initial graphics state: identity
// CTM, black in DeviceGray on both stroke and fill, 1-unit line width,
// fully opaque.
func NewState() *State {
	return &State{
		CTM:         matrix.Identity,
		LineWidth:   1,
		MiterLimit:  10,
		FlatnessTol: 1,
		StrokeAlpha: 1,
		FillAlpha:   1,
		Text:        TextState{HScale: 1},
	}
}

// Clone makes a deep-enough copy for `q`: slice fields that a restored
// state must not see mutations of (DashArray) are copied; the text
// matrices and scalar fields copy by value automatically.
func (s *State) Clone() *State {
	cp := *s
	cp.DashArray = append([]float64(nil), s.DashArray...)
	cp.clipDepth = 0
	return &cp
}

// Stack is the `q`/`Q` save/restore stack. It tracks, per
// saved frame, how many device clips were pushed since the save so that
// Restore can pop the device exactly that many times regardless of how
// the content stream interleaved `W`/`W*` with `q`/`Q`.
type Stack struct {
	cur    *State
	saved  []*State
	Device Device
}

// NewStack returns a Stack seeded with the initial graphics state and
// wired to dev.
func NewStack(dev Device) *Stack {
	return &Stack{cur: NewState(), Device: dev}
}

// Current returns the active graphics state.
func (s *Stack) Current() *State { return s.cur }

// Save implements `q`: push a copy of the current state.
func (s *Stack) Save() {
	s.saved = append(s.saved, s.cur)
	s.cur = s.cur.Clone()
}

// Restore implements `Q`: pop back to the saved state, popping exactly
// as many device clips as were pushed since the matching Save. A `Q`
// with no matching `q` is a no-op (malformed content streams must not
// panic).
func (s *Stack) Restore() {
	if len(s.saved) == 0 {
		return
	}
	for i := 0; i < s.cur.clipDepth; i++ {
		if s.Device != nil {
			s.Device.PopClip()
		}
	}
	n := len(s.saved) - 1
	s.cur = s.saved[n]
	s.saved = s.saved[:n]
}

// PushClip records a clip against the current frame and forwards it to
// the device; it is how `W`/`W*` take effect once the interpreter
// applies a pending clip after the next painting operator.
func (s *Stack) PushClip(path *Path, rule FillRule) {
	if s.Device != nil {
		s.Device.PushClip(path, rule)
	}
	s.cur.clipDepth++
}

// Depth reports the number of outstanding Save calls, for diagnostics.
func (s *Stack) Depth() int { return len(s.saved) }
