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
	"testing"

	"seehuhn.de/go/geom/matrix"
)

type recordingDevice struct {
	clipPushes, clipPops int
}

func (d *recordingDevice) SetTransform(m matrix.Matrix)      {}
func (d *recordingDevice) SetPaintTransform(m matrix.Matrix) {}
func (d *recordingDevice) SetPaint(p Paint)                  {}
func (d *recordingDevice) StrokePath(path *Path, props StrokeProps) {}
func (d *recordingDevice) FillPath(path *Path, props FillProps)     {}
func (d *recordingDevice) PushClip(path *Path, rule FillRule)       { d.clipPushes++ }
func (d *recordingDevice) PopClip()                                 { d.clipPops++ }
func (d *recordingDevice) PushLayer(props LayerProps)               {}
func (d *recordingDevice) PopLayer()                                {}
func (d *recordingDevice) DrawRGBAImage(img *RGBAImage, m matrix.Matrix)       {}
func (d *recordingDevice) DrawStencilImage(img *StencilImage, m matrix.Matrix) {}

func TestStackClipBalance(t *testing.T) {
	dev := &recordingDevice{}
	s := NewStack(dev)

	s.Save() // q
	s.PushClip(&Path{}, FillNonZero)
	s.Save() // q
	s.PushClip(&Path{}, FillEvenOdd)
	s.PushClip(&Path{}, FillEvenOdd)
	s.Restore() // Q: should pop 2 clips pushed since the inner q
	if dev.clipPops != 2 {
		t.Errorf("clipPops = %d, want 2", dev.clipPops)
	}
	s.Restore() // Q: should pop the 1 clip pushed since the outer q
	if dev.clipPops != 3 {
		t.Errorf("clipPops = %d, want 3", dev.clipPops)
	}
	if s.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", s.Depth())
	}
}

func TestStackUnbalancedRestoreIsNoop(t *testing.T) {
	dev := &recordingDevice{}
	s := NewStack(dev)
	s.Restore() // no matching Save
	if s.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", s.Depth())
	}
}

func TestCloneIndependentDashArray(t *testing.T) {
	s := NewState()
	s.DashArray = []float64{1, 2, 3}
	cp := s.Clone()
	cp.DashArray[0] = 99
	if s.DashArray[0] != 1 {
		t.Errorf("original DashArray mutated by clone: %v", s.DashArray)
	}
}

func TestInitialState(t *testing.T) {
	s := NewState()
	if s.CTM != matrix.Identity {
		t.Errorf("CTM = %v, want identity", s.CTM)
	}
	if s.LineWidth != 1 {
		t.Errorf("LineWidth = %v, want 1", s.LineWidth)
	}
	if s.StrokeAlpha != 1 || s.FillAlpha != 1 {
		t.Errorf("alpha = %v/%v, want 1/1", s.StrokeAlpha, s.FillAlpha)
	}
}
