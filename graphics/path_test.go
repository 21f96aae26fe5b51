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

func TestRectIsClosed(t *testing.T) {
	p := &Path{}
	p.Rect(10, 10, 5, 5)
	if len(p.Segments) != 5 {
		t.Fatalf("len(Segments) = %d, want 5 (move+3 lines+close)", len(p.Segments))
	}
	if p.Segments[len(p.Segments)-1].Op != OpClose {
		t.Errorf("last segment = %v, want OpClose", p.Segments[len(p.Segments)-1].Op)
	}
}

func TestCurveToVUsesCurrentPoint(t *testing.T) {
	p := &Path{}
	p.MoveTo(1, 2)
	p.CurveToV(3, 4, 5, 6)
	seg := p.Segments[len(p.Segments)-1]
	if seg.Points[0] != [2]float64{1, 2} {
		t.Errorf("first control point = %v, want current point (1,2)", seg.Points[0])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := &Path{}
	p.MoveTo(0, 0)
	p.LineTo(1, 1)
	cp := p.Clone()
	cp.LineTo(2, 2)
	if len(p.Segments) != 2 {
		t.Errorf("original mutated by clone: %d segments, want 2", len(p.Segments))
	}
}

func TestTransformTranslates(t *testing.T) {
	p := &Path{}
	p.MoveTo(1, 1)
	out := p.Transform(matrix.Translate(10, 0))
	got := out.Segments[0].Points[0]
	if got != [2]float64{11, 1} {
		t.Errorf("transformed point = %v, want (11,1)", got)
	}
}

func TestLineToWithoutMoveToStartsSubpath(t *testing.T) {
	p := &Path{}
	p.LineTo(5, 5)
	if len(p.Segments) != 1 || p.Segments[0].Op != OpMoveTo {
		t.Errorf("LineTo with no current point should synthesize a MoveTo")
	}
}
