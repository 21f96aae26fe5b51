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

// Package graphics holds the graphics-state stack, the current-path
// builder, and the Device capability interface. The content-stream interpreter (package content) mutates a
// State through this package's methods; a Device does the actual
// drawing.
package graphics

import (
	"seehuhn.de/go/geom/matrix"
)

// SegmentOp names the kind of a Path segment, mirroring the PDF path
// construction operators ("Path construction").
type SegmentOp uint8

const (
	OpMoveTo SegmentOp = iota
	OpLineTo
	OpCurveTo // two control points, like PDF "c"
	OpClose
)

// Segment is one element of a Path, already in user space (the CTM has
// not been applied; Device implementations receive paths alongside the
// CTM that was active when they were built).
type Segment struct {
	Op     SegmentOp
	Points [3][2]float64 // meaning depends on Op: 1 point for MoveTo/LineTo, 3 for CurveTo, 0 for Close
}

// Path is the current-path builder: an ordered list of subpaths, built
// up by the path-construction operators and consumed (then reset) by a
// painting operator.
type Path struct {
	Segments []Segment

	// start/cur track the current point and the start of the current
	// subpath, needed to implement "v"/"y"/"h" and "re" in terms of the
	// segment primitives above.
	start, cur [2]float64
	hasCurrent bool
}

// Reset discards all segments, as happens after every painting operator.
func (p *Path) Reset() {
	p.Segments = p.Segments[:0]
	p.hasCurrent = false
}

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool { return len(p.Segments) == 0 }

func (p *Path) MoveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpMoveTo, Points: [3][2]float64{{x, y}}})
	p.start = [2]float64{x, y}
	p.cur = [2]float64{x, y}
	p.hasCurrent = true
}

func (p *Path) LineTo(x, y float64) {
	if !p.hasCurrent {
		p.MoveTo(x, y)
		return
	}
	p.Segments = append(p.Segments, Segment{Op: OpLineTo, Points: [3][2]float64{{x, y}}})
	p.cur = [2]float64{x, y}
}

func (p *Path) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	if !p.hasCurrent {
		p.MoveTo(x1, y1)
	}
	p.Segments = append(p.Segments, Segment{Op: OpCurveTo, Points: [3][2]float64{{x1, y1}, {x2, y2}, {x3, y3}}})
	p.cur = [2]float64{x3, y3}
}

// CurveToV implements the "v" operator: the first control point equals
// the current point.
func (p *Path) CurveToV(x2, y2, x3, y3 float64) {
	p.CurveTo(p.cur[0], p.cur[1], x2, y2, x3, y3)
}

// CurveToY implements the "y" operator: the second control point equals
// the final point.
func (p *Path) CurveToY(x1, y1, x3, y3 float64) {
	p.CurveTo(x1, y1, x3, y3, x3, y3)
}

func (p *Path) Close() {
	if !p.hasCurrent {
		return
	}
	p.Segments = append(p.Segments, Segment{Op: OpClose})
	p.cur = p.start
}

// Rect implements the "re" operator: a complete closed rectangle
// subpath, counter-clockwise from the lower-left corner.
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Clone returns an independent copy of the path's segment list, so a
// Path queued as a pending clip is not mutated by subsequent path
// construction operators.
func (p *Path) Clone() *Path {
	cp := &Path{
		Segments:   append([]Segment(nil), p.Segments...),
		start:      p.start,
		cur:        p.cur,
		hasCurrent: p.hasCurrent,
	}
	return cp
}

// Transform returns a copy of the path with every point mapped through m.
func (p *Path) Transform(m matrix.Matrix) *Path {
	cp := &Path{Segments: make([]Segment, len(p.Segments))}
	for i, seg := range p.Segments {
		out := seg
		n := 0
		switch seg.Op {
		case OpMoveTo, OpLineTo:
			n = 1
		case OpCurveTo:
			n = 3
		}
		for j := 0; j < n; j++ {
			x, y := seg.Points[j][0], seg.Points[j][1]
			out.Points[j][0] = m[0]*x + m[2]*y + m[4]
			out.Points[j][1] = m[1]*x + m[3]*y + m[5]
		}
		cp.Segments[i] = out
	}
	return cp
}

// FillRule selects between nonzero-winding and even-odd fill, matching
// the "f"/"f*" and "W"/"W*" operator pairs.
type FillRule uint8

const (
	FillNonZero FillRule = iota
	FillEvenOdd
)
