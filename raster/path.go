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

package raster

import (
	"math"

	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"

	"github.com/corvuspdf/corvus/graphics"
)

func toAff3(m matrix.Matrix) f64.Aff3 {
	return f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
}

// addPathToRasterizer feeds path's segments, mapped through m into
// device space, to r. CubeTo segments go straight to the rasterizer's
// own cubic flattening; it has no quadratic primitive PDF paths never
// need one anyway.
func addPathToRasterizer(r *vector.Rasterizer, path *graphics.Path, m matrix.Matrix) {
	var start [2]float32
	var have bool
	apply := func(x, y float64) (float32, float32) {
		return float32(m[0]*x + m[2]*y + m[4]), float32(m[1]*x + m[3]*y + m[5])
	}
	for _, seg := range path.Segments {
		switch seg.Op {
		case graphics.OpMoveTo:
			x, y := apply(seg.Points[0][0], seg.Points[0][1])
			r.MoveTo(x, y)
			start = [2]float32{x, y}
			have = true
		case graphics.OpLineTo:
			x, y := apply(seg.Points[0][0], seg.Points[0][1])
			r.LineTo(x, y)
		case graphics.OpCurveTo:
			x1, y1 := apply(seg.Points[0][0], seg.Points[0][1])
			x2, y2 := apply(seg.Points[1][0], seg.Points[1][1])
			x3, y3 := apply(seg.Points[2][0], seg.Points[2][1])
			r.CubeTo(x1, y1, x2, y2, x3, y3)
		case graphics.OpClose:
			if have {
				r.LineTo(start[0], start[1])
			}
		}
	}
}

func addPolygon(r *vector.Rasterizer, pts [][2]float32) {
	if len(pts) == 0 {
		return
	}
	r.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		r.LineTo(p[0], p[1])
	}
	r.LineTo(pts[0][0], pts[0][1])
}

// strokeOutline flattens path (through m, into device space) and
// widens each segment into its own rectangular quad: straight,
// per-segment quads rather than a proper joined/mitered stroke polygon.
// Caps and joins are not modeled; the quads simply overlap at shared
// vertices, which looks correct for butt-ish joins at the line widths
// this device typically renders.
func strokeOutline(path *graphics.Path, m matrix.Matrix, props graphics.StrokeProps) [][][2]float32 {
	lineWidth := props.LineWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}
	// approximate device-space scale from m, since a PDF line width is
	// defined in user space and must grow/shrink with the CTM.
	scale := (math.Hypot(m[0], m[1]) + math.Hypot(m[2], m[3])) / 2
	halfWidth := lineWidth * scale / 2
	if halfWidth < 0.35 {
		halfWidth = 0.35
	}

	apply := func(x, y float64) (float64, float64) {
		return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
	}

	var quads [][][2]float32
	var curX, curY, startX, startY float64
	have := false

	segment := func(x1, y1, x2, y2 float64) {
		vx, vy := x2-x1, y2-y1
		vl := math.Hypot(vx, vy)
		if vl == 0 {
			return
		}
		nx, ny := -vy/vl*halfWidth, vx/vl*halfWidth
		quads = append(quads, [][2]float32{
			{float32(x1 + nx), float32(y1 + ny)},
			{float32(x2 + nx), float32(y2 + ny)},
			{float32(x2 - nx), float32(y2 - ny)},
			{float32(x1 - nx), float32(y1 - ny)},
		})
	}

	flattenCubic := func(x0, y0, x1, y1, x2, y2, x3, y3 float64) {
		const n = 16
		px, py := x0, y0
		for i := 1; i <= n; i++ {
			t := float64(i) / n
			mt := 1 - t
			x := mt*mt*mt*x0 + 3*mt*mt*t*x1 + 3*mt*t*t*x2 + t*t*t*x3
			y := mt*mt*mt*y0 + 3*mt*mt*t*y1 + 3*mt*t*t*y2 + t*t*t*y3
			segment(px, py, x, y)
			px, py = x, y
		}
		curX, curY = x3, y3
	}

	for _, seg := range path.Segments {
		switch seg.Op {
		case graphics.OpMoveTo:
			curX, curY = apply(seg.Points[0][0], seg.Points[0][1])
			startX, startY = curX, curY
			have = true
		case graphics.OpLineTo:
			x, y := apply(seg.Points[0][0], seg.Points[0][1])
			if have {
				segment(curX, curY, x, y)
			}
			curX, curY = x, y
		case graphics.OpCurveTo:
			x1, y1 := apply(seg.Points[0][0], seg.Points[0][1])
			x2, y2 := apply(seg.Points[1][0], seg.Points[1][1])
			x3, y3 := apply(seg.Points[2][0], seg.Points[2][1])
			if have {
				flattenCubic(curX, curY, x1, y1, x2, y2, x3, y3)
			}
		case graphics.OpClose:
			if have {
				segment(curX, curY, startX, startY)
				curX, curY = startX, startY
			}
		}
	}
	return quads
}
