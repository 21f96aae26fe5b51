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
	"testing"

	"seehuhn.de/go/geom/matrix"

	"github.com/corvuspdf/corvus/graphics"
)

func rectPath(x0, y0, x1, y1 float64) *graphics.Path {
	p := &graphics.Path{}
	p.MoveTo(x0, y0)
	p.LineTo(x1, y0)
	p.LineTo(x1, y1)
	p.LineTo(x0, y1)
	p.Close()
	return p
}

func solidPaint(r, g, b float64) graphics.Paint {
	return graphics.Paint{Kind: graphics.PaintSolid, Color: [4]float64{r, g, b, 0}, NComp: 3}
}

func TestNewDeviceWhiteBackground(t *testing.T) {
	dev := NewDevice(100, 100, 72)
	c := dev.Image.RGBAAt(5, 5)
	if c.R != 255 || c.G != 255 || c.B != 255 || c.A != 255 {
		t.Fatalf("background = %+v, want opaque white", c)
	}
}

func TestFillPathSolidColor(t *testing.T) {
	dev := NewDevice(100, 100, 72)
	dev.SetPaint(solidPaint(1, 0, 0))
	dev.FillPath(rectPath(10, 10, 40, 40), graphics.FillProps{Rule: graphics.FillNonZero})

	// page (20,20) maps to device (20, height-20) under the default
	// identity CTM (no cm issued) at 72 DPI.
	inside := dev.Image.RGBAAt(20, dev.height-20)
	if inside.R != 255 || inside.G != 0 || inside.B != 0 {
		t.Errorf("inside fill = %+v, want opaque red", inside)
	}

	outside := dev.Image.RGBAAt(90, 10)
	if outside.R != 255 || outside.G != 255 || outside.B != 255 {
		t.Errorf("outside fill = %+v, want still white", outside)
	}
}

func TestPushClipRestrictsFill(t *testing.T) {
	dev := NewDevice(100, 100, 72)
	dev.PushClip(rectPath(0, 0, 20, 100), graphics.FillNonZero)
	dev.SetPaint(solidPaint(0, 0, 1))
	dev.FillPath(rectPath(0, 0, 100, 100), graphics.FillProps{Rule: graphics.FillNonZero})
	dev.PopClip()

	clipped := dev.Image.RGBAAt(10, 50)
	if clipped.B != 255 || clipped.R != 0 {
		t.Errorf("inside clip = %+v, want opaque blue", clipped)
	}
	unclipped := dev.Image.RGBAAt(80, 50)
	if unclipped.R != 255 || unclipped.B != 0 {
		t.Errorf("outside clip = %+v, want untouched white", unclipped)
	}

	// a fill issued after PopClip is no longer restricted.
	dev.SetPaint(solidPaint(0, 1, 0))
	dev.FillPath(rectPath(70, 0, 90, 100), graphics.FillProps{Rule: graphics.FillNonZero})
	now := dev.Image.RGBAAt(80, 50)
	if now.G != 255 {
		t.Errorf("fill after PopClip = %+v, want opaque green", now)
	}
}

func TestStrokePathPaintsAnOutline(t *testing.T) {
	dev := NewDevice(100, 100, 72)
	dev.SetPaint(solidPaint(0, 0, 0))
	path := &graphics.Path{}
	path.MoveTo(10, 50)
	path.LineTo(90, 50)
	dev.StrokePath(path, graphics.StrokeProps{LineWidth: 4})

	onLine := dev.Image.RGBAAt(50, dev.height-50)
	if onLine.R != 0 || onLine.G != 0 || onLine.B != 0 {
		t.Errorf("on stroked line = %+v, want black", onLine)
	}
	farFromLine := dev.Image.RGBAAt(50, dev.height-10)
	if farFromLine.R != 255 {
		t.Errorf("far from stroke = %+v, want untouched white", farFromLine)
	}
}

func TestFillPathShadingPattern(t *testing.T) {
	dev := NewDevice(100, 100, 72)
	shading := func(x, y float64) (c [4]float64, nComp int, ok bool) {
		if x < 50 {
			return [4]float64{1, 0, 0, 0}, 3, true
		}
		return [4]float64{0, 1, 0, 0}, 3, true
	}
	dev.SetPaint(graphics.Paint{
		Kind: graphics.PaintPattern,
		Pattern: graphics.PatternPaint{
			Matrix:  matrix.Identity,
			Shading: shading,
		},
	})
	dev.FillPath(rectPath(0, 0, 100, 100), graphics.FillProps{Rule: graphics.FillNonZero})

	left := dev.Image.RGBAAt(10, 50)
	if left.R != 255 || left.G != 0 {
		t.Errorf("left half = %+v, want red from shading", left)
	}
	right := dev.Image.RGBAAt(90, 50)
	if right.G != 255 || right.R != 0 {
		t.Errorf("right half = %+v, want green from shading", right)
	}
}

func TestDrawRGBAImagePlacement(t *testing.T) {
	dev := NewDevice(10, 10, 72)
	// a 2x2 source, top row red, bottom row blue.
	src := &graphics.RGBAImage{
		Width:  2,
		Height: 2,
		Pix: []byte{
			255, 0, 0, 255, 255, 0, 0, 255,
			0, 0, 255, 255, 0, 0, 255, 255,
		},
	}
	// unit square mapped onto the full 10x10 page.
	dev.DrawRGBAImage(src, matrix.Matrix{10, 0, 0, 10, 0, 0})

	top := dev.Image.RGBAAt(5, 1)
	if top.R != 255 || top.B != 0 {
		t.Errorf("top of image = %+v, want red (image row 0 is top of unit square)", top)
	}
	bottom := dev.Image.RGBAAt(5, 8)
	if bottom.B != 255 || bottom.R != 0 {
		t.Errorf("bottom of image = %+v, want blue", bottom)
	}
}

func TestDrawStencilImagePaintsCurrentColor(t *testing.T) {
	dev := NewDevice(10, 10, 72)
	dev.SetPaint(solidPaint(0, 1, 0))
	// 8x1 stencil, only the leftmost bit set.
	stencil := &graphics.StencilImage{
		Width:  8,
		Height: 1,
		Bits:   []byte{0x80},
	}
	dev.DrawStencilImage(stencil, matrix.Matrix{10, 0, 0, 10, 0, 0})

	painted := dev.Image.RGBAAt(0, 5)
	if painted.G != 255 || painted.R != 0 {
		t.Errorf("painted stencil pixel = %+v, want green", painted)
	}
	unpainted := dev.Image.RGBAAt(9, 5)
	if unpainted.R != 255 || unpainted.G != 255 {
		t.Errorf("unset stencil bit = %+v, want untouched white", unpainted)
	}
}

func TestPushLayerAttenuatesOpacity(t *testing.T) {
	dev := NewDevice(100, 100, 72)
	dev.PushLayer(graphics.LayerProps{Opacity: 0.5})
	dev.SetPaint(solidPaint(0, 0, 0))
	dev.FillPath(rectPath(0, 0, 100, 100), graphics.FillProps{Rule: graphics.FillNonZero})
	dev.PopLayer()

	got := dev.Image.RGBAAt(50, 50)
	// over white at 50% opacity, black should land near mid-gray.
	if got.R < 100 || got.R > 160 {
		t.Errorf("half-opacity fill red channel = %d, want roughly 127", got.R)
	}
}

func TestPushLayerSoftMaskAttenuatesFill(t *testing.T) {
	dev := NewDevice(100, 100, 72)
	sm := &graphics.SoftMask{
		Luminosity: true,
		Luma: func(x, y float64) float64 {
			if x < 50 {
				return 1
			}
			return 0
		},
	}
	dev.PushLayer(graphics.LayerProps{Opacity: 1, SoftMask: sm})
	dev.SetPaint(solidPaint(0, 0, 0))
	dev.FillPath(rectPath(0, 0, 100, 100), graphics.FillProps{Rule: graphics.FillNonZero})
	dev.PopLayer()

	masked := dev.Image.RGBAAt(75, 50)
	if masked.R != 255 {
		t.Errorf("masked-out region = %+v, want untouched white", masked)
	}
	unmasked := dev.Image.RGBAAt(25, 50)
	if unmasked.R != 0 {
		t.Errorf("unmasked region = %+v, want black", unmasked)
	}
}

func TestInvert2x3RoundTrips(t *testing.T) {
	m := matrix.Matrix{2, 0, 0, 3, 10, 20}
	inv := invert2x3(m)
	x, y := 5.0, 7.0
	dx := m[0]*x + m[2]*y + m[4]
	dy := m[1]*x + m[3]*y + m[5]
	bx := inv[0]*dx + inv[2]*dy + inv[4]
	by := inv[1]*dx + inv[3]*dy + inv[5]
	if diff := bx - x; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("round-tripped x = %v, want %v", bx, x)
	}
	if diff := by - y; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("round-tripped y = %v, want %v", by, y)
	}
}
