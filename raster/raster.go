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

// Package raster is the one concrete [github.com/corvuspdf/corvus/graphics.Device]
// in this module: it rasterizes the operator stream that package content
// drives into a plain *image.RGBA using golang.org/x/image/vector for path
// coverage and golang.org/x/image/draw for image resampling.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/matrix"

	"github.com/corvuspdf/corvus/graphics"
)

// Device rasterizes onto a fixed-size RGBA image. It is built around a
// single CTM, a clip-mask stack, and a layer-opacity stack; every
// painting call resolves its coverage, intersects it with whatever clip
// and layer opacity are active, and composites straight into Image with
// the standard "over" operator.
type Device struct {
	Image *image.RGBA

	width, height int
	base          matrix.Matrix // page points -> device pixels (DPI scale + Y-flip)
	ctm           matrix.Matrix // base composed with the content-stream CTM

	paint graphics.Paint

	clips []*image.Alpha // clips[len-1], if any, is the active clip; nil entries mean "unclipped"

	layers []layerEntry

	rast *vector.Rasterizer
}

type layerEntry struct {
	opacity  float64
	softMask *graphics.SoftMask
}

// NewDevice creates a Device for a page of the given size in PDF points,
// rendered at dpi pixels per inch. The page's lower-left corner (PDF's
// coordinate origin) lands at the bottom-left of the image; everything
// above is a straightforward Y-flip plus a uniform DPI scale.
func NewDevice(pageWidth, pageHeight, dpi float64) *Device {
	if dpi <= 0 {
		dpi = 72
	}
	scale := dpi / 72.0
	w := int(pageWidth*scale + 0.5)
	h := int(pageHeight*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	base := matrix.Matrix{scale, 0, 0, -scale, 0, float64(h)}
	return &Device{
		Image:  img,
		width:  w,
		height: h,
		base:   base,
		ctm:    base,
		rast:   vector.NewRasterizer(w, h),
	}
}

func (d *Device) SetTransform(m matrix.Matrix) {
	d.ctm = m.Mul(d.base)
}

// SetPaintTransform exists to satisfy the Device contract; this
// implementation takes a pattern's own transform straight from
// graphics.PatternPaint.Matrix at fill time instead (see fillWithPaint),
// since that is the value package content actually populates.
func (d *Device) SetPaintTransform(m matrix.Matrix) {}

func (d *Device) SetPaint(p graphics.Paint) {
	d.paint = p
}

// activeClip returns the clip mask in effect, or nil for "everywhere".
func (d *Device) activeClip() *image.Alpha {
	if len(d.clips) == 0 {
		return nil
	}
	return d.clips[len(d.clips)-1]
}

// layerAlpha returns the combined opacity of every open transparency
// layer, multiplied together (non-isolated, non-knockout compositing:
// see DESIGN.md).
func (d *Device) layerAlpha() float64 {
	a := 1.0
	for _, l := range d.layers {
		a *= l.opacity
	}
	return a
}

func (d *Device) PushClip(path *graphics.Path, rule graphics.FillRule) {
	mask := d.rasterizeMask(path, d.ctm)
	if cur := d.activeClip(); cur != nil {
		mask = intersectAlpha(mask, cur)
	}
	d.clips = append(d.clips, mask)
}

func (d *Device) PopClip() {
	if len(d.clips) == 0 {
		return
	}
	d.clips = d.clips[:len(d.clips)-1]
}

func (d *Device) PushLayer(props graphics.LayerProps) {
	op := props.Opacity
	if op <= 0 {
		op = 1
	}
	d.layers = append(d.layers, layerEntry{opacity: op, softMask: props.SoftMask})
	if props.Clip != nil {
		d.PushClip(props.Clip, props.ClipRule)
	}
}

func (d *Device) PopLayer() {
	if len(d.layers) == 0 {
		return
	}
	d.layers = d.layers[:len(d.layers)-1]
}

// rasterizeMask fills path (already in user space) through m into a
// fresh device-sized alpha mask. Both fill rules are rasterized as
// nonzero winding: golang.org/x/image/vector.Rasterizer has no even-odd
// mode.
func (d *Device) rasterizeMask(path *graphics.Path, m matrix.Matrix) *image.Alpha {
	d.rast.Reset(d.width, d.height)
	addPathToRasterizer(d.rast, path, m)
	mask := image.NewAlpha(image.Rect(0, 0, d.width, d.height))
	d.rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

func intersectAlpha(a, b *image.Alpha) *image.Alpha {
	out := image.NewAlpha(a.Bounds())
	for i := range out.Pix {
		out.Pix[i] = byte(uint16(a.Pix[i]) * uint16(b.Pix[i]) / 255)
	}
	return out
}

func (d *Device) FillPath(path *graphics.Path, props graphics.FillProps) {
	if d.paint.Kind == graphics.PaintPattern && d.paint.Pattern.Tile != nil {
		d.fillTile(path, props, d.paint.Pattern)
		return
	}
	mask := d.rasterizeMask(path, d.ctm)
	d.compositeMask(mask)
}

// fillTile clips to path and replays a tiling pattern's own content
// stream once, with the pattern's declared /Matrix standing in for the
// device's page-default coordinate system for the duration of the
// replay. graphics.PatternPaint carries only the replay callback and its
// matrix, not the pattern's XStep/YStep/BBox, so a single un-repeated
// cell clipped to the fill region is the most this device can do with
// the information content hands it (see DESIGN.md).
func (d *Device) fillTile(path *graphics.Path, props graphics.FillProps, pp graphics.PatternPaint) {
	d.PushClip(path, props.Rule)
	defer d.PopClip()

	savedBase, savedCTM := d.base, d.ctm
	d.base = pp.Matrix.Mul(savedBase)
	d.ctm = d.base
	_ = pp.Tile(d)
	d.base, d.ctm = savedBase, savedCTM
}

func (d *Device) StrokePath(path *graphics.Path, props graphics.StrokeProps) {
	outline := strokeOutline(path, d.ctm, props)
	mask := image.NewAlpha(image.Rect(0, 0, d.width, d.height))
	d.rast.Reset(d.width, d.height)
	for _, quad := range outline {
		addPolygon(d.rast, quad)
	}
	d.rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	d.compositeMask(mask)
}

// compositeMask paints d.paint through mask, further attenuated by the
// active clip and the open layers' combined opacity.
func (d *Device) compositeMask(mask *image.Alpha) {
	clip := d.activeClip()
	layerA := d.layerAlpha()

	var shader func(x, y int) (r, g, b float64, ok bool)
	switch {
	case d.paint.Kind == graphics.PaintPattern && d.paint.Pattern.Shading != nil:
		shader = d.shadingShader(d.paint.Pattern)
	default:
		r, g, b := d.paint.Color[0], d.paint.Color[1], d.paint.Color[2]
		shader = func(x, y int) (float64, float64, float64, bool) { return r, g, b, true }
	}

	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cov := float64(mask.AlphaAt(x, y).A) / 255
			if cov <= 0 {
				continue
			}
			if clip != nil {
				cov *= float64(clip.AlphaAt(x, y).A) / 255
				if cov <= 0 {
					continue
				}
			}
			cov *= layerA
			cov *= d.softMaskAlpha(x, y)
			if cov <= 0 {
				continue
			}
			r, g, bl, ok := shader(x, y)
			if !ok {
				continue
			}
			overPixel(d.Image, x, y, r, g, bl, cov)
		}
	}
}

// softMaskAlpha samples the innermost open layer's soft mask, if any. A
// soft mask whose Luma sampler was left nil (see the ExtGState handling
// in content/xobject.go) is treated as fully opaque rather than fully
// transparent.
func (d *Device) softMaskAlpha(x, y int) float64 {
	for i := len(d.layers) - 1; i >= 0; i-- {
		sm := d.layers[i].softMask
		if sm == nil {
			continue
		}
		if sm.Luma == nil {
			return 1
		}
		return sm.Luma(float64(x)+0.5, float64(y)+0.5)
	}
	return 1
}

// hasSoftMask reports whether any open layer carries a soft mask, so the
// fast image-drawing path can be bypassed in favor of the per-pixel loop
// that actually samples it.
func (d *Device) hasSoftMask() bool {
	for _, l := range d.layers {
		if l.softMask != nil {
			return true
		}
	}
	return false
}

// shadingShader maps a device pixel back through pp.Matrix composed with
// the page base transform to the shading's own coordinate space, so
// sample points match what a Shading's own [x0,y0]-style parameters are
// expressed in.
func (d *Device) shadingShader(pp graphics.PatternPaint) func(x, y int) (float64, float64, float64, bool) {
	combined := pp.Matrix.Mul(d.base)
	inv := invert2x3(combined)
	return func(x, y int) (float64, float64, float64, bool) {
		px, py := float64(x)+0.5, float64(y)+0.5
		sx := inv[0]*px + inv[2]*py + inv[4]
		sy := inv[1]*px + inv[3]*py + inv[5]
		c, _, ok := pp.Shading(sx, sy)
		if !ok {
			return 0, 0, 0, false
		}
		return c[0], c[1], c[2], true
	}
}

// invert2x3 returns the inverse of an affine matrix [a b c d e f], or
// the identity matrix if it is singular. Grounded on
// graphics/shading/functionbased.go's invert2x3, which solves the same
// problem for a shading's own domain transform.
func invert2x3(m matrix.Matrix) matrix.Matrix {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return matrix.Identity
	}
	a, bb, c, dd, e, f := m[0], m[1], m[2], m[3], m[4], m[5]
	ia := dd / det
	ib := -bb / det
	ic := -c / det
	id := a / det
	ie := -(e*ia + f*ic)
	iff := -(e*ib + f*id)
	return matrix.Matrix{ia, ib, ic, id, ie, iff}
}

func overPixel(img *image.RGBA, x, y int, r, g, b, alpha float64) {
	if alpha >= 1 {
		img.Set(x, y, color.NRGBA{
			R: clampByte(r), G: clampByte(g), B: clampByte(b), A: 255,
		})
		return
	}
	dst := img.RGBAAt(x, y)
	blend := func(srcC, dstC float64) uint8 {
		return clampByte(srcC*alpha + dstC/255*(1-alpha))
	}
	img.SetRGBA(x, y, colorRGBA(blend(r, float64(dst.R)), blend(g, float64(dst.G)), blend(b, float64(dst.B))))
}

func colorRGBA(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func (d *Device) DrawRGBAImage(img *graphics.RGBAImage, m matrix.Matrix) {
	src := &image.RGBA{
		Pix:    img.Pix,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
	d.drawSampledImage(src, img.Width, img.Height, m, nil)
}

func (d *Device) DrawStencilImage(img *graphics.StencilImage, m matrix.Matrix) {
	rowBytes := (img.Width + 7) / 8
	bitAt := func(x, y int) bool {
		idx := y*rowBytes + x/8
		if idx >= len(img.Bits) {
			return false
		}
		bit := img.Bits[idx]&(0x80>>uint(x%8)) != 0
		if img.Invert {
			bit = !bit
		}
		return bit
	}
	d.drawSampledImage(nil, img.Width, img.Height, m, bitAt)
}

// drawSampledImage paints the unit square (0,0)-(1,1) through m (the
// CTM in effect when Do ran) onto the device. Image row 0 is the top of
// the stored raster, which PDF always maps to v=1 of the unit square
// regardless of the CTM's own sign.
//
// src, if non-nil, is sampled with bilinear resampling via
// golang.org/x/image/draw when nothing is clipping or attenuating the
// result; otherwise (and always for a stencil, where bitAt replaces
// src) this falls back to a per-pixel nearest-neighbor loop that can
// honor the active clip and layer opacity.
func (d *Device) drawSampledImage(src *image.RGBA, srcW, srcH int, m matrix.Matrix, bitAt func(x, y int) bool) {
	combined := matrix.Matrix{1.0 / float64(srcW), 0, 0, -1.0 / float64(srcH), 0, 1}.Mul(m).Mul(d.base)

	clip := d.activeClip()
	layerA := d.layerAlpha()
	if src != nil && bitAt == nil && clip == nil && layerA >= 1 && !d.hasSoftMask() {
		s2d := toAff3(combined)
		xdraw.BiLinear.Transform(d.Image, s2d, src, src.Bounds(), draw.Over, nil)
		return
	}

	inv := invert2x3(combined)
	bounds := d.Image.Bounds()
	paintR, paintG, paintB := d.paint.Color[0], d.paint.Color[1], d.paint.Color[2]
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			sx := inv[0]*px + inv[2]*py + inv[4]
			sy := inv[1]*px + inv[3]*py + inv[5]
			ix, iy := int(sx), int(sy)
			if ix < 0 || iy < 0 || ix >= srcW || iy >= srcH {
				continue
			}
			cov := 1.0
			var r, g, b float64
			if bitAt != nil {
				if !bitAt(ix, iy) {
					continue
				}
				r, g, b = paintR, paintG, paintB
			} else {
				c := src.RGBAAt(ix, iy)
				if c.A == 0 {
					continue
				}
				cov = float64(c.A) / 255
				r, g, b = float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
			}
			if clip != nil {
				cov *= float64(clip.AlphaAt(x, y).A) / 255
			}
			cov *= layerA
			cov *= d.softMaskAlpha(x, y)
			if cov <= 0 {
				continue
			}
			overPixel(d.Image, x, y, r, g, b, cov)
		}
	}
}
