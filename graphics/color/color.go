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

// Package color implements the PDF colorspace family:
// the device spaces, the CIE-based spaces (CalGray, CalRGB, Lab), ICC
// profiles, Indexed, Separation/DeviceN, and Pattern, plus the sRGB
// conversion entry point every space funnels through for display.
package color

import "math"

// Color is a fully-resolved color value in its native colorspace. It
// mirrors the standard library's image/color.Color shape (an RGBA
// accessor) and adds ToXYZ for the CIE-based conversion pipeline that
// CalGray/CalRGB/Lab/ICCBased route through.
type Color interface {
	// RGBA returns the color converted to non-premultiplied sRGB,
	// alpha-scaled to [0, 0xffff] (alpha is always fully opaque here;
	// PDF's own alpha lives in the graphics state, not the color).
	RGBA() (r, g, b, a uint32)

	// ToXYZ returns the CIE 1931 XYZ tristimulus values (D50-adapted),
	// the common currency CalGray/CalRGB/Lab/ICCBased convert through
	// on their way to sRGB.
	ToXYZ() (X, Y, Z float64)
}

// colorDeviceGray, colorDeviceRGB, colorDeviceCMYK are the three device
// colors ("DeviceGray, DeviceRGB, DeviceCMYK"); conversion
// to sRGB follows the linear formulas of ISO 32000-1 §10.4.
type colorDeviceGray float64

func (c colorDeviceGray) RGBA() (r, g, b, a uint32) {
	v := toUint32(float64(c))
	return v, v, v, 0xffff
}

func (c colorDeviceGray) ToXYZ() (X, Y, Z float64) {
	return srgbToXYZ(float64(c), float64(c), float64(c))
}

type colorDeviceRGB struct{ R, G, B float64 }

func (c colorDeviceRGB) RGBA() (r, g, b, a uint32) {
	return toUint32(c.R), toUint32(c.G), toUint32(c.B), 0xffff
}

func (c colorDeviceRGB) ToXYZ() (X, Y, Z float64) {
	return srgbToXYZ(c.R, c.G, c.B)
}

type colorDeviceCMYK struct{ C, M, Y, K float64 }

// RGBA converts CMYK to RGB using the simple naive (non-ICC) formula
// from ISO 32000-1 §10.4: r = 1 - min(1, c+k), and so on.
func (c colorDeviceCMYK) RGBA() (r, g, b, a uint32) {
	red := 1 - math.Min(1, c.C+c.K)
	green := 1 - math.Min(1, c.M+c.K)
	blue := 1 - math.Min(1, c.Y+c.K)
	return toUint32(red), toUint32(green), toUint32(blue), 0xffff
}

func (c colorDeviceCMYK) ToXYZ() (X, Y, Z float64) {
	r, g, b, _ := c.RGBA()
	return srgbToXYZ(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
}

// Gray, RGB, CMYK, and SRGB are convenience constructors for the three
// device colors plus a color already expressed in sRGB (used directly
// by ICC-profile fallbacks and by package raster's own drawing code).
func Gray(v float64) Color        { return colorDeviceGray(clamp01(v)) }
func RGB(r, g, b float64) Color   { return colorDeviceRGB{clamp01(r), clamp01(g), clamp01(b)} }
func CMYK(c, m, y, k float64) Color {
	return colorDeviceCMYK{clamp01(c), clamp01(m), clamp01(y), clamp01(k)}
}
func SRGB(r, g, b float64) Color { return colorDeviceRGB{clamp01(r), clamp01(g), clamp01(b)} }

// ToSRGB normalizes any Color to non-premultiplied sRGB component
// values in [0, 1]. Every consumer that needs a single common currency
// for painting (solid fills, the image pipeline, the shading evaluator)
// goes through this instead of each calling RGBA and rescaling itself.
// DeviceGray and DeviceRGB values are returned as they are; every other
// color goes through RGBA and so carries its 16-bit rounding.
func ToSRGB(c Color) (r, g, b float64) {
	switch v := c.(type) {
	case colorDeviceGray:
		return float64(v), float64(v), float64(v)
	case colorDeviceRGB:
		return v.R, v.G, v.B
	}
	ri, gi, bi, _ := c.RGBA()
	return float64(ri) / 0xffff, float64(gi) / 0xffff, float64(bi) / 0xffff
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toUint32(v float64) uint32 {
	v = clamp01(v)
	return uint32(math.Round(v * 0xffff))
}

// srgbToXYZ converts linear-light... actually gamma-encoded sRGB
// components straight to D50-adapted XYZ, for colors (device spaces)
// that have no better-defined whitepoint of their own.
func srgbToXYZ(r, g, b float64) (X, Y, Z float64) {
	lr, lg, lb := srgbDecode(r), srgbDecode(g), srgbDecode(b)
	// sRGB (D65) linear -> XYZ (D65), IEC 61966-2-1.
	X = 0.4124564*lr + 0.3575761*lg + 0.1804375*lb
	Y = 0.2126729*lr + 0.7151522*lg + 0.0721750*lb
	Z = 0.0193339*lr + 0.1191920*lg + 0.9503041*lb
	return bradfordAdapt(X, Y, Z, WhitePointD65, WhitePointD50)
}

// xyzToSRGB is srgbToXYZ's inverse entry point: D50 XYZ to gamma-encoded
// sRGB, the conversion every CIE-based space and ICC fallback ends at
// before a Device consumes it ("Conversion to sRGB").
func xyzToSRGB(X, Y, Z float64) (r, g, b float64) {
	X, Y, Z = bradfordAdapt(X, Y, Z, WhitePointD50, WhitePointD65)
	lr := 3.2404542*X - 1.5371385*Y - 0.4985314*Z
	lg := -0.9692660*X + 1.8760108*Y + 0.0415560*Z
	lb := 0.0556434*X - 0.2040259*Y + 1.0572252*Z
	return srgbEncode(lr), srgbEncode(lg), srgbEncode(lb)
}

func srgbDecode(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func srgbEncode(c float64) float64 {
	c = clamp01(c)
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

// WhitePointD50 and WhitePointD65 are the two CIE standard illuminants
// this package adapts between: PDF's CIE-based spaces specify their own
// whitepoint (often D65 or a custom measured one), while the sRGB
// output space is conventionally D50-relative internally and D65 at
// the display end (ICC's PCS convention).
var (
	WhitePointD50 = [3]float64{0.9642, 1.0, 0.8249}
	WhitePointD65 = [3]float64{0.9505, 1.0, 1.0890}
)

// bradfordAdapt performs chromatic adaptation from one whitepoint to
// another using the Bradford cone-response matrix, the standard
// ICC-profile adaptation method.
func bradfordAdapt(X, Y, Z float64, from, to [3]float64) (float64, float64, float64) {
	// Bradford matrix and its inverse (fixed constants, ICC spec §E.3).
	m := [9]float64{
		0.8951000, 0.2664000, -0.1614000,
		-0.7502000, 1.7135000, 0.0367000,
		0.0389000, -0.0685000, 1.0296000,
	}
	mInv := [9]float64{
		0.9869929, -0.1470543, 0.1599627,
		0.4323053, 0.5183603, 0.0492912,
		-0.0085287, 0.0400428, 0.9684867,
	}

	mul := func(m [9]float64, x, y, z float64) (float64, float64, float64) {
		return m[0]*x + m[1]*y + m[2]*z,
			m[3]*x + m[4]*y + m[5]*z,
			m[6]*x + m[7]*y + m[8]*z
	}

	sFrom1, sFrom2, sFrom3 := mul(m, from[0], from[1], from[2])
	sTo1, sTo2, sTo3 := mul(m, to[0], to[1], to[2])

	rhoX, rhoY, rhoZ := mul(m, X, Y, Z)
	rhoX *= sTo1 / sFrom1
	rhoY *= sTo2 / sFrom2
	rhoZ *= sTo3 / sFrom3

	return mul(mInv, rhoX, rhoY, rhoZ)
}
