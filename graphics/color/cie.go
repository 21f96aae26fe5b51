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

package color

import "math"

// SpaceCalGray implements the CIE-based CalGray family (ISO 32000-1
// §8.6.5.2): a single gray value raised to Gamma, scaled by WhitePoint.
type SpaceCalGray struct {
	WhitePoint [3]float64
	BlackPoint [3]float64
	Gamma      float64
}

// CalGray constructs a CalGray colorspace. blackPoint may be nil
// (defaults to [0,0,0]).
func CalGray(whitePoint [3]float64, blackPoint []float64, gamma float64) (*SpaceCalGray, error) {
	if gamma == 0 {
		gamma = 1
	}
	s := &SpaceCalGray{WhitePoint: whitePoint, Gamma: gamma}
	if len(blackPoint) == 3 {
		s.BlackPoint = [3]float64{blackPoint[0], blackPoint[1], blackPoint[2]}
	}
	return s, nil
}

func (s *SpaceCalGray) Family() string     { return "CalGray" }
func (s *SpaceCalGray) NumComponents() int { return 1 }
func (s *SpaceCalGray) Default() Color     { return colorCalGray{space: s, Value: 0} }
func (s *SpaceCalGray) NewColor(c []float64) (Color, error) {
	return colorCalGray{space: s, Value: clamp01(at(c, 0))}, nil
}
func (s *SpaceCalGray) New(value float64) colorCalGray {
	return colorCalGray{space: s, Value: clamp01(value)}
}

type colorCalGray struct {
	space *SpaceCalGray
	Value float64
}

func (c colorCalGray) ToXYZ() (X, Y, Z float64) {
	A := math.Pow(c.Value, c.space.Gamma)
	wp := c.space.WhitePoint
	X, Y, Z = A*wp[0], A*wp[1], A*wp[2]
	return bradfordAdapt(X, Y, Z, wp, WhitePointD50)
}

func (c colorCalGray) FromXYZAdapted(X, Y, Z float64) colorCalGray {
	// Inverse of ToXYZ's luminance scaling for a Y already adapted to
	// this space's whitepoint (FromXYZ below does its own adaptation).
	return colorCalGray{space: c.space, Value: clamp01(math.Pow(Y, 1/c.space.Gamma))}
}

func (c colorCalGray) RGBA() (r, g, b, a uint32) {
	X, Y, Z := c.ToXYZ()
	rf, gf, bf := xyzToSRGB(X, Y, Z)
	return toUint32(rf), toUint32(gf), toUint32(bf), 0xffff
}

// FromXYZ inverts ToXYZ for round-tripping: it adapts D50 XYZ back to
// the space's whitepoint and undoes the gamma on Y.
func (s *SpaceCalGray) FromXYZ(X, Y, Z float64) Color {
	X, Y, Z = bradfordAdapt(X, Y, Z, WhitePointD50, s.WhitePoint)
	return colorCalGray{space: s, Value: clamp01(math.Pow(math.Max(Y, 0), 1/s.Gamma))}
}

// SpaceCalRGB implements CalRGB (ISO 32000-1 §8.6.5.3): three gammas and
// a 3x3 linear transform to XYZ.
type SpaceCalRGB struct {
	WhitePoint [3]float64
	BlackPoint [3]float64
	Gamma      [3]float64
	Matrix     [9]float64 // row-major X = M*[A^gA, B^gB, C^gC]
}

func CalRGB(whitePoint [3]float64, blackPoint, gamma, matrix []float64) (*SpaceCalRGB, error) {
	s := &SpaceCalRGB{WhitePoint: whitePoint, Gamma: [3]float64{1, 1, 1}}
	s.Matrix = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	if len(blackPoint) == 3 {
		s.BlackPoint = [3]float64{blackPoint[0], blackPoint[1], blackPoint[2]}
	}
	if len(gamma) == 3 {
		s.Gamma = [3]float64{gamma[0], gamma[1], gamma[2]}
	}
	if len(matrix) == 9 {
		copy(s.Matrix[:], matrix)
	}
	return s, nil
}

func (s *SpaceCalRGB) Family() string     { return "CalRGB" }
func (s *SpaceCalRGB) NumComponents() int { return 3 }
func (s *SpaceCalRGB) Default() Color     { return colorCalRGB{space: s} }
func (s *SpaceCalRGB) NewColor(c []float64) (Color, error) {
	return colorCalRGB{space: s, Values: [3]float64{clamp01(at(c, 0)), clamp01(at(c, 1)), clamp01(at(c, 2))}}, nil
}
func (s *SpaceCalRGB) New(r, g, b float64) colorCalRGB {
	return colorCalRGB{space: s, Values: [3]float64{clamp01(r), clamp01(g), clamp01(b)}}
}

type colorCalRGB struct {
	space  *SpaceCalRGB
	Values [3]float64
}

func (c colorCalRGB) ToXYZ() (X, Y, Z float64) {
	g := c.space.Gamma
	A := math.Pow(c.Values[0], g[0])
	B := math.Pow(c.Values[1], g[1])
	C := math.Pow(c.Values[2], g[2])
	m := c.space.Matrix
	X = m[0]*A + m[1]*B + m[2]*C
	Y = m[3]*A + m[4]*B + m[5]*C
	Z = m[6]*A + m[7]*B + m[8]*C
	return bradfordAdapt(X, Y, Z, c.space.WhitePoint, WhitePointD50)
}

func (c colorCalRGB) RGBA() (r, g, b, a uint32) {
	X, Y, Z := c.ToXYZ()
	rf, gf, bf := xyzToSRGB(X, Y, Z)
	return toUint32(rf), toUint32(gf), toUint32(bf), 0xffff
}

// FromXYZ inverts ToXYZ: it adapts D50 XYZ back to the space's
// whitepoint, inverts the linear transform, and then inverts each
// channel's gamma (negative intermediate values are clamped to zero
// first). The drawing path does not call it.
func (s *SpaceCalRGB) FromXYZ(X, Y, Z float64) Color {
	X, Y, Z = bradfordAdapt(X, Y, Z, WhitePointD50, s.WhitePoint)
	mInv := invert3x3(s.Matrix)
	A := mInv[0]*X + mInv[1]*Y + mInv[2]*Z
	B := mInv[3]*X + mInv[4]*Y + mInv[5]*Z
	C := mInv[6]*X + mInv[7]*Y + mInv[8]*Z
	g := s.Gamma
	inv := func(v float64, gamma float64) float64 {
		if v < 0 {
			v = 0
		}
		return math.Pow(v, 1/gamma)
	}
	return colorCalRGB{space: s, Values: [3]float64{inv(A, g[0]), inv(B, g[1]), inv(C, g[2])}}
}

func invert3x3(m [9]float64) [9]float64 {
	det := m[0]*(m[4]*m[8]-m[5]*m[7]) - m[1]*(m[3]*m[8]-m[5]*m[6]) + m[2]*(m[3]*m[7]-m[4]*m[6])
	if det == 0 {
		return [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	}
	inv := 1 / det
	return [9]float64{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}
}

// SpaceLab implements the CIE-based Lab family (ISO 32000-1 §8.6.5.4).
type SpaceLab struct {
	WhitePoint [3]float64
	BlackPoint [3]float64
	Range      [4]float64 // amin, amax, bmin, bmax
}

func Lab(whitePoint [3]float64, blackPoint, decodeRange []float64) (*SpaceLab, error) {
	s := &SpaceLab{WhitePoint: whitePoint, Range: [4]float64{-100, 100, -100, 100}}
	if len(blackPoint) == 3 {
		s.BlackPoint = [3]float64{blackPoint[0], blackPoint[1], blackPoint[2]}
	}
	if len(decodeRange) == 4 {
		copy(s.Range[:], decodeRange)
	}
	return s, nil
}

func (s *SpaceLab) Family() string     { return "Lab" }
func (s *SpaceLab) NumComponents() int { return 3 }
func (s *SpaceLab) Default() Color     { return colorLab{space: s} }
func (s *SpaceLab) NewColor(c []float64) (Color, error) {
	L := clampRange(at(c, 0), 0, 100)
	a := clampRange(at(c, 1), s.Range[0], s.Range[1])
	b := clampRange(at(c, 2), s.Range[2], s.Range[3])
	return colorLab{space: s, Values: [3]float64{L, a, b}}, nil
}
func (s *SpaceLab) New(L, a, b float64) (Color, error) {
	return s.NewColor([]float64{L, a, b})
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type colorLab struct {
	space  *SpaceLab
	Values [3]float64 // L, a, b
}

func (c colorLab) ToXYZ() (X, Y, Z float64) {
	L, a, b := c.Values[0], c.Values[1], c.Values[2]
	fy := (L + 16) / 116
	fx := fy + a/500
	fz := fy - b/200

	finv := func(t float64) float64 {
		if t > 6.0/29.0 {
			return t * t * t
		}
		return 3 * (6.0 / 29.0) * (6.0 / 29.0) * (t - 4.0/29.0)
	}

	wp := c.space.WhitePoint
	X = wp[0] * finv(fx)
	Y = wp[1] * finv(fy)
	Z = wp[2] * finv(fz)
	return bradfordAdapt(X, Y, Z, wp, WhitePointD50)
}

func (c colorLab) RGBA() (r, g, b, a uint32) {
	X, Y, Z := c.ToXYZ()
	rf, gf, bf := xyzToSRGB(X, Y, Z)
	return toUint32(rf), toUint32(gf), toUint32(bf), 0xffff
}

func (s *SpaceLab) FromXYZ(X, Y, Z float64) Color {
	X, Y, Z = bradfordAdapt(X, Y, Z, WhitePointD50, s.WhitePoint)
	wp := s.WhitePoint
	f := func(t float64) float64 {
		if t > math.Pow(6.0/29.0, 3) {
			return math.Cbrt(t)
		}
		return t/(3*(6.0/29.0)*(6.0/29.0)) + 4.0/29.0
	}
	fx, fy, fz := f(X/wp[0]), f(Y/wp[1]), f(Z/wp[2])
	L := 116*fy - 16
	a := 500 * (fx - fy)
	bb := 200 * (fy - fz)
	return colorLab{space: s, Values: [3]float64{L, a, bb}}
}
