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

import (
	"math"
	"testing"
)

func TestBradfordAdaptIdentity(t *testing.T) {
	X, Y, Z := 0.4, 0.5, 0.3
	Xo, Yo, Zo := bradfordAdapt(X, Y, Z, WhitePointD65, WhitePointD65)
	if math.Abs(Xo-X) > 1e-10 || math.Abs(Yo-Y) > 1e-10 || math.Abs(Zo-Z) > 1e-10 {
		t.Errorf("identity adaptation changed the value: got (%g,%g,%g)", Xo, Yo, Zo)
	}
}

func TestBradfordAdaptRoundTrip(t *testing.T) {
	X, Y, Z := 0.3, 0.4, 0.2
	X2, Y2, Z2 := bradfordAdapt(X, Y, Z, WhitePointD50, WhitePointD65)
	X3, Y3, Z3 := bradfordAdapt(X2, Y2, Z2, WhitePointD65, WhitePointD50)
	if math.Abs(X3-X) > 1e-7 || math.Abs(Y3-Y) > 1e-7 || math.Abs(Z3-Z) > 1e-7 {
		t.Errorf("round trip failed: got (%g,%g,%g), want (%g,%g,%g)", X3, Y3, Z3, X, Y, Z)
	}
}

func TestDeviceGrayWhite(t *testing.T) {
	c := Gray(1)
	r, g, b, a := c.RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("Gray(1).RGBA() = (%d,%d,%d,%d), want all 0xffff", r, g, b, a)
	}
}

func TestDeviceCMYKPureBlack(t *testing.T) {
	c := CMYK(0, 0, 0, 1)
	r, g, b, _ := c.RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("CMYK(0,0,0,1).RGBA() = (%d,%d,%d), want (0,0,0)", r, g, b)
	}
}

func TestCalGrayRoundTrip(t *testing.T) {
	s, err := CalGray(WhitePointD65, nil, 2.2)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []float64{0, 0.25, 0.5, 1} {
		c := s.New(v)
		X, Y, Z := c.ToXYZ()
		c2 := s.FromXYZ(X, Y, Z).(colorCalGray)
		if math.Abs(c2.Value-v) > 1e-6 {
			t.Errorf("CalGray round trip for %g: got %g", v, c2.Value)
		}
	}
}

func TestCalGrayD65WhiteIsWhite(t *testing.T) {
	s, err := CalGray(WhitePointD65, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	c := s.New(1)
	r, g, b, _ := c.RGBA()
	if absDiff(r, 0xffff) > 2 || absDiff(g, 0xffff) > 2 || absDiff(b, 0xffff) > 2 {
		t.Errorf("CalGray(D65,1).RGBA() = (%d,%d,%d), want ~white", r, g, b)
	}
}

func TestLabRoundTrip(t *testing.T) {
	s, err := Lab(WhitePointD65, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	c, err := s.New(50, 20, -30)
	if err != nil {
		t.Fatal(err)
	}
	X, Y, Z := c.ToXYZ()
	c2 := s.FromXYZ(X, Y, Z).(colorLab)
	if math.Abs(c2.Values[0]-50) > 0.01 || math.Abs(c2.Values[1]-20) > 0.01 || math.Abs(c2.Values[2]+30) > 0.01 {
		t.Errorf("Lab round trip: got %v, want [50 20 -30]", c2.Values)
	}
}

func TestIndexedOutOfRangeDegrades(t *testing.T) {
	palette := []Color{Gray(0), Gray(1)}
	space, _ := Indexed(palette)
	c, _ := space.NewColor([]float64{5})
	r, g, b, _ := c.RGBA()
	_ = r
	_ = g
	_ = b // must not panic; exact fallback color is unspecified
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
