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
	pdf "github.com/corvuspdf/corvus"
)

// SpaceSeparation implements the Separation family (ISO 32000-1
// §8.6.6.4): a single named colorant, converted to Alternate via
// TintTransform.
type SpaceSeparation struct {
	Colorant      pdf.Name
	Alternate     Space
	TintTransform Function
}

func Separation(name pdf.Name, alt Space, tint Function) (*SpaceSeparation, error) {
	return &SpaceSeparation{Colorant: name, Alternate: alt, TintTransform: tint}, nil
}

func (s *SpaceSeparation) Family() string     { return "Separation" }
func (s *SpaceSeparation) NumComponents() int { return 1 }
func (s *SpaceSeparation) Default() Color {
	c, _ := s.NewColor([]float64{1})
	return c
}

func (s *SpaceSeparation) NewColor(c []float64) (Color, error) {
	tint := clamp01(at(c, 0))
	alt, err := s.applyTint([]float64{tint})
	if err != nil {
		return colorSeparation{tint: tint, alt: s.Alternate.Default()}, nil
	}
	return colorSeparation{tint: tint, alt: alt}, nil
}

func (s *SpaceSeparation) applyTint(in []float64) (Color, error) {
	if s.TintTransform == nil || s.Alternate == nil {
		return Gray(1 - at(in, 0)), nil
	}
	out, err := s.TintTransform.Eval(in)
	if err != nil {
		return nil, err
	}
	return s.Alternate.NewColor(out)
}

type colorSeparation struct {
	tint float64
	alt  Color
}

func (c colorSeparation) RGBA() (r, g, b, a uint32) { return c.alt.RGBA() }
func (c colorSeparation) ToXYZ() (X, Y, Z float64)  { return c.alt.ToXYZ() }

// SpaceDeviceN implements the DeviceN family (ISO 32000-1 §8.6.6.5): a
// generalization of Separation to multiple named colorants.
type SpaceDeviceN struct {
	Names         []pdf.Name
	Alternate     Space
	TintTransform Function
	Attributes    pdf.Dict
}

func DeviceN(names []pdf.Name, alt Space, tint Function, attrs pdf.Dict) (*SpaceDeviceN, error) {
	return &SpaceDeviceN{Names: names, Alternate: alt, TintTransform: tint, Attributes: attrs}, nil
}

func (s *SpaceDeviceN) Family() string     { return "DeviceN" }
func (s *SpaceDeviceN) NumComponents() int { return len(s.Names) }
func (s *SpaceDeviceN) Default() Color {
	comps := make([]float64, len(s.Names))
	for i := range comps {
		comps[i] = 1
	}
	c, _ := s.NewColor(comps)
	return c
}

func (s *SpaceDeviceN) NewColor(c []float64) (Color, error) {
	comps := make([]float64, len(s.Names))
	for i := range comps {
		comps[i] = clamp01(at(c, i))
	}
	if s.TintTransform == nil || s.Alternate == nil {
		return colorDeviceN{comps: comps, alt: DeviceGray.Default()}, nil
	}
	out, err := s.TintTransform.Eval(comps)
	if err != nil {
		return colorDeviceN{comps: comps, alt: s.Alternate.Default()}, nil
	}
	alt, err := s.Alternate.NewColor(out)
	if err != nil {
		alt = s.Alternate.Default()
	}
	return colorDeviceN{comps: comps, alt: alt}, nil
}

type colorDeviceN struct {
	comps []float64
	alt   Color
}

func (c colorDeviceN) RGBA() (r, g, b, a uint32) { return c.alt.RGBA() }
func (c colorDeviceN) ToXYZ() (X, Y, Z float64)  { return c.alt.ToXYZ() }

func parseSeparation(r pdf.Getter, arr pdf.Array, resources pdf.Dict) (Space, error) {
	if len(arr) < 4 {
		return DeviceGray, &pdf.MalformedFileError{Err: errBadColorSpace}
	}
	name, _ := pdf.GetName(r, arr[1])
	alt, err := ParseSpace(r, arr[2], resources)
	if err != nil {
		alt = DeviceGray
	}
	fn, err := parseTintTransform(r, arr[3])
	if err != nil {
		fn = nil
	}
	return Separation(name, alt, fn)
}

func parseDeviceN(r pdf.Getter, arr pdf.Array, resources pdf.Dict) (Space, error) {
	if len(arr) < 4 {
		return DeviceGray, &pdf.MalformedFileError{Err: errBadColorSpace}
	}
	nameArr, err := pdf.GetArray(r, arr[1])
	if err != nil {
		return DeviceGray, &pdf.MalformedFileError{Err: errBadColorSpace}
	}
	names := make([]pdf.Name, len(nameArr))
	for i, o := range nameArr {
		n, _ := pdf.GetName(r, o)
		names[i] = n
	}
	alt, err := ParseSpace(r, arr[2], resources)
	if err != nil {
		alt = DeviceGray
	}
	fn, err := parseTintTransform(r, arr[3])
	if err != nil {
		fn = nil
	}
	var attrs pdf.Dict
	if len(arr) > 4 {
		attrs, _ = pdf.GetDict(r, arr[4])
	}
	return DeviceN(names, alt, fn, attrs)
}

// parseTintTransform is supplied by the function package at wiring time
// (its init installs it here to avoid an import cycle between color
// and function); until then, tint transforms degrade to a grayscale
// placeholder rather than failing colorspace parsing.
var parseTintTransform = func(r pdf.Getter, obj pdf.Object) (Function, error) {
	return nil, nil
}

// SetTintTransformParser lets package function wire the real function
// evaluator in during package initialization.
func SetTintTransformParser(f func(r pdf.Getter, obj pdf.Object) (Function, error)) {
	parseTintTransform = f
}
