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

// Space is a PDF colorspace: something that turns a tuple of component
// values (as pushed by sc/scn/SC/SCN) into a
// Color.
type Space interface {
	// Family names the colorspace family, e.g. "DeviceRGB", "ICCBased".
	Family() string

	// NumComponents is the number of operands sc/scn expects.
	NumComponents() int

	// NewColor builds a Color from NumComponents() operand values.
	NewColor(comps []float64) (Color, error)

	// Default returns the colorspace's initial color (black, per
	// the PDF-specified initial graphics state).
	Default() Color
}

// Function is the subset of package function's evaluator interface
// Separation/DeviceN need: a tint-transform is just a function from N
// inputs to M outputs.
type Function interface {
	Eval(in []float64) ([]float64, error)
}

// --- Device spaces -----------------------------------------------------

type spaceDeviceGray struct{}

func (spaceDeviceGray) Family() string       { return "DeviceGray" }
func (spaceDeviceGray) NumComponents() int   { return 1 }
func (spaceDeviceGray) Default() Color       { return colorDeviceGray(0) }
func (spaceDeviceGray) NewColor(c []float64) (Color, error) {
	return colorDeviceGray(clamp01(at(c, 0))), nil
}

type spaceDeviceRGB struct{}

func (spaceDeviceRGB) Family() string     { return "DeviceRGB" }
func (spaceDeviceRGB) NumComponents() int { return 3 }
func (spaceDeviceRGB) Default() Color     { return colorDeviceRGB{} }
func (spaceDeviceRGB) NewColor(c []float64) (Color, error) {
	return colorDeviceRGB{clamp01(at(c, 0)), clamp01(at(c, 1)), clamp01(at(c, 2))}, nil
}

type spaceDeviceCMYK struct{}

func (spaceDeviceCMYK) Family() string     { return "DeviceCMYK" }
func (spaceDeviceCMYK) NumComponents() int { return 4 }
func (spaceDeviceCMYK) Default() Color     { return colorDeviceCMYK{K: 1} }
func (spaceDeviceCMYK) NewColor(c []float64) (Color, error) {
	return colorDeviceCMYK{clamp01(at(c, 0)), clamp01(at(c, 1)), clamp01(at(c, 2)), clamp01(at(c, 3))}, nil
}

// DeviceGray, DeviceRGB, DeviceCMYK are the three singleton device
// colorspaces.
var (
	DeviceGray Space = spaceDeviceGray{}
	DeviceRGB  Space = spaceDeviceRGB{}
	DeviceCMYK Space = spaceDeviceCMYK{}
)

func at(c []float64, i int) float64 {
	if i < len(c) {
		return c[i]
	}
	return 0
}

// ParseSpace resolves a /ColorSpace entry: either one of
// the bare device names, or an array naming a parameterized family
// (CalGray, CalRGB, Lab, ICCBased, Indexed, Separation, DeviceN,
// Pattern). resources is consulted for named colorspaces found in a
// content stream's /Resources /ColorSpace dictionary; it may be nil
// when obj has already been resolved to its definition.
func ParseSpace(r pdf.Getter, obj pdf.Object, resources pdf.Dict) (Space, error) {
	native, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	if name, ok := native.(pdf.Name); ok {
		switch name {
		case "DeviceGray", "CalGray", "G":
			return DeviceGray, nil
		case "DeviceRGB", "RGB":
			return DeviceRGB, nil
		case "DeviceCMYK", "CMYK":
			return DeviceCMYK, nil
		case "Pattern":
			return PatternColored(), nil
		default:
			if resources != nil {
				if csDict, err := pdf.GetDict(r, resources["ColorSpace"]); err == nil && csDict != nil {
					if def, ok := csDict[name]; ok {
						return ParseSpace(r, def, resources)
					}
				}
			}
			return DeviceGray, nil
		}
	}

	arr, ok := native.(pdf.Array)
	if !ok || len(arr) == 0 {
		return DeviceGray, &pdf.MalformedFileError{Err: errBadColorSpace}
	}

	family, _ := pdf.GetName(r, arr[0])
	switch family {
	case "CalGray":
		return parseCalGray(r, arr)
	case "CalRGB":
		return parseCalRGB(r, arr)
	case "Lab":
		return parseLab(r, arr)
	case "ICCBased":
		return parseICCBased(r, arr)
	case "Indexed":
		return parseIndexed(r, arr, resources)
	case "Separation":
		return parseSeparation(r, arr, resources)
	case "DeviceN":
		return parseDeviceN(r, arr, resources)
	case "Pattern":
		if len(arr) < 2 {
			return PatternColored(), nil
		}
		base, err := ParseSpace(r, arr[1], resources)
		if err != nil {
			return PatternColored(), nil
		}
		return PatternUncolored(base), nil
	case "DeviceGray", "DeviceRGB", "DeviceCMYK":
		return ParseSpace(r, pdf.Name(family), resources)
	default:
		return DeviceGray, &pdf.UnsupportedError{Feature: "colorspace family " + string(family)}
	}
}

var errBadColorSpace = pdf.Errorf("malformed colorspace array")
