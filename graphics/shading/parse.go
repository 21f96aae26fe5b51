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

package shading

import (
	"seehuhn.de/go/geom/matrix"

	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/graphics/color"
)

// ParseFunctions is injected by the function package (which this
// package cannot import directly: function imports shading to wire
// pattern.ParseShadingFunc, and an import back here would cycle) to
// turn a /Function entry into evaluators.
var ParseFunctions func(r pdf.Getter, obj pdf.Object) ([]Function, error)

// ParseColorSpace is injected by the color package's own resolver at
// wiring time, for the same reason.
var ParseColorSpace func(r pdf.Getter, obj pdf.Object, resources pdf.Dict) (color.Space, error)

// Parse reads a /Shading dictionary or stream (ISO 32000-1 §8.7.4.5.2
// Table 78) and builds the concrete Shading it describes.
func Parse(r pdf.Getter, obj pdf.Object) (Shading, error) {
	native, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	var dict pdf.Dict
	var stream *pdf.Stream
	switch v := native.(type) {
	case *pdf.Stream:
		dict, stream = v.Dict, v
	case pdf.Dict:
		dict = v
	default:
		return nil, pdf.Errorf("shading: expected dict or stream, got %T", native)
	}

	st, _ := pdf.GetInteger(r, dict["ShadingType"])
	space := colorSpaceOf(r, dict["ColorSpace"])
	fns := functionsOf(r, dict["Function"])

	domain := floatArrayOr(r, dict["Domain"], []float64{0, 1})
	extend := extendOf(r, dict["Extend"])
	bg, hasBG := backgroundOf(r, dict["Background"])

	switch st {
	case 1:
		dom4 := floatArrayOr(r, dict["Domain"], []float64{0, 1, 0, 1})
		mat := matrixOf(r, dict["Matrix"])
		return &FunctionBased{
			Space:  space,
			Fn:     fns,
			Domain: [4]float64{dom4[0], dom4[1], dom4[2], dom4[3]},
			Matrix: mat,
			HasBG:  hasBG,
			BG:     bg,
		}, nil
	case 2:
		coords := floatArrayOr(r, dict["Coords"], []float64{0, 0, 1, 0})
		return &Axial{
			common: common{Space: space, Fn: fns, Domain: [2]float64{domain[0], domain[1]}, Extend: extend, HasBG: hasBG, BG: bg},
			X0:     coords[0], Y0: coords[1], X1: coords[2], Y1: coords[3],
		}, nil
	case 3:
		coords := floatArrayOr(r, dict["Coords"], []float64{0, 0, 0, 0, 0, 1})
		return &Radial{
			common: common{Space: space, Fn: fns, Domain: [2]float64{domain[0], domain[1]}, Extend: extend, HasBG: hasBG, BG: bg},
			X0:     coords[0], Y0: coords[1], R0: coords[2],
			X1: coords[3], Y1: coords[4], R1: coords[5],
		}, nil
	case 4, 5, 6, 7:
		if stream == nil {
			return nil, pdf.Errorf("shading: mesh type %d requires a stream", st)
		}
		data, err := pdf.DecodeStream(r, stream, nil)
		if err != nil {
			return nil, err
		}
		bpc, _ := pdf.GetInteger(r, dict["BitsPerCoordinate"])
		bpcomp, _ := pdf.GetInteger(r, dict["BitsPerComponent"])
		bpf, _ := pdf.GetInteger(r, dict["BitsPerFlag"])
		vpr, _ := pdf.GetInteger(r, dict["VerticesPerRow"])
		decode := floatArrayOr(r, dict["Decode"], nil)
		return DecodeMesh(data, MeshParams{
			ShadingType:       int(st),
			BitsPerCoordinate: int(bpc),
			BitsPerComponent:  int(bpcomp),
			BitsPerFlag:       int(bpf),
			Decode:            decode,
			VerticesPerRow:    int(vpr),
			Space:             space,
			Fn:                fns,
		})
	default:
		return nil, pdf.Errorf("shading: unsupported ShadingType %d", st)
	}
}

func colorSpaceOf(r pdf.Getter, obj pdf.Object) color.Space {
	if obj == nil || ParseColorSpace == nil {
		return color.DeviceGray
	}
	sp, err := ParseColorSpace(r, obj, nil)
	if err != nil || sp == nil {
		return color.DeviceGray
	}
	return sp
}

func functionsOf(r pdf.Getter, obj pdf.Object) []Function {
	if obj == nil || ParseFunctions == nil {
		return nil
	}
	fns, err := ParseFunctions(r, obj)
	if err != nil {
		return nil
	}
	return fns
}

func matrixOf(r pdf.Getter, obj pdf.Object) matrix.Matrix {
	arr := floatArrayOr(r, obj, nil)
	if len(arr) != 6 {
		return matrix.Identity
	}
	return matrix.Matrix{arr[0], arr[1], arr[2], arr[3], arr[4], arr[5]}
}

func extendOf(r pdf.Getter, obj pdf.Object) [2]bool {
	arr, err := pdf.GetArray(r, obj)
	if err != nil || len(arr) != 2 {
		return [2]bool{false, false}
	}
	b0, _ := pdf.GetBoolean(r, arr[0])
	b1, _ := pdf.GetBoolean(r, arr[1])
	return [2]bool{bool(b0), bool(b1)}
}

func backgroundOf(r pdf.Getter, obj pdf.Object) ([]float64, bool) {
	if obj == nil {
		return nil, false
	}
	arr := floatArrayOr(r, obj, nil)
	return arr, len(arr) > 0
}

func floatArrayOr(r pdf.Getter, obj pdf.Object, fallback []float64) []float64 {
	arr, err := pdf.GetArray(r, obj)
	if err != nil {
		return fallback
	}
	out := make([]float64, len(arr))
	for i, v := range arr {
		out[i], _ = pdf.GetNumber(r, v)
	}
	return out
}
