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

// Package pattern parses the two PDF pattern dictionary kinds (tiling,
// PatternType 1, and shading, PatternType 2) into a data model the
// content-stream interpreter drives. Replaying a tiling
// pattern's content stream is the interpreter's job, not this
// package's: Pattern keeps only the parsed dictionary fields plus the
// decoded, not yet tokenized content bytes, so parsing a pattern never needs a
// running interpreter and never risks an import cycle with package
// content.
package pattern

import (
	"seehuhn.de/go/geom/matrix"

	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/graphics/color"
	"github.com/corvuspdf/corvus/graphics/shading"
)

// PaintType distinguishes colored (1) tiling patterns, whose content
// stream sets its own colors, from uncolored (2) ones, which paint
// entirely in the color supplied alongside the pattern name in `scn`.
type PaintType int

const (
	PaintTypeColored   PaintType = 1
	PaintTypeUncolored PaintType = 2
)

// TilingKind distinguishes the two XStep/YStep-spacing conventions
// (ISO 32000-1 Table 108 /TilingType): constant spacing (1) keeps
// cells at an even device-space distance; no distortion (2) and faster
// tiling (3) relax that guarantee for speed. The interpreter treats all
// three identically; the distinction only matters to a renderer trying
// to avoid seams, which is out of scope for this module's Device
// contract.
type TilingKind int

// Tiling is a parsed PatternType 1 dictionary (ISO 32000-1 §8.7.3.1).
type Tiling struct {
	PaintType PaintType
	Tiling    TilingKind
	BBox      [4]float64
	XStep     float64
	YStep     float64
	Matrix    matrix.Matrix
	Resources pdf.Dict
	Content   []byte // decoded (post-filter) content stream bytes, not yet tokenized
}

// Shading is a parsed PatternType 2 dictionary (ISO 32000-1 §8.7.4.3).
type Shading struct {
	Matrix  matrix.Matrix
	Shading shading.Shading
}

// Pattern is the union of the two pattern kinds a `scn`/`SCN` operand
// or a pattern-colorspace fill can name. Exactly one of Tiling or Shading is non-nil.
type Pattern struct {
	Tiling  *Tiling
	Shading *Shading
	// UnderColor is set for an uncolored tiling pattern: the color the
	// content stream should paint with, supplied by the `scn` operands
	// that named the pattern ("tiling patterns inherit the
	// painting colorspace").
	UnderColor color.Color
}

// ParseShadingFunc is injected by package function's init, which sets it
// to shading.Parse once shading's own /Function and /ColorSpace hooks
// are wired; keeping the dependency as a function value avoids an
// import cycle.
var ParseShadingFunc func(r pdf.Getter, obj pdf.Object) (shading.Shading, error)

// Parse reads a pattern dictionary (or pattern stream, for tiling
// patterns) and returns the corresponding Pattern.
func Parse(r pdf.Getter, obj pdf.Object) (*Pattern, error) {
	native, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	var dict pdf.Dict
	var content []byte
	switch v := native.(type) {
	case *pdf.Stream:
		dict = v.Dict
		content, err = pdf.DecodeStream(r, v, nil)
		if err != nil {
			content = nil
		}
	case pdf.Dict:
		dict = v
	default:
		return nil, pdf.Errorf("pattern: expected dict or stream, got %T", native)
	}

	patternType, _ := pdf.GetInteger(r, dict["PatternType"])
	matrixObj := dict["Matrix"]
	m, err := parseMatrix(r, matrixObj)
	if err != nil {
		m = matrix.Identity
	}

	switch patternType {
	case 2:
		sh, err := resolveShading(r, dict["Shading"])
		if err != nil {
			return nil, err
		}
		return &Pattern{Shading: &Shading{Matrix: m, Shading: sh}}, nil
	default: // 1, or unspecified: treat as tiling
		t := &Tiling{
			Matrix:    m,
			Content:   content,
			Resources: resourcesOf(r, dict),
		}
		if pt, ok := pdf.GetInteger(r, dict["PaintType"]); ok == nil && pt == 2 {
			t.PaintType = PaintTypeUncolored
		} else {
			t.PaintType = PaintTypeColored
		}
		if tt, ok := pdf.GetInteger(r, dict["TilingType"]); ok == nil {
			t.Tiling = TilingKind(tt)
		} else {
			t.Tiling = 1
		}
		t.BBox = parseRect(r, dict["BBox"])
		t.XStep = numberOrDefault(r, dict["XStep"], t.BBox[2]-t.BBox[0])
		t.YStep = numberOrDefault(r, dict["YStep"], t.BBox[3]-t.BBox[1])
		return &Pattern{Tiling: t}, nil
	}
}

func resolveShading(r pdf.Getter, obj pdf.Object) (shading.Shading, error) {
	if ParseShadingFunc == nil {
		return nil, pdf.Errorf("pattern: no shading parser installed")
	}
	return ParseShadingFunc(r, obj)
}

func resourcesOf(r pdf.Getter, dict pdf.Dict) pdf.Dict {
	res, _ := pdf.GetDict(r, dict["Resources"])
	return res
}

func parseMatrix(r pdf.Getter, obj pdf.Object) (matrix.Matrix, error) {
	arr, err := pdf.GetArray(r, obj)
	if err != nil || len(arr) != 6 {
		return matrix.Identity, pdf.Errorf("pattern: malformed Matrix")
	}
	var vals [6]float64
	for i, v := range arr {
		vals[i], _ = pdf.GetNumber(r, v)
	}
	return matrix.Matrix{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]}, nil
}

func parseRect(r pdf.Getter, obj pdf.Object) [4]float64 {
	arr, err := pdf.GetArray(r, obj)
	if err != nil || len(arr) != 4 {
		return [4]float64{}
	}
	var rect [4]float64
	for i, v := range arr {
		rect[i], _ = pdf.GetNumber(r, v)
	}
	return rect
}

func numberOrDefault(r pdf.Getter, obj pdf.Object, def float64) float64 {
	v, err := pdf.GetNumber(r, obj)
	if err != nil {
		return def
	}
	return v
}
