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

// Package softmask resolves the external graphics state's /SMask entry
// into a Mask: a group reference, a mask type, and the
// parent CTM/bbox the group must be interpreted against. A Mask's
// identity is the Object Identifier of its referenced Form XObject
// group, so two gs dictionaries naming the same group resolve to equal
// Masks and a device may cache the rendered result by that identity.
package softmask

import (
	"seehuhn.de/go/geom/matrix"

	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/graphics/color"
)

// Type is the /S entry of a soft mask dictionary.
type Type int

const (
	Luminosity Type = iota
	Alpha
)

// Mask is a parsed /SMask dictionary (ISO 32000-1 §11.6.5.2). Equality
// and hashing are by Group identity alone, so a resolved mask can be
// cached by its source group.
type Mask struct {
	Group           pdf.Reference
	GroupStream     *pdf.Stream
	Kind            Type
	Backdrop        color.Color
	TransferFn      TransferFunc
	ParentCTM       matrix.Matrix
	ParentBBox      [4]float64
	ParentResources pdf.Dict
}

// TransferFunc remaps a resolved mask value (luminosity or alpha, both
// already in [0,1]) before it is used as alpha, for the dictionary's
// optional /TR entry. A nil TransferFunc is the identity.
type TransferFunc func(v float64) float64

// Key is the identity a device should key a resolved-mask cache by
// ("equality and hashing follow that identity").
type Key pdf.Reference

func (m *Mask) Key() Key { return Key(m.Group) }

// ParseTransferFunc is injected by package function's init (which knows
// how to turn a /Function object into an evaluator), mirroring the
// seams used elsewhere in the graphics packages to avoid an import
// cycle.
var ParseTransferFunc func(r pdf.Getter, obj pdf.Object) (TransferFunc, error)

// Parse reads an ExtGState's /SMask entry. A bare name "/None" (or a
// missing entry) has no soft mask and is reported as ok == false, not
// an error: most gs dictionaries never set one.
func Parse(r pdf.Getter, smask pdf.Object, parentCTM matrix.Matrix, parentBBox [4]float64, parentResources pdf.Dict) (*Mask, bool, error) {
	native, err := pdf.Resolve(r, smask)
	if err != nil {
		return nil, false, err
	}
	if native == nil {
		return nil, false, nil
	}
	if name, ok := native.(pdf.Name); ok {
		if name == "None" {
			return nil, false, nil
		}
	}
	dict, err := pdf.GetDict(r, smask)
	if err != nil || dict == nil {
		return nil, false, nil
	}

	groupRef, ok := smaskGroupRef(smask, dict)
	stream, err := pdf.GetStream(r, dict["G"])
	if err != nil || stream == nil {
		return nil, false, nil
	}

	m := &Mask{
		GroupStream:     stream,
		ParentCTM:       parentCTM,
		ParentBBox:      parentBBox,
		ParentResources: parentResources,
	}
	if ok {
		m.Group = groupRef
	}

	if s, err := pdf.GetName(r, dict["S"]); err == nil && s == "Alpha" {
		m.Kind = Alpha
	} else {
		m.Kind = Luminosity
	}

	if bc, err := pdf.GetArray(r, dict["BC"]); err == nil && len(bc) > 0 {
		groupSpace := groupColorSpace(r, stream.Dict, parentResources)
		comps := make([]float64, len(bc))
		for i, v := range bc {
			comps[i], _ = pdf.GetNumber(r, v)
		}
		if c, err := groupSpace.NewColor(comps); err == nil {
			m.Backdrop = c
		}
	}
	if m.Backdrop == nil {
		m.Backdrop = color.Gray(0) // black backdrop is the default per ISO 32000-1 Table 144
	}

	if tr, present := dict["TR"]; present {
		if name, err := pdf.GetName(r, tr); err == nil && name == "Identity" {
			// identity: leave TransferFn nil
		} else if ParseTransferFunc != nil {
			if fn, err := ParseTransferFunc(r, tr); err == nil {
				m.TransferFn = fn
			}
		}
	}

	return m, true, nil
}

func smaskGroupRef(smaskObj pdf.Object, dict pdf.Dict) (pdf.Reference, bool) {
	if ref, ok := dict["G"].(pdf.Reference); ok {
		return ref, true
	}
	return 0, false
}

func groupColorSpace(r pdf.Getter, streamDict pdf.Dict, fallback pdf.Dict) color.Space {
	group, err := pdf.GetDict(r, streamDict["Group"])
	if err == nil && group != nil {
		if csObj, ok := group["CS"]; ok {
			if sp, err := parseColorSpaceHook(r, csObj, fallback); err == nil && sp != nil {
				return sp
			}
		}
	}
	return color.DeviceGray
}

// parseColorSpaceHook is installed by package function's init so this file
// doesn't import graphics/color's full ParseSpace machinery (which
// itself needs a resources dict and forms its own seam). It is
// optional: until installed, BC backdrops degrade to DeviceGray.
var parseColorSpaceHook = func(r pdf.Getter, obj pdf.Object, resources pdf.Dict) (color.Space, error) {
	return color.DeviceGray, nil
}

// SetColorSpaceResolver lets package function install the real
// colorspace parser used for a soft mask group's backdrop color.
func SetColorSpaceResolver(f func(r pdf.Getter, obj pdf.Object, resources pdf.Dict) (color.Space, error)) {
	parseColorSpaceHook = f
}

// Resolve turns a rendered luminosity or alpha buffer into a per-pixel
// alpha sampler ("Luminosity uses the group's resolved
// luminance as alpha, Alpha uses the group's alpha channel directly").
// buf is RGBA, 4 bytes/pixel, width x height; stride is buf's row length
// in bytes.
func Resolve(m *Mask, buf []byte, width, height, stride int) func(x, y int) float64 {
	return func(x, y int) float64 {
		if x < 0 || y < 0 || x >= width || y >= height {
			return luminanceOf(m.Backdrop, m.Kind)
		}
		i := y*stride + x*4
		if i+3 >= len(buf) {
			return luminanceOf(m.Backdrop, m.Kind)
		}
		var v float64
		if m.Kind == Alpha {
			v = float64(buf[i+3]) / 255
		} else {
			r, g, b := float64(buf[i])/255, float64(buf[i+1])/255, float64(buf[i+2])/255
			v = 0.3*r + 0.59*g + 0.11*b
		}
		if m.TransferFn != nil {
			v = m.TransferFn(v)
		}
		return v
	}
}

func luminanceOf(c color.Color, kind Type) float64 {
	if c == nil {
		return 0
	}
	if kind == Alpha {
		_, _, _, a := c.RGBA()
		return float64(a) / 0xffff
	}
	r, g, b, _ := c.RGBA()
	return 0.3*float64(r)/0xffff + 0.59*float64(g)/0xffff + 0.11*float64(b)/0xffff
}
