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

package content

import (
	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/graphics"
	"github.com/corvuspdf/corvus/graphics/color"
	"github.com/corvuspdf/corvus/graphics/pattern"
	"github.com/corvuspdf/corvus/graphics/shading"
)

// setColorSpace implements CS/cs: select a colorspace and reset the
// corresponding color to that space's initial value (ISO 32000-1
// §8.6.8 "the colour shall be set to its initial value").
func (ip *Interpreter) setColorSpace(fill bool, name pdf.Name, resources pdf.Dict) {
	space, err := color.ParseSpace(ip.r, name, resources)
	if err != nil || space == nil {
		return
	}
	st := ip.g.Current()
	def := space.Default()
	r, g, b := color.ToSRGB(def)
	if fill {
		st.FillColorSpace = space
		st.FillColor = [4]float64{r, g, b, 0}
		st.FillNComp = 3
		st.FillIsPattern = false
	} else {
		st.StrokeColorSpace = space
		st.StrokeColor = [4]float64{r, g, b, 0}
		st.StrokeNComp = 3
		st.StrokeIsPattern = false
	}
}

// setDeviceColor implements G/g/RG/rg/K/k: set both colorspace and
// color in one step, in an always-available device space.
func (ip *Interpreter) setDeviceColor(fill bool, family pdf.Name, comps []float64) {
	space, err := color.ParseSpace(ip.r, family, nil)
	if err != nil {
		return
	}
	ip.applyColor(fill, space, comps, "")
}

// setColor implements SC/sc/SCN/scn: set the color in whichever
// colorspace CS/cs last selected (falling back to DeviceGray if none
// was ever set, matching the PDF-specified initial state).
func (ip *Interpreter) setColor(fill bool, comps []pdf.Object, resources pdf.Dict, patternName pdf.Name) {
	st := ip.g.Current()
	var space color.Space
	if fill {
		space, _ = st.FillColorSpace.(color.Space)
	} else {
		space, _ = st.StrokeColorSpace.(color.Space)
	}
	if space == nil {
		space = color.DeviceGray
	}
	vals := floatsFromArray(ip.r, pdf.Array(comps))
	ip.applyColor(fill, space, vals, patternName)
}

// applyColor resolves comps through space and, if patternName is set,
// additionally resolves the named pattern from resources.
func (ip *Interpreter) applyColor(fill bool, space color.Space, comps []float64, patternName pdf.Name) {
	st := ip.g.Current()
	if patternName != "" {
		ip.applyPatternColor(fill, space, comps, patternName)
		return
	}
	col, err := space.NewColor(comps)
	if err != nil {
		col = space.Default()
	}
	r, g, b := color.ToSRGB(col)
	if fill {
		st.FillColorSpace = space
		st.FillColor = [4]float64{r, g, b, 0}
		st.FillNComp = 3
		st.FillIsPattern = false
	} else {
		st.StrokeColorSpace = space
		st.StrokeColor = [4]float64{r, g, b, 0}
		st.StrokeNComp = 3
		st.StrokeIsPattern = false
	}
}

func (ip *Interpreter) applyPatternColor(fill bool, space color.Space, underComps []float64, name pdf.Name) {
	st := ip.g.Current()
	pat := ip.resolvePattern(name)
	if pat == nil {
		return
	}
	underColor, err := space.NewColor(underComps)
	if err != nil {
		underColor = space.Default()
	}
	pp := ip.patternPaint(pat, underColor)
	if fill {
		st.FillPattern = pp
		st.FillIsPattern = true
	} else {
		st.StrokePattern = pp
		st.StrokeIsPattern = true
	}
}

func (ip *Interpreter) resolvePattern(name pdf.Name) *pattern.Pattern {
	res := ip.currentResources
	if res == nil {
		return nil
	}
	patRes, err := pdf.GetDict(ip.r, res["Pattern"])
	if err != nil || patRes == nil {
		return nil
	}
	obj, ok := patRes[name]
	if !ok {
		return nil
	}
	pat, err := pattern.Parse(ip.r, obj)
	if err != nil {
		return nil
	}
	return pat
}

// patternPaint turns a parsed pattern into the device-facing
// PatternPaint, replaying a tiling pattern's content stream into
// whatever Device the caller supplies, or evaluating a shading
// function directly.
func (ip *Interpreter) patternPaint(pat *pattern.Pattern, underColor color.Color) graphics.PatternPaint {
	switch {
	case pat.Shading != nil:
		sh := pat.Shading.Shading
		return graphics.PatternPaint{
			Matrix: pat.Shading.Matrix,
			Shading: func(x, y float64) ([4]float64, int, bool) {
				col, ok := sh.At(x, y)
				if !ok {
					return [4]float64{}, 0, false
				}
				r, g, b := color.ToSRGB(col)
				return [4]float64{r, g, b, 0}, 3, true
			},
		}
	case pat.Tiling != nil:
		t := pat.Tiling
		return graphics.PatternPaint{
			Matrix: t.Matrix,
			Tile: func(dev graphics.Device) error {
				res := t.Resources
				if res == nil {
					res = ip.currentResources
				}
				nested := New(ip.r, dev, ip.oc)
				if t.PaintType == pattern.PaintTypeUncolored && underColor != nil {
					r, g, b := color.ToSRGB(underColor)
					ns := nested.g.Current()
					ns.FillColor, ns.StrokeColor = [4]float64{r, g, b, 0}, [4]float64{r, g, b, 0}
					ns.FillNComp, ns.StrokeNComp = 3, 3
				}
				return nested.Run(t.Content, res)
			},
		}
	default:
		return graphics.PatternPaint{}
	}
}

// paintFor builds the Paint a stroke or fill should use from the
// current graphics state.
func (ip *Interpreter) paintFor(st *graphics.State, forStroke bool) graphics.Paint {
	isPattern := st.FillIsPattern
	pp := st.FillPattern
	col := st.FillColor
	nComp := st.FillNComp
	if forStroke {
		isPattern, pp, col, nComp = st.StrokeIsPattern, st.StrokePattern, st.StrokeColor, st.StrokeNComp
	}
	if isPattern {
		return graphics.Paint{Kind: graphics.PaintPattern, Pattern: pp}
	}
	return graphics.Paint{Kind: graphics.PaintSolid, Color: col, NComp: nComp}
}

// splitPatternOperand separates SCN/scn's optional trailing pattern
// name from its leading numeric operands (ISO 32000-1 §8.6.8: "c1 ...
// cn name scn" for an uncolored tiling pattern, or just "name scn" for
// a colored one or a shading pattern).
func splitPatternOperand(args []pdf.Object) ([]pdf.Object, pdf.Name) {
	if len(args) == 0 {
		return args, ""
	}
	if n, ok := args[len(args)-1].(pdf.Name); ok {
		return args[:len(args)-1], n
	}
	return args, ""
}

// paintShading implements `sh`: paint the shading across the most
// recently established clip path. With no prior W/W* in this run
// there is nothing to bound the fill to, so this is a no-op; a full
// unclipped page fill would need the page's own BBox, which this
// package is never given (see DESIGN.md).
func (ip *Interpreter) paintShading(name pdf.Name, resources pdf.Dict) {
	if resources == nil || ip.lastClipPath == nil || !ip.visible() {
		return
	}
	shDict, err := pdf.GetDict(ip.r, resources["Shading"])
	if err != nil || shDict == nil {
		return
	}
	obj, ok := shDict[name]
	if !ok {
		return
	}
	sh, err := shading.Parse(ip.r, obj)
	if err != nil || sh == nil {
		return
	}
	st := ip.g.Current()
	ip.dev.SetPaint(graphics.Paint{
		Kind: graphics.PaintPattern,
		Pattern: graphics.PatternPaint{
			Matrix: st.CTM,
			Shading: func(x, y float64) ([4]float64, int, bool) {
				col, ok := sh.At(x, y)
				if !ok {
					return [4]float64{}, 0, false
				}
				r, g, b := color.ToSRGB(col)
				return [4]float64{r, g, b, 0}, 3, true
			},
		},
	})
	ip.dev.FillPath(ip.lastClipPath, graphics.FillProps{Rule: graphics.FillNonZero})
}
