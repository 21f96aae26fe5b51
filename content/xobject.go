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
	"bytes"

	"seehuhn.de/go/geom/matrix"

	pdf "github.com/corvuspdf/corvus"
	"github.com/corvuspdf/corvus/graphics"
	"github.com/corvuspdf/corvus/graphics/color"
	img "github.com/corvuspdf/corvus/graphics/image"
	"github.com/corvuspdf/corvus/graphics/softmask"
)

// doXObject implements `Do`, dispatching on the named resource's
// /Subtype ("External objects").
func (ip *Interpreter) doXObject(name pdf.Name, resources pdf.Dict) {
	if resources == nil || !ip.visible() {
		return
	}
	xobjRes, err := pdf.GetDict(ip.r, resources["XObject"])
	if err != nil || xobjRes == nil {
		return
	}
	stream, err := pdf.GetStream(ip.r, xobjRes[name])
	if err != nil || stream == nil {
		return
	}
	subtype, _ := pdf.GetName(ip.r, stream.Dict["Subtype"])
	switch subtype {
	case "Form":
		ip.runForm(stream, resources)
	case "Image":
		ip.drawImageXObject(stream)
	}
}

// runForm interprets a Form XObject (ISO 32000-1 §8.10): concatenate
// /Matrix, clip to /BBox, and recurse with the form's own /Resources
// (falling back to the caller's, tolerating the pre-PDF-1.2 documents
// that omit it).
func (ip *Interpreter) runForm(stream *pdf.Stream, parentResources pdf.Dict) {
	if ip.formDepth >= maxFormDepth {
		return
	}
	data, err := pdf.DecodeStream(ip.r, stream, nil)
	if err != nil {
		return
	}
	formRes, err := pdf.GetDict(ip.r, stream.Dict["Resources"])
	if err != nil || formRes == nil {
		formRes = parentResources
	}
	m := matrix.Identity
	if arr, err := pdf.GetArray(ip.r, stream.Dict["Matrix"]); err == nil && len(arr) == 6 {
		var vs [6]float64
		for i, v := range arr {
			vs[i], _ = pdf.GetNumber(ip.r, v)
		}
		m = matrix.Matrix{vs[0], vs[1], vs[2], vs[3], vs[4], vs[5]}
	}

	ip.formDepth++
	ip.g.Save()
	st := ip.g.Current()
	st.CTM = m.Mul(st.CTM)
	ip.dev.SetTransform(st.CTM)

	if bbox, err := pdf.GetArray(ip.r, stream.Dict["BBox"]); err == nil && len(bbox) == 4 {
		var r [4]float64
		for i, v := range bbox {
			r[i], _ = pdf.GetNumber(ip.r, v)
		}
		clip := &graphics.Path{}
		clip.Rect(r[0], r[1], r[2]-r[0], r[3]-r[1])
		ip.g.PushClip(clip, graphics.FillNonZero)
	}

	_ = ip.run(data, formRes)

	ip.g.Restore()
	ip.dev.SetTransform(ip.g.Current().CTM)
	ip.formDepth--
}

// drawImageXObject decodes an Image XObject and hands it to the
// device, painted across the unit square the current CTM already
// represents (ISO 32000-1 §8.9.5.1: a `cm` scaling by the image's
// intended placement always precedes `Do` for an image).
func (ip *Interpreter) drawImageXObject(stream *pdf.Stream) {
	dict := stream.Dict
	isMask, _ := pdf.GetBoolean(ip.r, dict["ImageMask"])
	params := img.Params{IsMask: bool(isMask)}
	if w, err := pdf.GetInteger(ip.r, dict["Width"]); err == nil {
		params.Width = int(w)
	}
	if h, err := pdf.GetInteger(ip.r, dict["Height"]); err == nil {
		params.Height = int(h)
	}
	if bpc, err := pdf.GetInteger(ip.r, dict["BitsPerComponent"]); err == nil {
		params.BitsPerComponent = int(bpc)
	}
	if !params.IsMask {
		if cs, ok := dict["ColorSpace"]; ok {
			if space, err := color.ParseSpace(ip.r, cs, ip.currentResources); err == nil {
				params.ColorSpace = space
			}
		}
	}
	if arr, err := pdf.GetArray(ip.r, dict["Decode"]); err == nil {
		params.Decode = floatsFromArray(ip.r, arr)
	}
	if len(params.Decode) == 2 && params.IsMask && params.Decode[0] == 1 {
		params.MaskInvert = true
	}

	decoded, err := pdf.DecodeStream(ip.r, stream, nil)
	if err != nil {
		return
	}
	rgba, stencil, err := img.Decode(decoded, params)
	if err != nil {
		return
	}
	m := ip.g.Current().CTM
	if rgba != nil {
		ip.dev.DrawRGBAImage(rgba, m)
	}
	if stencil != nil {
		ip.dev.SetPaint(ip.paintFor(ip.g.Current(), false))
		ip.dev.DrawStencilImage(stencil, m)
	}
}

// applyExtGState implements `gs`: the subset of ISO 32000-1 Table 58
// that graphics.State has room to carry (transparency and stroke/fill
// parameters). Halftone, black-generation, undercolor-removal, and
// rendering-intent entries are ICC/print-production concerns this
// module's device-agnostic rendering pipeline does not model.
func (ip *Interpreter) applyExtGState(name pdf.Name, resources pdf.Dict) {
	if resources == nil {
		return
	}
	gsRes, err := pdf.GetDict(ip.r, resources["ExtGState"])
	if err != nil || gsRes == nil {
		return
	}
	dict, err := pdf.GetDict(ip.r, gsRes[name])
	if err != nil || dict == nil {
		return
	}
	st := ip.g.Current()

	if v, err := pdf.GetNumber(ip.r, dict["LW"]); err == nil {
		st.LineWidth = v
	}
	if v, err := pdf.GetInteger(ip.r, dict["LC"]); err == nil {
		st.LineCap = int(v)
	}
	if v, err := pdf.GetInteger(ip.r, dict["LJ"]); err == nil {
		st.LineJoin = int(v)
	}
	if v, err := pdf.GetNumber(ip.r, dict["ML"]); err == nil {
		st.MiterLimit = v
	}
	if arr, err := pdf.GetArray(ip.r, dict["D"]); err == nil && len(arr) == 2 {
		if phases, err := pdf.GetArray(ip.r, arr[0]); err == nil {
			st.DashArray = floatsFromArray(ip.r, phases)
		}
		if phase, err := pdf.GetNumber(ip.r, arr[1]); err == nil {
			st.DashPhase = phase
		}
	}
	if v, err := pdf.GetNumber(ip.r, dict["CA"]); err == nil {
		st.StrokeAlpha = v
	}
	if v, err := pdf.GetNumber(ip.r, dict["ca"]); err == nil {
		st.FillAlpha = v
	}
	if bm, ok := dict["BM"]; ok {
		if name, err := pdf.GetName(ip.r, bm); err == nil {
			st.BlendMode = name
		} else if arr, err := pdf.GetArray(ip.r, bm); err == nil && len(arr) > 0 {
			if name, err := pdf.GetName(ip.r, arr[0]); err == nil {
				st.BlendMode = name
			}
		}
	}
	if smaskObj, ok := dict["SMask"]; ok {
		bbox := [4]float64{}
		mask, present, err := softmask.Parse(ip.r, smaskObj, st.CTM, bbox, resources)
		if err == nil {
			if present {
				st.SoftMask = &graphics.SoftMask{
					ObjectID:   uint64(mask.Key()),
					Luminosity: mask.Kind == softmask.Luminosity,
					// Luma is left nil: sampling a soft mask's resolved
					// luminance requires rasterizing its group, which
					// is package raster's job and is not wired up here
					// (see DESIGN.md). A nil Luma is a fully-opaque
					// mask to any Device that checks for it before
					// sampling.
				}
			} else {
				st.SoftMask = nil
			}
		}
	}
}

// beginMarkedContent implements BMC/BDC: push a visibility frame,
// resolving an OCG reference out of the marked-content properties
// when the tag is /OC. oc.State's inactive set is
// keyed by the OCG dictionary's object reference, so this resolves
// the /Properties lookup itself rather than through GetDict, which
// would throw the reference away.
func (ip *Interpreter) beginMarkedContent(tag pdf.Name, propsObj pdf.Object, resources pdf.Dict) {
	if ip.oc == nil {
		return
	}
	if tag == "OC" {
		if ref, ok := ip.resolveOCGRef(propsObj, resources); ok {
			ip.oc.BeginOCG(ref)
			return
		}
	}
	ip.oc.BeginMarkedContent()
}

func (ip *Interpreter) endMarkedContent() {
	if ip.oc == nil {
		return
	}
	ip.oc.EndMarkedContent()
}

// resolveOCGRef reads a BDC /OC properties operand: either the OCG
// reference directly, or a name looked up in the page resources'
// /Properties dictionary, whose value is ordinarily itself a
// reference to the OCG dictionary.
func (ip *Interpreter) resolveOCGRef(propsObj pdf.Object, resources pdf.Dict) (pdf.Reference, bool) {
	switch v := propsObj.(type) {
	case pdf.Reference:
		return v, true
	case pdf.Name:
		if resources == nil {
			return 0, false
		}
		propsRes, err := pdf.GetDict(ip.r, resources["Properties"])
		if err != nil || propsRes == nil {
			return 0, false
		}
		raw, ok := propsRes[v]
		if !ok {
			return 0, false
		}
		if ref, ok := raw.(pdf.Reference); ok {
			return ref, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// inlineImage implements BI ... ID ... EI (ISO 32000-1 §8.9.7): an
// abbreviated-key dictionary followed by raw sample bytes that the
// general-purpose Scanner cannot tokenize, so this reads the dict with
// ordinary ReadToken calls and then seeks the underlying byte slice by
// hand for the image data.
func (ip *Interpreter) inlineImage(sc *pdf.Scanner, data []byte, resources pdf.Dict) error {
	dict := pdf.Dict{}
	for {
		tok, err := sc.ReadToken()
		if err != nil {
			return err
		}
		if tok.IsOperator() {
			if tok.Op == "ID" {
				break
			}
			continue
		}
		key, ok := tok.Obj.(pdf.Name)
		if !ok {
			continue
		}
		valTok, err := sc.ReadToken()
		if err != nil {
			return err
		}
		dict[expandInlineKey(key)] = valTok.Obj
	}

	start := sc.Pos()
	if start < len(data) && isInlineWhite(data[start]) {
		start++
	}
	eiPos := findEI(data, start)
	if eiPos < 0 {
		sc.SeekTo(len(data))
		return pdf.Errorf("content: unterminated inline image")
	}
	raw := data[start:eiPos]
	if n := len(raw); n > 0 && isInlineWhite(raw[n-1]) {
		raw = raw[:n-1]
	}
	sc.SeekTo(eiPos + 2)

	ip.drawInlineImage(dict, raw, resources)
	return nil
}

func (ip *Interpreter) drawInlineImage(dict pdf.Dict, raw []byte, resources pdf.Dict) {
	if !ip.visible() {
		return
	}
	stream := &pdf.Stream{Dict: dict, R: bytes.NewReader(raw)}
	decoded, err := pdf.DecodeStream(ip.r, stream, nil)
	if err != nil {
		decoded = raw
	}

	isMask, _ := pdf.GetBoolean(ip.r, dict["ImageMask"])
	params := img.Params{IsMask: bool(isMask)}
	if w, err := pdf.GetInteger(ip.r, dict["Width"]); err == nil {
		params.Width = int(w)
	}
	if h, err := pdf.GetInteger(ip.r, dict["Height"]); err == nil {
		params.Height = int(h)
	}
	if bpc, err := pdf.GetInteger(ip.r, dict["BitsPerComponent"]); err == nil {
		params.BitsPerComponent = int(bpc)
	}
	if !params.IsMask {
		if cs, ok := dict["ColorSpace"]; ok {
			if space, err := color.ParseSpace(ip.r, expandInlineColorSpace(cs), resources); err == nil {
				params.ColorSpace = space
			}
		}
	}
	if arr, err := pdf.GetArray(ip.r, dict["Decode"]); err == nil {
		params.Decode = floatsFromArray(ip.r, arr)
	}

	rgba, stencil, err := img.Decode(decoded, params)
	if err != nil {
		return
	}
	m := ip.g.Current().CTM
	if rgba != nil {
		ip.dev.DrawRGBAImage(rgba, m)
	}
	if stencil != nil {
		ip.dev.SetPaint(ip.paintFor(ip.g.Current(), false))
		ip.dev.DrawStencilImage(stencil, m)
	}
}

// expandInlineKey maps an inline image's abbreviated dictionary keys
// (ISO 32000-1 Table 93) onto the full XObject key names the rest of
// this package already knows how to read.
func expandInlineKey(k pdf.Name) pdf.Name {
	switch k {
	case "BPC":
		return "BitsPerComponent"
	case "CS":
		return "ColorSpace"
	case "D":
		return "Decode"
	case "DP":
		return "DecodeParms"
	case "F":
		return "Filter"
	case "H":
		return "Height"
	case "IM":
		return "ImageMask"
	case "I":
		return "Interpolate"
	case "W":
		return "Width"
	case "L":
		return "Length"
	default:
		return k
	}
}

// expandInlineColorSpace handles the inline-image colorspace name
// abbreviations (Table 93: /G /RGB /CMYK /I). ParseSpace accepts /G
// /RGB /CMYK directly; a bare /I is renamed /Indexed, which ParseSpace
// then looks up in the resources' /ColorSpace dictionary like any other
// named space. An /I at the head of an array is not expanded.
func expandInlineColorSpace(obj pdf.Object) pdf.Object {
	if n, ok := obj.(pdf.Name); ok && n == "I" {
		return pdf.Name("Indexed")
	}
	return obj
}

func isInlineWhite(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

// findEI locates the start of the "EI" operator ending an inline
// image's raw data: the first occurrence preceded by whitespace (or
// starting at from) and followed by whitespace, a '/', or the end of
// input, which is the closest a byte-stream
// scan can get to recognizing the operator without risking a false
// match inside binary sample data.
func findEI(data []byte, from int) int {
	for i := from; i+1 < len(data); i++ {
		if data[i] != 'E' || data[i+1] != 'I' {
			continue
		}
		beforeOK := i == from || isInlineWhite(data[i-1])
		afterOK := i+2 >= len(data) || isInlineWhite(data[i+2]) || data[i+2] == '/'
		if beforeOK && afterOK {
			return i
		}
	}
	return -1
}
