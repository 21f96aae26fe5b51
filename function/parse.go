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

package function

import (
	pdf "github.com/corvuspdf/corvus"
)

// Parse reads a /Function object (dict or stream, or an array of such
// objects concatenated per ISO 32000-1 §8.7.4.5.2) and returns the
// corresponding evaluator(s).
func Parse(r pdf.Getter, obj pdf.Object) ([]Function, error) {
	native, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	if arr, ok := native.(pdf.Array); ok {
		fns := make([]Function, 0, len(arr))
		for _, item := range arr {
			fn, err := parseOne(r, item)
			if err != nil {
				return nil, err
			}
			fns = append(fns, fn)
		}
		return fns, nil
	}
	fn, err := parseOneNative(r, obj, native)
	if err != nil {
		return nil, err
	}
	return []Function{fn}, nil
}

func parseOne(r pdf.Getter, obj pdf.Object) (Function, error) {
	native, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	return parseOneNative(r, obj, native)
}

func parseOneNative(r pdf.Getter, obj pdf.Object, native pdf.Native) (Function, error) {
	var dict pdf.Dict
	var stream *pdf.Stream
	switch v := native.(type) {
	case *pdf.Stream:
		dict, stream = v.Dict, v
	case pdf.Dict:
		dict = v
	default:
		return nil, pdf.Errorf("function: expected dict or stream, got %T", native)
	}

	domain := floatArray(r, dict["Domain"])
	rng := floatArray(r, dict["Range"])

	ft, _ := pdf.GetInteger(r, dict["FunctionType"])
	switch ft {
	case 0:
		return parseType0(r, dict, stream, domain, rng)
	case 2:
		return parseType2(r, dict, domain, rng)
	case 3:
		return parseType3(r, dict, domain, rng)
	case 4:
		return parseType4(r, dict, stream, domain, rng)
	default:
		return nil, pdf.Errorf("function: unsupported FunctionType %d", ft)
	}
}

func parseType0(r pdf.Getter, dict pdf.Dict, stream *pdf.Stream, domain, rng []float64) (Function, error) {
	if stream == nil {
		return nil, pdf.Errorf("function: type 0 requires a stream")
	}
	data, err := pdf.DecodeStream(r, stream, nil)
	if err != nil {
		return nil, err
	}
	sizeArr, _ := pdf.GetArray(r, dict["Size"])
	size := make([]int, len(sizeArr))
	for i, v := range sizeArr {
		n, _ := pdf.GetInteger(r, v)
		size[i] = int(n)
	}
	bps, _ := pdf.GetInteger(r, dict["BitsPerSample"])
	return &Type0{
		Domain:        domain,
		Range:         rng,
		Size:          size,
		BitsPerSample: int(bps),
		Encode:        floatArray(r, dict["Encode"]),
		Decode:        floatArray(r, dict["Decode"]),
		Samples:       data,
	}, nil
}

func parseType2(r pdf.Getter, dict pdf.Dict, domain, rng []float64) (Function, error) {
	n, ok := pdf.GetNumber(r, dict["N"])
	if ok != nil {
		n = 1
	}
	xmin, xmax := 0.0, 1.0
	if len(domain) >= 2 {
		xmin, xmax = domain[0], domain[1]
	}
	return &Type2{
		XMin: xmin, XMax: xmax,
		C0: floatArray(r, dict["C0"]),
		C1: floatArray(r, dict["C1"]),
		N:  n, Range: rng,
	}, nil
}

func parseType3(r pdf.Getter, dict pdf.Dict, domain, rng []float64) (Function, error) {
	fnArr, err := pdf.GetArray(r, dict["Functions"])
	if err != nil {
		return nil, err
	}
	subs := make([]Function, 0, len(fnArr))
	for _, item := range fnArr {
		fn, err := parseOne(r, item)
		if err != nil {
			return nil, err
		}
		subs = append(subs, fn)
	}
	xmin, xmax := 0.0, 1.0
	if len(domain) >= 2 {
		xmin, xmax = domain[0], domain[1]
	}
	return &Type3{
		XMin: xmin, XMax: xmax,
		Functions: subs,
		Bounds:    floatArray(r, dict["Bounds"]),
		Encode:    floatArray(r, dict["Encode"]),
		Range:     rng,
	}, nil
}

func parseType4(r pdf.Getter, dict pdf.Dict, stream *pdf.Stream, domain, rng []float64) (Function, error) {
	if stream == nil {
		return nil, pdf.Errorf("function: type 4 requires a stream")
	}
	data, err := pdf.DecodeStream(r, stream, nil)
	if err != nil {
		return nil, err
	}
	return &Type4{Domain: domain, Range: rng, Program: string(data)}, nil
}

func floatArray(r pdf.Getter, obj pdf.Object) []float64 {
	arr, err := pdf.GetArray(r, obj)
	if err != nil {
		return nil
	}
	out := make([]float64, len(arr))
	for i, v := range arr {
		out[i], _ = pdf.GetNumber(r, v)
	}
	return out
}
