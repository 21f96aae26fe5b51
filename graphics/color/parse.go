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

func floatArray(r pdf.Getter, d pdf.Dict, key pdf.Name) []float64 {
	arr, err := pdf.GetArray(r, d[key])
	if err != nil || arr == nil {
		return nil
	}
	out := make([]float64, len(arr))
	for i, o := range arr {
		v, err := pdf.GetNumber(r, o)
		if err != nil {
			return nil
		}
		out[i] = v
	}
	return out
}

func whitePoint(r pdf.Getter, d pdf.Dict) [3]float64 {
	wp := floatArray(r, d, "WhitePoint")
	if len(wp) == 3 {
		return [3]float64{wp[0], wp[1], wp[2]}
	}
	return WhitePointD65
}

func parseCalGray(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) < 2 {
		return DeviceGray, nil
	}
	d, err := pdf.GetDict(r, arr[1])
	if err != nil || d == nil {
		return DeviceGray, nil
	}
	gamma := 1.0
	if g, ok := d["Gamma"]; ok {
		if v, err := pdf.GetNumber(r, g); err == nil {
			gamma = v
		}
	}
	return CalGray(whitePoint(r, d), floatArray(r, d, "BlackPoint"), gamma)
}

func parseCalRGB(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) < 2 {
		return DeviceRGB, nil
	}
	d, err := pdf.GetDict(r, arr[1])
	if err != nil || d == nil {
		return DeviceRGB, nil
	}
	return CalRGB(whitePoint(r, d), floatArray(r, d, "BlackPoint"), floatArray(r, d, "Gamma"), floatArray(r, d, "Matrix"))
}

func parseLab(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) < 2 {
		return DeviceRGB, nil
	}
	d, err := pdf.GetDict(r, arr[1])
	if err != nil || d == nil {
		return DeviceRGB, nil
	}
	return Lab(whitePoint(r, d), floatArray(r, d, "BlackPoint"), floatArray(r, d, "Range"))
}
