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
	"encoding/binary"

	"seehuhn.de/go/icc"

	pdf "github.com/corvuspdf/corvus"
)

// SpaceICCBased wraps an embedded ICC profile ("ICC-based"). This package reads only the profile header's data
// colorspace signature (ICC spec §7.2.6) to learn the component count;
// the full device-to-PCS transform (A2B/TRC LUT evaluation) is a CMM in
// its own right and out of scope, so every ICCBased color is actually
// rendered through Alternate (or a device space inferred from the
// header when no Alternate is given).
type SpaceICCBased struct {
	N         int
	Alternate Space
}

// ICCBased parses profile's header and constructs the colorspace. alt,
// if non-nil, is used as Alternate; otherwise Alternate is inferred
// from the header's declared colorspace (or defaults to DeviceRGB if
// the header cannot be read).
func ICCBased(profile []byte, alt Space) (*SpaceICCBased, error) {
	n := sniffComponents(profile)
	s := &SpaceICCBased{Alternate: alt, N: n}
	if s.Alternate == nil {
		s.Alternate = fallbackForN(n)
	}
	if s.N == 0 {
		s.N = s.Alternate.NumComponents()
	}
	return s, nil
}

// sniffComponents reads the ICC header's "data colour space" field
// (bytes 16-19, a 4-character signature such as "RGB ", "GRAY", "CMYK")
// and returns the component count it implies, or 0 if the header is too
// short or the signature unrecognized.
func sniffComponents(profile []byte) int {
	if len(profile) < 20 {
		return 0
	}
	sig := binary.BigEndian.Uint32(profile[16:20])
	switch sig {
	case 0x47524159: // "GRAY"
		return 1
	case 0x52474220: // "RGB "
		return 3
	case 0x434d594b: // "CMYK"
		return 4
	case 0x4c616220: // "Lab "
		return 3
	default:
		return 0
	}
}

func (s *SpaceICCBased) Family() string     { return "ICCBased" }
func (s *SpaceICCBased) NumComponents() int { return s.N }
func (s *SpaceICCBased) Default() Color {
	comps := make([]float64, s.N)
	if s.N == 4 {
		comps[3] = 1
	}
	c, _ := s.NewColor(comps)
	return c
}

// NewColor degrades to the alternate space (see the SpaceICCBased
// doc comment for why the profile's own transform is never evaluated).
func (s *SpaceICCBased) NewColor(c []float64) (Color, error) {
	if s.Alternate != nil {
		return s.Alternate.NewColor(c)
	}
	return DeviceGray.NewColor(c)
}

// New mirrors NewColor with a signature matching the other CIE-based
// spaces' constructors (a slice of exactly N components).
func (s *SpaceICCBased) New(comps []float64) (Color, error) { return s.NewColor(comps) }

// SRGBSpace returns the ICCBased space for one of the library's
// built-in sRGB profiles (icc.SRGBv2Profile / icc.SRGBv4Profile). The
// colorspace parser does not use it: a profile that cannot be sniffed
// falls back to a device space chosen by component count.
func SRGBSpace(v4 bool) *SpaceICCBased {
	profile := icc.SRGBv2Profile
	if v4 {
		profile = icc.SRGBv4Profile
	}
	s, _ := ICCBased(profile, DeviceRGB)
	return s
}

func parseICCBased(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) < 2 {
		return DeviceRGB, nil
	}
	stream, err := pdf.GetStream(r, arr[1])
	if err != nil || stream == nil {
		return DeviceRGB, nil
	}

	var alt Space
	if altObj, ok := stream.Dict["Alternate"]; ok {
		if a, err := ParseSpace(r, altObj, nil); err == nil {
			alt = a
		}
	}

	data, err := pdf.DecodeStream(r, stream, nil)
	if err != nil || len(data) == 0 {
		n := dictIntLocal(r, stream.Dict, "N", 0)
		if alt != nil {
			return alt, nil
		}
		return fallbackForN(n), nil
	}
	return ICCBased(data, alt)
}

func fallbackForN(n int) Space {
	switch n {
	case 1:
		return DeviceGray
	case 4:
		return DeviceCMYK
	default:
		return DeviceRGB
	}
}

func dictIntLocal(r pdf.Getter, d pdf.Dict, key pdf.Name, def int) int {
	v, err := pdf.GetInteger(r, d[key])
	if err != nil {
		return def
	}
	return int(v)
}
