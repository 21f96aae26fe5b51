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

package pdf

import (
	"io"
	"log/slog"

	"github.com/corvuspdf/corvus/internal/filter/ascii85"
	"github.com/corvuspdf/corvus/internal/filter/asciihex"
	"github.com/corvuspdf/corvus/internal/filter/ccittfax"
	"github.com/corvuspdf/corvus/internal/filter/dct"
	"github.com/corvuspdf/corvus/internal/filter/jbig2"
	"github.com/corvuspdf/corvus/internal/filter/jpx"
	"github.com/corvuspdf/corvus/internal/filter/lzwflate"
	"github.com/corvuspdf/corvus/internal/filter/runlength"
)

// FilterInfo pairs a filter name with its decode parameters, as extracted
// from a stream's (possibly array-valued) /Filter and /DecodeParms
// entries.
type FilterInfo struct {
	Name  Name
	Parms Dict
}

// DecodedImageResult describes already-unpacked image samples with
// their geometry and component layout. No function in this package
// returns one: applyFilter passes on only the decoded bytes of the
// image codecs (DCT, JPX, CCITT, JBIG2).
type DecodedImageResult struct {
	Data        []byte
	Width       int
	Height      int
	Components  int
	BitsPerComp int
	ColorSpace  string // hint, e.g. "DeviceGray"/"DeviceRGB"/"DeviceCMYK"; empty if not applicable
}

func extractFilterInfo(r Getter, dict Dict) ([]*FilterInfo, error) {
	filterObj, err := Resolve(r, dict["Filter"])
	if err != nil {
		return nil, err
	}
	parmsObj, err := Resolve(r, dict["DecodeParms"])
	if err != nil {
		return nil, err
	}

	var filters []*FilterInfo
	switch f := filterObj.(type) {
	case nil:
		return nil, nil
	case Name:
		p, _ := Resolve(r, parmsObj)
		pd, _ := p.(Dict)
		filters = append(filters, &FilterInfo{Name: f, Parms: pd})
	case Array:
		pa, _ := parmsObj.(Array)
		for i, fi := range f {
			name, err := GetName(r, fi)
			if err != nil {
				return nil, err
			}
			var pd Dict
			if i < len(pa) {
				pd, _ = GetDict(r, pa[i])
			}
			filters = append(filters, &FilterInfo{Name: name, Parms: pd})
		}
	default:
		return nil, Errorf("invalid /Filter entry of type %T", filterObj)
	}
	return filters, nil
}

// DecodeStream resolves a stream's filter chain and applies it in
// order. The first stage that fails is logged and ends the chain with
// an empty result and a nil error, so callers can substitute "no draw";
// a malformed /Filter entry is logged and the raw bytes are returned.
func DecodeStream(r Getter, stream *Stream, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	raw, err := io.ReadAll(stream.R)
	if err != nil {
		return nil, err
	}

	filters, err := extractFilterInfo(r, stream.Dict)
	if err != nil {
		logger.Warn("invalid filter chain", "err", err)
		return raw, nil
	}

	data := raw
	for _, f := range filters {
		decoded, err := applyFilter(r, f.Name, data, f.Parms)
		if err != nil {
			logger.Warn("filter decode failed", "filter", f.Name, "err", err)
			return nil, nil
		}
		data = decoded
	}
	return data, nil
}

// decodeStreamBytesNoXref decodes a stream whose /Length, /Filter and
// /DecodeParms are guaranteed direct (xref streams, per the PDF spec,
// never use indirect references there).
func decodeStreamBytesNoXref(stream *Stream) ([]byte, error) {
	raw, err := io.ReadAll(stream.R)
	if err != nil {
		return nil, err
	}
	filters, err := extractFilterInfo(nullGetter{}, stream.Dict)
	if err != nil {
		return raw, nil
	}
	data := raw
	for _, f := range filters {
		decoded, err := applyFilter(nullGetter{}, f.Name, data, f.Parms)
		if err != nil {
			return nil, err
		}
		data = decoded
	}
	return data, nil
}

type nullGetter struct{}

func (nullGetter) Get(ref Reference, _ bool) (Native, error) { return Null{}, nil }

func applyFilter(r Getter, name Name, data []byte, parms Dict) ([]byte, error) {
	switch name {
	case "":
		return data, nil
	case "ASCII85Decode", "A85":
		return ascii85.Decode(data), nil
	case "ASCIIHexDecode", "AHx":
		return asciihex.Decode(data), nil
	case "RunLengthDecode", "RL":
		return runlength.Decode(data), nil
	case "LZWDecode", "LZW":
		early := dictInt(parms, "EarlyChange", 1) != 0
		out, err := lzwflate.DecodeLZW(data, early)
		if err != nil {
			return nil, err
		}
		return lzwflate.Predict(out, predictorParams(parms))
	case "FlateDecode", "Fl":
		out, err := lzwflate.DecodeFlate(data)
		if err != nil {
			return nil, err
		}
		return lzwflate.Predict(out, predictorParams(parms))
	case "DCTDecode", "DCT":
		res, err := dct.Decode(data)
		if err != nil {
			return nil, err
		}
		return res.Data, nil
	case "JPXDecode":
		res, err := jpx.Decode(data)
		if err != nil {
			return nil, err
		}
		return res.Data, nil
	case "CCITTFaxDecode", "CCF":
		res, err := ccittfax.Decode(data, ccittParams(parms))
		if err != nil {
			return nil, err
		}
		return res, nil
	case "JBIG2Decode":
		var globals []byte
		if parms != nil {
			if gs, err := GetStream(r, parms["JBIG2Globals"]); err == nil && gs != nil {
				globals, _ = DecodeStream(r, gs, nil)
			}
		}
		res, err := jbig2.Decode(data, globals, jbig2Params(parms))
		if err != nil {
			return nil, err
		}
		return res, nil
	case "Crypt":
		// Treated as the Identity crypt filter: the bytes pass through
		// unchanged.
		return data, nil
	default:
		return nil, Errorf("unrecognized filter %q", name)
	}
}

func dictInt(d Dict, key Name, def int) int {
	if d == nil {
		return def
	}
	if v, ok := d[key].(Integer); ok {
		return int(v)
	}
	return def
}

func predictorParams(parms Dict) lzwflate.PredictorParams {
	return lzwflate.PredictorParams{
		Predictor:        dictInt(parms, "Predictor", 1),
		Colors:           dictInt(parms, "Colors", 1),
		BitsPerComponent: dictInt(parms, "BitsPerComponent", 8),
		Columns:          dictInt(parms, "Columns", 1),
	}
}

func ccittParams(parms Dict) ccittfax.Params {
	p := ccittfax.Params{
		K:               dictInt(parms, "K", 0),
		Columns:         dictInt(parms, "Columns", 1728),
		Rows:            dictInt(parms, "Rows", 0),
		EncodedByteAlign: dictBool(parms, "EncodedByteAlign", false),
		BlackIs1:        dictBool(parms, "BlackIs1", false),
		EndOfBlock:      dictBool(parms, "EndOfBlock", true),
		EndOfLine:       dictBool(parms, "EndOfLine", false),
	}
	return p
}

func dictBool(d Dict, key Name, def bool) bool {
	if d == nil {
		return def
	}
	if v, ok := d[key].(Boolean); ok {
		return bool(v)
	}
	return def
}

func jbig2Params(parms Dict) jbig2.Params {
	return jbig2.Params{}
}
