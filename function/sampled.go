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

// Type0 is the sampled function (ISO 32000-1 §7.10.2): an m-dimensional
// grid of n-tuples, addressed by Encode-mapped input coordinates and
// interpolated multilinearly between adjacent grid
// points. The optional cubic-spline variant for 1-input
// functions (/Order 3) is not implemented: UseCubic is accepted on the
// struct but evaluation always falls back to multilinear, which is a
// legal (if less smooth) degrade for a continuous sampled function.
type Type0 struct {
	Domain        []float64
	Range         []float64
	Size          []int
	BitsPerSample int
	Encode        []float64
	Decode        []float64
	Samples       []byte
	UseCubic      bool

	repaired bool
	nOut     int
}

// repair fills in the Encode/Decode defaults (Encode_i = [0, Size_i-1],
// Decode = Range) that an encoder is allowed to omit.
func (f *Type0) repair() {
	if f.repaired {
		return
	}
	f.repaired = true
	m := len(f.Size)
	if len(f.Encode) != 2*m {
		f.Encode = make([]float64, 2*m)
		for i := 0; i < m; i++ {
			f.Encode[2*i] = 0
			f.Encode[2*i+1] = float64(f.Size[i] - 1)
		}
	}
	if len(f.Decode) == 0 {
		f.Decode = f.Range
	}
	f.nOut = len(f.Range) / 2
}

func (f *Type0) maxSampleValue() float64 {
	return float64((uint64(1) << uint(f.BitsPerSample)) - 1)
}

// extractSampleAtIndex reads the raw (undecoded) sample value at the
// given flat index into the output-interleaved sample stream (index is
// over n-tuples, not individual components): ISO 32000-1 §7.10.2 "the
// first output value at the first grid point, followed by the second
// output value at the first grid point, ..., then all output values at
// the second grid point, and so on".
func (f *Type0) extractSampleAtIndex(i int) uint64 {
	bitOffset := i * f.BitsPerSample
	return f.readBits(bitOffset, f.BitsPerSample)
}

func (f *Type0) readBits(bitOffset, n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		pos := bitOffset + i
		byteIdx := pos / 8
		if byteIdx >= len(f.Samples) {
			v <<= 1
			continue
		}
		bit := (f.Samples[byteIdx] >> uint(7-pos%8)) & 1
		v = v<<1 | uint64(bit)
	}
	return v
}

func (f *Type0) sampleComponent(gridIndex []int, outIdx int) float64 {
	flat := 0
	stride := 1
	for dim := 0; dim < len(f.Size); dim++ {
		flat += gridIndex[dim] * stride
		stride *= f.Size[dim]
	}
	bitOffset := (flat*f.nOut + outIdx) * f.BitsPerSample
	raw := f.readBits(bitOffset, f.BitsPerSample)
	return float64(raw)
}

func (f *Type0) Eval(in []float64) ([]float64, error) {
	f.repair()
	m := len(f.Size)
	if len(in) != m {
		return nil, errWrongArity("Type0", m, len(in))
	}
	if f.nOut == 0 {
		return nil, nil
	}

	e := make([]float64, m)
	lo := make([]int, m)
	frac := make([]float64, m)
	for i := 0; i < m; i++ {
		x := clamp(in[i], f.Domain[2*i], f.Domain[2*i+1])
		enc := interpolate(x, f.Domain[2*i], f.Domain[2*i+1], f.Encode[2*i], f.Encode[2*i+1])
		enc = clamp(enc, 0, float64(f.Size[i]-1))
		e[i] = enc
		lo[i] = int(enc)
		if lo[i] >= f.Size[i]-1 {
			lo[i] = maxInt(f.Size[i]-2, 0)
		}
		frac[i] = enc - float64(lo[i])
	}

	out := make([]float64, f.nOut)
	maxVal := f.maxSampleValue()
	corners := 1 << uint(m)
	idx := make([]int, m)
	for c := 0; c < corners; c++ {
		weight := 1.0
		for dim := 0; dim < m; dim++ {
			if c&(1<<uint(dim)) != 0 {
				idx[dim] = minInt(lo[dim]+1, f.Size[dim]-1)
				weight *= frac[dim]
			} else {
				idx[dim] = lo[dim]
				weight *= 1 - frac[dim]
			}
		}
		if weight == 0 {
			continue
		}
		for o := 0; o < f.nOut; o++ {
			out[o] += weight * f.sampleComponent(idx, o)
		}
	}

	for o := 0; o < f.nOut; o++ {
		d0, d1 := 0.0, 1.0
		if 2*o+1 < len(f.Decode) {
			d0, d1 = f.Decode[2*o], f.Decode[2*o+1]
		}
		out[o] = interpolate(out[o], 0, maxVal, d0, d1)
	}
	if len(f.Range) > 0 {
		clampRange(out, f.Range)
	}
	return out, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
