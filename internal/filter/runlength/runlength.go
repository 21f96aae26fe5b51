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

// Package runlength implements the PDF RunLengthDecode filter: a length byte L selects 0-127 -> L+1 literal bytes, 129-255 ->
// repeat the next byte (257-L) times, 128 -> end of data.
package runlength

// Decode decodes run-length-encoded data, stopping at the first 128
// length byte or at the end of input, whichever comes first (lenient:
// a missing 128 terminator is not an error).
func Decode(data []byte) []byte {
	var out []byte
	i := 0
	for i < len(data) {
		l := data[i]
		i++
		switch {
		case l == 128:
			return out
		case l < 128:
			n := int(l) + 1
			end := i + n
			if end > len(data) {
				end = len(data)
			}
			out = append(out, data[i:end]...)
			i = end
		default:
			if i >= len(data) {
				return out
			}
			b := data[i]
			i++
			count := 257 - int(l)
			for j := 0; j < count; j++ {
				out = append(out, b)
			}
		}
	}
	return out
}

// Encode is provided for round-trip testing. It
// uses a simple, always-valid encoding (no run ever exceeds the limits
// the format allows) rather than an optimal one.
func Encode(data []byte) []byte {
	var out []byte
	i := 0
	for i < len(data) {
		// Look for a run of identical bytes of length >= 2.
		runLen := 1
		for i+runLen < len(data) && data[i+runLen] == data[i] && runLen < 128 {
			runLen++
		}
		if runLen >= 2 {
			out = append(out, byte(257-runLen), data[i])
			i += runLen
			continue
		}
		// Otherwise emit a literal run up to 128 bytes, stopping before
		// the next repeat run so encode(decode(x)) round-trips exactly.
		start := i
		i++
		for i < len(data) && i-start < 128 {
			if i+1 < len(data) && data[i+1] == data[i] {
				break
			}
			i++
		}
		out = append(out, byte(i-start-1))
		out = append(out, data[start:i]...)
	}
	out = append(out, 128)
	return out
}
