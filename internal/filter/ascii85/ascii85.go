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

// Package ascii85 implements the PDF ASCII85Decode filter,
// which is Adobe's variant of btoa encoding: groups of five '!'..'u' bytes
// decode to four big-endian bytes, 'z' is a shorthand for four zero
// bytes, and '~>' terminates the stream.
package ascii85

// Decode decodes ASCII85-encoded data. It is lenient: whitespace is
// ignored, an incomplete trailing group is still emitted, and a missing
// terminator does not prevent returning what was decoded.
func Decode(data []byte) []byte {
	var out []byte
	var group [5]byte
	n := 0

	flush := func(count int) {
		if count == 0 {
			return
		}
		for i := count; i < 5; i++ {
			group[i] = 'u'
		}
		var v uint32
		for i := 0; i < 5; i++ {
			v = v*85 + uint32(group[i]-'!')
		}
		buf := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		out = append(out, buf[:count-1]...)
	}

	for i := 0; i < len(data); i++ {
		b := data[i]
		switch {
		case b == '~':
			flush(n)
			n = 0
			return out
		case b == 'z' && n == 0:
			out = append(out, 0, 0, 0, 0)
		case isSpace(b):
			continue
		case b < '!' || b > 'u':
			continue
		default:
			group[n] = b
			n++
			if n == 5 {
				flush(5)
				n = 0
			}
		}
	}
	flush(n)
	return out
}

// Encode is provided for round-trip testing; it
// is not used by the reading/rendering pipeline itself.
func Encode(data []byte) []byte {
	var out []byte
	for i := 0; i < len(data); i += 4 {
		chunk := data[i:min(i+4, len(data))]
		var buf [4]byte
		copy(buf[:], chunk)
		v := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
		if len(chunk) == 4 && v == 0 {
			out = append(out, 'z')
			continue
		}
		var group [5]byte
		for j := 4; j >= 0; j-- {
			group[j] = byte(v%85) + '!'
			v /= 85
		}
		out = append(out, group[:len(chunk)+1]...)
	}
	out = append(out, '~', '>')
	return out
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
