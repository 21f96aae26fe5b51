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

// Package lzwflate implements the PDF LZWDecode and FlateDecode filters,
// plus the PNG/TIFF predictor post-processing shared by both.
package lzwflate

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

const (
	lzwClearCode = 256
	lzwEOD       = 257
	lzwFirstCode = 258
)

// DecodeLZW decodes PDF's adaptive-width LZW stream. Unlike the generic
// compress/lzw in the standard library, this honors PDF's EarlyChange
// parameter (code width increases one code early by default), so it is
// implemented directly rather than adapted from stdlib.
func DecodeLZW(data []byte, earlyChange bool) ([]byte, error) {
	br := &bitReader{data: data}
	table := newLZWTable()
	var out bytes.Buffer
	var prev []byte

	codeWidth := 9
	for {
		code, ok := br.read(codeWidth)
		if !ok {
			break
		}
		switch code {
		case lzwClearCode:
			table = newLZWTable()
			codeWidth = 9
			prev = nil
			continue
		case lzwEOD:
			return out.Bytes(), nil
		}

		var entry []byte
		if code < len(table) {
			entry = table[code]
		} else if code == len(table) && prev != nil {
			entry = append(append([]byte{}, prev...), prev[0])
		} else {
			return out.Bytes(), errors.New("lzw: invalid code")
		}

		out.Write(entry)

		if prev != nil && len(table) < 4096 {
			newEntry := append(append([]byte{}, prev...), entry[0])
			table = append(table, newEntry)
		}
		prev = entry

		bump := len(table)
		if earlyChange {
			bump++
		}
		switch {
		case bump >= 2048 && codeWidth < 12:
			codeWidth = 12
		case bump >= 1024 && codeWidth < 11:
			codeWidth = 11
		case bump >= 512 && codeWidth < 10:
			codeWidth = 10
		}
	}
	return out.Bytes(), nil
}

func newLZWTable() [][]byte {
	table := make([][]byte, lzwFirstCode, 4096)
	for i := 0; i < 256; i++ {
		table[i] = []byte{byte(i)}
	}
	return table
}

type bitReader struct {
	data []byte
	pos  int // bit position
}

func (r *bitReader) read(n int) (int, bool) {
	if r.pos+n > len(r.data)*8 {
		return 0, false
	}
	v := 0
	for i := 0; i < n; i++ {
		byteIdx := (r.pos + i) / 8
		bitIdx := 7 - uint((r.pos+i)%8)
		bit := (r.data[byteIdx] >> bitIdx) & 1
		v = v<<1 | int(bit)
	}
	r.pos += n
	return v, true
}

// DecodeFlate decodes DEFLATE-compressed data via the standard library.
// PDF producers occasionally omit or corrupt the final bytes; whatever
// was decoded before an error is still returned so the predictor stage
// (and the caller's tolerant-decode policy) can make use of
// partial data.
func DecodeFlate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("flate: %w", err)
	}
	defer zr.Close()
	out, readErr := io.ReadAll(zr)
	if readErr != nil && len(out) == 0 {
		return nil, fmt.Errorf("flate: %w", readErr)
	}
	return out, nil
}
