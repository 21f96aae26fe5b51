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

// Package bitio provides MSB-first bit readers shared by the filter and
// image-unpacking code: a plain reader for simple
// sub-byte-sample unpacking, and a JPEG2000-aware variant that honors
// the codestream's 0xFF stuff-bit convention.
package bitio

// Reader reads bits MSB-first out of a byte slice.
type Reader struct {
	data   []byte
	curPos int // bit position
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) bytePos() int { return r.curPos / 8 }
func (r *Reader) bitPos() int  { return r.curPos % 8 }

// Align advances to the next byte boundary, a no-op if already aligned.
func (r *Reader) Align() {
	if bp := r.bitPos(); bp != 0 {
		r.curPos += 8 - bp
	}
}

// ReadBit reads a single bit, reporting false once the data is exhausted.
func (r *Reader) ReadBit() (uint32, bool) {
	bp := r.bytePos()
	if bp >= len(r.data) {
		return 0, false
	}
	shift := uint(7 - r.bitPos())
	bit := uint32(r.data[bp]>>shift) & 1
	r.curPos++
	return bit, true
}

// ReadBits reads n bits (n <= 32), most significant bit first.
func (r *Reader) ReadBits(n int) (uint32, bool) {
	var v uint32
	for i := 0; i < n; i++ {
		bit, ok := r.ReadBit()
		if !ok {
			return 0, false
		}
		v = v<<1 | bit
	}
	return v, true
}

// PeekBits reads n bits without advancing the reader.
func (r *Reader) PeekBits(n int) (uint32, bool) {
	save := r.curPos
	v, ok := r.ReadBits(n)
	r.curPos = save
	return v, ok
}

// Tail returns the remaining, byte-aligned portion of the data (the
// caller must Align first if mid-byte).
func (r *Reader) Tail() []byte {
	return r.data[r.bytePos():]
}

// StuffingReader wraps Reader with JPEG2000's bit-stuffing convention
// (ISO/IEC 15444-1 Annex B.10.1): whenever a 0xFF byte has just been
// consumed, the following byte has a zero bit stuffed into its MSB that
// must be skipped rather than treated as data.
type StuffingReader struct {
	r *Reader
}

// NewStuffingReader returns a StuffingReader over data.
func NewStuffingReader(data []byte) *StuffingReader {
	return &StuffingReader{r: NewReader(data)}
}

func (r *StuffingReader) skipStuffBitIfNeeded() bool {
	if r.r.bitPos() == 0 && r.r.bytePos() > 0 {
		lastByte := r.r.data[r.r.bytePos()-1]
		if lastByte == 0xFF {
			bit, ok := r.r.ReadBit()
			if !ok {
				return false
			}
			if bit != 0 {
				return false
			}
		}
	}
	return true
}

// ReadBits reads bit_size bits, transparently skipping any stuff bits
// JPEG2000 inserted after an 0xFF byte.
func (r *StuffingReader) ReadBits(bitSize int) (uint32, bool) {
	var v uint32
	for i := 0; i < bitSize; i++ {
		if !r.skipStuffBitIfNeeded() {
			return 0, false
		}
		bit, ok := r.r.ReadBit()
		if !ok {
			return 0, false
		}
		v = v<<1 | bit
	}
	return v, true
}

// PeekBits reads bit_size bits (honoring stuffing) without consuming
// them.
func (r *StuffingReader) PeekBits(bitSize int) (uint32, bool) {
	save := r.r.curPos
	v, ok := r.ReadBits(bitSize)
	r.r.curPos = save
	return v, ok
}
