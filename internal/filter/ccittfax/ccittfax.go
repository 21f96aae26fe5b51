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

// Package ccittfax implements the PDF CCITTFaxDecode filter: Group 3 (1D and mixed 1D/2D) and Group 4 (pure 2D) fax
// compression as used for scanned bilevel page images.
package ccittfax

import "fmt"

// Params mirrors the /DecodeParms entries that configure a CCITTFaxDecode
// filter instance.
type Params struct {
	K                int
	Columns          int
	Rows             int
	EncodedByteAlign bool
	BlackIs1         bool
	EndOfBlock       bool
	EndOfLine        bool
}

// Decode decodes a CCITT fax bitstream into packed 1-bit-per-pixel rows,
// MSB first, one row padded to a byte boundary, matching the image/mask
// layout PDF expects for the resulting stream. Decode errors mid-stream
// return whatever rows were already decoded rather than discarding the whole page.
func Decode(data []byte, p Params) ([]byte, error) {
	if p.Columns <= 0 {
		p.Columns = 1728
	}
	r := newBitReader(data)
	rowBytes := (p.Columns + 7) / 8
	var out []byte

	refLine := []int{p.Columns, p.Columns}

	rows := 0
	for {
		if p.Rows > 0 && rows >= p.Rows {
			break
		}
		if r.atEnd() {
			break
		}

		twoDimensional := p.K < 0
		if p.K > 0 {
			bit, ok := r.readBit()
			if !ok {
				break
			}
			twoDimensional = bit == 0
		}

		var codingLine []int
		var ok bool
		if twoDimensional {
			codingLine, ok = decode2DRow(r, refLine, p.Columns)
		} else {
			codingLine, ok = decode1DRow(r, p.Columns)
		}
		if !ok {
			break
		}

		out = append(out, packRow(codingLine, p.Columns, rowBytes, p.BlackIs1)...)
		refLine = codingLine
		rows++

		if p.EncodedByteAlign {
			r.align()
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("ccittfax: no rows decoded")
	}
	return out, nil
}

// decode1DRow decodes one Group 3 1D scan line as an alternating sequence
// of white/black runs, starting white, and returns the column positions
// where color changes (T.4 §2.1.2).
func decode1DRow(r *bitReader, columns int) ([]int, bool) {
	var changes []int
	pos := 0
	white := true
	for pos < columns {
		table := whiteCodes
		if !white {
			table = blackCodes
		}
		run, ok := readRun(r, table)
		if !ok {
			return nil, false
		}
		pos += run
		if pos > columns {
			pos = columns
		}
		changes = append(changes, pos)
		white = !white
	}
	changes = append(changes, columns, columns)
	return changes, true
}

// decode2DRow decodes one Group 4 / mixed Group 3 2D scan line relative
// to refLine, the previous row's change positions, per the T.6 2D coding
// procedure (find b1/b2 in the reference line, apply Pass/Horizontal/
// Vertical mode codes).
func decode2DRow(r *bitReader, refLine []int, columns int) ([]int, bool) {
	var changes []int
	a0 := -1
	white := true

	for a0 < columns {
		b1, b2 := findB1B2(refLine, a0, white, columns)

		m, ok := matchMode(r)
		if !ok {
			return nil, false
		}
		switch m {
		case modePass:
			a0 = b2
		case modeHorizontal:
			table1, table2 := whiteCodes, blackCodes
			if !white {
				table1, table2 = blackCodes, whiteCodes
			}
			run1, ok1 := readRun(r, table1)
			run2, ok2 := readRun(r, table2)
			if !ok1 || !ok2 {
				return nil, false
			}
			start := a0
			if start < 0 {
				start = 0
			}
			a1 := start + run1
			a2 := a1 + run2
			if a1 > columns {
				a1 = columns
			}
			if a2 > columns {
				a2 = columns
			}
			changes = append(changes, a1, a2)
			a0 = a2
		case modeV0, modeVR1, modeVR2, modeVR3, modeVL1, modeVL2, modeVL3:
			delta := 0
			switch m {
			case modeVR1:
				delta = 1
			case modeVR2:
				delta = 2
			case modeVR3:
				delta = 3
			case modeVL1:
				delta = -1
			case modeVL2:
				delta = -2
			case modeVL3:
				delta = -3
			}
			a1 := b1 + delta
			if a1 < 0 {
				a1 = 0
			}
			if a1 > columns {
				a1 = columns
			}
			changes = append(changes, a1)
			a0 = a1
			white = !white
		case modeEOL:
			return nil, false
		case modeExt:
			return nil, false
		}
	}
	changes = append(changes, columns, columns)
	return changes, true
}

// findB1B2 locates the reference line's first changing element to the
// right of a0 with color opposite to the current coding color, and the
// element following it (T.6 §2.2.1).
func findB1B2(refLine []int, a0 int, white bool, columns int) (int, int) {
	i := 0
	for i < len(refLine) && refLine[i] <= a0 {
		i++
	}
	// refLine[i] alternates colors starting with white->black at index 0;
	// b1 must have the opposite color of a0's current color, i.e. even
	// index transitions to black (opposite of white) and odd to white.
	if white {
		if i%2 != 0 {
			i++
		}
	} else {
		if i%2 != 1 {
			i++
		}
	}
	b1 := columns
	if i < len(refLine) {
		b1 = refLine[i]
	}
	b2 := columns
	if i+1 < len(refLine) {
		b2 = refLine[i+1]
	}
	return b1, b2
}

// packRow renders a row's change-position list into packed 1bpp bytes.
// PDF's default convention is 0 = black, 1 = white (the opposite of the
// fax convention where black is 1); BlackIs1 selects the fax convention
// directly.
func packRow(changes []int, columns, rowBytes int, blackIs1 bool) []byte {
	whiteBit := byte(1)
	blackBit := byte(0)
	if blackIs1 {
		whiteBit, blackBit = 0, 1
	}

	row := make([]byte, rowBytes)
	if whiteBit == 1 {
		for i := range row {
			row[i] = 0xFF
		}
	}

	white := true
	pos := 0
	for _, c := range changes {
		if c > columns {
			c = columns
		}
		if !white && blackBit != whiteBit {
			setRange(row, pos, c, blackBit)
		}
		pos = c
		white = !white
		if pos >= columns {
			break
		}
	}
	return row
}

func setRange(row []byte, from, to int, bit byte) {
	for x := from; x < to; x++ {
		if bit == 1 {
			row[x/8] |= 1 << uint(7-x%8)
		} else {
			row[x/8] &^= 1 << uint(7-x%8)
		}
	}
}
