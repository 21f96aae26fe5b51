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

package jbig2

// qeEntry is one row of the MQ-coder probability estimation state table
// (JBIG2 Annex E.1, shared with JPEG2000's arithmetic coder).
type qeEntry struct {
	qe         uint32
	nmps, nlps uint8
	switchFlag uint8
}

var qeTable = [...]qeEntry{
	{0x5601, 1, 1, 1}, {0x3401, 2, 6, 0}, {0x1801, 3, 9, 0}, {0x0AC1, 4, 12, 0},
	{0x0521, 5, 29, 0}, {0x0221, 38, 33, 0}, {0x5601, 7, 6, 1}, {0x5401, 8, 14, 0},
	{0x4801, 9, 14, 0}, {0x3801, 10, 14, 0}, {0x3001, 11, 17, 0}, {0x2401, 12, 18, 0},
	{0x1C01, 13, 20, 0}, {0x1601, 29, 21, 0}, {0x5601, 15, 14, 1}, {0x5401, 16, 14, 0},
	{0x5101, 17, 15, 0}, {0x4801, 18, 16, 0}, {0x3801, 19, 17, 0}, {0x3401, 20, 18, 0},
	{0x3001, 21, 19, 0}, {0x2801, 22, 19, 0}, {0x2401, 23, 20, 0}, {0x2201, 24, 21, 0},
	{0x1C01, 25, 22, 0}, {0x1801, 26, 23, 0}, {0x1601, 27, 24, 0}, {0x1401, 28, 25, 0},
	{0x1201, 29, 26, 0}, {0x1101, 30, 27, 0}, {0x0AC1, 31, 28, 0}, {0x09C1, 32, 29, 0},
	{0x08A1, 33, 30, 0}, {0x0521, 34, 31, 0}, {0x0441, 35, 32, 0}, {0x02A1, 36, 33, 0},
	{0x0221, 37, 34, 0}, {0x0141, 38, 35, 0}, {0x0111, 39, 36, 0}, {0x0085, 40, 37, 0},
	{0x0049, 41, 38, 0}, {0x0025, 42, 39, 0}, {0x0015, 43, 40, 0}, {0x0009, 44, 41, 0},
	{0x0005, 45, 42, 0}, {0x0001, 45, 43, 0}, {0x5601, 46, 46, 0},
}

// context holds per-bit-position MQ coder state: current probability
// index and the current MPS bit.
type context struct {
	i   uint8
	mps uint8
}

// mqDecoder implements the MQ arithmetic decoder from JBIG2 Annex E.2-E.3.
type mqDecoder struct {
	data []byte
	bp   int

	c     uint32
	a     uint32
	ct    int
	chigh uint32
}

func newMQDecoder(data []byte) *mqDecoder {
	d := &mqDecoder{data: data}
	d.init()
	return d
}

func (d *mqDecoder) byteIn() {
	if d.bp < len(d.data) && d.data[d.bp] == 0xFF {
		var b1 byte
		if d.bp+1 < len(d.data) {
			b1 = d.data[d.bp+1]
		} else {
			b1 = 0xFF
		}
		if b1 > 0x8F {
			d.c += 0xFF00
			d.ct = 8
		} else {
			d.bp++
			d.c += uint32(b1) << 9
			d.ct = 7
		}
	} else {
		d.bp++
		var b byte
		if d.bp < len(d.data) {
			b = d.data[d.bp]
		} else {
			b = 0xFF
		}
		d.c += uint32(b) << 8
		d.ct = 8
	}
}

func (d *mqDecoder) init() {
	d.bp = 0
	var b0 byte
	if len(d.data) > 0 {
		b0 = d.data[0]
	} else {
		b0 = 0xFF
	}
	d.c = uint32(b0) << 16
	d.byteIn()
	d.c <<= 7
	d.ct -= 7
	d.a = 0x8000
}

// decodeBit decodes one bit using cx's probability state, per the MQ
// DECODE procedure (Annex E.3.2).
func (d *mqDecoder) decodeBit(cx *context) int {
	qe := qeTable[cx.i].qe
	d.a -= qe

	var bit int
	if (d.c >> 16) < uint32(qe) {
		// LPS exchange or MPS exchange depending on A vs Qe.
		if d.a < qe {
			bit = int(cx.mps)
			cx.i = qeTable[cx.i].nmps
		} else {
			bit = int(1 - cx.mps)
			if qeTable[cx.i].switchFlag == 1 {
				cx.mps = 1 - cx.mps
			}
			cx.i = qeTable[cx.i].nlps
		}
		d.a = qe
	} else {
		d.c -= uint32(qe) << 16
		if d.a&0x8000 != 0 {
			return int(cx.mps)
		}
		if d.a < qe {
			bit = int(1 - cx.mps)
			if qeTable[cx.i].switchFlag == 1 {
				cx.mps = 1 - cx.mps
			}
			cx.i = qeTable[cx.i].nlps
		} else {
			bit = int(cx.mps)
			cx.i = qeTable[cx.i].nmps
		}
	}

	for d.a&0x8000 == 0 {
		if d.ct == 0 {
			d.byteIn()
		}
		d.a <<= 1
		d.c <<= 1
		d.ct--
	}
	return bit
}
