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
	"strconv"
)

// xrefKind distinguishes the three states an object number can resolve
// to: free, a direct byte offset, or an entry inside an object stream.
type xrefKind uint8

const (
	xrefFree xrefKind = iota
	xrefOffset
	xrefCompressed
)

type xrefEntry struct {
	kind       xrefKind
	generation uint16
	offset     int64  // xrefOffset: byte offset of "N G obj"
	inStream   uint32 // xrefCompressed: object number of the container stream
	index      int    // xrefCompressed: index within that stream
}

func (e xrefEntry) IsFree() bool { return e.kind == xrefFree }

// Xref is the cross-reference index: immutable once built,
// safe for concurrent reads from multiple page interpretations.
type Xref struct {
	entries map[uint32]xrefEntry
	Trailer Dict
}

// buildXref constructs the index, trying the trailer-led path first and
// falling back to a linear scan.
func buildXref(data []byte) (*Xref, error) {
	xr, err := buildXrefFromTrailer(data)
	if err == nil && xr != nil && len(xr.entries) > 0 {
		if xr.Trailer == nil {
			xr.Trailer = Dict{}
		}
		return xr, nil
	}

	xr2 := linearScanXref(data)
	if len(xr2.entries) == 0 {
		return nil, &OtherError{Err: errNoXref}
	}
	return xr2, nil
}

func findStartXref(data []byte) (int64, bool) {
	tailLen := 2048
	if tailLen > len(data) {
		tailLen = len(data)
	}
	tail := data[len(data)-tailLen:]
	idx := lastIndexOf(tail, "startxref")
	if idx < 0 {
		return 0, false
	}
	br := newByteReader(tail[idx+len("startxref"):])
	br.skipWhiteSpace()
	digits := br.readWhile(func(b byte) bool { return b >= '0' && b <= '9' })
	if len(digits) == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func lastIndexOf(data []byte, tag string) int {
	n := len(tag)
	for i := len(data) - n; i >= 0; i-- {
		if string(data[i:i+n]) == tag {
			return i
		}
	}
	return -1
}

// buildXrefFromTrailer follows startxref -> xref table/stream -> /Prev
// chain. The chain is guarded against loops by tracking visited offsets.
func buildXrefFromTrailer(data []byte) (*Xref, error) {
	start, ok := findStartXref(data)
	if !ok {
		return nil, errNoXref
	}

	xr := &Xref{entries: map[uint32]xrefEntry{}}
	visited := map[int64]bool{}
	offset := start
	var trailer Dict

	const maxPrevChain = 1024
	for i := 0; i < maxPrevChain; i++ {
		if offset < 0 || offset >= int64(len(data)) {
			break
		}
		if visited[offset] {
			break // already visited: the /Prev chain must stay loop-free
		}
		visited[offset] = true

		sectionTrailer, prev, err := parseXrefSectionAt(data, offset, xr)
		if err != nil {
			break
		}
		if trailer == nil {
			trailer = sectionTrailer
		} else {
			for k, v := range sectionTrailer {
				if _, exists := trailer[k]; !exists {
					trailer[k] = v
				}
			}
		}
		if prev == nil {
			break
		}
		offset = *prev
	}

	if trailer == nil {
		return nil, errNoXref
	}
	xr.Trailer = trailer
	return xr, nil
}

// parseXrefSectionAt parses one xref table or xref stream, inserting
// first-seen entries into xr (first occurrence of an object number
// wins), and returns its trailer dict and /Prev offset.
func parseXrefSectionAt(data []byte, offset int64, xr *Xref) (Dict, *int64, error) {
	br := newByteReader(data[offset:])
	br.skipWhiteSpace()

	if br.forwardTag([]byte("xref")) {
		return parseXrefTable(br, data, xr)
	}

	sc := NewScanner(data[offset:], nil)
	ref, obj, err := sc.ReadIndirectObject()
	_ = ref
	if err != nil {
		return nil, nil, err
	}
	stream, ok := obj.(*Stream)
	if !ok {
		return nil, nil, Errorf("expected xref stream at offset %d", offset)
	}
	return parseXrefStream(stream, xr)
}

func parseXrefTable(br *byteReader, data []byte, xr *Xref) (Dict, *int64, error) {
	for {
		br.skipWhiteSpace()
		if br.forwardTag([]byte("trailer")) {
			break
		}
		save := br.pos
		startNum, ok := readUintTok(br)
		if !ok {
			br.pos = save
			break
		}
		br.skipWhiteSpace()
		count, ok := readUintTok(br)
		if !ok {
			br.pos = save
			break
		}
		br.skipWhiteSpace()
		for i := 0; i < int(count); i++ {
			entry, ok := readXrefTableLine(br)
			if !ok {
				break
			}
			num := uint32(startNum) + uint32(i)
			if _, exists := xr.entries[num]; !exists && entry.kind == xrefOffset {
				xr.entries[num] = entry
			} else if _, exists := xr.entries[num]; !exists && entry.kind == xrefFree {
				xr.entries[num] = entry
			}
		}
	}

	sc := NewScanner(data[br.pos:], nil)
	tok, err := sc.ReadToken()
	if err != nil || tok.Obj == nil {
		return Dict{}, nil, nil
	}
	trailer, ok := tok.Obj.(Dict)
	if !ok {
		return Dict{}, nil, nil
	}
	var prev *int64
	if p, ok := trailer["Prev"].(Integer); ok {
		v := int64(p)
		prev = &v
	}
	if xrs, ok := trailer["XRefStm"].(Integer); ok {
		// hybrid-reference file: the /XRefStm points at a supplementary
		// xref stream that must be merged in before /Prev is followed.
		v := int64(xrs)
		_, _, _ = parseXrefSectionAt(data, v, xr)
	}
	return trailer, prev, nil
}

func readUintTok(br *byteReader) (uint64, bool) {
	br.skipWhiteSpace()
	digits := br.readWhile(func(b byte) bool { return b >= '0' && b <= '9' })
	if len(digits) == 0 {
		return 0, false
	}
	v, err := strconv.ParseUint(string(digits), 10, 32)
	return v, err == nil
}

// readXrefTableLine reads one fixed-width 20-byte subsection entry:
// "nnnnnnnnnn ggggg n\r\n" or "...f\r\n".
func readXrefTableLine(br *byteReader) (xrefEntry, bool) {
	br.skipWhiteSpace()
	offNum, ok := readUintTok(br)
	if !ok {
		return xrefEntry{}, false
	}
	br.skipWhiteSpace()
	gen, ok := readUintTok(br)
	if !ok {
		return xrefEntry{}, false
	}
	br.skipWhiteSpace()
	kind, ok := br.readByte()
	if !ok {
		return xrefEntry{}, false
	}
	switch kind {
	case 'n':
		return xrefEntry{kind: xrefOffset, offset: int64(offNum), generation: uint16(gen)}, true
	case 'f':
		return xrefEntry{kind: xrefFree, generation: uint16(gen)}, true
	default:
		return xrefEntry{}, false
	}
}

// parseXrefStream reads a cross-reference stream's decoded bytes as an
// array of (type, field2, field3) tuples whose widths come from /W.
func parseXrefStream(stream *Stream, xr *Xref) (Dict, *int64, error) {
	dict := stream.Dict
	w, ok := dict["W"].(Array)
	if !ok || len(w) != 3 {
		return nil, nil, Errorf("xref stream missing /W")
	}
	widths := make([]int, 3)
	for i, x := range w {
		iv, _ := x.(Integer)
		widths[i] = int(iv)
	}

	decoded, err := decodeStreamBytesNoXref(stream)
	if err != nil {
		return nil, nil, err
	}

	var index []int64
	if idxArr, ok := dict["Index"].(Array); ok {
		for _, x := range idxArr {
			iv, _ := x.(Integer)
			index = append(index, int64(iv))
		}
	} else {
		size, _ := dict["Size"].(Integer)
		index = []int64{0, int64(size)}
	}

	rowLen := widths[0] + widths[1] + widths[2]
	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		start := index[i]
		count := index[i+1]
		for j := int64(0); j < count; j++ {
			if pos+rowLen > len(decoded) {
				break
			}
			row := decoded[pos : pos+rowLen]
			pos += rowLen
			num := uint32(start + j)

			typ := int64(1)
			if widths[0] > 0 {
				typ = beInt(row[:widths[0]])
			}
			f2 := beInt(row[widths[0] : widths[0]+widths[1]])
			f3 := beInt(row[widths[0]+widths[1]:])

			var entry xrefEntry
			switch typ {
			case 0:
				entry = xrefEntry{kind: xrefFree}
			case 1:
				entry = xrefEntry{kind: xrefOffset, offset: f2, generation: uint16(f3)}
			case 2:
				entry = xrefEntry{kind: xrefCompressed, inStream: uint32(f2), index: int(f3)}
			default:
				continue
			}
			if _, exists := xr.entries[num]; !exists {
				xr.entries[num] = entry
			}
		}
	}

	var prev *int64
	if p, ok := dict["Prev"].(Integer); ok {
		v := int64(p)
		prev = &v
	}
	return dict, prev, nil
}

func beInt(b []byte) int64 {
	var v int64
	for _, x := range b {
		v = v<<8 | int64(x)
	}
	return v
}

// linearScanXref is the fallback path: scan the whole byte
// source for "N G obj" patterns. The trailer is taken from the last
// "trailer" keyword's dictionary if one is present despite the primary
// xref being unusable; failing that, a trailer is built whose /Root points
// at a scanned object of /Type /Catalog.
func linearScanXref(data []byte) *Xref {
	xr := &Xref{entries: map[uint32]xrefEntry{}}

	br := newByteReader(data)
	for {
		br.skipWhiteSpace()
		if br.atEnd() {
			break
		}
		save := br.pos
		num, ok := readUintTok(br)
		if !ok {
			br.skip(1)
			continue
		}
		br.skipWhiteSpace()
		genSave := br.pos
		gen, ok := readUintTok(br)
		if !ok {
			br.pos = save + 1
			continue
		}
		br.skipWhiteSpace()
		if !br.forwardTag([]byte("obj")) {
			br.pos = genSave
			continue
		}
		xr.entries[uint32(num)] = xrefEntry{kind: xrefOffset, offset: int64(save), generation: uint16(gen)}

		if idx := idxOf(data[br.pos:], "endobj"); idx >= 0 {
			br.pos += idx + len("endobj")
		} else {
			break
		}
	}

	// Try to find a /Root by scanning for a "trailer" keyword, and
	// otherwise by looking for a Catalog-typed object among what we found.
	if idx := lastIndexOf(data, "trailer"); idx >= 0 {
		sc := NewScanner(data[idx+len("trailer"):], nil)
		if tok, err := sc.ReadToken(); err == nil {
			if d, ok := tok.Obj.(Dict); ok {
				xr.Trailer = d
				return xr
			}
		}
	}

	trailer := Dict{}
	getter := &rawXrefGetter{data: data, xr: xr}
	for num, entry := range xr.entries {
		if entry.kind != xrefOffset {
			continue
		}
		obj, err := getter.Get(NewReference(num, entry.generation), false)
		if err != nil {
			continue
		}
		d, ok := obj.(Native)
		var dict Dict
		if ok {
			if dd, ok := d.(Dict); ok {
				dict = dd
			} else if st, ok := d.(*Stream); ok {
				dict = st.Dict
			}
		}
		if dict == nil {
			continue
		}
		if tp, _ := dict["Type"].(Name); tp == "Catalog" {
			trailer["Root"] = NewReference(num, entry.generation)
		}
	}
	xr.Trailer = trailer
	return xr
}

// rawXrefGetter resolves objects using only an *Xref plus the raw bytes,
// with no object-stream decoding; used while bootstrapping the fallback
// scan's trailer discovery.
type rawXrefGetter struct {
	data []byte
	xr   *Xref
}

func (g *rawXrefGetter) Get(ref Reference, _ bool) (Native, error) {
	entry, ok := g.xr.entries[ref.Number()]
	if !ok || entry.kind != xrefOffset {
		return Null{}, nil
	}
	sc := NewScanner(g.data[entry.offset:], nil)
	_, obj, err := sc.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	return obj, nil
}
