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
	"strconv"
)

// Scanner tokenizes PDF object syntax. In plain mode (Get
// is nil) it never touches a cross-reference table, which is what lets
// the content-stream interpreter reuse it for operand parsing. In
// contextual mode it can resolve an indirect /Length while reading a
// stream.
type Scanner struct {
	br  *byteReader
	Get Getter
}

// NewScanner creates a Scanner over data. Pass a non-nil Getter to enable
// contextual-mode stream length resolution; pass nil for plain mode.
func NewScanner(data []byte, get Getter) *Scanner {
	return &Scanner{br: newByteReader(data), Get: get}
}

// Pos returns the current byte offset.
func (s *Scanner) Pos() int { return s.br.pos }

// SeekTo repositions the scanner.
func (s *Scanner) SeekTo(pos int) { s.br.pos = pos }

// AtEnd reports whether the scanner has consumed all input (after
// skipping whitespace/comments).
func (s *Scanner) AtEnd() bool {
	s.br.skipWhiteSpace()
	return s.br.atEnd()
}

// Token is either an operand Object or a bare operator/keyword, as used by
// the content-stream interpreter; top-level object parsing never produces
// operator tokens other than "obj"/"endobj"/"stream"/"endstream", of which
// ReadIndirectObject consumes "obj", "stream" and "endstream" internally.
type Token struct {
	Obj Object
	Op  string
}

// IsOperator reports whether the token is a bare keyword rather than an
// operand.
func (t Token) IsOperator() bool { return t.Op != "" }

// ReadToken reads one operand or operator. Unrecognized bare keywords
// (including the ~73 content-stream operators) come back as Op; numbers,
// names, strings, arrays and dicts come back as Obj.
func (s *Scanner) ReadToken() (Token, error) {
	s.br.skipWhiteSpace()
	b, ok := s.br.peek()
	if !ok {
		return Token{}, Errorf("unexpected end of input")
	}

	switch {
	case b == '/':
		name, err := s.readName()
		if err != nil {
			return Token{}, err
		}
		return Token{Obj: name}, nil
	case b == '(':
		str, err := s.readLiteralString()
		if err != nil {
			return Token{}, err
		}
		return Token{Obj: str}, nil
	case b == '<':
		if next, ok := s.br.peekAt(1); ok && next == '<' {
			d, err := s.readDict()
			if err != nil {
				return Token{}, err
			}
			return Token{Obj: d}, nil
		}
		str, err := s.readHexString()
		if err != nil {
			return Token{}, err
		}
		return Token{Obj: str}, nil
	case b == '[':
		arr, err := s.readArray()
		if err != nil {
			return Token{}, err
		}
		return Token{Obj: arr}, nil
	case b == '-' || b == '+' || b == '.' || (b >= '0' && b <= '9'):
		return s.readNumberOrRef()
	default:
		word := s.br.readWhile(isPDFRegular)
		if len(word) == 0 {
			s.br.skip(1) // stray delimiter; never get stuck
			return s.ReadToken()
		}
		switch string(word) {
		case "true":
			return Token{Obj: Boolean(true)}, nil
		case "false":
			return Token{Obj: Boolean(false)}, nil
		case "null":
			return Token{Obj: Null{}}, nil
		default:
			return Token{Op: string(word)}, nil
		}
	}
}

func (s *Scanner) readName() (Name, error) {
	s.br.skip(1) // '/'
	var buf []byte
	for {
		b, ok := s.br.peek()
		if !ok || !isPDFRegular(b) {
			break
		}
		if b == '#' {
			if h1, ok1 := s.br.peekAt(1); ok1 {
				if h2, ok2 := s.br.peekAt(2); ok2 {
					if v1, e1 := hexVal(h1); e1 {
						if v2, e2 := hexVal(h2); e2 {
							buf = append(buf, v1<<4|v2)
							s.br.skip(3)
							continue
						}
					}
				}
			}
		}
		buf = append(buf, b)
		s.br.skip(1)
	}
	return Name(buf), nil
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func (s *Scanner) readLiteralString() (String, error) {
	s.br.skip(1) // '('
	var buf []byte
	depth := 1
	for {
		b, ok := s.br.readByte()
		if !ok {
			return String(buf), nil // tolerate missing closing paren
		}
		switch b {
		case '(':
			depth++
			buf = append(buf, b)
		case ')':
			depth--
			if depth == 0 {
				return String(buf), nil
			}
			buf = append(buf, b)
		case '\\':
			e, ok := s.br.readByte()
			if !ok {
				return String(buf), nil
			}
			switch e {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '(', ')', '\\':
				buf = append(buf, e)
			case '\r':
				// line continuation; also swallow a following \n
				if nb, ok := s.br.peek(); ok && nb == '\n' {
					s.br.skip(1)
				}
			case '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2; i++ {
						nb, ok := s.br.peek()
						if !ok || nb < '0' || nb > '7' {
							break
						}
						val = val*8 + int(nb-'0')
						s.br.skip(1)
					}
					buf = append(buf, byte(val))
				} else {
					buf = append(buf, e)
				}
			}
		default:
			buf = append(buf, b)
		}
	}
}

func (s *Scanner) readHexString() (String, error) {
	s.br.skip(1) // '<'
	var digits []byte
	for {
		b, ok := s.br.readByte()
		if !ok || b == '>' {
			break
		}
		if isPDFSpace(b) {
			continue
		}
		digits = append(digits, b)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := 0; i < len(out); i++ {
		hi, _ := hexVal(digits[2*i])
		lo, _ := hexVal(digits[2*i+1])
		out[i] = hi<<4 | lo
	}
	return String(out), nil
}

func (s *Scanner) readArray() (Array, error) {
	s.br.skip(1) // '['
	var arr Array
	for {
		s.br.skipWhiteSpace()
		b, ok := s.br.peek()
		if !ok {
			return arr, nil
		}
		if b == ']' {
			s.br.skip(1)
			return arr, nil
		}
		tok, err := s.ReadToken()
		if err != nil {
			return nil, err
		}
		if tok.IsOperator() {
			// malformed; skip the stray keyword
			continue
		}
		arr = append(arr, tok.Obj)
	}
}

func (s *Scanner) readDict() (Dict, error) {
	s.br.skip(2) // '<<'
	d := Dict{}
	for {
		s.br.skipWhiteSpace()
		if s.br.forwardTag([]byte(">>")) {
			return d, nil
		}
		b, ok := s.br.peek()
		if !ok {
			return d, nil
		}
		if b != '/' {
			// malformed entry; bail out leniently
			s.br.skip(1)
			continue
		}
		key, err := s.readName()
		if err != nil {
			return nil, err
		}
		s.br.skipWhiteSpace()
		tok, err := s.ReadToken()
		if err != nil {
			return nil, err
		}
		if tok.IsOperator() {
			continue
		}
		d[key] = tok.Obj // duplicate keys: last one wins, per spec
	}
}

// readNumberOrRef disambiguates "N", "N.N", and "N G R" (a Reference).
func (s *Scanner) readNumberOrRef() (Token, error) {
	start := s.br.pos
	num := s.readRawNumber()

	// Look ahead for "G R" with only whitespace in between, without
	// consuming on failure, so "1.0" etc. is never mistaken for a ref.
	save := s.br.pos
	s.br.skipWhiteSpace()
	if g, ok := s.tryRawUint(); ok {
		s.br.skipWhiteSpace()
		if word := s.br.readWhile(isPDFRegular); string(word) == "R" {
			return Token{Obj: NewReference(uint32(num.asInt()), uint16(g))}, nil
		}
	}
	s.br.pos = save
	_ = start
	return Token{Obj: num.toObject()}, nil
}

type rawNumber struct {
	isInt bool
	i     int64
	f     float64
}

func (n rawNumber) asInt() int64 {
	if n.isInt {
		return n.i
	}
	return int64(n.f)
}

func (n rawNumber) toObject() Object {
	if n.isInt {
		return Integer(n.i)
	}
	return Real(n.f)
}

func (s *Scanner) readRawNumber() rawNumber {
	start := s.br.pos
	if b, ok := s.br.peek(); ok && (b == '+' || b == '-') {
		s.br.skip(1)
	}
	isReal := false
	for {
		b, ok := s.br.peek()
		if !ok {
			break
		}
		if b >= '0' && b <= '9' {
			s.br.skip(1)
			continue
		}
		if b == '.' && !isReal {
			isReal = true
			s.br.skip(1)
			continue
		}
		break
	}
	text := string(s.br.data[start:s.br.pos])
	if text == "" || text == "-" || text == "+" {
		return rawNumber{isInt: true}
	}
	if !isReal {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return rawNumber{isInt: true, i: i}
		}
	}
	f, _ := strconv.ParseFloat(text, 64)
	return rawNumber{f: f}
}

// tryRawUint parses a plain unsigned integer (used for the generation
// number in "N G R" and "N G obj"); it does not touch the cursor if the
// next token is not of that shape.
func (s *Scanner) tryRawUint() (uint64, bool) {
	start := s.br.pos
	digits := s.br.readWhile(func(b byte) bool { return b >= '0' && b <= '9' })
	if len(digits) == 0 {
		s.br.pos = start
		return 0, false
	}
	v, err := strconv.ParseUint(string(digits), 10, 32)
	if err != nil {
		s.br.pos = start
		return 0, false
	}
	return v, true
}

// ReadIndirectObject reads "N G obj ... endobj" (or, for a stream, "N G
// obj <<dict>> stream ... endstream endobj") starting at the scanner's
// current position, which must already be at the "N". Used by xref
// construction (both trailer-led subsection verification and the
// fallback linear scan).
func (s *Scanner) ReadIndirectObject() (Reference, Native, error) {
	s.br.skipWhiteSpace()
	num, ok := s.tryRawUint()
	if !ok {
		return 0, nil, Errorf("expected object number")
	}
	s.br.skipWhiteSpace()
	gen, ok := s.tryRawUint()
	if !ok {
		return 0, nil, Errorf("expected generation number")
	}
	s.br.skipWhiteSpace()
	if !s.br.forwardTag([]byte("obj")) {
		return 0, nil, Errorf("expected 'obj' keyword")
	}

	s.br.skipWhiteSpace()
	tok, err := s.ReadToken()
	if err != nil {
		return 0, nil, err
	}
	ref := NewReference(uint32(num), uint16(gen))
	if tok.IsOperator() {
		return ref, Null{}, nil
	}

	obj := tok.Obj
	if dict, isDict := obj.(Dict); isDict {
		save := s.br.pos
		s.br.skipWhiteSpace()
		if s.br.forwardTag([]byte("stream")) {
			stream, err := s.readStreamBody(dict)
			if err != nil {
				return ref, nil, err
			}
			return ref, stream, nil
		}
		s.br.pos = save
	}

	native, ok := obj.(Native)
	if !ok {
		native = Null{}
	}
	return ref, native, nil
}

// readStreamBody consumes the bytes after the "stream" keyword has just
// been matched. It is lenient about the EOL convention and about /Length
// drift between a stream's declared and actual length.
func (s *Scanner) readStreamBody(dict Dict) (*Stream, error) {
	if b, ok := s.br.peek(); ok && b == '\r' {
		s.br.skip(1)
	}
	if b, ok := s.br.peek(); ok && b == '\n' {
		s.br.skip(1)
	}

	start := s.br.pos
	length := -1
	if lenObj, ok := dict["Length"]; ok {
		switch v := lenObj.(type) {
		case Integer:
			length = int(v)
		case Reference:
			if s.Get != nil {
				if n, err := Resolve(s.Get, v); err == nil {
					if iv, ok := n.(Integer); ok {
						length = int(iv)
					}
				}
			}
		}
	}

	const endstreamTag = "endstream"
	if length >= 0 && start+length <= len(s.br.data) {
		end := start + length
		// Accept the declared length only if "endstream" is nearby,
		// tolerating a small window of drift.
		window := s.br.data[end:min(end+32, len(s.br.data))]
		if idxOf(window, endstreamTag) >= 0 || bytesEqualTrim(s.br.data, end, endstreamTag) {
			s.br.pos = end
			s.skipToEndstream()
			data := s.br.data[start:end]
			return &Stream{Dict: dict, R: newByteSliceReader(data)}, nil
		}
	}

	// Fall back to scanning for the literal "endstream" keyword.
	idx := idxOf(s.br.data[start:], endstreamTag)
	if idx < 0 {
		data := s.br.data[start:]
		s.br.pos = len(s.br.data)
		return &Stream{Dict: dict, R: newByteSliceReader(data)}, nil
	}
	end := start + idx
	trimmed := end
	for trimmed > start {
		b := s.br.data[trimmed-1]
		if b == '\r' || b == '\n' {
			trimmed--
		} else {
			break
		}
	}
	data := s.br.data[start:trimmed]
	s.br.pos = start + idx
	s.skipToEndstream()
	return &Stream{Dict: dict, R: newByteSliceReader(data)}, nil
}

func (s *Scanner) skipToEndstream() {
	s.br.skipWhiteSpace()
	s.br.forwardTag([]byte("endstream"))
}

func bytesEqualTrim(data []byte, at int, tag string) bool {
	p := at
	for p < len(data) && isPDFSpace(data[p]) {
		p++
	}
	if p+len(tag) > len(data) {
		return false
	}
	return string(data[p:p+len(tag)]) == tag
}

func idxOf(data []byte, tag string) int {
	n := len(tag)
	for i := 0; i+n <= len(data); i++ {
		if string(data[i:i+n]) == tag {
			return i
		}
	}
	return -1
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

type byteSliceReader struct {
	data []byte
	pos  int
}

func newByteSliceReader(data []byte) *byteSliceReader { return &byteSliceReader{data: data} }

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// Seek implements io.Seeker so the object cache can rewind a stream that
// has already been read once.
func (r *byteSliceReader) Seek(offset int64, whence int) (int64, error) {
	var base int
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = r.pos
	case io.SeekEnd:
		base = len(r.data)
	}
	np := base + int(offset)
	if np < 0 || np > len(r.data) {
		return 0, Errorf("seek out of range")
	}
	r.pos = np
	return int64(np), nil
}
