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
	"os"
)

// PasswordHook is consulted when a document carries an /Encrypt entry.
// It is an external collaborator: this library recovers
// content from passwordless documents only, so the default (nil) hook
// always yields an EncryptionError. A caller that wants to prompt for a
// password and verify it against the document's security handler must
// supply its own hook.
type PasswordHook func(try int) (password string, ok bool)

// ReaderOptions configures a Reader. A nil *ReaderOptions is equivalent
// to the zero value.
type ReaderOptions struct {
	ReadPassword PasswordHook

	// Logger receives warnings for absorbed errors: bad
	// operators, unknown filters, unreadable fonts, failed image
	// decodes. A nil Logger discards these.
	Logger *slog.Logger
}

func (o *ReaderOptions) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// Reader is an open PDF document: the byte source, its cross-reference
// index, and the caches that let repeated lookups avoid re-parsing
//. A Reader is safe for
// concurrent use by independently-interpreted pages ("Parallelism").
type Reader struct {
	data    []byte
	xref    *Xref
	cache   *objectCache
	objStms *objStmSlots
	opts    *ReaderOptions
	closer  io.Closer
}

// Open opens a PDF file from disk. Writing support, if ever added,
// would live behind a separate Create entry point.
func Open(path string, opt *ReaderOptions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := NewReader(data, opt)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader parses data's cross-reference structure and returns a Reader
// ready to resolve objects. The full document must already be in memory;
// the zero-copy object model ties every parsed Object to this buffer.
func NewReader(data []byte, opt *ReaderOptions) (*Reader, error) {
	xr, err := buildXref(data)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		data:    data,
		xref:    xr,
		cache:   newObjectCache(),
		objStms: newObjStmSlots(0),
		opts:    opt,
	}

	if _, isEncrypted := xr.Trailer["Encrypt"]; isEncrypted {
		if opt == nil || opt.ReadPassword == nil {
			return nil, &EncryptionError{}
		}
		// A supplied password hook is an external collaborator: this
		// library does not implement a security handler, so the hook's
		// result (if any) is accepted without further verification.
		if _, ok := opt.ReadPassword(0); !ok {
			return nil, &EncryptionError{}
		}
	}

	return r, nil
}

// Close releases the underlying file, if Reader was obtained via Open.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Trailer returns the document's trailer dictionary.
func (r *Reader) Trailer() Dict {
	return r.xref.Trailer
}

// Catalog resolves and returns the document catalog (the trailer's
// /Root entry).
func (r *Reader) Catalog() (Dict, error) {
	root, ok := r.xref.Trailer["Root"]
	if !ok {
		return nil, &OtherError{Err: errNoCatalog}
	}
	cat, err := GetDict(r, root)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, &OtherError{Err: errNoCatalog}
	}
	return cat, nil
}

// Resolve follows obj to its fully-resolved Native value, per the
// Getter/Resolve contract the rest of the package is built on.
func (r *Reader) Resolve(obj Object) (Native, error) {
	return Resolve(r, obj)
}

// Get implements Getter: it resolves one indirect reference, consulting
// the object cache first and the decoded-object-stream slot table for
// compressed objects.
func (r *Reader) Get(ref Reference, canObjStm bool) (Native, error) {
	if v, ok := cacheGetAs[Native](r.cache, ref, r.opts.logger()); ok {
		return v, nil
	}

	entry, ok := r.xref.entries[ref.Number()]
	if !ok || entry.IsFree() {
		return Null{}, nil
	}

	var native Native
	var err error
	switch entry.kind {
	case xrefOffset:
		native, err = r.getFromOffset(entry.offset)
	case xrefCompressed:
		if !canObjStm {
			return Null{}, nil
		}
		native, err = r.getFromObjStm(entry.inStream, entry.index)
	default:
		return Null{}, nil
	}
	if err != nil {
		return nil, err
	}

	r.cache.insert(ref, native)
	return native, nil
}

func (r *Reader) getFromOffset(offset int64) (Native, error) {
	if offset < 0 || offset >= int64(len(r.data)) {
		return nil, Errorf("object offset %d out of range", offset)
	}
	sc := NewScanner(r.data[offset:], r)
	_, obj, err := sc.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (r *Reader) getFromObjStm(containerNum uint32, index int) (Native, error) {
	d, err := r.objStms.getOrDecode(containerNum, func() (*decodedObjStm, error) {
		return r.decodeObjStm(containerNum)
	})
	if err != nil {
		return nil, err
	}
	return extractObjStmObject(d.body, d.first, d.entries, index)
}

func (r *Reader) decodeObjStm(containerNum uint32) (*decodedObjStm, error) {
	containerEntry, ok := r.xref.entries[containerNum]
	if !ok || containerEntry.kind != xrefOffset {
		return nil, Errorf("object stream %d has no direct xref entry", containerNum)
	}
	obj, err := r.getFromOffset(containerEntry.offset)
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*Stream)
	if !ok {
		return nil, Errorf("object stream %d is not a stream", containerNum)
	}

	n := dictInt(stream.Dict, "N", 0)
	first := int64(dictInt(stream.Dict, "First", 0))

	decoded, err := DecodeStream(r, stream, r.opts.logger())
	if err != nil {
		return nil, err
	}

	entries, err := parseObjStmHeader(decoded, n)
	if err != nil {
		return nil, err
	}
	return &decodedObjStm{body: decoded, first: first, entries: entries}, nil
}
