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
	"errors"
	"fmt"
)

var (
	errDuplicateRef = errors.New("object already present")
	errNoXref       = errors.New("no usable cross-reference information")
	errNoCatalog    = errors.New("document catalog not found")
	errRefCycle     = errors.New("indirect reference cycle")
)

// MalformedFileError indicates that the PDF file could not be parsed as
// far as was needed, but the document as a whole should still be usable:
// individual malformed elements degrade rather than abort.
type MalformedFileError struct {
	Err error
	Loc []string
}

func (err *MalformedFileError) Error() string {
	msg := "malformed PDF"
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	for _, loc := range err.Loc {
		msg += " (in " + loc + ")"
	}
	return msg
}

func (err *MalformedFileError) Unwrap() error { return err.Err }

// Errorf creates a *MalformedFileError from a format string, the way the
// rest of this package reports localized parse failures.
func Errorf(format string, args ...any) error {
	return &MalformedFileError{Err: fmt.Errorf(format, args...)}
}

// EncryptionError indicates that the document has an /Encrypt entry and
// cannot be read without a password. The password hook
// is an external collaborator; this library provides none by default.
type EncryptionError struct {
	ID []byte
}

func (err *EncryptionError) Error() string {
	return "document is encrypted and requires a password"
}

// OtherError is the catch-all unrecoverable-document error:
// no usable xref, no catalog, or no page tree.
type OtherError struct {
	Err error
}

func (err *OtherError) Error() string {
	return "cannot read document: " + err.Err.Error()
}

func (err *OtherError) Unwrap() error { return err.Err }

// UnsupportedError indicates a construct this library intentionally does
// not implement (e.g. a codec scoped out of this library's coverage).
type UnsupportedError struct {
	Feature string
}

func (err *UnsupportedError) Error() string {
	return "unsupported: " + err.Feature
}
