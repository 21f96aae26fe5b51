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

// Package oc implements Optional Content visibility:
// the set of OCGs the catalog's /OCProperties marks inactive, and the
// marked-content visibility stack BDC/BMC/EMC maintain against it.
package oc

import (
	pdf "github.com/corvuspdf/corvus"
)

type baseState int

const (
	baseOn baseState = iota
	baseOff
	baseUnchanged
)

func baseStateFromName(n pdf.Name) (baseState, bool) {
	switch n {
	case "ON":
		return baseOn, true
	case "OFF":
		return baseOff, true
	case "Unchanged":
		return baseUnchanged, true
	}
	return baseOn, false
}

// State tracks which Optional Content Groups are active and the
// visibility of the current marked-content nesting.
type State struct {
	inactive map[pdf.Reference]bool
	stack    []bool
}

// FromCatalog reads the document catalog's /OCProperties (ISO 32000-1
// §8.11.4 Table 96/97) and builds the initial inactive-OCG set from the
// default configuration's /BaseState, /ON, and /OFF lists. A missing or
// malformed /OCProperties degrades to "everything visible", matching
// most documents that don't use optional content at all.
func FromCatalog(r pdf.Getter, catalog pdf.Dict) *State {
	s := &State{inactive: map[pdf.Reference]bool{}}

	ocProps, err := pdf.GetDict(r, catalog["OCProperties"])
	if err != nil || ocProps == nil {
		return s
	}
	config, err := pdf.GetDict(r, ocProps["D"])
	if err != nil || config == nil {
		return s
	}

	base := baseOn
	if n, err := pdf.GetName(r, config["BaseState"]); err == nil {
		if b, ok := baseStateFromName(n); ok {
			base = b
		}
	}

	if base == baseOff {
		if ocgs, err := pdf.GetArray(r, ocProps["OCGs"]); err == nil {
			for _, item := range ocgs {
				if ref, ok := item.(pdf.Reference); ok {
					s.inactive[ref] = true
				}
			}
		}
	}

	readRefs(r, config["ON"], func(ref pdf.Reference) { delete(s.inactive, ref) })
	readRefs(r, config["OFF"], func(ref pdf.Reference) { s.inactive[ref] = true })

	return s
}

func readRefs(r pdf.Getter, obj pdf.Object, f func(pdf.Reference)) {
	arr, err := pdf.GetArray(r, obj)
	if err != nil {
		return
	}
	for _, item := range arr {
		if ref, ok := item.(pdf.Reference); ok {
			f(ref)
		}
	}
}

// BeginOCG pushes the visibility of entering a /BDC whose properties
// name an OCG: visible iff the parent frame was visible and ocg is not
// in the inactive set.
func (s *State) BeginOCG(ocg pdf.Reference) {
	active := !s.inactive[ocg]
	s.stack = append(s.stack, s.IsVisible() && active)
}

// BeginMarkedContent pushes a frame that inherits the parent's
// visibility unchanged, for BMC and for BDC tags that don't name an
// OCG (or name one this resolver couldn't look up).
func (s *State) BeginMarkedContent() {
	s.stack = append(s.stack, s.IsVisible())
}

// EndMarkedContent pops one frame (EMC); popping past the bottom of an
// empty stack is a no-op, tolerating an unbalanced content stream.
func (s *State) EndMarkedContent() {
	if len(s.stack) == 0 {
		return
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// IsVisible reports whether drawing operators should currently reach
// the device. An empty stack (no open marked-content section, or one
// that never named an OCG) means visible.
func (s *State) IsVisible() bool {
	if len(s.stack) == 0 {
		return true
	}
	return s.stack[len(s.stack)-1]
}

// Depth reports the number of open marked-content frames, so a caller
// can balance EMC calls along an abort path.
func (s *State) Depth() int { return len(s.stack) }
