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

package color

// spacePatternColored and spacePatternUncolored implement the Pattern
// family (ISO 32000-1 §8.7.3.3). A colored pattern (PaintType 1) draws
// with whatever colors its own content stream sets; an uncolored one
// (PaintType 2) is always painted with a single color supplied at
// scn-time, in the pattern's underlying base space.
type spacePatternColored struct{}

func (spacePatternColored) Family() string     { return "Pattern" }
func (spacePatternColored) NumComponents() int { return 0 }
func (spacePatternColored) Default() Color     { return colorColoredPattern{} }
func (spacePatternColored) NewColor(c []float64) (Color, error) {
	return colorColoredPattern{}, nil
}

// PatternColored returns the colored-pattern space singleton.
func PatternColored() Space { return spacePatternColored{} }

// colorColoredPattern carries the pattern's name; the actual pattern
// dictionary/content stream is resolved by package content when a
// `scn /P1` is dispatched, since that requires Resources lookups this
// package does not have access to.
type colorColoredPattern struct {
	Name string
}

func (c colorColoredPattern) RGBA() (r, g, b, a uint32) { return 0, 0, 0, 0xffff }
func (c colorColoredPattern) ToXYZ() (X, Y, Z float64)  { return 0, 0, 0 }

// ColoredPattern names a colored pattern selected by `scn`.
func ColoredPattern(name string) Color { return colorColoredPattern{Name: name} }

type spacePatternUncolored struct {
	base Space
}

func (s spacePatternUncolored) Family() string     { return "Pattern" }
func (s spacePatternUncolored) NumComponents() int { return s.base.NumComponents() }
func (s spacePatternUncolored) Default() Color {
	return colorUncoloredPattern{Base: s.base.Default()}
}
func (s spacePatternUncolored) NewColor(c []float64) (Color, error) {
	base, err := s.base.NewColor(c)
	if err != nil {
		return nil, err
	}
	return colorUncoloredPattern{Base: base}, nil
}

// PatternUncolored returns an uncolored-pattern space over base.
func PatternUncolored(base Space) Space { return spacePatternUncolored{base: base} }

// colorUncoloredPattern carries the resolved underlying paint color.
// NewColor and Default leave Name empty, and package content does not
// set it: the selected pattern is tracked in the graphics state.
type colorUncoloredPattern struct {
	Name string
	Base Color
}

func (c colorUncoloredPattern) RGBA() (r, g, b, a uint32) { return c.Base.RGBA() }
func (c colorUncoloredPattern) ToXYZ() (X, Y, Z float64)  { return c.Base.ToXYZ() }
