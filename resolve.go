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

import "fmt"

// Getter reads objects from a document by reference. Reader implements
// this; tests and callers that only have a handful of objects in memory
// can implement it with a plain map.
type Getter interface {
	// Get resolves ref to its Native value. canObjStm controls whether an
	// object that lives in an object stream may be returned; contextual
	// parsing always passes true, compressed-object-stream
	// entries themselves (which PDF forbids nesting into) pass false.
	Get(ref Reference, canObjStm bool) (Native, error)
}

const maxRefDepth = 32

// Resolve follows a chain of [Reference] values until it reaches a
// [Native] object. A cycle is reported as a
// *MalformedFileError instead of recursing forever.
func Resolve(r Getter, obj Object) (Native, error) {
	if obj == nil {
		return nil, nil
	}
	ref, isRef := obj.(Reference)
	if !isRef {
		return obj.(Native), nil
	}

	seen := make(map[Reference]bool, 4)
	for {
		if seen[ref] {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("%w: %s", errRefCycle, ref),
			}
		}
		seen[ref] = true
		if len(seen) > maxRefDepth {
			return nil, Errorf("too many levels of indirection resolving %s", ref)
		}

		next, err := r.Get(ref, true)
		if err != nil {
			return nil, err
		}
		nextRef, isRef := Object(next).(Reference)
		if !isRef {
			return next, nil
		}
		ref = nextRef
	}
}

func resolveAndCast[T Native](r Getter, obj Object) (T, error) {
	var zero T
	resolved, err := Resolve(r, obj)
	if err != nil {
		return zero, err
	}
	if resolved == nil {
		return zero, nil
	}
	x, ok := resolved.(T)
	if !ok {
		return zero, Errorf("expected %T but got %T", zero, resolved)
	}
	return x, nil
}

// GetDict resolves obj and casts it to Dict; a Stream also yields its
// dictionary, treating a stream as "a dict you can also read bytes
// from" wherever a plain dict is expected.
func GetDict(r Getter, obj Object) (Dict, error) {
	resolved, err := Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	switch x := resolved.(type) {
	case nil:
		return nil, nil
	case Dict:
		return x, nil
	case *Stream:
		return x.Dict, nil
	default:
		return nil, Errorf("expected Dict but got %T", resolved)
	}
}

// GetArray resolves obj and casts it to Array.
func GetArray(r Getter, obj Object) (Array, error) {
	return resolveAndCast[Array](r, obj)
}

// GetName resolves obj and casts it to Name.
func GetName(r Getter, obj Object) (Name, error) {
	return resolveAndCast[Name](r, obj)
}

// GetString resolves obj and casts it to String.
func GetString(r Getter, obj Object) (String, error) {
	return resolveAndCast[String](r, obj)
}

// GetInteger resolves obj and casts it to Integer.
func GetInteger(r Getter, obj Object) (Integer, error) {
	return resolveAndCast[Integer](r, obj)
}

// GetBoolean resolves obj and casts it to Boolean.
func GetBoolean(r Getter, obj Object) (Boolean, error) {
	return resolveAndCast[Boolean](r, obj)
}

// GetStream resolves obj and casts it to *Stream.
func GetStream(r Getter, obj Object) (*Stream, error) {
	return resolveAndCast[*Stream](r, obj)
}

// GetNumber resolves obj and accepts either Integer or Real.
func GetNumber(r Getter, obj Object) (float64, error) {
	resolved, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := resolved.(type) {
	case Integer:
		return float64(x), nil
	case Real:
		return float64(x), nil
	case nil:
		return 0, nil
	default:
		return 0, Errorf("expected Number but got %T", resolved)
	}
}

// Optional swallows a *MalformedFileError from a GetXxx call, returning
// the zero value instead, for fields whose absence or malformation
// should not abort parsing the containing object.
func Optional[T any](val T, err error) (T, error) {
	var me *MalformedFileError
	if err != nil && asMalformed(err, &me) {
		var zero T
		return zero, nil
	}
	return val, err
}

func asMalformed(err error, target **MalformedFileError) bool {
	for err != nil {
		if me, ok := err.(*MalformedFileError); ok {
			*target = me
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
