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
	"fmt"
	"log/slog"
	"sync"
)

// objectCache is the process-local object cache:
// insertions are idempotent (first writer wins) and it never evicts. The
// document's open lifetime owns one of these; pages of the same document
// may read and write it concurrently.
type objectCache struct {
	mu sync.RWMutex
	m  map[Reference]Native
}

func newObjectCache() *objectCache {
	return &objectCache{m: make(map[Reference]Native)}
}

// get returns the cached value for ref, if any, without regard to type.
func (c *objectCache) get(ref Reference) (Native, bool) {
	c.mu.RLock()
	v, ok := c.m[ref]
	c.mu.RUnlock()
	return v, ok
}

// insert records v for ref if no value is cached yet; a later insert for
// an already-populated key is a silent no-op (idempotent insertion).
func (c *objectCache) insert(ref Reference, v Native) {
	c.mu.Lock()
	if _, exists := c.m[ref]; !exists {
		c.m[ref] = v
	}
	c.mu.Unlock()
}

// cacheGetAs fetches ref from the cache and asserts it to type T. A
// type mismatch on lookup is logged and behaves as a cache miss rather
// than a panic or a wrong-type return; the caller re-resolves from the
// byte source instead of propagating a type error.
func cacheGetAs[T Native](c *objectCache, ref Reference, logger *slog.Logger) (T, bool) {
	var zero T
	v, ok := c.get(ref)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		if logger != nil {
			logger.Warn("object cache type mismatch",
				"ref", ref.String(),
				"want", fmt.Sprintf("%T", zero),
				"have", fmt.Sprintf("%T", v))
		}
		return zero, false
	}
	return t, true
}
