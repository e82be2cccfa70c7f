// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package recordjit turns a KeyList into a comparator, preferring
// natively generated x86-64 machine code over the interpreted walk in
// package recordcmp whenever the key list, the host architecture, and the
// host CPU all support it. Either way the returned Comparator is a single
// tagged value: callers never need to know or branch on which path they
// got.
package recordjit

import "github.com/binsortio/binsort/recordkey"

// Comparator is a ready-to-use record comparator. It must be released
// with Close once the sort that built it has finished; failing to do so
// leaks the underlying code page (if any) rather than corrupting memory,
// since release only unmaps pages this package itself allocated.
type Comparator struct {
	compare func(a, b []byte) int
	page    *codePage
}

// Compare returns a negative, zero, or positive value comparing records a
// and b according to the KeyList the Comparator was built from.
func (c *Comparator) Compare(a, b []byte) int { return c.compare(a, b) }

// Native reports whether Compare dispatches to generated machine code
// rather than the interpreted recordcmp fallback.
func (c *Comparator) Native() bool { return c.page != nil }

// Close releases any native code page the Comparator owns. It is a no-op
// for a Comparator running on the interpreted fallback.
func (c *Comparator) Close() error {
	if c.page == nil {
		return nil
	}
	p := c.page
	c.page = nil
	return p.release()
}

// Generate builds a Comparator for keys against records of length
// recordLen, preferring native code generation. If buildNative declines
// (unsupported key, unsupported architecture) or the host cannot provide
// executable pages, Generate falls back to recordcmp.New silently: JIT
// unavailability is never user-visible, only the fallback comparator's
// (unmeasured, but assumed slower) throughput is affected.
func Generate(keys recordkey.List, recordLen int) *Comparator {
	if code, ok := buildNative(keys, recordLen); ok {
		if page, err := newCodePage(code); err == nil {
			return &Comparator{compare: bindNative(page), page: page}
		}
	}
	return &Comparator{compare: fallbackFunc(keys)}
}
