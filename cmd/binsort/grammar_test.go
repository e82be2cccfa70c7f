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

package main

import (
	"testing"

	"github.com/binsortio/binsort/recordkey"
)

func TestParseGrammarBasic(t *testing.T) {
	p, err := parseGrammar([]string{"in.bin", "out.bin", "/", "sort(1,4,w,a)", "record(16)"})
	if err != nil {
		t.Fatalf("parseGrammar: %v", err)
	}
	if p.input != "in.bin" || p.output != "out.bin" || p.recordLen != 16 {
		t.Fatalf("unexpected parse result: %+v", p)
	}
	want := recordkey.List{{Position: 1, Length: 4, Type: recordkey.LittleEndianInt, Order: recordkey.Ascending}}
	if len(p.keys) != 1 || p.keys[0] != want[0] {
		t.Fatalf("keys = %+v, want %+v", p.keys, want)
	}
	if p.threads != 0 {
		t.Fatalf("threads = %d, want 0 (unspecified)", p.threads)
	}
}

func TestParseGrammarMultiKeyAndThreads(t *testing.T) {
	p, err := parseGrammar([]string{
		"in.bin", "out.bin", "/",
		"sort(1,4,w,a,5,4,W,d)", "record(16)", "thread_count(4)",
	})
	if err != nil {
		t.Fatalf("parseGrammar: %v", err)
	}
	if len(p.keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(p.keys))
	}
	if p.keys[1].Type != recordkey.BigEndianInt || p.keys[1].Order != recordkey.Descending {
		t.Fatalf("second key parsed wrong: %+v", p.keys[1])
	}
	if p.threads != 4 {
		t.Fatalf("threads = %d, want 4", p.threads)
	}
}

func TestParseGrammarMissingSlash(t *testing.T) {
	_, err := parseGrammar([]string{"in.bin", "out.bin", "sort(1,4,w,a)", "record(16)"})
	if err == nil {
		t.Fatalf("expected an error for a missing '/'")
	}
}

func TestParseGrammarMissingRecord(t *testing.T) {
	_, err := parseGrammar([]string{"in.bin", "out.bin", "/", "sort(1,4,w,a)"})
	if err == nil {
		t.Fatalf("expected an error for a missing record(...)")
	}
}

func TestParseGrammarBadType(t *testing.T) {
	_, err := parseGrammar([]string{"in.bin", "out.bin", "/", "sort(1,4,x,a)", "record(16)"})
	if err == nil {
		t.Fatalf("expected an error for an unknown key type")
	}
}
