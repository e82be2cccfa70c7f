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
	"fmt"
	"strconv"
	"strings"

	"github.com/binsortio/binsort/recordkey"
)

// parsed is the result of parsing the positional/parameter part of the
// CLI grammar:
//
//	<input> <output> / sort(<spec>) record(<R>) [thread_count(<T>)]
//
// This grammar is not expressible with flag or any off-the-shelf flag
// library (named call-like parameters after a bare "/" separator, in any
// order), so it is hand-parsed here rather than forced into flag.FlagSet.
type parsed struct {
	input, output string
	keys          recordkey.List
	recordLen     int
	threads       int // 0 means "not specified"
}

// parseGrammar parses the tokens that follow any leading -v/-profile
// flags (those ARE ordinary flags and are peeled off by flag.FlagSet in
// main.go before this runs).
func parseGrammar(tokens []string) (parsed, error) {
	if len(tokens) < 3 {
		return parsed{}, fmt.Errorf("expected: <input> <output> / sort(...) record(...) [thread_count(...)]")
	}
	p := parsed{input: tokens[0], output: tokens[1]}
	if tokens[2] != "/" {
		return parsed{}, fmt.Errorf("expected '/' after <input> <output>, got %q", tokens[2])
	}

	sawSort, sawRecord := false, false
	for _, tok := range tokens[3:] {
		name, arg, err := splitCall(tok)
		if err != nil {
			return parsed{}, err
		}
		switch name {
		case "sort":
			keys, err := parseSpec(arg)
			if err != nil {
				return parsed{}, fmt.Errorf("sort(%s): %w", arg, err)
			}
			p.keys = keys
			sawSort = true
		case "record":
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				return parsed{}, fmt.Errorf("record(%s): expected a positive integer", arg)
			}
			p.recordLen = n
			sawRecord = true
		case "thread_count":
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				return parsed{}, fmt.Errorf("thread_count(%s): expected a positive integer", arg)
			}
			p.threads = n
		default:
			return parsed{}, fmt.Errorf("unknown parameter %q", name)
		}
	}
	if !sawSort {
		return parsed{}, fmt.Errorf("missing required sort(...) parameter")
	}
	if !sawRecord {
		return parsed{}, fmt.Errorf("missing required record(...) parameter")
	}
	return p, nil
}

// splitCall splits a "name(arg)" token into its name and argument.
func splitCall(tok string) (name, arg string, err error) {
	open := strings.IndexByte(tok, '(')
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return "", "", fmt.Errorf("expected name(...), got %q", tok)
	}
	return tok[:open], tok[open+1 : len(tok)-1], nil
}

// parseSpec parses the comma-separated pos,len,type,order 4-tuples that
// make up a sort(...) argument.
func parseSpec(arg string) (recordkey.List, error) {
	fields := strings.Split(arg, ",")
	if len(fields)%4 != 0 || len(fields) == 0 {
		return nil, fmt.Errorf("expected a multiple of 4 comma-separated fields, got %d", len(fields))
	}
	var keys recordkey.List
	for i := 0; i < len(fields); i += 4 {
		pos, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("pos %q: %w", fields[i], err)
		}
		length, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return nil, fmt.Errorf("len %q: %w", fields[i+1], err)
		}
		typ, err := parseType(fields[i+2])
		if err != nil {
			return nil, err
		}
		order, err := parseOrder(fields[i+3])
		if err != nil {
			return nil, err
		}
		keys = append(keys, recordkey.Spec{Position: pos, Length: length, Type: typ, Order: order})
	}
	return keys, nil
}

func parseType(s string) (recordkey.Type, error) {
	switch s {
	case "c":
		return recordkey.Character, nil
	case "w":
		return recordkey.LittleEndianInt, nil
	case "W":
		return recordkey.BigEndianInt, nil
	case "f":
		return recordkey.LittleEndianFloat, nil
	default:
		return 0, fmt.Errorf("unknown key type %q, expected one of c w W f", s)
	}
}

func parseOrder(s string) (recordkey.Order, error) {
	switch s {
	case "a":
		return recordkey.Ascending, nil
	case "d":
		return recordkey.Descending, nil
	default:
		return 0, fmt.Errorf("unknown sort order %q, expected a or d", s)
	}
}
