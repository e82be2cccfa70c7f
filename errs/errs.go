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

// Package errs classifies the fatal error conditions that can surface from
// the sort pipeline (argument, key, file, alignment, resource) so that the
// CLI can report a single human-readable message plus a consistent exit
// status, without the core packages depending on the CLI at all.
package errs

import (
	"errors"
	"fmt"
)

// Kind categorizes a fatal error at the orchestrator boundary.
type Kind int

const (
	// Unknown covers errors that did not originate from this package.
	Unknown Kind = iota
	// ArgumentError: malformed CLI invocation.
	ArgumentError
	// KeyError: a KeySpec fails admission (bad position, length, or type width).
	KeyError
	// FileError: stat/open/copy/map/flush failed at the OS level.
	FileError
	// AlignmentError: file size is not a multiple of the record length.
	AlignmentError
	// ResourceError: mapping or allocation failed.
	ResourceError
)

func (k Kind) String() string {
	switch k {
	case ArgumentError:
		return "argument error"
	case KeyError:
		return "key error"
	case FileError:
		return "file error"
	case AlignmentError:
		return "alignment error"
	case ResourceError:
		return "resource error"
	default:
		return "error"
	}
}

// kindError pairs a Kind with an underlying cause for %w-unwrapping.
type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return fmt.Sprintf("%s: %s", e.kind, e.err) }
func (e *kindError) Unwrap() error { return e.err }
func (e *kindError) Kind() Kind    { return e.kind }

// New wraps err with the given Kind. If err is nil, New returns nil.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// Newf is like New but formats the message with fmt.Errorf semantics
// (supports %w).
func Newf(kind Kind, format string, args ...any) error {
	return New(kind, fmt.Errorf(format, args...))
}

// KindOf reports the Kind the error was tagged with, or Unknown if it was
// never passed through New/Newf.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return Unknown
}
