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

// Package binsort is the orchestrator: it validates a run's Arguments,
// stages the output file, maps it, runs the sort engine, and flushes --
// wiring together recordkey, recordjit, sortengine, and mmapfile behind
// one call.
package binsort

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/binsortio/binsort/errs"
	"github.com/binsortio/binsort/mmapfile"
	"github.com/binsortio/binsort/recordjit"
	"github.com/binsortio/binsort/recordkey"
	"github.com/binsortio/binsort/sortengine"
)

// Arguments is a validated description of one sort run, built by the CLI
// (or any other caller) from its own input format.
type Arguments struct {
	Input, Output   string
	Keys            recordkey.List
	RecordLen       int
	Threads         int
	InsertionCutoff int // 0 selects sortengine's default
}

// DefaultThreads returns the host's hardware concurrency, or 1 if it
// cannot be determined -- the CLI's default for thread_count(T).
func DefaultThreads() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// Result reports what a Run call did, for the CLI's verbose banner.
type Result struct {
	Records    int
	RecordLen  int
	Threads    int
	UsedNative bool // true if the sort ran on JIT-generated machine code rather than the interpreted fallback
}

// Run executes the orchestrator steps in order: verify the input
// exists, derive N from the file size, copy to output if needed, map
// the output, sort, flush, and release the mapping.
func Run(args Arguments) (Result, error) {
	if args.RecordLen <= 0 {
		return Result{}, errs.Newf(errs.ArgumentError, "record length must be positive, got %d", args.RecordLen)
	}
	if err := args.Keys.Validate(args.RecordLen); err != nil {
		return Result{}, errs.New(errs.KeyError, err)
	}
	threads := args.Threads
	if threads <= 0 {
		threads = DefaultThreads()
	}

	info, err := os.Stat(args.Input)
	if err != nil {
		return Result{}, errs.Newf(errs.FileError, "input %s: %w", args.Input, err)
	}
	size := info.Size()
	if size%int64(args.RecordLen) != 0 {
		return Result{}, errs.Newf(errs.AlignmentError,
			"input file size %d is not a multiple of record length %d", size, args.RecordLen)
	}
	n := int(size / int64(args.RecordLen))

	if args.Output != args.Input {
		if err := copyFile(args.Input, args.Output); err != nil {
			return Result{}, errs.New(errs.FileError, err)
		}
	}

	m, err := mmapfile.Open(args.Output, int(size))
	if err != nil {
		return Result{}, errs.New(errs.ResourceError, err)
	}
	defer m.Close()

	cmp := recordjit.Generate(args.Keys, args.RecordLen)
	defer cmp.Close()

	region := m.Bytes()
	sortOpts := sortengine.Options{RecordLen: args.RecordLen, Threads: threads, InsertionCutoff: args.InsertionCutoff}
	if err := sortengine.Sort(region, sortOpts, cmp.Compare); err != nil {
		return Result{}, errs.New(errs.ResourceError, err)
	}

	if err := m.Flush(); err != nil {
		return Result{}, errs.New(errs.FileError, err)
	}

	return Result{Records: n, RecordLen: args.RecordLen, Threads: threads, UsedNative: cmp.Native()}, nil
}

// copyFile streams the copy rather than buffering it: it never holds
// the whole file in memory at once, regardless of input size.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return out.Close()
}
