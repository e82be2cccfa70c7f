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

// Command binsort sorts a flat file of fixed-length binary records by a
// composite key, in place or into a new file.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/binsortio/binsort/binsort"
	"github.com/binsortio/binsort/errs"
)

const usage = `usage: binsort [-v] [-profile file] <input> <output> / sort(<spec>) record(<R>) [thread_count(<T>)]

  <spec>  comma-separated pos,len,type,order 4-tuples; type is one of
          c (character) w (little-endian int) W (big-endian int) f (little-endian float);
          order is a (ascending) or d (descending)
  record(R)        fixed record length in bytes, required
  thread_count(T)  worker thread count, default is the host's CPU count
`

func main() {
	verbose := flag.Bool("v", false, "print a run banner and throughput to stderr")
	profilePath := flag.String("profile", "", "optional YAML file supplying defaults (thread count, verbosity)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	prof, err := loadProfile(*profilePath)
	if err != nil {
		exitf(errs.ArgumentError, "%v", err)
	}
	if !*verbose && prof.Verbose {
		*verbose = true
	}

	p, err := parseGrammar(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "binsort:", err)
		flag.Usage()
		os.Exit(1)
	}
	threads := p.threads
	if threads == 0 {
		threads = prof.ThreadCount
	}
	if threads == 0 {
		threads = binsort.DefaultThreads()
	}

	runID := uuid.New()
	if *verbose {
		logf("run %s: input=%s output=%s record_len=%d threads=%d keys=%d",
			runID, p.input, p.output, p.recordLen, threads, len(p.keys))
	}

	start := time.Now()
	result, err := binsort.Run(binsort.Arguments{
		Input:           p.input,
		Output:          p.output,
		Keys:            p.keys,
		RecordLen:       p.recordLen,
		Threads:         threads,
		InsertionCutoff: prof.InsertionCutoff,
	})
	if err != nil {
		exitf(errs.KindOf(err), "%v", err)
	}
	elapsed := time.Since(start)

	if *verbose {
		var throughput float64
		if elapsed > 0 {
			throughput = float64(result.Records*result.RecordLen) / elapsed.Seconds() / (1 << 20)
		}
		comparator := "native"
		if !result.UsedNative {
			comparator = "fallback"
		}
		logf("run %s: sorted %d records (%d bytes each) in %s (%.1f MiB/s) using %s comparator",
			runID, result.Records, result.RecordLen, elapsed, throughput, comparator)
	}
}

func logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func exitf(kind errs.Kind, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "binsort: %s\n", fmt.Sprintf(format, args...))
	if kind == errs.ArgumentError {
		flag.Usage()
	}
	os.Exit(1)
}
