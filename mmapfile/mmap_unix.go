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

//go:build linux || darwin

package mmapfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile wraps a read-write shared mapping via golang.org/x/sys/unix,
// plus a madvise hint: this mapping is written end-to-end by the sort,
// unlike a read-only mapping opened just for scanning.
func mapFile(f *os.File, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	// Best-effort hint: the orchestrator touches the mapping once start
	// to finish (chunked sorting, then the merge writeback; the copy
	// step runs on the file before it is mapped), which is close enough
	// to sequential access to be
	// worth the hint. Non-fatal; mmapfile's contract does not depend on
	// the kernel honoring it.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return data, nil
}

func flushMap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Msync(data, unix.MS_SYNC)
}

func unmapFile(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Munmap(data)
}
