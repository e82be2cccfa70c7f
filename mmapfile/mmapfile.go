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

// Package mmapfile presents a contiguous writable byte region plus a
// flush hook, backed by a memory-mapped file. The sort engine (package
// sortengine) only ever sees the []byte region this package hands back;
// it never touches a file descriptor directly. Package binsort opens
// files itself only to stat and copy the input before mapping.
package mmapfile

import (
	"fmt"
	"os"
)

// File is an open memory mapping of exactly size bytes of the underlying
// file. The zero value is not usable; construct with Open.
type File struct {
	f    *os.File
	data []byte
}

// Open maps size bytes of the file at path for reading and writing. The
// file must already exist and be at least size bytes long; the caller
// (package binsort) is responsible for ensuring that via a prior copy or
// truncate.
func Open(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: open %s: %w", path, err)
	}
	data, err := mapFile(f, size)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: map %s: %w", path, err)
	}
	return &File{f: f, data: data}, nil
}

// Bytes returns the mapped region. It stays valid until Close is called.
func (m *File) Bytes() []byte { return m.data }

// Flush synchronously writes the mapped region back to the file.
func (m *File) Flush() error {
	if err := flushMap(m.data); err != nil {
		return fmt.Errorf("mmapfile: flush: %w", err)
	}
	return nil
}

// Close unmaps the region and closes the underlying file descriptor. It
// does not flush; call Flush first if the caller needs the data durable.
func (m *File) Close() error {
	err := unmapFile(m.data)
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("mmapfile: close: %w", err)
	}
	return nil
}
