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

//go:build !(linux || darwin)

package mmapfile

import (
	"fmt"
	"os"
)

func mapFile(f *os.File, size int) ([]byte, error) {
	return nil, fmt.Errorf("mmapfile: memory mapping is not implemented on this platform")
}

func flushMap(data []byte) error { return fmt.Errorf("mmapfile: unsupported platform") }

func unmapFile(data []byte) error { return fmt.Errorf("mmapfile: unsupported platform") }
