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

//go:build !(amd64 && (linux || darwin))

package recordjit

import "fmt"

// codePage is unused outside linux/darwin+amd64; newCodePage always fails
// so that Generate falls back to the portable comparator.
type codePage struct{}

func newCodePage(code []byte) (*codePage, error) {
	return nil, fmt.Errorf("recordjit: JIT code pages not supported on this platform")
}

func (p *codePage) release() error { return nil }
