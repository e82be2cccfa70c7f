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
	"os"

	"sigs.k8s.io/yaml"
)

// profile holds the subset of a run's settings that may be supplied out
// of band via -profile instead of (or in addition to) the CLI grammar.
// It exists purely to give this repository's YAML dependency a real
// component to serialize. Explicit flags and the
// sort(...)/record(...)/thread_count(...) parameters always win over a
// loaded profile; a profile only fills in values the command line left
// unset.
type profile struct {
	ThreadCount     int  `json:"threadCount,omitempty"`
	Verbose         bool `json:"verbose,omitempty"`
	InsertionCutoff int  `json:"insertionCutoff,omitempty"`
}

func loadProfile(path string) (profile, error) {
	var p profile
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}
