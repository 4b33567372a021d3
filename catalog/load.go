// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"encoding/json"
	"os"
)

// snapshot is the on-disk shape a Catalog is loaded from: a flat dump of
// tables, columns and foreign keys, as an information-schema crawl against
// a live database would produce them.
type snapshot struct {
	Tables      []*Table      `json:"tables"`
	Columns     []*Column     `json:"columns"`
	ForeignKeys []*ForeignKey `json:"foreign_keys"`
}

// LoadFile reads a Catalog from a JSON snapshot file, the format
// cmd/asqserver accepts in place of a live information-schema connection.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snap snapshot
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, err
	}
	return New(snap.Tables, snap.Columns, snap.ForeignKeys), nil
}
