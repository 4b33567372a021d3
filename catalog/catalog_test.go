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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hrFixture() *Catalog {
	tables := []*Table{
		{Schema: "hr", Name: "employees", Lemmas: []string{"сотрудник", "работник"}},
		{Schema: "hr", Name: "departments", Lemmas: []string{"отдел", "подразделение", "департамент"}},
		{Schema: "hr", Name: "locations", Lemmas: []string{"локация", "место"}},
	}
	columns := []*Column{
		{Schema: "hr", Table: "employees", Name: "employee_id", Lemmas: []string{"номер", "идентификатор"}},
		{Schema: "hr", Table: "employees", Name: "salary", Lemmas: []string{"зарплата", "получка"}},
		{Schema: "hr", Table: "employees", Name: "department_id", Lemmas: []string{"номер", "идентификатор"}},
		{Schema: "hr", Table: "departments", Name: "department_id", Lemmas: []string{"номер", "идентификатор"}},
		{Schema: "hr", Table: "departments", Name: "location_id", Lemmas: []string{"номер", "идентификатор"}},
		{Schema: "hr", Table: "locations", Name: "location_id", Lemmas: []string{"номер", "идентификатор"}},
	}
	fks := []*ForeignKey{
		{Name: "emp_dept_fk", FromTable: "employees", ToTable: "departments", Columns: []ColumnPair{{Local: "department_id", Referenced: "department_id"}}},
		{Name: "dept_loc_fk", FromTable: "departments", ToTable: "locations", Columns: []ColumnPair{{Local: "location_id", Referenced: "location_id"}}},
	}
	return New(tables, columns, fks)
}

func TestPolysemousLemma(t *testing.T) {
	c := hrFixture()
	objects := c.Resolve("номер")
	assert.True(t, len(objects) > 1, "expected «номер» to resolve to multiple columns")
}

func TestUnambiguousLemma(t *testing.T) {
	c := hrFixture()
	objects := c.Resolve("зарплата")
	require.Len(t, objects, 1)
	col, ok := objects[0].(*Column)
	require.True(t, ok)
	assert.Equal(t, "salary", col.Name)
}

func TestShortestPathDirect(t *testing.T) {
	c := hrFixture()
	path, ok := c.Paths[PathKey{From: "employees", To: "departments"}]
	require.True(t, ok)
	assert.Equal(t, []string{"departments"}, path)
}

func TestShortestPathTransitive(t *testing.T) {
	c := hrFixture()
	path, ok := c.Paths[PathKey{From: "employees", To: "locations"}]
	require.True(t, ok)
	assert.Equal(t, []string{"departments", "locations"}, path)
}

func TestUnreachablePathAbsent(t *testing.T) {
	c := hrFixture()
	_, ok := c.Paths[PathKey{From: "locations", To: "employees"}]
	assert.False(t, ok)
}
