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

package server

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruminat/Asq-Server/auth"
	"github.com/Ruminat/Asq-Server/catalog"
	"github.com/Ruminat/Asq-Server/dbdriver"
	"github.com/Ruminat/Asq-Server/engine"
	"github.com/Ruminat/Asq-Server/morph"
)

type stubAnalyzer struct {
	lemmas map[string]string
}

func (s stubAnalyzer) Analyze(text string) ([]morph.Word, error) {
	var words []morph.Word
	for _, w := range strings.Fields(text) {
		words = append(words, morph.Word{Text: w, Lemma: s.lemmas[w]})
	}
	return words, nil
}

func hrFixture() *catalog.Catalog {
	tables := []*catalog.Table{
		{Schema: "hr", Name: "employees", Lemmas: []string{"сотрудник"}},
	}
	columns := []*catalog.Column{
		{Schema: "hr", Table: "employees", Name: "salary", Lemmas: []string{"зарплата"}},
	}
	return catalog.New(tables, columns, nil)
}

func testServer(cat *catalog.Catalog) *Server {
	provider := dbdriver.NewStaticProvider(cat)
	eng := engine.New(provider, engine.Config{})
	analyzer := stubAnalyzer{lemmas: map[string]string{"зарплата": "зарплата"}}
	logger := logrus.New()
	logger.SetOutput(new(bytes.Buffer))
	return New(Config{ListenAddress: ":0"}, eng, analyzer, logger)
}

func TestHandleAsqSuccess(t *testing.T) {
	s := testServer(hrFixture())

	body, err := json.Marshal(asqRequest{Schema: "hr", Query: "зарплата"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/asq", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp asqResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "SELECT salary\nFROM employees", resp.SQL)
}

func TestHandleAsqMalformedBody(t *testing.T) {
	s := testServer(hrFixture())

	req := httptest.NewRequest("POST", "/asq", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp asqResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
}

func TestHandleAsqCatalogFailureMapsToBadGateway(t *testing.T) {
	s := testServer(nil)

	body, err := json.Marshal(asqRequest{Schema: "hr", Query: "зарплата"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/asq", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	assert.Equal(t, 502, w.Code)
}

func TestHandleAsqEmptyQueryMapsToBadRequest(t *testing.T) {
	s := testServer(hrFixture())

	body, err := json.Marshal(asqRequest{Schema: "hr", Query: ""})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/asq", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestHandleAsqRejectsWrongAPIKey(t *testing.T) {
	provider := dbdriver.NewStaticProvider(hrFixture())
	eng := engine.New(provider, engine.Config{})
	analyzer := stubAnalyzer{lemmas: map[string]string{"зарплата": "зарплата"}}
	logger := logrus.New()
	logger.SetOutput(new(bytes.Buffer))
	s := New(Config{ListenAddress: ":0", Auth: auth.NewStaticKey("secret", auth.ReadPerm)}, eng, analyzer, logger)

	body, err := json.Marshal(asqRequest{Schema: "hr", Query: "зарплата"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/asq", bytes.NewReader(body))
	req.Header.Set("X-API-Key", "wrong")
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}

func TestHandleHealthz(t *testing.T) {
	s := testServer(hrFixture())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
