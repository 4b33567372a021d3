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

// Package morph adapts the external morphological analyzer — the
// lemmatizer that tags raw Russian words with a lemma and grammar class —
// into the token.Token stream the automata/grammar packages match against.
// The analyzer itself is an out-of-scope collaborator; this package only
// defines the interface to it and does the classification work the core
// owns: discarding whitespace-only words, assigning monotonic indexes, and
// tagging each token's Kind by consulting the catalog.
package morph

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/Ruminat/Asq-Server/catalog"
	"github.com/Ruminat/Asq-Server/token"
)

// Word is one analyzed input word, as the external morphological analyzer
// produces it: its surface text, its canonical lemma (empty when the
// analyzer couldn't lemmatize it), and an opaque grammar tag forwarded for
// diagnostics only — the core never branches on it.
type Word struct {
	Text    string `json:"text"`
	Lemma   string `json:"lemma"`
	Grammar string `json:"grammar"`
}

// Analyzer is the external morphological analyzer this package adapts.
type Analyzer interface {
	// Analyze splits text into words and tags each with its lemma and
	// grammar class.
	Analyze(text string) ([]Word, error)
}

// Tokenize turns an Analyzer's Words into token.Tokens against cat:
// whitespace-only words are discarded, and each surviving token's Kind is
// classified by resolving its lemma against the catalog (falling back to
// numeric detection, then plain text) before Index is assigned — Index is
// the ordinal of the token in the surviving stream, not in words.
func Tokenize(words []Word, cat *catalog.Catalog) []token.Token {
	tokens := make([]token.Token, 0, len(words))
	index := 0
	for _, w := range words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		tokens = append(tokens, token.New(w.Text, classify(w, cat), w.Lemma, w.Grammar, index))
		index++
	}
	return tokens
}

func classify(w Word, cat *catalog.Catalog) token.Kind {
	lemma := w.Lemma
	if lemma == "" {
		lemma = w.Text
	}
	for _, obj := range cat.Resolve(lemma) {
		switch obj.Kind() {
		case catalog.KindTable:
			return token.KindTable
		case catalog.KindColumn:
			return token.KindColumn
		}
	}
	if _, err := cast.ToFloat64E(normalizeDecimal(w.Text)); err == nil {
		return token.KindNumber
	}
	return token.KindText
}

// normalizeDecimal rewrites a Russian decimal comma ("1000,5") to the dot
// cast.ToFloat64E expects, leaving everything else untouched.
func normalizeDecimal(text string) string {
	return strings.Replace(text, ",", ".", 1)
}
