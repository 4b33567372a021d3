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

// Package engine exposes the top-level Parse/Translate facade over the
// automata/grammar/structparser/planner pipeline, the way the teacher's root
// engine.go exposes a single Engine type over its analyzer/executor
// pipeline.
package engine

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/Ruminat/Asq-Server/automata"
	"github.com/Ruminat/Asq-Server/catalog"
	"github.com/Ruminat/Asq-Server/dbdriver"
	"github.com/Ruminat/Asq-Server/grammar"
	"github.com/Ruminat/Asq-Server/intent"
	"github.com/Ruminat/Asq-Server/morph"
	"github.com/Ruminat/Asq-Server/planner"
	"github.com/Ruminat/Asq-Server/structparser"
	"github.com/Ruminat/Asq-Server/token"
)

// Config configures an Engine. Zero value is valid: nil Logger falls back
// to logrus's standard logger at its default level.
type Config struct {
	Logger *logrus.Logger
}

// Result is what Translate returns: the resolved intent tree alongside the
// SQL the planner rendered from it, so a caller that wants to inspect the
// tree (tests, for instance) doesn't have to re-parse.
type Result struct {
	Tree *intent.Tree
	SQL  string
}

// Engine ties a CatalogProvider to the parse/plan pipeline. One Engine
// serves every request; it holds no per-request state.
type Engine struct {
	provider dbdriver.CatalogProvider
	logger   *logrus.Logger
}

// New returns an Engine that resolves catalogs through provider.
func New(provider dbdriver.CatalogProvider, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{provider: provider, logger: logger}
}

// Parse runs the full pipeline — tokenize, match, resolve overlaps, lift to
// an intent tree — without planning SQL, for callers that only need the
// tree (tests, a future query-explain endpoint).
func (e *Engine) Parse(ctx context.Context, schema, text string, analyzer morph.Analyzer) (*intent.Tree, error) {
	_, tree, err := e.parse(ctx, schema, text, analyzer)
	return tree, err
}

// Translate runs the full pipeline and plans the resulting intent tree into
// SQL.
func (e *Engine) Translate(ctx context.Context, schema, text string, analyzer morph.Analyzer) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "engine.Translate")
	defer span.Finish()

	cat, tree, err := e.parse(ctx, schema, text, analyzer)
	if err != nil {
		return nil, err
	}

	sql, err := planner.New(cat).Plan(tree)
	if err != nil {
		e.logger.WithError(err).Error("planning failed")
		return nil, err
	}
	e.logger.WithField("sql", sql).Debug("planned query")
	return &Result{Tree: tree, SQL: sql}, nil
}

func (e *Engine) parse(ctx context.Context, schema, text string, analyzer morph.Analyzer) (*catalog.Catalog, *intent.Tree, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "engine.Parse")
	defer span.Finish()

	log := e.logger.WithField("schema", schema)

	cat, err := e.provider.Catalog(ctx, schema)
	if err != nil {
		log.WithError(err).Error("catalog load failed")
		return nil, nil, err
	}

	words, err := analyzer.Analyze(text)
	if err != nil {
		log.WithError(err).Error("morphological analysis failed")
		return nil, nil, err
	}
	tokens := morph.Tokenize(words, cat)
	log.WithField("tokens", len(tokens)).Debug("tokenized input")

	captures := matchAll(tokens)
	log.WithField("captures", len(captures)).Debug("matched top-level patterns")

	resolved := automata.Resolve(captures)
	log.WithField("resolved", len(resolved)).Debug("resolved overlapping captures")

	tree, err := structparser.Parse(resolved, cat)
	if err != nil {
		log.WithError(err).Error("structure parsing failed")
		return nil, nil, err
	}
	return cat, tree, nil
}

// matchAll runs one Machine per top-level Pattern over tokens and
// reconstructs every surviving Run into a Capture.
func matchAll(tokens []token.Token) []automata.Capture {
	var captures []automata.Capture
	for _, name := range grammar.TopLevel {
		m := automata.NewMachine(grammar.Compiled, name)
		for _, tok := range tokens {
			m.Feed(tok)
		}
		for _, run := range m.Finish(len(tokens)) {
			span, structure := automata.Reconstruct(run, name)
			captures = append(captures, automata.Capture{Pattern: name, Span: span, Structure: structure})
		}
	}
	return captures
}
