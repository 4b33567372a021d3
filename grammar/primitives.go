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

// Package grammar holds the concrete Russian-language patterns a query
// string is matched against: literals, operators, aggregate functions,
// select/where/group-by/order-by expressions. It is the only package that
// knows what a query actually looks like in words — automata stays
// grammar-agnostic.
package grammar

import (
	"strings"

	"github.com/Ruminat/Asq-Server/automata"
	"github.com/Ruminat/Asq-Server/token"
)

func textIn(t token.Token, texts ...string) bool {
	for _, s := range texts {
		if t.Text == s {
			return true
		}
	}
	return false
}

func lemmaIn(t token.Token, lemmas ...string) bool {
	text := t.LemmaOrText()
	for _, l := range lemmas {
		if l == text {
			return true
		}
	}
	return false
}

func lemmaContains(t token.Token, parts ...string) bool {
	text := t.LemmaOrText()
	for _, p := range parts {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func prim(name string, test func(token.Token) bool) *automata.Primitive {
	return &automata.Primitive{Name: name, Test: test}
}

var (
	// Connector separates repeated elements in a list: "," or "и".
	Connector = prim("connector", func(t token.Token) bool { return lemmaIn(t, ",", "и") })

	// Number matches any token the catalog/tokenizer tagged as numeric.
	Number = prim("number", func(t token.Token) bool { return t.Kind == token.KindNumber })

	// Quote marks start/end of a single-quoted string literal.
	Quote = prim("quote", func(t token.Token) bool { return lemmaContains(t, "'") })
	// DoubleQuote marks start/end of a double-quoted string literal.
	DoubleQuote = prim("doubleQuote", func(t token.Token) bool { return lemmaContains(t, `"`) })
	// NonQuote matches any token that isn't a single-quote character,
	// i.e. the interior of a quoted string.
	NonQuote = prim("nonQuote", func(t token.Token) bool { return !lemmaContains(t, "'") })
	// NonDoubleQuote is NonQuote's double-quoted-string counterpart.
	NonDoubleQuote = prim("nonDoubleQuote", func(t token.Token) bool { return !lemmaContains(t, `"`) })

	// IsNull matches the Russian phrasing for "is null" ("без"/"нет").
	IsNull = prim("isNull", func(t token.Token) bool { return lemmaIn(t, "без", "нет") })
	// IsNotNull matches the Russian phrasing for "is not null" ("быть").
	IsNotNull = prim("isNotNull", func(t token.Token) bool { return lemmaIn(t, "быть") })
	// Not matches the negation particle "не".
	Not = prim("not", func(t token.Token) bool { return lemmaIn(t, "не") })

	// Round matches the Russian for the ROUND() function, "округлять".
	Round = prim("round", func(t token.Token) bool { return lemmaIn(t, "округлять") })

	// Avg, Max, Min, Count and Sum match Russian aggregate-function names.
	Avg   = prim("avg", func(t token.Token) bool { return lemmaIn(t, "средний", "усреднять", "avg") })
	Max   = prim("max", func(t token.Token) bool { return lemmaIn(t, "большой", "высокий", "максимальный") })
	Min   = prim("min", func(t token.Token) bool { return lemmaIn(t, "маленький", "низкий", "минимальный") })
	Count = prim("count", func(t token.Token) bool { return lemmaIn(t, "сколько", "количество") })
	Sum   = prim("sum", func(t token.Token) bool { return lemmaIn(t, "сумма", "суммировать") })

	// Table matches any token the catalog resolved to a table name.
	Table = prim("table", func(t token.Token) bool { return t.Kind == token.KindTable })
	// Column matches any token the catalog resolved to a column name.
	Column = prim("column", func(t token.Token) bool { return t.Kind == token.KindColumn })

	// Or matches the logical disjunction word "или".
	Or = prim("or", func(t token.Token) bool { return lemmaIn(t, "или") })
	// Gt matches "greater than": ">", "больше", "выше", "превышать".
	Gt = prim("gt", func(t token.Token) bool { return textIn(t, ">", "больше", "выше", "превышать") })
	// Lt matches "less than": "<", "меньше", "ниже".
	Lt = prim("lt", func(t token.Token) bool { return textIn(t, "<", "меньше", "ниже") })
	// Eq matches "equals": "=", "равный".
	Eq = prim("eq", func(t token.Token) bool { return lemmaIn(t, "=", "равный") })
	// LogicalConnector joins multiple conditions: ",", "и", "или".
	LogicalConnector = prim("logicalConnector", func(t token.Token) bool { return lemmaIn(t, ",", "и", "или") })

	// GroupPreposition introduces a GROUP BY clause: "по", "среди".
	GroupPreposition = prim("groupPreposition", func(t token.Token) bool { return lemmaIn(t, "по", "среди") })

	// Sort introduces an ORDER BY clause: any lemma containing "сортиров".
	Sort = prim("sort", func(t token.Token) bool { return lemmaContains(t, "сортиров") })
	// By is the preposition "по" as used in sorting; grouping matches "по"
	// through GroupPreposition.
	By = prim("by", func(t token.Token) bool { return lemmaIn(t, "по") })
	// AscP matches the word for ascending order, "возрастание".
	AscP = prim("asc", func(t token.Token) bool { return lemmaIn(t, "возрастание") })
	// DescP matches the word for descending order, "убывание".
	DescP = prim("desc", func(t token.Token) bool { return lemmaIn(t, "убывание") })
)
