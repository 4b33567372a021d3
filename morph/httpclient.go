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

package morph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPAnalyzer is an Analyzer backed by a sidecar morphological-analysis
// service reachable over HTTP — the out-of-scope lemmatizer this package's
// doc comment describes, in the one form cmd/asqserver actually runs
// against. It POSTs a JSON object carrying the text under "text" and
// decodes a JSON array of Words back.
type HTTPAnalyzer struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPAnalyzer returns an HTTPAnalyzer posting to endpoint with a bounded
// request timeout.
func NewHTTPAnalyzer(endpoint string, timeout time.Duration) *HTTPAnalyzer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPAnalyzer{Endpoint: endpoint, Client: &http.Client{Timeout: timeout}}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze implements Analyzer by delegating to the configured service.
func (a *HTTPAnalyzer) Analyze(text string) ([]Word, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, a.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("morph analyzer: unexpected status %d", resp.StatusCode)
	}

	var words []Word
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		return nil, err
	}
	return words, nil
}
