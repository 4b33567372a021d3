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

// Command asqserver runs the translation server against a catalog snapshot
// loaded from disk and an external morphological analyzer reachable over
// HTTP.
//
// > curl -X POST localhost:8080/asq -d '{"schema":"hr","query":"зарплата"}'
// {"status":"ok","sql":"SELECT salary\nFROM employees"}
package main

import (
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ruminat/Asq-Server/catalog"
	"github.com/Ruminat/Asq-Server/dbdriver"
	"github.com/Ruminat/Asq-Server/engine"
	"github.com/Ruminat/Asq-Server/morph"
	"github.com/Ruminat/Asq-Server/server"
)

var (
	address       = flag.String("address", ":8080", "address to listen on")
	catalogPath   = flag.String("catalog", "", "path to a catalog snapshot JSON file")
	morphEndpoint = flag.String("morph-endpoint", "", "URL of the external morphological analyzer service")
	logLevel      = flag.String("log-level", "info", "logrus log level")
)

func main() {
	flag.Parse()
	logger := logrus.StandardLogger()

	if *catalogPath == "" {
		logger.Fatal("-catalog is required")
	}
	if *morphEndpoint == "" {
		logger.Fatal("-morph-endpoint is required")
	}

	cat, err := catalog.LoadFile(*catalogPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load catalog snapshot")
	}

	provider := dbdriver.NewStaticProvider(cat)
	analyzer := morph.NewHTTPAnalyzer(*morphEndpoint, 5*time.Second)
	eng := engine.New(provider, engine.Config{Logger: logger})

	cfg := server.Config{
		ListenAddress: *address,
		LogLevel:      *logLevel,
	}
	s := server.New(cfg, eng, analyzer, logger)

	if err := s.ListenAndServe(); err != nil {
		logger.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
