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

// Package auth gates access to the translation endpoint by API key. It
// replaces the teacher's per-connection MySQL authentication (a
// mysql.AuthServer the wire-protocol handshake consults) with the same
// Allowed/Permission shape applied to an HTTP request instead of a SQL
// session.
package auth

import (
	"strings"

	"gopkg.in/src-d/go-errors.v1"
)

// Permission is a capability an API key may hold. The translation server
// only ever checks ReadPerm today, but the bit-set shape survives unchanged
// so a future write endpoint (submitting catalog corrections, say) has
// somewhere to plug in.
type Permission int

const (
	// ReadPerm grants access to POST /asq.
	ReadPerm Permission = 1 << iota
)

var (
	// AllPermissions holds every defined permission.
	AllPermissions = ReadPerm
	// DefaultPermissions are granted to a key that doesn't specify any.
	DefaultPermissions = ReadPerm

	// PermissionNames translates between human and machine representations.
	PermissionNames = map[string]Permission{
		"read": ReadPerm,
	}

	// ErrNotAuthorized is returned when an API key is rejected outright.
	ErrNotAuthorized = errors.NewKind("not authorized")
	// ErrNoPermission is returned when a key lacks a required permission.
	ErrNoPermission = errors.NewKind("key does not have permission: %s")
)

// String returns every permission set in p, comma-joined.
func (p Permission) String() string {
	var names []string
	for name, bit := range PermissionNames {
		if p&bit != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// Authenticator decides whether an API key may exercise a Permission.
type Authenticator interface {
	Allowed(apiKey string, permission Permission) error
}
