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

package auth

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	regHashed = regexp.MustCompile(`^\*[0-9A-F]{40}$`)

	// ErrParseKeyFile is given when a key file is malformed.
	ErrParseKeyFile = errors.NewKind("error parsing key file")
	// ErrUnknownPermission happens when a key names a permission that isn't
	// defined.
	ErrUnknownPermission = errors.NewKind("unknown permission, %s")
	// ErrDuplicateKey happens when a key appears more than once in a file.
	ErrDuplicateKey = errors.NewKind("duplicate key, %s")
)

// keyRecord holds credentials and permissions for one API key.
type keyRecord struct {
	Key             string
	Hash            string
	JSONPermissions []string `json:"Permissions"`
	Permissions     Permission
}

// Allowed checks whether the key carries permission p.
func (k keyRecord) Allowed(p Permission) error {
	if k.Permissions&p == p {
		return nil
	}
	missing := (^k.Permissions) & p
	return ErrNotAuthorized.Wrap(ErrNoPermission.New(missing))
}

// HashAPIKey double-hashes an API key the way MySQL's native password
// authentication double-hashes a password, so a key file on disk never
// holds a usable credential in the clear.
func HashAPIKey(key string) string {
	if len(key) == 0 {
		return ""
	}

	hash := sha1.New()
	hash.Write([]byte(key))
	s1 := hash.Sum(nil)

	hash.Reset()
	hash.Write(s1)
	s2 := hash.Sum(nil)

	return fmt.Sprintf("*%s", strings.ToUpper(hex.EncodeToString(s2)))
}

// Native authenticates requests against a fixed set of hashed API keys.
type Native struct {
	keys map[string]keyRecord
}

// NewStaticKey creates a Native with a single API key and permission set.
func NewStaticKey(key string, perm Permission) *Native {
	keys := map[string]keyRecord{
		HashAPIKey(key): {Key: key, Hash: HashAPIKey(key), Permissions: perm},
	}
	return &Native{keys}
}

// NewKeyFile creates a Native and loads keys from a JSON file: an array of
// objects with "Key" (or pre-hashed "Hash") and "Permissions" fields.
func NewKeyFile(path string) (*Native, error) {
	var data []keyRecord

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrParseKeyFile.New(err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, ErrParseKeyFile.New(err)
	}

	keys := make(map[string]keyRecord, len(data))
	for _, k := range data {
		hash := k.Hash
		if hash == "" {
			hash = k.Key
		}
		if !regHashed.MatchString(hash) {
			hash = HashAPIKey(hash)
		}
		if _, ok := keys[hash]; ok {
			return nil, ErrParseKeyFile.Wrap(ErrDuplicateKey.New(k.Key))
		}

		if len(k.JSONPermissions) == 0 {
			k.Permissions = DefaultPermissions
		}
		for _, p := range k.JSONPermissions {
			perm, ok := PermissionNames[strings.ToLower(p)]
			if !ok {
				return nil, ErrParseKeyFile.Wrap(ErrUnknownPermission.New(p))
			}
			k.Permissions |= perm
		}

		k.Hash = hash
		keys[hash] = k
	}

	return &Native{keys}, nil
}

// Allowed implements Authenticator.
func (n *Native) Allowed(apiKey string, permission Permission) error {
	k, ok := n.keys[HashAPIKey(apiKey)]
	if !ok {
		return ErrNotAuthorized.Wrap(ErrNoPermission.New(permission))
	}
	return k.Allowed(permission)
}
