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
	"time"

	"github.com/sirupsen/logrus"
)

// AuditMethod is called to log the audit trail of authorization decisions
// and translated queries.
type AuditMethod interface {
	// Authorization logs an API key's Allowed check.
	Authorization(apiKey string, p Permission, err error)
	// Query logs a translated query's outcome.
	Query(apiKey, query string, d time.Duration, err error)
}

// NewAudit wraps auth so every Allowed call is also sent to method.
func NewAudit(auth Authenticator, method AuditMethod) *Audit {
	return &Audit{auth: auth, method: method}
}

// Audit is an Authenticator proxy that reports every decision to an
// AuditMethod, the same decorator shape the teacher uses to wrap a
// mysql.AuthServer.
type Audit struct {
	auth   Authenticator
	method AuditMethod
}

// Allowed implements Authenticator.
func (a *Audit) Allowed(apiKey string, permission Permission) error {
	err := a.auth.Allowed(apiKey, permission)
	a.method.Authorization(apiKey, permission, err)
	return err
}

// Query reports a translated query's outcome through the wrapped
// AuditMethod. It has no bearing on Allowed; the server calls it directly
// after handling a request.
func (a *Audit) Query(apiKey, query string, d time.Duration, err error) {
	a.method.Query(apiKey, query, d, err)
}

// NewAuditLog creates an AuditMethod that logs to a logrus.Logger.
func NewAuditLog(l *logrus.Logger) AuditMethod {
	return &AuditLog{log: l.WithField("system", "audit")}
}

const auditLogMessage = "audit trail"

// AuditLog logs audit trails to a logrus.Logger.
type AuditLog struct {
	log *logrus.Entry
}

func resultFields(err error) logrus.Fields {
	fields := logrus.Fields{"success": true}
	if err != nil {
		fields["success"] = false
		fields["err"] = err
	}
	return fields
}

// Authorization implements AuditMethod.
func (a *AuditLog) Authorization(apiKey string, p Permission, err error) {
	fields := resultFields(err)
	fields["action"] = "authorization"
	fields["permission"] = p.String()
	a.log.WithFields(fields).Info(auditLogMessage)
}

// Query implements AuditMethod.
func (a *AuditLog) Query(apiKey, query string, d time.Duration, err error) {
	fields := resultFields(err)
	fields["action"] = "query"
	fields["query"] = query
	fields["duration"] = d
	a.log.WithFields(fields).Info(auditLogMessage)
}
