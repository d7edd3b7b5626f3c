/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package context defines jsync context
package context

import (
	"net/http"

	"github.com/dnote/jsync/pkg/cli/database"
	"github.com/dnote/jsync/pkg/cli/notesync"
	"github.com/dnote/jsync/pkg/clock"
)

// Paths contain directory definitions
type Paths struct {
	Home   string
	Config string
	Data   string
}

// JsyncCtx is a context holding the information of the current runtime
type JsyncCtx struct {
	Paths         Paths
	Version       string
	DB            *database.DB
	BaseURL       string
	Token         string
	SyncDirection string
	Clock         clock.Clock
	HTTPClient    *http.Client
}

// SyncConfig returns the remote configuration for a sync
func (ctx JsyncCtx) SyncConfig() notesync.Config {
	return notesync.Config{
		BaseURL:    ctx.BaseURL,
		Token:      ctx.Token,
		Version:    ctx.Version,
		HTTPClient: ctx.HTTPClient,
	}
}

// Redact replaces private information from the context with a set of
// placeholder values.
func Redact(ctx JsyncCtx) JsyncCtx {
	var token string
	if ctx.Token != "" {
		token = "1"
	} else {
		token = "0"
	}
	ctx.Token = token

	return ctx
}
