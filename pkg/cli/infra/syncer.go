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

package infra

import (
	"github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/database"
	"github.com/dnote/jsync/pkg/cli/notesync"
	"github.com/dnote/jsync/pkg/cli/store"
)

// NewSyncer returns a syncer working on the local file system that records
// links in the database of the given context
func NewSyncer(ctx context.JsyncCtx) *notesync.Syncer {
	s := &notesync.Syncer{
		Local:     store.NewFS(),
		NewRemote: notesync.NewJoplinRemote,
		Clock:     ctx.Clock,
	}
	if ctx.DB != nil {
		s.Registry = database.NewRegistry(ctx.DB)
	}

	return s
}
