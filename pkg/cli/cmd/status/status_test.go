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

package status

import (
	"context"
	"testing"
	"time"

	"github.com/dnote/jsync/pkg/assert"
	jsyncctx "github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/database"
	"github.com/dnote/jsync/pkg/cli/testutils"
	"github.com/pkg/errors"
)

func TestCheckConnection(t *testing.T) {
	server := testutils.NewJoplinServer(t)

	testCases := []struct {
		name       string
		baseURL    string
		token      string
		reachable  bool
		authorized bool
	}{
		{name: "authorized", baseURL: server.URL, token: testutils.JoplinToken, reachable: true, authorized: true},
		{name: "rejected token", baseURL: server.URL, token: "wrong", reachable: true, authorized: false},
		{name: "no token", baseURL: server.URL, token: "", reachable: true, authorized: false},
		{name: "unreachable", baseURL: "http://127.0.0.1:1", token: testutils.JoplinToken, reachable: false, authorized: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := jsyncctx.JsyncCtx{BaseURL: tc.baseURL, Token: tc.token}

			conn := CheckConnection(context.Background(), ctx)
			assert.Equal(t, conn.Reachable, tc.reachable, "reachable mismatch")
			assert.Equal(t, conn.Authorized, tc.authorized, "authorized mismatch")
		})
	}
}

func TestLinks(t *testing.T) {
	ctx := jsyncctx.InitTestCtx(t)
	r := database.NewRegistry(ctx.DB)

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	for _, l := range []database.Link{
		{Path: "/vault/b.md", RemoteID: "r2", Direction: "create", SyncedAt: now},
		{Path: "/vault/a.md", RemoteID: "r1", Direction: "to-local", SyncedAt: now},
	} {
		if err := r.UpsertLink(l); err != nil {
			t.Fatal(errors.Wrap(err, "inserting link"))
		}
	}

	t.Run("all documents", func(t *testing.T) {
		links, err := Links(ctx, "")
		if err != nil {
			t.Fatal(errors.Wrap(err, "listing links"))
		}

		assert.Equal(t, len(links), 2, "link count mismatch")
		assert.Equal(t, links[0].Path, "/vault/a.md", "order mismatch")
	})

	t.Run("single document", func(t *testing.T) {
		links, err := Links(ctx, "/vault/b.md")
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting link"))
		}

		assert.Equal(t, len(links), 1, "link count mismatch")
		assert.Equal(t, links[0].RemoteID, "r2", "remote id mismatch")
	})

	t.Run("unsynced document", func(t *testing.T) {
		links, err := Links(ctx, "/vault/missing.md")
		if err != nil {
			t.Fatal(errors.Wrap(err, "getting link"))
		}

		assert.Equal(t, len(links), 0, "link count mismatch")
	})
}
