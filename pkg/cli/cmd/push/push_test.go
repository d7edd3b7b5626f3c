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

package push

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dnote/jsync/pkg/assert"
	jsyncctx "github.com/dnote/jsync/pkg/cli/context"
	"github.com/dnote/jsync/pkg/cli/infra"
	"github.com/dnote/jsync/pkg/cli/notesync"
	"github.com/dnote/jsync/pkg/cli/testutils"
	"github.com/pkg/errors"
)

func setupCtx(t *testing.T) (jsyncctx.JsyncCtx, *testutils.JoplinServer) {
	server := testutils.NewJoplinServer(t)

	ctx := jsyncctx.InitTestCtx(t)
	ctx.BaseURL = server.URL
	ctx.Token = testutils.JoplinToken

	return ctx, server
}

// countingConfirm returns a confirm func answering with the given value
func countingConfirm(answer bool, calls *int) ConfirmFunc {
	return func(path string) (bool, error) {
		*calls++
		return answer, nil
	}
}

func TestDo(t *testing.T) {
	ctx, server := setupCtx(t)
	path := testutils.WriteDocument(t, t.TempDir(), "Groceries.md", "milk", time.Now())

	var calls int
	err := Do(context.Background(), ctx, infra.NewSyncer(ctx), path, countingConfirm(true, &calls))
	if err != nil {
		t.Fatal(errors.Wrap(err, "pushing"))
	}

	assert.Equal(t, calls, 1, "confirm call count mismatch")
	assert.Equal(t, server.NoteCount(), 1, "note count mismatch")
}

func TestDo_Declined(t *testing.T) {
	ctx, server := setupCtx(t)
	path := testutils.WriteDocument(t, t.TempDir(), "Groceries.md", "milk", time.Now())

	var calls int
	err := Do(context.Background(), ctx, infra.NewSyncer(ctx), path, countingConfirm(false, &calls))
	assert.Equal(t, err, nil, "error mismatch")

	assert.Equal(t, calls, 1, "confirm call count mismatch")
	assert.Equal(t, server.NoteCount(), 0, "note count mismatch")
	assert.Equal(t, testutils.ReadDocument(t, path), "milk", "document should be untouched")
}

func TestDo_NoConfirm(t *testing.T) {
	ctx, server := setupCtx(t)
	path := testutils.WriteDocument(t, t.TempDir(), "Groceries.md", "milk", time.Now())

	if err := Do(context.Background(), ctx, infra.NewSyncer(ctx), path, nil); err != nil {
		t.Fatal(errors.Wrap(err, "pushing"))
	}

	assert.Equal(t, server.NoteCount(), 1, "note count mismatch")
}

func TestDo_MissingArguments(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		ctx, server := setupCtx(t)
		ctx.Token = ""
		path := testutils.WriteDocument(t, t.TempDir(), "Groceries.md", "milk", time.Now())

		var calls int
		err := Do(context.Background(), ctx, infra.NewSyncer(ctx), path, countingConfirm(true, &calls))

		assert.NotEqual(t, err, nil, "error should not be nil")
		assert.Equal(t, err.Error(), notesync.Describe(notesync.ErrMissingCredential), "error message mismatch")
		assert.Equal(t, calls, 0, "confirm should not be called")
		assert.Equal(t, server.RequestCount(http.MethodGet), 0, "no request should be made")
	})

	t.Run("missing document", func(t *testing.T) {
		ctx, _ := setupCtx(t)

		var calls int
		err := Do(context.Background(), ctx, infra.NewSyncer(ctx), "", countingConfirm(true, &calls))

		assert.NotEqual(t, err, nil, "error should not be nil")
		assert.Equal(t, err.Error(), notesync.Describe(notesync.ErrMissingDocumentHandle), "error message mismatch")
		assert.Equal(t, calls, 0, "confirm should not be called")
	})
}

func TestDo_ConfirmError(t *testing.T) {
	ctx, server := setupCtx(t)
	path := testutils.WriteDocument(t, t.TempDir(), "Groceries.md", "milk", time.Now())

	failing := func(path string) (bool, error) {
		return false, errors.New("reading input")
	}

	err := Do(context.Background(), ctx, infra.NewSyncer(ctx), path, failing)
	assert.NotEqual(t, err, nil, "error should not be nil")
	assert.Equal(t, server.NoteCount(), 0, "note count mismatch")
}
