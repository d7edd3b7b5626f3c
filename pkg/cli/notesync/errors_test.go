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

package notesync

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/dnote/jsync/pkg/assert"
	"github.com/dnote/jsync/pkg/cli/client"
	"github.com/dnote/jsync/pkg/cli/frontmatter"
	"github.com/dnote/jsync/pkg/cli/reconcile"
	"github.com/pkg/errors"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		err      error
		expected Kind
	}{
		{err: nil, expected: KindUnknown},
		{err: errors.New("connection refused"), expected: KindUnknown},
		{err: ErrMissingCredential, expected: KindMissingCredential},
		{err: errors.Wrap(ErrMissingDocumentHandle, "syncing"), expected: KindMissingDocumentHandle},
		{err: errors.Wrap(&client.HTTPError{StatusCode: http.StatusNotFound}, "getting remote note r1"), expected: KindNotFound},
		{err: errors.Wrap(&client.HTTPError{StatusCode: http.StatusForbidden}, "getting remote note r1"), expected: KindUnknown},
		{err: errors.Wrap(frontmatter.ErrMalformedDocument, "parsing header"), expected: KindMalformedDocument},
		{err: errors.Wrap(reconcile.ErrMissingTimestamp, "reconciling"), expected: KindReconciliation},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			assert.Equal(t, KindOf(tc.err), tc.expected, "kind mismatch")
		})
	}
}

func TestDescribe(t *testing.T) {
	testCases := []struct {
		err      error
		expected string
	}{
		{
			err:      errors.Wrap(&client.HTTPError{StatusCode: http.StatusNotFound, Message: "Not Found"}, "getting remote note r1"),
			expected: "No notes were found in Joplin, try checking remoteId.",
		},
		{
			err:      ErrMissingCredential,
			expected: "Please enter your Joplin access token in Settings.",
		},
		{
			err:      ErrMissingDocumentHandle,
			expected: "This note is not saved yet.",
		},
		{
			err:      errors.New("connection refused"),
			expected: "connection refused",
		},
		{
			err:      errors.New(""),
			expected: "An unknown error occurred.",
		},
		{
			err:      nil,
			expected: "An unknown error occurred.",
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			assert.Equal(t, Describe(tc.err), tc.expected, "message mismatch")
		})
	}
}
