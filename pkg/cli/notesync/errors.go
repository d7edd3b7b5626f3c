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
	"github.com/dnote/jsync/pkg/cli/client"
	"github.com/dnote/jsync/pkg/cli/frontmatter"
	"github.com/dnote/jsync/pkg/cli/reconcile"
	"github.com/pkg/errors"
)

var (
	// ErrMissingCredential is an error for a sync attempted without an access token
	ErrMissingCredential = errors.New("missing access token")
	// ErrMissingDocumentHandle is an error for a sync attempted on a document
	// that has no location yet
	ErrMissingDocumentHandle = errors.New("missing document handle")
)

// Kind classifies a sync failure
type Kind int

const (
	// KindUnknown is any failure without a dedicated kind, such as a transport error
	KindUnknown Kind = iota
	// KindNotFound means the linked remote note does not exist
	KindNotFound
	// KindMissingCredential means no access token was configured
	KindMissingCredential
	// KindMissingDocumentHandle means the document has no location
	KindMissingDocumentHandle
	// KindMalformedDocument means the document header could not be parsed
	KindMalformedDocument
	// KindReconciliation means the reconciliation inputs were incomplete
	KindReconciliation
)

var kindNames = map[Kind]string{
	KindUnknown:               "unknown",
	KindNotFound:              "not-found",
	KindMissingCredential:     "missing-credential",
	KindMissingDocumentHandle: "missing-document-handle",
	KindMalformedDocument:     "malformed-document",
	KindReconciliation:        "reconciliation",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// KindOf classifies the given error by the sentinel errors in its chain
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrMissingCredential):
		return KindMissingCredential
	case errors.Is(err, ErrMissingDocumentHandle):
		return KindMissingDocumentHandle
	case errors.Is(err, client.ErrNotFound):
		return KindNotFound
	case errors.Is(err, frontmatter.ErrMalformedDocument):
		return KindMalformedDocument
	case errors.Is(err, reconcile.ErrMissingTimestamp):
		return KindReconciliation
	}

	return KindUnknown
}

const unknownErrorMessage = "An unknown error occurred."

// Describe returns the message to show the user for the given error
func Describe(err error) string {
	switch KindOf(err) {
	case KindNotFound:
		return "No notes were found in Joplin, try checking remoteId."
	case KindMissingCredential:
		return "Please enter your Joplin access token in Settings."
	case KindMissingDocumentHandle:
		return "This note is not saved yet."
	}

	if err == nil || err.Error() == "" {
		return unknownErrorMessage
	}

	return err.Error()
}
