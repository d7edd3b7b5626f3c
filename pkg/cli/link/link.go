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

// Package link decides whether a document is linked to a remote note
package link

import (
	"github.com/dnote/jsync/pkg/cli/frontmatter"
)

// Link is the identity of a document with respect to the remote store
type Link struct {
	RemoteID string
	Linked   bool
}

// Unlinked is the identity of a document without a remote note
var Unlinked = Link{}

// Resolve returns the link stored in the given header. A document is linked
// only when its header holds a non-empty string remote id.
func Resolve(h frontmatter.Header) Link {
	if h.RemoteID == nil || *h.RemoteID == "" {
		return Unlinked
	}

	return Link{
		RemoteID: *h.RemoteID,
		Linked:   true,
	}
}
