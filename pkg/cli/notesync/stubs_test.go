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
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dnote/jsync/pkg/cli/client"
	"github.com/dnote/jsync/pkg/cli/database"
	"github.com/dnote/jsync/pkg/cli/store"
	"github.com/pkg/errors"
)

// memLocal is an in-memory local store counting its calls
type memLocal struct {
	mu     sync.Mutex
	docs   map[string]store.Document
	now    time.Time
	reads  int
	writes int
}

func newMemLocal() *memLocal {
	return &memLocal{
		docs: map[string]store.Document{},
		now:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memLocal) put(path, content string, modifiedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[path] = store.Document{Path: path, Content: content, ModifiedAt: modifiedAt}
}

func (s *memLocal) content(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.docs[path].Content
}

func (s *memLocal) Read(path string) (store.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++
	doc, ok := s.docs[path]
	if !ok {
		return store.Document{}, errors.Wrap(os.ErrNotExist, path)
	}

	return doc, nil
}

func (s *memLocal) Write(path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writes++
	s.now = s.now.Add(time.Minute)
	s.docs[path] = store.Document{Path: path, Content: content, ModifiedAt: s.now}

	return nil
}

// memRemote is an in-memory remote store counting its calls
type memRemote struct {
	mu      sync.Mutex
	notes   map[string]client.Note
	nextID  int
	now     time.Time
	gets    int
	creates int
	updates int
}

func newMemRemote() *memRemote {
	return &memRemote{
		notes: map[string]client.Note{},
		now:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memRemote) put(n client.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes[n.ID] = n
}

func (s *memRemote) note(id string) client.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.notes[id]
}

func (s *memRemote) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gets + s.creates + s.updates
}

func (s *memRemote) GetNote(ctx context.Context, id string) (client.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gets++
	n, ok := s.notes[id]
	if !ok {
		return client.Note{}, &client.HTTPError{StatusCode: 404, Message: "Not Found"}
	}

	return n, nil
}

func (s *memRemote) CreateNote(ctx context.Context, title, body string) (client.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creates++
	s.nextID++
	s.now = s.now.Add(time.Minute)

	n := client.Note{
		ID:          fmt.Sprintf("r%d", s.nextID),
		Title:       title,
		Body:        body,
		UpdatedTime: s.now.UnixMilli(),
	}
	s.notes[n.ID] = n

	return n, nil
}

func (s *memRemote) UpdateNote(ctx context.Context, id, title, body string) (client.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates++
	n, ok := s.notes[id]
	if !ok {
		return client.Note{}, &client.HTTPError{StatusCode: 404, Message: "Not Found"}
	}

	s.now = s.now.Add(time.Minute)
	n.Title = title
	n.Body = body
	n.UpdatedTime = s.now.UnixMilli()
	s.notes[id] = n

	return n, nil
}

// memRegistry is an in-memory link registry
type memRegistry struct {
	links map[string]database.Link
}

func newMemRegistry() *memRegistry {
	return &memRegistry{links: map[string]database.Link{}}
}

func (r *memRegistry) RecordLink(l database.Link) ([]database.Link, error) {
	others := []database.Link{}
	for _, o := range r.links {
		if o.RemoteID == l.RemoteID && o.Path != l.Path {
			others = append(others, o)
		}
	}

	r.links[l.Path] = l

	return others, nil
}

// linksByRemoteID returns the recorded links to the given remote note
func (r *memRegistry) linksByRemoteID(remoteID string) []database.Link {
	ret := []database.Link{}
	for _, l := range r.links {
		if l.RemoteID == remoteID {
			ret = append(ret, l)
		}
	}

	return ret
}
