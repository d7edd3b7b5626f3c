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

package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dnote/jsync/pkg/clock"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// JoplinToken is the access token accepted by the fake Joplin server
const JoplinToken = "someJoplinToken"

// JoplinNote is a note held by the fake Joplin server
type JoplinNote struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	UpdatedTime int64  `json:"updated_time"`
}

// JoplinServer is an in-memory imitation of the Joplin data API
type JoplinServer struct {
	*httptest.Server

	Clock *clock.Mock

	mu       sync.Mutex
	notes    map[string]JoplinNote
	requests map[string]int
}

// NewJoplinServer starts a fake Joplin server that is closed when the test ends
func NewJoplinServer(t *testing.T) *JoplinServer {
	s := &JoplinServer{
		Clock:    clock.NewMock(),
		notes:    map[string]JoplinNote{},
		requests: map[string]int{},
	}

	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Server.Close)

	return s
}

func (s *JoplinServer) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.countRequests)

	r.HandleFunc("/ping", s.ping).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(checkToken)
	api.HandleFunc("/notes", s.listNotes).Methods(http.MethodGet)
	api.HandleFunc("/notes", s.createNote).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}", s.getNote).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", s.updateNote).Methods(http.MethodPut)

	return r
}

func (s *JoplinServer) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method]++
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func checkToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != JoplinToken {
			respondError(w, http.StatusForbidden, `Invalid "token" parameter`)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func (s *JoplinServer) ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("JoplinClipperServer"))
}

func (s *JoplinServer) listNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := make([]JoplinNote, 0, len(s.notes))
	for _, n := range s.notes {
		items = append(items, n)
	}
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":    items,
		"has_more": false,
	})
}

func (s *JoplinServer) getNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	n, ok := s.Note(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Not Found")
		return
	}

	respondJSON(w, http.StatusOK, n)
}

type notePayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func decodePayload(r *http.Request) (notePayload, error) {
	var p notePayload
	err := json.NewDecoder(r.Body).Decode(&p)
	return p, err
}

func (s *JoplinServer) createNote(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	n := JoplinNote{
		ID:          strings.ReplaceAll(uuid.NewString(), "-", ""),
		Title:       p.Title,
		Body:        p.Body,
		UpdatedTime: s.Clock.Now().UnixMilli(),
	}
	s.SetNote(n)

	respondJSON(w, http.StatusOK, n)
}

func (s *JoplinServer) updateNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := decodePayload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, ok := s.Note(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Not Found")
		return
	}

	n.Title = p.Title
	n.Body = p.Body
	n.UpdatedTime = s.Clock.Now().UnixMilli()
	s.SetNote(n)

	respondJSON(w, http.StatusOK, n)
}

// SetNote stores the given note on the server, replacing any note with the same id
func (s *JoplinServer) SetNote(n JoplinNote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes[n.ID] = n
}

// Note returns the note with the given id
func (s *JoplinServer) Note(id string) (JoplinNote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	return n, ok
}

// NoteCount returns the number of notes on the server
func (s *JoplinServer) NoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.notes)
}

// RequestCount returns the number of requests received with the given method
func (s *JoplinServer) RequestCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests[method]
}
