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

// Package notesync keeps a local note document and its remote Joplin note
// consistent
package notesync

import (
	"context"
	"net/http"

	"github.com/dnote/jsync/pkg/cli/client"
	"github.com/dnote/jsync/pkg/cli/database"
	"github.com/dnote/jsync/pkg/cli/frontmatter"
	"github.com/dnote/jsync/pkg/cli/link"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/dnote/jsync/pkg/cli/reconcile"
	"github.com/dnote/jsync/pkg/cli/store"
	"github.com/dnote/jsync/pkg/clock"
	"github.com/pkg/errors"
)

// Config is the remote configuration for a single sync
type Config struct {
	BaseURL    string
	Token      string
	Version    string
	HTTPClient *http.Client
}

// LocalStore reads and writes note documents
type LocalStore interface {
	Read(path string) (store.Document, error)
	Write(path, content string) error
}

// RemoteStore reads and writes remote notes
type RemoteStore interface {
	GetNote(ctx context.Context, id string) (client.Note, error)
	CreateNote(ctx context.Context, title, body string) (client.Note, error)
	UpdateNote(ctx context.Context, id, title, body string) (client.Note, error)
}

// LinkRegistry records the documents that have been synced
type LinkRegistry interface {
	// RecordLink upserts the link and returns the other documents linked
	// to the same remote note
	RecordLink(l database.Link) ([]database.Link, error)
}

// NewJoplinRemote returns a remote store talking to the Joplin data API
func NewJoplinRemote(c Config) RemoteStore {
	return client.New(c.BaseURL, c.Token, c.Version, c.HTTPClient)
}

// Syncer syncs documents with the remote store
type Syncer struct {
	Local     LocalStore
	NewRemote func(Config) RemoteStore
	// Registry is optional
	Registry LinkRegistry
	Clock    clock.Clock

	locks handleLocks
}

// Result is the result of syncing a document
type Result struct {
	Path     string
	RemoteID string
	Outcome  reconcile.Outcome
	// Before is the local document content before the sync
	Before string
	// After is the local document content after the sync
	After string
	// LocalBody and RemoteBody are the bodies that were reconciled
	LocalBody  string
	RemoteBody string

	LocalChanged  bool
	RemoteChanged bool
	DryRun        bool
}

// UpToDate returns true if the sync did not need to change either side
func (r Result) UpToDate() bool {
	return !r.LocalChanged && !r.RemoteChanged
}

// plan is a reconciliation ready to be applied
type plan struct {
	doc    store.Document
	header frontmatter.Header
	body   string
	link   link.Link
	remote client.Note
	result Result
}

// CheckArgs reports a missing token or document handle without touching
// either store. The token is checked first.
func CheckArgs(cfg Config, handle string) error {
	if cfg.Token == "" {
		return ErrMissingCredential
	}
	if handle == "" {
		return ErrMissingDocumentHandle
	}

	return nil
}

func (s *Syncer) remote(cfg Config) RemoteStore {
	if s.NewRemote != nil {
		return s.NewRemote(cfg)
	}

	return NewJoplinRemote(cfg)
}

func (s *Syncer) now() clock.Clock {
	if s.Clock != nil {
		return s.Clock
	}

	return clock.New()
}

func (s *Syncer) plan(ctx context.Context, remote RemoteStore, handle string, mode reconcile.Mode) (plan, error) {
	doc, err := s.Local.Read(handle)
	if err != nil {
		return plan{}, errors.Wrap(err, "reading document")
	}

	headerText, body, err := frontmatter.Split(doc.Content)
	if err != nil {
		return plan{}, errors.Wrapf(err, "splitting %s", handle)
	}
	header, err := frontmatter.ParseStrict(headerText)
	if err != nil {
		return plan{}, errors.Wrapf(err, "parsing header of %s", handle)
	}

	l := link.Resolve(header)

	title := header.GetTitle()
	if title == "" {
		title = doc.BaseTitle()
	}

	in := reconcile.Input{
		Linked: l.Linked,
		Local: reconcile.Side{
			Title:     title,
			Body:      body,
			UpdatedAt: doc.ModifiedAt,
		},
		Mode: mode,
	}

	var note client.Note
	if l.Linked {
		log.Debug("fetching remote note %s\n", l.RemoteID)

		note, err = remote.GetNote(ctx, l.RemoteID)
		if err != nil {
			return plan{}, errors.Wrapf(err, "getting remote note %s", l.RemoteID)
		}

		in.Remote = reconcile.Side{
			Title:     note.Title,
			Body:      note.Body,
			UpdatedAt: note.UpdatedAt(),
		}
	}

	outcome, err := reconcile.Reconcile(in)
	if err != nil {
		return plan{}, errors.Wrap(err, "reconciling")
	}

	log.Debug("reconciled %s: %s\n", handle, outcome.Direction)

	return plan{
		doc:    doc,
		header: header,
		body:   body,
		link:   l,
		remote: note,
		result: Result{
			Path:       handle,
			RemoteID:   l.RemoteID,
			Outcome:    outcome,
			Before:     doc.Content,
			After:      doc.Content,
			LocalBody:  body,
			RemoteBody: reconcile.NormalizeRemoteBody(note.Body),
		},
	}, nil
}

// remoteMatches reports whether the remote note already holds the outcome
func remoteMatches(n client.Note, o reconcile.Outcome) bool {
	if n.Title != o.Title {
		return false
	}

	return n.Body == o.Body || reconcile.NormalizeRemoteBody(n.Body) == o.Body
}

func (s *Syncer) writeLocal(p *plan, header frontmatter.Header, body string) error {
	content, err := frontmatter.Render(header, body)
	if err != nil {
		return errors.Wrap(err, "rendering document")
	}

	p.result.After = content
	if content == p.doc.Content {
		return nil
	}

	if err := s.Local.Write(p.doc.Path, content); err != nil {
		return errors.Wrap(err, "writing document")
	}
	p.result.LocalChanged = true

	return nil
}

func (s *Syncer) apply(ctx context.Context, remote RemoteStore, p *plan) error {
	o := p.result.Outcome

	switch o.Direction {
	case reconcile.DirectionCreate:
		n, err := remote.CreateNote(ctx, o.Title, o.Body)
		if err != nil {
			return errors.Wrap(err, "creating remote note")
		}
		p.result.RemoteID = n.ID
		p.result.RemoteChanged = true

		header := p.header.WithRemoteID(n.ID).WithTitle(o.Title)
		if err := s.writeLocal(p, header, p.body); err != nil {
			return err
		}
	case reconcile.DirectionToRemote:
		if !remoteMatches(p.remote, o) {
			if _, err := remote.UpdateNote(ctx, p.link.RemoteID, o.Title, o.Body); err != nil {
				return errors.Wrapf(err, "updating remote note %s", p.link.RemoteID)
			}
			p.result.RemoteChanged = true
		}

		if err := s.writeLocal(p, p.header.WithTitle(o.Title), p.body); err != nil {
			return err
		}
	case reconcile.DirectionToLocal:
		if err := s.writeLocal(p, p.header.WithTitle(o.Title), o.Body); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown direction %d", o.Direction)
	}

	return nil
}

func (s *Syncer) recordLink(r Result) {
	if s.Registry == nil {
		return
	}

	others, err := s.Registry.RecordLink(database.Link{
		Path:      r.Path,
		RemoteID:  r.RemoteID,
		Direction: r.Outcome.Direction.String(),
		SyncedAt:  s.now().Now(),
	})
	if err != nil {
		log.Warnf("could not record the sync of %s: %s\n", r.Path, err.Error())
		return
	}

	for _, l := range others {
		log.Warnf("%s is also linked to remote note %s\n", l.Path, r.RemoteID)
	}
}

// Plan reconciles the document at the given handle with its remote note
// without changing either side
func (s *Syncer) Plan(ctx context.Context, cfg Config, handle string, mode reconcile.Mode) (Result, error) {
	if err := CheckArgs(cfg, handle); err != nil {
		return Result{}, err
	}

	unlock := s.locks.lock(handle)
	defer unlock()

	p, err := s.plan(ctx, s.remote(cfg), handle, mode)
	if err != nil {
		return Result{}, err
	}

	p.result.DryRun = true

	return p.result, nil
}

// Sync reconciles the document at the given handle with its remote note and
// writes the merged note to whichever side is stale. Completed steps are not
// rolled back when a later step fails.
func (s *Syncer) Sync(ctx context.Context, cfg Config, handle string, mode reconcile.Mode) (Result, error) {
	if err := CheckArgs(cfg, handle); err != nil {
		return Result{}, err
	}

	unlock := s.locks.lock(handle)
	defer unlock()

	remote := s.remote(cfg)

	p, err := s.plan(ctx, remote, handle, mode)
	if err != nil {
		return Result{}, err
	}

	if err := s.apply(ctx, remote, &p); err != nil {
		return p.result, err
	}

	s.recordLink(p.result)

	return p.result, nil
}
