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

package database

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// Link records the last successful sync of a document
type Link struct {
	Path      string
	RemoteID  string
	Direction string
	SyncedAt  time.Time
}

// Registry records links in the database
type Registry struct {
	DB *DB
}

// NewRegistry returns a registry backed by the given database
func NewRegistry(db *DB) *Registry {
	return &Registry{DB: db}
}

// UpsertLink inserts the link, or replaces the link recorded for the same path
func (r *Registry) UpsertLink(l Link) error {
	_, err := r.DB.Exec(`INSERT INTO links (path, remote_id, direction, synced_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET remote_id = excluded.remote_id, direction = excluded.direction, synced_at = excluded.synced_at`,
		l.Path, l.RemoteID, l.Direction, l.SyncedAt.UnixNano())
	if err != nil {
		return errors.Wrapf(err, "upserting link for %s", l.Path)
	}

	return nil
}

// GetLink returns the link recorded for the given path. It returns
// sql.ErrNoRows if there is none.
func (r *Registry) GetLink(path string) (Link, error) {
	var l Link
	var syncedAt int64

	err := r.DB.QueryRow("SELECT path, remote_id, direction, synced_at FROM links WHERE path = ?", path).
		Scan(&l.Path, &l.RemoteID, &l.Direction, &syncedAt)
	if err == sql.ErrNoRows {
		return Link{}, err
	}
	if err != nil {
		return Link{}, errors.Wrapf(err, "querying link for %s", path)
	}

	l.SyncedAt = time.Unix(0, syncedAt)

	return l, nil
}

func (r *Registry) queryLinks(query string, args ...interface{}) ([]Link, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying links")
	}
	defer rows.Close()

	ret := []Link{}
	for rows.Next() {
		var l Link
		var syncedAt int64

		if err := rows.Scan(&l.Path, &l.RemoteID, &l.Direction, &syncedAt); err != nil {
			return nil, errors.Wrap(err, "scanning a row")
		}

		l.SyncedAt = time.Unix(0, syncedAt)
		ret = append(ret, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating rows")
	}

	return ret, nil
}

// ListLinks returns all links ordered by path
func (r *Registry) ListLinks() ([]Link, error) {
	return r.queryLinks("SELECT path, remote_id, direction, synced_at FROM links ORDER BY path ASC")
}

// LinksByRemoteID returns the links of every document linked to the given remote note
func (r *Registry) LinksByRemoteID(remoteID string) ([]Link, error) {
	return r.queryLinks("SELECT path, remote_id, direction, synced_at FROM links WHERE remote_id = ? ORDER BY path ASC", remoteID)
}

// RecordLink upserts the link and returns the links of other documents
// linked to the same remote note. The lookup and the upsert share one
// transaction.
func (r *Registry) RecordLink(l Link) ([]Link, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "beginning a transaction")
	}
	txr := NewRegistry(tx)

	links, err := txr.LinksByRemoteID(l.RemoteID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := txr.UpsertLink(l); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing a transaction")
	}

	others := []Link{}
	for _, o := range links {
		if o.Path != l.Path {
			others = append(others, o)
		}
	}

	return others, nil
}
