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

// Package reconcile computes the merged state of a note that exists both as
// a local document and as a remote note. It performs no I/O.
package reconcile

import (
	"strings"
	"time"

	"github.com/dnote/jsync/pkg/cli/utils/diff"
	"github.com/pkg/errors"
)

// ErrMissingTimestamp is an error for a linked note without a usable
// modification time on either side
var ErrMissingTimestamp = errors.New("missing modification time")

// Mode specifies which sync directions are permitted
type Mode int

const (
	// ModeTwoWay lets the side with the later timestamp win
	ModeTwoWay Mode = iota
	// ModeLocalToRemote always overwrites the remote note with the local document
	ModeLocalToRemote
)

var modeNames = map[Mode]string{
	ModeTwoWay:        "two-way",
	ModeLocalToRemote: "local-to-remote",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}

	return "unknown"
}

// ParseMode returns the mode with the given name
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}

	return 0, errors.Errorf("unknown sync mode '%s'", s)
}

// Direction is the direction in which the merged note flows
type Direction int

const (
	// DirectionToRemote means the remote note is stale
	DirectionToRemote Direction = iota
	// DirectionToLocal means the local document is stale
	DirectionToLocal
	// DirectionCreate means a remote note needs to be created
	DirectionCreate
)

func (d Direction) String() string {
	switch d {
	case DirectionToRemote:
		return "to-remote"
	case DirectionToLocal:
		return "to-local"
	case DirectionCreate:
		return "create"
	}

	return "unknown"
}

// Side is a snapshot of one version of the note
type Side struct {
	Title     string
	Body      string
	UpdatedAt time.Time
}

// Input holds everything needed to reconcile a note
type Input struct {
	Linked bool
	Local  Side
	Remote Side
	Mode   Mode
}

// Outcome is the result of a reconciliation
type Outcome struct {
	Direction Direction
	Title     string
	Body      string
}

// NormalizeRemoteBody undoes the escaping the remote store applies to
// non-breaking spaces
func NormalizeRemoteBody(body string) string {
	return strings.ReplaceAll(body, "&nbsp;", " ")
}

// Reconcile decides the sync direction and computes the merged note
func Reconcile(in Input) (Outcome, error) {
	if !in.Linked {
		return Outcome{
			Direction: DirectionCreate,
			Title:     in.Local.Title,
			Body:      in.Local.Body,
		}, nil
	}

	if in.Mode == ModeLocalToRemote {
		return Outcome{
			Direction: DirectionToRemote,
			Title:     in.Local.Title,
			Body:      in.Local.Body,
		}, nil
	}

	if in.Local.UpdatedAt.IsZero() {
		return Outcome{}, errors.Wrap(ErrMissingTimestamp, "local document")
	}
	if in.Remote.UpdatedAt.IsZero() {
		return Outcome{}, errors.Wrap(ErrMissingTimestamp, "remote note")
	}

	localBody := in.Local.Body
	remoteBody := NormalizeRemoteBody(in.Remote.Body)

	// ties favor the local document
	if in.Remote.UpdatedAt.After(in.Local.UpdatedAt) {
		return Outcome{
			Direction: DirectionToLocal,
			Title:     in.Remote.Title,
			Body:      diff.FastForward(localBody, remoteBody),
		}, nil
	}

	return Outcome{
		Direction: DirectionToRemote,
		Title:     in.Local.Title,
		Body:      diff.FastForward(remoteBody, localBody),
	}, nil
}
