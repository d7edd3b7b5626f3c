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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dnote/jsync/pkg/cli/database"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/dnote/jsync/pkg/cli/notesync"
	"github.com/dnote/jsync/pkg/cli/reconcile"
	"github.com/dnote/jsync/pkg/cli/utils/diff"
)

const timeLayout = "Jan 2, 2006 3:04pm (MST)"

// SyncResult prints the result of a sync
func SyncResult(r notesync.Result) {
	if r.DryRun {
		log.Infof("would sync %s: %s\n", r.Path, describeDirection(r.Outcome.Direction))
		return
	}

	if r.UpToDate() {
		log.Successf("%s is up to date\n", r.Path)
		return
	}

	switch r.Outcome.Direction {
	case reconcile.DirectionCreate:
		log.Successf("created remote note %s for %s\n", r.RemoteID, r.Path)
	case reconcile.DirectionToRemote:
		log.Successf("pushed %s to remote note %s\n", r.Path, r.RemoteID)
	case reconcile.DirectionToLocal:
		log.Successf("pulled remote note %s into %s\n", r.RemoteID, r.Path)
	}
}

func describeDirection(d reconcile.Direction) string {
	switch d {
	case reconcile.DirectionCreate:
		return "create a remote note"
	case reconcile.DirectionToRemote:
		return "update the remote note"
	case reconcile.DirectionToLocal:
		return "update the local document"
	}

	return d.String()
}

func prefixLines(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")

	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}

		sb.WriteString(prefix)
		sb.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// Diff prints a line-by-line diff between two versions of a text
func Diff(w io.Writer, before, after string) {
	if before == after {
		fmt.Fprintln(w, "no changes")
		return
	}

	for _, d := range diff.Lines(before, after) {
		switch d.Type {
		case diff.DiffInsert:
			fmt.Fprint(w, log.ColorGreen.Sprint(prefixLines(d.Text, "+ ")))
		case diff.DiffDelete:
			fmt.Fprint(w, log.ColorRed.Sprint(prefixLines(d.Text, "- ")))
		default:
			fmt.Fprint(w, prefixLines(d.Text, "  "))
		}
	}
}

// Links prints the links recorded in the registry
func Links(links []database.Link, now time.Time) {
	if len(links) == 0 {
		log.Info("no documents have been synced yet\n")
		return
	}

	for _, l := range links {
		log.Plainf("%s\n", l.Path)
		log.Plainf("    remote note: %s\n", l.RemoteID)
		log.Plainf("    last sync: %s, %s (%s)\n", l.SyncedAt.Local().Format(timeLayout), Since(now, l.SyncedAt), l.Direction)
	}
}

// Since formats the time elapsed since the given time
func Since(now, t time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	}

	return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
}

// Plan prints what a sync would change, as a diff of the stale side's body
func Plan(w io.Writer, r notesync.Result) {
	SyncResult(r)

	switch r.Outcome.Direction {
	case reconcile.DirectionToLocal:
		Diff(w, r.LocalBody, r.Outcome.Body)
	default:
		Diff(w, r.RemoteBody, r.Outcome.Body)
	}
}
