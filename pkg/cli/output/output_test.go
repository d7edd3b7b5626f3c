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

package output

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dnote/jsync/pkg/assert"
	"github.com/dnote/jsync/pkg/cli/database"
	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/dnote/jsync/pkg/cli/notesync"
	"github.com/dnote/jsync/pkg/cli/reconcile"
	"github.com/fatih/color"
)

func disableColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestDiff(t *testing.T) {
	disableColor(t)

	testCases := []struct {
		before   string
		after    string
		expected string
	}{
		{
			before:   "same\n",
			after:    "same\n",
			expected: "no changes\n",
		},
		{
			before:   "a\nb\nc\n",
			after:    "a\nB\nc\n",
			expected: "  a\n- b\n+ B\n  c\n",
		},
		{
			before:   "a",
			after:    "a\nb",
			expected: "- a\n+ a\n+ b\n",
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			var buf bytes.Buffer
			Diff(&buf, tc.before, tc.after)

			assert.Equal(t, buf.String(), tc.expected, "diff mismatch")
		})
	}
}

func TestSyncResult(t *testing.T) {
	disableColor(t)

	testCases := []struct {
		result   notesync.Result
		expected string
	}{
		{
			result: notesync.Result{
				Path:          "/vault/a.md",
				RemoteID:      "r1",
				Outcome:       reconcile.Outcome{Direction: reconcile.DirectionCreate},
				LocalChanged:  true,
				RemoteChanged: true,
			},
			expected: "created remote note r1 for /vault/a.md",
		},
		{
			result: notesync.Result{
				Path:          "/vault/a.md",
				RemoteID:      "r1",
				Outcome:       reconcile.Outcome{Direction: reconcile.DirectionToRemote},
				RemoteChanged: true,
			},
			expected: "pushed /vault/a.md to remote note r1",
		},
		{
			result: notesync.Result{
				Path:         "/vault/a.md",
				RemoteID:     "r1",
				Outcome:      reconcile.Outcome{Direction: reconcile.DirectionToLocal},
				LocalChanged: true,
			},
			expected: "pulled remote note r1 into /vault/a.md",
		},
		{
			result: notesync.Result{
				Path:     "/vault/a.md",
				RemoteID: "r1",
				Outcome:  reconcile.Outcome{Direction: reconcile.DirectionToLocal},
			},
			expected: "/vault/a.md is up to date",
		},
		{
			result: notesync.Result{
				Path:    "/vault/a.md",
				Outcome: reconcile.Outcome{Direction: reconcile.DirectionCreate},
				DryRun:  true,
			},
			expected: "would sync /vault/a.md: create a remote note",
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			var buf bytes.Buffer
			restore := log.SetOutput(&buf)
			defer restore()

			SyncResult(tc.result)

			assert.Equal(t, strings.Contains(buf.String(), tc.expected), true, fmt.Sprintf("output mismatch: %q", buf.String()))
		})
	}
}

func TestLinks(t *testing.T) {
	disableColor(t)

	var buf bytes.Buffer
	restore := log.SetOutput(&buf)
	defer restore()

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	Links([]database.Link{
		{Path: "/vault/a.md", RemoteID: "r1", Direction: "to-local", SyncedAt: now.Add(-2 * time.Hour)},
	}, now)

	out := buf.String()
	assert.Equal(t, strings.Contains(out, "/vault/a.md"), true, "path should be printed")
	assert.Equal(t, strings.Contains(out, "remote note: r1"), true, "remote id should be printed")
	assert.Equal(t, strings.Contains(out, "2h ago (to-local)"), true, "sync time should be printed")

	buf.Reset()
	Links(nil, now)
	assert.Equal(t, strings.Contains(buf.String(), "no documents have been synced yet"), true, "empty registry message mismatch")
}

func TestSince(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		t        time.Time
		expected string
	}{
		{t: now.Add(-10 * time.Second), expected: "just now"},
		{t: now.Add(-5 * time.Minute), expected: "5m ago"},
		{t: now.Add(-3 * time.Hour), expected: "3h ago"},
		{t: now.Add(-50 * time.Hour), expected: "2d ago"},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			assert.Equal(t, Since(now, tc.t), tc.expected, "result mismatch")
		})
	}
}

func TestPlan(t *testing.T) {
	disableColor(t)

	var logBuf bytes.Buffer
	restore := log.SetOutput(&logBuf)
	defer restore()

	testCases := []struct {
		result   notesync.Result
		expected string
	}{
		{
			result: notesync.Result{
				Outcome:    reconcile.Outcome{Direction: reconcile.DirectionToLocal, Body: "a\nc\n"},
				LocalBody:  "a\nb\n",
				RemoteBody: "a\nc\n",
				DryRun:     true,
			},
			expected: "  a\n- b\n+ c\n",
		},
		{
			result: notesync.Result{
				Outcome:    reconcile.Outcome{Direction: reconcile.DirectionToRemote, Body: "a\nb\n"},
				LocalBody:  "a\nb\n",
				RemoteBody: "a\nc\n",
				DryRun:     true,
			},
			expected: "  a\n- c\n+ b\n",
		},
		{
			result: notesync.Result{
				Outcome: reconcile.Outcome{Direction: reconcile.DirectionCreate, Body: "new\n"},
				DryRun:  true,
			},
			expected: "+ new\n",
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			var buf bytes.Buffer
			Plan(&buf, tc.result)

			assert.Equal(t, buf.String(), tc.expected, "plan mismatch")
		})
	}
}
