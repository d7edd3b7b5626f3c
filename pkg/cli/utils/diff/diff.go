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

// Package diff provides character-level diff and merge features by wrapping
// a package github.com/sergi/go-diff/diffmatchpatch
package diff

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	// DiffEqual represents an equal diff
	DiffEqual = diffmatchpatch.DiffEqual
	// DiffInsert represents an insert diff
	DiffInsert = diffmatchpatch.DiffInsert
	// DiffDelete represents a delete diff
	DiffDelete = diffmatchpatch.DiffDelete
)

func newDMP() *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = time.Hour

	return dmp
}

// Chars computes a character-level diff that transforms s1 into s2.
// The returned spans cover both inputs in order.
func Chars(s1, s2 string) []diffmatchpatch.Diff {
	return newDMP().DiffMain(s1, s2, false)
}

// Lines computes line-by-line diff between two strings
func Lines(s1, s2 string) []diffmatchpatch.Diff {
	dmp := newDMP()

	s1Chars, s2Chars, arr := dmp.DiffLinesToRunes(s1, s2)
	diffs := dmp.DiffMainRunes(s1Chars, s2Chars, false)

	return dmp.DiffCharsToLines(diffs, arr)
}

// FastForward merges older into newer by keeping every equal and inserted
// span and dropping every deleted span. No conflict markers are emitted.
// Inputs that are not valid UTF-8 yield newer unchanged, since the diff
// works on runes and would replace invalid bytes.
func FastForward(older, newer string) string {
	if !utf8.ValidString(older) || !utf8.ValidString(newer) {
		return newer
	}

	var sb strings.Builder

	for _, d := range Chars(older, newer) {
		if d.Type == DiffDelete {
			continue
		}

		sb.WriteString(d.Text)
	}

	return sb.String()
}
