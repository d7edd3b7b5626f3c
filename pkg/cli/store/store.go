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

// Package store reads and writes note documents on the local file system
package store

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
)

// ErrNotRegularFile is an error for a handle that does not point to a regular file
var ErrNotRegularFile = errors.New("not a regular file")

// Document is a snapshot of a note document
type Document struct {
	Path       string
	Content    string
	ModifiedAt time.Time
}

// BaseTitle returns the title derived from the document's file name
func (d Document) BaseTitle() string {
	return BaseTitle(d.Path)
}

// BaseTitle returns the file name of the given path without its extension
func BaseTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FS is a document store backed by the local file system
type FS struct{}

// NewFS returns a new file system store
func NewFS() *FS {
	return &FS{}
}

// Read reads the document at the given path along with its modification time
func (s *FS) Read(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "getting file info for %s", path)
	}
	if !info.Mode().IsRegular() {
		return Document{}, errors.Wrap(ErrNotRegularFile, path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "reading %s", path)
	}

	return Document{
		Path:       path,
		Content:    string(b),
		ModifiedAt: info.ModTime(),
	}, nil
}

// Write atomically replaces the content of the document at the given path.
// The file keeps its permission bits.
func (s *FS) Write(path, content string) error {
	info, statErr := os.Stat(path)

	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}

	if statErr == nil {
		if err := os.Chmod(path, info.Mode().Perm()); err != nil {
			return errors.Wrapf(err, "restoring permission of %s", path)
		}
	}

	return nil
}
