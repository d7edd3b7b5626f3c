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
	"sync"
)

// handleLocks serializes syncs of the same document within a process
type handleLocks struct {
	mu    sync.Mutex
	locks map[string]*handleLock
}

type handleLock struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until the handle is free and returns a function releasing it
func (l *handleLocks) lock(handle string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = map[string]*handleLock{}
	}
	hl, ok := l.locks[handle]
	if !ok {
		hl = &handleLock{}
		l.locks[handle] = hl
	}
	hl.refs++
	l.mu.Unlock()

	hl.mu.Lock()

	return func() {
		hl.mu.Unlock()

		l.mu.Lock()
		hl.refs--
		if hl.refs == 0 {
			delete(l.locks, handle)
		}
		l.mu.Unlock()
	}
}
