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

// Package frontmatter reads and writes the YAML header block placed at the
// start of a note document
package frontmatter

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	// Delimiter is the line that opens and closes the header block
	Delimiter = "---"

	// KeyRemoteID is the header key holding the id of the linked remote note
	KeyRemoteID = "remoteId"
	// KeyTitle is the header key holding the cached note title
	KeyTitle = "title"
)

// ErrMalformedDocument is an error for a document whose header block is
// unterminated or does not hold a YAML mapping
var ErrMalformedDocument = errors.New("malformed document")

// Header is the typed form of a front matter block. Keys other than the
// recognized ones are kept in Extra, in their original order.
type Header struct {
	RemoteID *string
	Title    *string
	Extra    yaml.MapSlice
}

// IsEmpty returns true if the header has no fields at all
func (h Header) IsEmpty() bool {
	return h.RemoteID == nil && h.Title == nil && len(h.Extra) == 0
}

// GetTitle returns the title in the header, or an empty string
func (h Header) GetTitle() string {
	if h.Title == nil {
		return ""
	}

	return *h.Title
}

// WithRemoteID returns a copy of the header with the given remote id
func (h Header) WithRemoteID(id string) Header {
	h.RemoteID = &id
	return h
}

// WithTitle returns a copy of the header with the given title
func (h Header) WithTitle(title string) Header {
	h.Title = &title
	return h
}

// isDelimiter reports whether the line, without its line ending, is a delimiter
func isDelimiter(line string) bool {
	return strings.TrimSuffix(line, "\r") == Delimiter
}

// Split separates the header block from the body. The body is returned
// verbatim. A document without a header yields an empty header text.
func Split(raw string) (string, string, error) {
	nl := strings.IndexByte(raw, '\n')
	if nl < 0 {
		if isDelimiter(raw) {
			return "", "", errors.Wrap(ErrMalformedDocument, "header is not closed")
		}

		return "", raw, nil
	}

	if !isDelimiter(raw[:nl]) {
		return "", raw, nil
	}

	start := nl + 1
	pos := start
	for pos <= len(raw) {
		end := strings.IndexByte(raw[pos:], '\n')

		var line string
		var next int
		if end < 0 {
			line = raw[pos:]
			next = len(raw)
		} else {
			line = raw[pos : pos+end]
			next = pos + end + 1
		}

		if isDelimiter(line) {
			return raw[start:pos], raw[next:], nil
		}

		if end < 0 {
			break
		}
		pos = next
	}

	return "", "", errors.Wrap(ErrMalformedDocument, "header is not closed")
}

func decode(headerText string) (Header, error) {
	var ret Header

	if strings.TrimSpace(headerText) == "" {
		return ret, nil
	}

	var fields yaml.MapSlice
	if err := yaml.Unmarshal([]byte(headerText), &fields); err != nil {
		return Header{}, errors.Wrap(err, "unmarshalling header")
	}

	for _, item := range fields {
		key, ok := item.Key.(string)
		if !ok {
			ret.Extra = append(ret.Extra, item)
			continue
		}

		val, isString := item.Value.(string)

		switch {
		case key == KeyRemoteID && isString && ret.RemoteID == nil:
			ret.RemoteID = &val
		case key == KeyTitle && isString && ret.Title == nil:
			ret.Title = &val
		default:
			ret.Extra = append(ret.Extra, item)
		}
	}

	return ret, nil
}

// Parse decodes the header text. It never fails: an absent or malformed
// header yields an empty Header.
func Parse(headerText string) Header {
	h, err := decode(headerText)
	if err != nil {
		return Header{}
	}

	return h
}

// ParseStrict decodes the header text like Parse, but reports a header whose
// content is not a YAML mapping as ErrMalformedDocument.
func ParseStrict(headerText string) (Header, error) {
	h, err := decode(headerText)
	if err != nil {
		return Header{}, errors.Wrap(ErrMalformedDocument, err.Error())
	}

	return h, nil
}

// fields returns the ordered key-value pairs of the header
func (h Header) fields() yaml.MapSlice {
	ret := yaml.MapSlice{}

	if h.RemoteID != nil {
		ret = append(ret, yaml.MapItem{Key: KeyRemoteID, Value: *h.RemoteID})
	}
	if h.Title != nil {
		ret = append(ret, yaml.MapItem{Key: KeyTitle, Value: *h.Title})
	}

	for _, item := range h.Extra {
		if h.RemoteID != nil && item.Key == KeyRemoteID {
			continue
		}
		if h.Title != nil && item.Key == KeyTitle {
			continue
		}

		ret = append(ret, item)
	}

	return ret
}

// Serialize renders the header as YAML. An empty header renders as an
// empty string.
func Serialize(h Header) (string, error) {
	fields := h.fields()
	if len(fields) == 0 {
		return "", nil
	}

	b, err := yaml.Marshal(fields)
	if err != nil {
		return "", errors.Wrap(err, "marshalling header")
	}

	return string(b), nil
}

// startsWithDelimiter reports whether the first line of s is a delimiter
func startsWithDelimiter(s string) bool {
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		return isDelimiter(s[:nl])
	}

	return isDelimiter(s)
}

// Render builds a full document from the header and the body. The body
// immediately follows the closing delimiter. An empty header is omitted
// unless the body itself opens with a delimiter.
func Render(h Header, body string) (string, error) {
	if h.IsEmpty() {
		if startsWithDelimiter(body) {
			return Delimiter + "\n" + Delimiter + "\n" + body, nil
		}

		return body, nil
	}

	s, err := Serialize(h)
	if err != nil {
		return "", errors.Wrap(err, "serializing header")
	}

	return Delimiter + "\n" + s + Delimiter + "\n" + body, nil
}
