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

// Package client provides interfaces for interacting with the Joplin data API
// and the data structures for responses
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dnote/jsync/pkg/cli/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrNotFound is an error for a note that does not exist in Joplin
var ErrNotFound = errors.New("note not found")

// ErrContentTypeMismatch is an error for a response of an unexpected media type
var ErrContentTypeMismatch = errors.New("content type mismatch")

// ErrMissingToken is an error for a request made without an access token
var ErrMissingToken = errors.New("no access token found")

// HTTPError represents an HTTP error response from Joplin
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// Is lets errors.Is match a 404 response against ErrNotFound
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

var contentTypeApplicationJSON = "application/json"
var contentTypeText = "text/plain"

// noteFields are the note properties requested from Joplin
var noteFields = []string{"id", "title", "body", "updated_time"}

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 20
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 20
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

// Note is a note in Joplin
type Note struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	UpdatedTime int64  `json:"updated_time"`
}

// UpdatedAt returns the time at which the note was last updated.
// It returns the zero time if Joplin did not report one.
func (n Note) UpdatedAt() time.Time {
	if n.UpdatedTime == 0 {
		return time.Time{}
	}

	return time.UnixMilli(n.UpdatedTime)
}

// notePayload is the payload for creating or updating a note
type notePayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Joplin is a client for the Joplin data API
type Joplin struct {
	BaseURL    string
	Token      string
	Version    string
	HTTPClient *http.Client
}

// New returns a new Joplin client
func New(baseURL, token, version string, hc *http.Client) *Joplin {
	return &Joplin{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		Version:    version,
		HTTPClient: hc,
	}
}

func (c *Joplin) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return &http.Client{}
}

func (c *Joplin) getReq(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s%s", c.BaseURL, path)
	if len(query) > 0 {
		endpoint = fmt.Sprintf("%s?%s", endpoint, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("User-Agent", fmt.Sprintf("jsync/%s", c.Version))
	if body != nil {
		req.Header.Set("Content-Type", contentTypeApplicationJSON)
	}

	return req, nil
}

// checkRespErr returns an HTTPError if the given response indicates an error
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    strings.TrimRight(string(body), "\n"),
	}
}

func checkContentType(res *http.Response, expected string) error {
	got := res.Header.Get("Content-Type")

	mediaType, _, err := mime.ParseMediaType(got)
	if err != nil || mediaType != expected {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: '%s'. Did you configure your base url correctly?", got, expected)
	}

	return nil
}

// doReq does a http request to the given path of the Joplin API.
// The caller is responsible for closing the response body.
func (c *Joplin) doReq(ctx context.Context, method, path string, query url.Values, body io.Reader, expectedContentType string) (*http.Response, error) {
	req, err := c.getReq(ctx, method, path, query, body)
	if err != nil {
		return nil, errors.Wrap(err, "getting request")
	}

	log.Debug("HTTP %s %s\n", method, path)

	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "making http request")
	}

	log.Debug("HTTP %s\n", res.Status)

	if err = checkRespErr(res); err != nil {
		res.Body.Close()
		return nil, errors.Wrap(err, "server responded with an error")
	}

	if err = checkContentType(res, expectedContentType); err != nil {
		res.Body.Close()
		return nil, errors.Wrap(err, "unexpected Content-Type")
	}

	return res, nil
}

// doAuthorizedReq does a http request with the access token. The given path
// should include the preceding slash.
func (c *Joplin) doAuthorizedReq(ctx context.Context, method, path string, query url.Values, payload interface{}) (*http.Response, error) {
	if c.Token == "" {
		return nil, ErrMissingToken
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("token", c.Token)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling payload")
		}

		body = strings.NewReader(string(b))
	}

	return c.doReq(ctx, method, path, query, body, contentTypeApplicationJSON)
}

func decodeNote(res *http.Response) (Note, error) {
	defer res.Body.Close()

	var ret Note
	if err := json.NewDecoder(res.Body).Decode(&ret); err != nil {
		return Note{}, errors.Wrap(err, "decoding payload")
	}

	return ret, nil
}

// GetNote fetches the note with the given id. It returns an error matching
// ErrNotFound if the note does not exist.
func (c *Joplin) GetNote(ctx context.Context, id string) (Note, error) {
	query := url.Values{}
	query.Set("fields", strings.Join(noteFields, ","))

	res, err := c.doAuthorizedReq(ctx, http.MethodGet, fmt.Sprintf("/notes/%s", url.PathEscape(id)), query, nil)
	if err != nil {
		return Note{}, errors.Wrapf(err, "getting note %s", id)
	}

	return decodeNote(res)
}

// CreateNote creates a new note and returns it with the assigned id
func (c *Joplin) CreateNote(ctx context.Context, title, body string) (Note, error) {
	payload := notePayload{
		Title: title,
		Body:  body,
	}

	res, err := c.doAuthorizedReq(ctx, http.MethodPost, "/notes", nil, payload)
	if err != nil {
		return Note{}, errors.Wrap(err, "posting a note to the server")
	}

	return decodeNote(res)
}

// UpdateNote updates the title and body of the note with the given id
func (c *Joplin) UpdateNote(ctx context.Context, id, title, body string) (Note, error) {
	payload := notePayload{
		Title: title,
		Body:  body,
	}

	res, err := c.doAuthorizedReq(ctx, http.MethodPut, fmt.Sprintf("/notes/%s", url.PathEscape(id)), nil, payload)
	if err != nil {
		return Note{}, errors.Wrapf(err, "putting note %s to the server", id)
	}

	return decodeNote(res)
}

// pingResponse is the body Joplin returns from the ping endpoint
const pingResponse = "JoplinClipperServer"

// Ping checks that a Joplin data API is listening at the base url
func (c *Joplin) Ping(ctx context.Context) error {
	res, err := c.doReq(ctx, http.MethodGet, "/ping", nil, nil, contentTypeText)
	if err != nil {
		return errors.Wrap(err, "pinging the server")
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "reading the response body")
	}

	if strings.TrimSpace(string(b)) != pingResponse {
		return errors.Errorf("unexpected ping response '%s'", string(b))
	}

	return nil
}

// notesPage is a page of notes returned by the list endpoint
type notesPage struct {
	Items   []Note `json:"items"`
	HasMore bool   `json:"has_more"`
}

// CheckToken makes an authorized request to verify that Joplin accepts the
// access token
func (c *Joplin) CheckToken(ctx context.Context) error {
	query := url.Values{}
	query.Set("fields", "id")
	query.Set("limit", "1")

	res, err := c.doAuthorizedReq(ctx, http.MethodGet, "/notes", query, nil)
	if err != nil {
		return errors.Wrap(err, "listing notes")
	}
	defer res.Body.Close()

	var page notesPage
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return errors.Wrap(err, "decoding payload")
	}

	return nil
}
