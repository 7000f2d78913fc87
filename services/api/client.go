// Package api is the typed client for the remote Sivitas REST API. All
// domain operations (auth, communities, forums, posts, comments,
// notifications, moderation) live server-side; this package only shapes
// requests and decodes the response envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/sivitasdev/sivitas/core"
)

// Error is a non-2xx reply from the remote API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// IsUnauthenticated reports whether err means "no valid session" rather
// than a transport or server failure.
func IsUnauthenticated(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

func IsNotFound(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// Client talks to the remote API on behalf of a single browser session.
// It owns its own cookie jar so the backend session cookie never leaks
// across users; create one Client per session store.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(conf *core.Config) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}
	return &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: conf.API.Timeout,
		},
	}, nil
}

// envelope is the backend's uniform response body. On 422 replies the
// backend adds an errors object keyed by form field.
type envelope struct {
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	return c.do(req, out)
}

// postForm sends an application/x-www-form-urlencoded POST; the backend
// reads plain form fields on most mutating endpoints.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return errors.Wrap(err, "encoding payload")
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// Upload is an optional file attached to a multipart request.
type Upload struct {
	Field    string
	Filename string
	Content  []byte
}

// postMultipart sends fields plus optional uploads as multipart/form-data
// (community banners, post images, report evidence).
func (c *Client) postMultipart(ctx context.Context, path string, fields url.Values, uploads []Upload, out interface{}) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, vals := range fields {
		for _, val := range vals {
			if err := w.WriteField(key, val); err != nil {
				return errors.Wrap(err, "writing form field")
			}
		}
	}
	for _, up := range uploads {
		fw, err := w.CreateFormFile(up.Field, up.Filename)
		if err != nil {
			return errors.Wrap(err, "creating form file")
		}
		if _, err = fw.Write(up.Content); err != nil {
			return errors.Wrap(err, "writing form file")
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "closing multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling remote API")
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}

	var env envelope
	if len(raw) > 0 {
		// some endpoints (logout) reply with an empty body; that is fine
		if err = json.Unmarshal(raw, &env); err != nil && res.StatusCode < http.StatusBadRequest {
			return errors.Wrap(err, "decoding response envelope")
		}
	}

	if res.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		if res.StatusCode == http.StatusUnprocessableEntity && len(env.Errors) > 0 {
			return core.NewValidationError(errors.New(msg), core.FieldErrorsFromMap(env.Errors)...)
		}
		return &Error{StatusCode: res.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err = json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(err, "decoding response data")
		}
	}
	return nil
}
