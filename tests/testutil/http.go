package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Envelope is a decoded API response
type Envelope struct {
	Status  int             `json:"-"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *EnvelopeError  `json:"error"`
	Meta    *EnvelopeMeta   `json:"meta"`
}

// EnvelopeError is the error object of a failed response
type EnvelopeError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// EnvelopeMeta is the paging block of a list response
type EnvelopeMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// OK reports a 2xx status
func (e Envelope) OK() bool { return e.Status >= 200 && e.Status < 300 }

// Decode unmarshals Data into out, failing the test on error
func (e Envelope) Decode(t *testing.T, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, out), "data: %s", string(e.Data))
}

// APIClient sends JSON requests to an in-process handler
type APIClient struct {
	t       *testing.T
	handler http.Handler
	prefix  string
	token   string
}

// NewAPIClient creates a client for handler. prefix is prepended to every path.
func NewAPIClient(t *testing.T, handler http.Handler, prefix string) *APIClient {
	return &APIClient{t: t, handler: handler, prefix: prefix}
}

// WithToken returns a copy that sends token as a bearer credential.
// An empty token sends no Authorization header.
func (c *APIClient) WithToken(token string) *APIClient {
	cp := *c
	cp.token = token
	return &cp
}

// Do sends body as JSON and decodes the response envelope
func (c *APIClient) Do(method, path string, body any) Envelope {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, c.prefix+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	res := Envelope{}
	if w.Code != http.StatusNoContent && w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &res), "body: %s", w.Body.String())
	}
	res.Status = w.Code
	return res
}
