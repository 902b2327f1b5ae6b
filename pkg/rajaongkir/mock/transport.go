// Package mock provides a recording HTTP transport for testing code built on
// the rajaongkir client.
package mock

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/tournevent/ongkir/pkg/rajaongkir"
)

// Request is a recorded outgoing request.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	// Form holds the decoded form body of POST requests.
	Form url.Values
}

// Transport is a rajaongkir.Doer that records every request and answers with
// a canned reply.
type Transport struct {
	StatusCode int    // defaults to 200
	Body       string // returned verbatim
	Err        error  // when set, Do fails with it

	// OnDo overrides the canned reply.
	OnDo func(req *http.Request) (*http.Response, error)

	mu       sync.Mutex
	requests []Request
}

// NewTransport returns a transport answering 200 with body.
func NewTransport(body string) *Transport {
	return &Transport{StatusCode: http.StatusOK, Body: body}
}

// Do records req and returns the configured reply.
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	recorded := Request{
		Method: req.Method,
		URL:    req.URL,
		Header: req.Header.Clone(),
		Form:   url.Values{},
	}
	if req.Body != nil {
		raw, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		if form, err := url.ParseQuery(string(raw)); err == nil {
			recorded.Form = form
		}
		req.Body = io.NopCloser(bytes.NewReader(raw))
	}

	t.mu.Lock()
	t.requests = append(t.requests, recorded)
	t.mu.Unlock()

	if t.OnDo != nil {
		return t.OnDo(req)
	}
	if t.Err != nil {
		return nil, t.Err
	}

	status := t.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(t.Body)),
		Request:    req,
	}, nil
}

// Requests returns a copy of the recorded requests in order.
func (t *Transport) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Request, len(t.requests))
	copy(out, t.requests)
	return out
}

// Last returns the most recent request. It panics if none was recorded.
func (t *Transport) Last() Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requests[len(t.requests)-1]
}

// Reset forgets the recorded requests.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = nil
}

var _ rajaongkir.Doer = (*Transport)(nil)
