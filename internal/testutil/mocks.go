package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest is one request seen by a FakeUpstream.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into a generic map.
func (r RecordedRequest) JSON(t *testing.T) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(r.Body, &out); err != nil {
		t.Fatalf("Request body is not a JSON object: %v (%s)", err, r.Body)
	}
	return out
}

// FakeUpstream mocks an OpenAI compatible HTTP API for testing
type FakeUpstream struct {
	Server *httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []RecordedRequest
	gate     chan struct{}
}

// NewFakeUpstream starts a server that answers every request with a 200
// chat completion whose content is content.
func NewFakeUpstream(t *testing.T, content string) *FakeUpstream {
	t.Helper()

	f := &FakeUpstream{status: http.StatusOK, body: ChatCompletionBody(content)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the server.
func (f *FakeUpstream) URL() string {
	return f.Server.URL
}

// Respond changes the status and raw body returned from now on.
func (f *FakeUpstream) Respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

// Hold makes requests block until Release is called.
func (f *FakeUpstream) Hold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
}

// Release unblocks requests parked by Hold.
func (f *FakeUpstream) Release() {
	f.mu.Lock()
	gate := f.gate
	f.gate = nil
	f.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// Requests returns a copy of the requests seen so far.
func (f *FakeUpstream) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	status, respBody, gate := f.status, f.body, f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, respBody)
}

// ChatCompletionBody builds a minimal chat completion response whose first
// choice carries content.
func ChatCompletionBody(content string) string {
	encoded, _ := json.Marshal(content)
	return fmt.Sprintf(`{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-4.1-nano",
		"choices": [{
			"index": 0,
			"message": {"role": "assistant", "content": %s},
			"finish_reason": "stop"
		}]
	}`, encoded)
}

// MockClipboard mocks clipboard access
type MockClipboard struct {
	Text     string
	ReadErr  error
	WriteErr error
	Writes   []string
}

// ReadText returns the stored text
func (m *MockClipboard) ReadText() (string, error) {
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	return m.Text, nil
}

// WriteText records and stores text
func (m *MockClipboard) WriteText(text string) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Writes = append(m.Writes, text)
	m.Text = text
	return nil
}
