package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/doracare/murshid/internal/app/gateway"
	"go.uber.org/zap"
)

// FakeService is an in-process stand-in for the tracking service. Tests
// register JSON responses per method+path and assert on the requests
// the code under test issued.
type FakeService struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	routes   map[string]stubResponse
	requests []RecordedRequest
}

type stubResponse struct {
	status int
	body   any
	delay  time.Duration
}

// RecordedRequest captures one request the fake received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Token  string
	Body   []byte
}

// NewFakeService starts the fake; it is closed via t.Cleanup.
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()
	f := &FakeService{
		t:      t,
		routes: make(map[string]stubResponse),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// Client builds a gateway client pointed at the fake.
func (f *FakeService) Client(t *testing.T) *gateway.Client {
	t.Helper()
	c, err := gateway.New(f.srv.URL, 5*time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}
	return c
}

// URL returns the fake's base URL.
func (f *FakeService) URL() string { return f.srv.URL }

// Stub registers a 200 JSON response for method+path.
func (f *FakeService) Stub(method, path string, body any) {
	f.StubStatus(method, path, http.StatusOK, body)
}

// StubStatus registers a response with an explicit status. A nil body
// writes an empty JSON object; an error-shaped body should follow the
// service's {"error": ...} envelope.
func (f *FakeService) StubStatus(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = stubResponse{status: status, body: body}
}

// StubDelay registers a response the fake holds back for delay before
// writing, keeping the call in flight while the test races another
// caller against it.
func (f *FakeService) StubDelay(method, path string, delay time.Duration, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = stubResponse{status: status, body: body, delay: delay}
}

// Requests returns a copy of everything the fake has received.
func (f *FakeService) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// LastRequest returns the most recent request, failing the test when
// none arrived.
func (f *FakeService) LastRequest() RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		f.t.Fatal("fake service received no requests")
	}
	return f.requests[len(f.requests)-1]
}

func (f *FakeService) handle(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		buf := make([]byte, 1<<16)
		n, _ := r.Body.Read(buf)
		body = buf[:n]
	}

	token := ""
	if h := r.Header.Get("Authorization"); len(h) > 7 && h[:7] == "Bearer " {
		token = h[7:]
	}

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Token:  token,
		Body:   body,
	})
	stub, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if ok && stub.delay > 0 {
		time.Sleep(stub.delay)
	}

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
		return
	}
	w.WriteHeader(stub.status)
	if stub.body != nil {
		json.NewEncoder(w).Encode(stub.body)
	} else {
		w.Write([]byte("{}"))
	}
}
