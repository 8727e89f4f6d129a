// Package testkit holds small helpers for exercising JSON endpoints in
// controller tests: build a request, run it through a handler or router,
// decode the envelope.
package testkit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Envelope mirrors the response envelope every endpoint writes.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

// JSONRequest builds an *http.Request with a JSON-encoded body.
func JSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("testkit: encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Do runs a request through any handler and returns the recorder.
func Do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// DoJSON posts a JSON body to a handler and returns the recorder.
func DoJSON(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return Do(h, JSONRequest(t, method, target, body))
}

// Decode parses the response envelope, failing the test on malformed JSON.
func Decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("testkit: decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	return env
}

// DecodeData unmarshals the envelope's data field into dest.
func DecodeData(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()

	env := Decode(t, rec)
	if len(env.Data) == 0 {
		t.Fatalf("testkit: envelope has no data (body: %s)", rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("testkit: decode data: %v", err)
	}
}
