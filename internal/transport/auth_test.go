package transport

import (
	"net/http"
	"testing"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}

	(&NoAuth{}).Apply(req, "token")

	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

// TestBearerAuth tests Bearer token authentication.
func TestBearerAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}

	(&BearerAuth{}).Apply(req, "abc")

	if got := req.Header.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Expected Authorization header 'Bearer abc', got '%s'", got)
	}
}

// TestBearerAuth_EmptyToken tests that an empty token sends no header.
func TestBearerAuth_EmptyToken(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}

	(&BearerAuth{}).Apply(req, "")

	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}
