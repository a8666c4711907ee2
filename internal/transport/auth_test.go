package transport

import (
	"net/http"
	"testing"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	// Should not have any authentication headers
	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

// TestBasicAuth tests user and key pair authentication.
func TestBasicAuth(t *testing.T) {
	auth := &BasicAuth{Username: "user-123", Password: "secret-key"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	user, pass, ok := req.BasicAuth()
	if !ok {
		t.Fatal("Expected basic auth credentials to be set")
	}
	if user != "user-123" {
		t.Errorf("Expected username 'user-123', got '%s'", user)
	}
	if pass != "secret-key" {
		t.Errorf("Expected password 'secret-key', got '%s'", pass)
	}
}

// TestBasicAuthEmpty tests that empty credentials apply nothing.
func TestBasicAuthEmpty(t *testing.T) {
	auth := &BasicAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header with empty credentials")
	}
}

// TestBearerAuth tests Bearer token authentication.
func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{Token: "test-api-key"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	authHeader := req.Header.Get("Authorization")
	expected := "Bearer test-api-key"
	if authHeader != expected {
		t.Errorf("Expected Authorization header '%s', got '%s'", expected, authHeader)
	}
}

// TestBearerAuthEmptyToken tests that an empty token applies nothing.
func TestBearerAuthEmptyToken(t *testing.T) {
	auth := &BearerAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header with empty token")
	}
}

// TestHeaderAuth tests custom header authentication.
func TestHeaderAuth(t *testing.T) {
	auth := &HeaderAuth{Header: "x-api-key", Value: "test-api-key"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	headerValue := req.Header.Get("x-api-key")
	if headerValue != "test-api-key" {
		t.Errorf("Expected x-api-key header 'test-api-key', got '%s'", headerValue)
	}

	// Should not have Authorization header
	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}

// TestHeaderAuthIncomplete tests that a missing header name or value applies nothing.
func TestHeaderAuthIncomplete(t *testing.T) {
	req := &http.Request{
		Header: make(http.Header),
	}

	(&HeaderAuth{Header: "x-api-key"}).Apply(req)
	(&HeaderAuth{Value: "test-api-key"}).Apply(req)

	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}
