// Package testutil provides testing utilities and helpers.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// NewTestRouter creates a new Gin router for testing.
func NewTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// HTTPTestHelper provides utilities for HTTP testing.
type HTTPTestHelper struct {
	router *gin.Engine
	t      *testing.T
}

// NewHTTPTestHelper creates a new HTTP test helper.
func NewHTTPTestHelper(t *testing.T, router *gin.Engine) *HTTPTestHelper {
	return &HTTPTestHelper{
		router: router,
		t:      t,
	}
}

// Request performs an HTTP request with an optional JSON body.
func (h *HTTPTestHelper) Request(
	method,
	target string,
	body interface{},
	headers map[string]string,
) *httptest.ResponseRecorder {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("Failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, target, bodyReader)
	if err != nil {
		h.t.Fatalf("Failed to create request: %v", err)
	}

	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)
	return recorder
}

// RequestForm performs an HTTP request with a form-encoded body.
func (h *HTTPTestHelper) RequestForm(
	method,
	target string,
	form url.Values,
	headers map[string]string,
) *httptest.ResponseRecorder {
	req, err := http.NewRequestWithContext(context.Background(), method, target, strings.NewReader(form.Encode()))
	if err != nil {
		h.t.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)
	return recorder
}

// AssertStatus asserts the response status code.
func (h *HTTPTestHelper) AssertStatus(recorder *httptest.ResponseRecorder, expected int) {
	h.t.Helper()
	if recorder.Code != expected {
		h.t.Errorf("Expected status %d, got %d (body: %s)", expected, recorder.Code, recorder.Body.String())
	}
}

// SessionCookie extracts the named cookie from a response, or an empty
// string when it was not set.
func SessionCookie(recorder *httptest.ResponseRecorder, name string) string {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}
