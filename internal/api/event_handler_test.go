package api_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeAnonymous(t *testing.T) {
	app := newTestApp(t)

	recorder := app.get(t, "/", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Welcome! Please log in with GitHub")
	assert.Contains(t, recorder.Body.String(), `<a href="/auth/github">`)
}

func TestEventsPageEmpty(t *testing.T) {
	app := newTestApp(t)

	recorder := app.get(t, "/events", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "No events logged yet.")
}

func TestNewEventFormRequiresLogin(t *testing.T) {
	app := newTestApp(t)

	recorder := app.get(t, "/new-event", nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `<a href="/">login</a>`)

	cookie := app.login(t)
	recorder = app.get(t, "/new-event", cookie)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `<form action="/events" method="POST">`)
}

func TestCreateEventAuthenticated(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	recorder := app.postForm(t, "/events", url.Values{
		"type":    {"repo_push"},
		"details": {"Pushed changes to main branch"},
	}, cookie)
	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/events", recorder.Header().Get("Location"))

	recorder = app.get(t, "/events", nil)
	body := recorder.Body.String()
	assert.Contains(t, body, "repo_push")
	assert.Contains(t, body, "Pushed changes to main branch")
	assert.Contains(t, body, "octocat")
}

func TestCreateEventAnonymous(t *testing.T) {
	app := newTestApp(t)

	recorder := app.postForm(t, "/events", url.Values{
		"type":    {"manual_note"},
		"details": {"left anonymously"},
	}, nil)
	require.Equal(t, http.StatusFound, recorder.Code)

	recorder = app.get(t, "/events", nil)
	assert.Contains(t, recorder.Body.String(), "Not Logged In")
	assert.Contains(t, recorder.Body.String(), "left anonymously")
}

func TestCreateEventMissingFields(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing details", url.Values{"type": {"repo_push"}}},
		{"missing type", url.Values{"details": {"something happened"}}},
		{"empty body", url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := app.postForm(t, "/events", tt.form, nil)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "Missing event type or details")
		})
	}

	// Rejected submissions leave the log untouched.
	recorder := app.get(t, "/api/events", nil)
	events := decodeEventList(t, recorder)
	assert.Empty(t, events)
}

func TestCreateEventEscapesHTML(t *testing.T) {
	app := newTestApp(t)

	recorder := app.postForm(t, "/events", url.Values{
		"type":    {"subject"},
		"details": {`<script>alert("xss")</script>`},
	}, nil)
	require.Equal(t, http.StatusFound, recorder.Code)

	recorder = app.get(t, "/events", nil)
	body := recorder.Body.String()
	assert.NotContains(t, body, "<script>alert")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestEventsInsertionOrder(t *testing.T) {
	app := newTestApp(t)

	for _, details := range []string{"first", "second", "third"} {
		recorder := app.postForm(t, "/events", url.Values{
			"type":    {"ordered"},
			"details": {details},
		}, nil)
		require.Equal(t, http.StatusFound, recorder.Code)
	}

	recorder := app.get(t, "/api/events", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	events := decodeEventList(t, recorder)
	require.Len(t, events, 3)
	assert.Equal(t, "first", events[0]["details"])
	assert.Equal(t, "second", events[1]["details"])
	assert.Equal(t, "third", events[2]["details"])
	assert.Nil(t, events[0]["user"])
}

func TestListEventsJSONIncludesAuthor(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	recorder := app.postForm(t, "/events", url.Values{
		"type":    {"repo_push"},
		"details": {"authored"},
	}, cookie)
	require.Equal(t, http.StatusFound, recorder.Code)

	recorder = app.get(t, "/api/events", nil)
	events := decodeEventList(t, recorder)
	require.Len(t, events, 1)
	assert.Equal(t, "octocat", events[0]["user"])
}

func TestHealthAndPing(t *testing.T) {
	app := newTestApp(t)

	recorder := app.get(t, "/healthz", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status"`)

	recorder = app.get(t, "/ping", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "pong")
}
