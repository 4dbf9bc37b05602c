package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/KTMO24/github-event-logger/internal/api"
	"github.com/KTMO24/github-event-logger/internal/api/middleware"
	"github.com/KTMO24/github-event-logger/internal/repository"
	"github.com/KTMO24/github-event-logger/internal/services"
)

const testSessionSecret = "0123456789abcdef0123456789abcdef"

// fakeGitHub stands in for GitHub's token and user endpoints.
type fakeGitHub struct {
	server *httptest.Server

	mu           sync.Mutex
	tokenCalls   int
	failExchange bool
	failIdentity bool
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	gh := &fakeGitHub{}

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, _ *http.Request) {
		gh.mu.Lock()
		gh.tokenCalls++
		fail := gh.failExchange
		gh.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"gho_testtoken","token_type":"bearer","scope":"user:email"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, _ *http.Request) {
		gh.mu.Lock()
		fail := gh.failIdentity
		gh.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
			return
		}
		_, _ = w.Write([]byte(`{"login":"octocat","id":583231,"avatar_url":"https://avatars.example/u/583231"}`))
	})

	gh.server = httptest.NewServer(mux)
	t.Cleanup(gh.server.Close)
	return gh
}

func (gh *fakeGitHub) tokenCallCount() int {
	gh.mu.Lock()
	defer gh.mu.Unlock()
	return gh.tokenCalls
}

func (gh *fakeGitHub) setFailExchange(fail bool) {
	gh.mu.Lock()
	defer gh.mu.Unlock()
	gh.failExchange = fail
}

func (gh *fakeGitHub) setFailIdentity(fail bool) {
	gh.mu.Lock()
	defer gh.mu.Unlock()
	gh.failIdentity = fail
}

// testApp wires the full router against in-memory stores and a fake provider.
type testApp struct {
	router      *gin.Engine
	github      *fakeGitHub
	broadcaster *services.EventBroadcaster
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	github := newFakeGitHub(t)

	sessions := middleware.NewSessionManager(repository.NewMemorySessionRepository(), middleware.SessionManagerConfig{
		Secret: testSessionSecret,
		TTL:    time.Hour,
		Logger: logger,
	})

	oauthService := services.NewGitHubOAuthService(
		"test-client-id", "test-client-secret",
		"http://localhost/auth/github/callback", logger,
		services.WithEndpoint(oauth2.Endpoint{
			AuthURL:  github.server.URL + "/login/oauth/authorize",
			TokenURL: github.server.URL + "/login/oauth/access_token",
		}),
		services.WithAPIBaseURL(github.server.URL),
		services.WithCallTimeout(5*time.Second),
	)

	broadcaster := services.NewEventBroadcaster(16, logger)
	eventService := services.NewEventService(repository.NewMemoryEventRepository(), broadcaster, logger)

	router := api.NewRouter(api.RouterConfig{
		Sessions:     sessions,
		OAuthService: oauthService,
		EventService: eventService,
		Broadcaster:  broadcaster,
		Logger:       logger,
	})

	return &testApp{router: router, github: github, broadcaster: broadcaster}
}

func (app *testApp) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, req)
	return recorder
}

func (app *testApp) postForm(t *testing.T, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, req)
	return recorder
}

func responseCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == "session" {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// beginLogin walks the redirect to the provider and returns the session
// cookie plus the state nonce bound to it.
func (app *testApp) beginLogin(t *testing.T) (*http.Cookie, string) {
	t.Helper()
	recorder := app.get(t, "/auth/github", nil)
	require.Equal(t, http.StatusFound, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	return responseCookie(t, recorder), state
}

// login completes the whole handshake and returns an authenticated cookie.
func (app *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()
	cookie, state := app.beginLogin(t)

	recorder := app.get(t, "/auth/github/callback?code=test-code&state="+url.QueryEscape(state), cookie)
	require.Equal(t, http.StatusFound, recorder.Code)
	require.Equal(t, "/", recorder.Header().Get("Location"))

	return cookie
}

func decodeEventList(t *testing.T, recorder *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Events []map[string]interface{} `json:"events"`
			Count  int                      `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	assert.Len(t, payload.Data.Events, payload.Data.Count)
	return payload.Data.Events
}
