// Package services contains the application services of the event logger.
package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/KTMO24/github-event-logger/internal/domain"
)

const defaultCallTimeout = 10 * time.Second

// GitHubOAuthService drives the GitHub authorization-code handshake:
// redirect, callback/token-exchange, user-info fetch.
type GitHubOAuthService struct {
	config      *oauth2.Config
	apiBaseURL  string
	callTimeout time.Duration
	logger      *slog.Logger
}

// GitHubOAuthOption customizes a GitHubOAuthService.
type GitHubOAuthOption func(*GitHubOAuthService)

// WithEndpoint overrides the provider's authorize/token endpoints.
func WithEndpoint(endpoint oauth2.Endpoint) GitHubOAuthOption {
	return func(s *GitHubOAuthService) {
		s.config.Endpoint = endpoint
	}
}

// WithAPIBaseURL overrides the provider's user-info API base URL.
func WithAPIBaseURL(baseURL string) GitHubOAuthOption {
	return func(s *GitHubOAuthService) {
		s.apiBaseURL = baseURL
	}
}

// WithCallTimeout bounds each outbound call to the provider.
func WithCallTimeout(timeout time.Duration) GitHubOAuthOption {
	return func(s *GitHubOAuthService) {
		s.callTimeout = timeout
	}
}

// NewGitHubOAuthService creates a new GitHub OAuth service
func NewGitHubOAuthService(clientID, clientSecret, redirectURL string, logger *slog.Logger, opts ...GitHubOAuthOption) *GitHubOAuthService {
	if logger == nil {
		logger = slog.Default()
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"user:email"},
		Endpoint:     endpoints.GitHub,
	}

	s := &GitHubOAuthService{
		config:      config,
		callTimeout: defaultCallTimeout,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// InitiateAuth starts the OAuth flow: it generates a state nonce, stores it
// on the session, and returns the provider authorization URL to redirect to.
// The caller is responsible for persisting the session.
func (s *GitHubOAuthService) InitiateAuth(session *domain.Session) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", domain.NewInternalError("STATE_GENERATION_FAILED", "Failed to generate state nonce", err)
	}

	// A new initiate supersedes any nonce from an abandoned flow.
	session.OAuthState = state

	return s.config.AuthCodeURL(state), nil
}

// HandleCallback processes the provider callback. The stored state nonce is
// consumed whether or not validation succeeds, so it is never valid for a
// second attempt. On success the user identity is written to the session;
// the caller persists it.
func (s *GitHubOAuthService) HandleCallback(ctx context.Context, session *domain.Session, code, state string) (*domain.User, error) {
	stored := session.ConsumeOAuthState()
	if state == "" || stored == "" || state != stored {
		return nil, domain.NewAuthorizationError("OAUTH_STATE_MISMATCH", "Invalid state parameter")
	}

	token, err := s.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	session.User = user

	s.logger.Info("GitHub authentication succeeded",
		"login", user.Login,
		"session_id", session.ID)

	return user, nil
}

// exchangeCode exchanges the authorization grant for an access token.
// A single attempt with a bounded timeout; failure is terminal.
func (s *GitHubOAuthService) exchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, domain.NewAuthenticationError("TOKEN_EXCHANGE_FAILED", "Failed to get access token from GitHub")
	}
	if token.AccessToken == "" {
		return nil, domain.NewAuthenticationError("TOKEN_EXCHANGE_FAILED", "Provider response did not include an access token")
	}

	return token, nil
}

// fetchUser retrieves the authenticated user's identity with the bearer token.
func (s *GitHubOAuthService) fetchUser(ctx context.Context, token *oauth2.Token) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	client := github.NewClient(nil).WithAuthToken(token.AccessToken)
	if s.apiBaseURL != "" {
		base, err := url.Parse(ensureTrailingSlash(s.apiBaseURL))
		if err != nil {
			return nil, domain.NewInternalError("INVALID_API_BASE_URL", "Invalid API base URL", err)
		}
		client.BaseURL = base
	}

	ghUser, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, domain.NewExternalServiceError("IDENTITY_FETCH_FAILED", "Failed to retrieve user information from GitHub", err)
	}
	if ghUser.GetLogin() == "" {
		return nil, domain.NewExternalServiceError("IDENTITY_FETCH_FAILED", "Provider response did not include a login", nil)
	}

	return &domain.User{
		Login:     ghUser.GetLogin(),
		ID:        ghUser.GetID(),
		AvatarURL: ghUser.GetAvatarURL(),
	}, nil
}

// generateState generates a cryptographically secure random state string
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func ensureTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
