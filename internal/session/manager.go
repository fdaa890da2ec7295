package session

import (
	"context"
	"strings"
	"sync"

	"DemandCast/internal/domain/models"
	"DemandCast/internal/gateway"
	"DemandCast/internal/store"
	"DemandCast/pkg/cache"
	xhttp "DemandCast/pkg/http"
	applogger "DemandCast/pkg/logger"
)

// credentials is the sign-in payload. Only shape is checked client-side;
// whether the password is acceptable is the server's verdict, existing
// accounts may predate the signup policy.
type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// signupPayload adds the optional display name used as the account username.
type signupPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username,omitempty" validate:"omitempty,min=2"`
}

// Manager owns the current identity and the stored bearer token. The token
// lives in the durable store; the Session object only in memory.
type Manager struct {
	mu      sync.RWMutex
	session *models.Session

	token       string
	tokenLoaded bool

	store cache.Service
	api   *gateway.Client
	log   *applogger.Logger
}

// NewManager creates a session manager over the durable store. The gateway
// is attached afterwards because it needs the manager as its token source.
func NewManager(durable cache.Service, log *applogger.Logger) *Manager {
	return &Manager{store: durable, log: log}
}

// SetGateway attaches the API client used to resolve identities.
func (m *Manager) SetGateway(api *gateway.Client) { m.api = api }

// Token returns the stored bearer token, or "" when signed out. Implements
// gateway.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokenLocked()
}

func (m *Manager) tokenLocked() string {
	if !m.tokenLoaded {
		if token, err := cache.GetTyped[string](context.Background(), m.store, store.KeyAuthToken); err == nil {
			m.token = token
		}
		m.tokenLoaded = true
	}
	return m.token
}

// Current returns the in-memory session, nil when unauthenticated.
func (m *Manager) Current() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Resolve establishes the session at startup. Without a stored token it
// completes immediately with a nil session and zero network calls. With one,
// it asks the backend who the token belongs to; any non-success leaves the
// session nil but keeps the stored token (it may only be transiently
// unverifiable, and eviction is sign-out's job).
func (m *Manager) Resolve(ctx context.Context) *models.Session {
	m.mu.Lock()
	token := m.tokenLocked()
	m.mu.Unlock()

	if token == "" {
		m.setSession(nil)
		return nil
	}

	res := m.api.Do(ctx, "/auth/me", nil)
	if !res.Ok() {
		m.log.Debug("identity resolution failed", applogger.Int("status", res.Status))
		m.setSession(nil)
		return nil
	}

	var user models.User
	if err := res.Decode(&user); err != nil {
		m.log.Warn("identity payload malformed", applogger.Error(err))
		m.setSession(nil)
		return nil
	}

	s := &models.Session{User: user, Token: token}
	m.setSession(s)
	return s
}

// SignUp registers a new account and, on success, re-resolves the session.
// Returns nil on success, otherwise the failure result whose payload is the
// server's verbatim error body (or the client-side validation message).
func (m *Manager) SignUp(ctx context.Context, email, password, displayName string) *gateway.Result {
	payload := signupPayload{Email: email, Password: password, Username: displayName}
	if res := validationFailure(xhttp.ValidateStruct(&payload)); res != nil {
		return res
	}

	res := m.api.Do(ctx, "/auth/signup", &gateway.Options{Body: &payload})
	if !res.Ok() {
		return &res
	}

	m.Resolve(ctx)
	return nil
}

// SignIn authenticates, stores the returned bearer token durably, and
// re-resolves the session. On failure nothing stored is mutated.
func (m *Manager) SignIn(ctx context.Context, email, password string) *gateway.Result {
	payload := credentials{Email: email, Password: password}
	if res := validationFailure(xhttp.ValidateStruct(&payload)); res != nil {
		return res
	}

	res := m.api.Do(ctx, "/auth/login", &gateway.Options{Body: &payload})
	if !res.Ok() {
		return &res
	}

	var tr models.TokenResponse
	if err := res.Decode(&tr); err != nil || tr.AccessToken == "" {
		return &gateway.Result{
			Err:    map[string]interface{}{"detail": "login response did not include a token"},
			Status: res.Status,
		}
	}

	if err := m.store.Set(ctx, store.KeyAuthToken, tr.AccessToken, 0); err != nil {
		m.log.Error("token persist failed", applogger.Error(err))
	}

	m.mu.Lock()
	m.token = tr.AccessToken
	m.tokenLoaded = true
	m.mu.Unlock()

	m.Resolve(ctx)
	return nil
}

// SignOut clears the stored token and every durable forecast slot, and nils
// the in-memory session. Always succeeds from the caller's perspective;
// storage trouble is only logged.
func (m *Manager) SignOut() {
	ctx := context.Background()

	if err := m.store.Delete(ctx, store.KeyAuthToken, store.KeyLastForecast, store.KeyRecentForecasts); err != nil {
		m.log.Warn("sign-out cleanup failed", applogger.Error(err))
	}
	if err := m.store.DeleteByPattern(ctx, cache.BuildPattern(store.ForecastKeyPrefix)); err != nil {
		m.log.Warn("forecast cache cleanup failed", applogger.Error(err))
	}

	m.mu.Lock()
	m.token = ""
	m.tokenLoaded = true
	m.session = nil
	m.mu.Unlock()
}

func (m *Manager) setSession(s *models.Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

// validationFailure converts client-side validation errors into the same
// result shape server errors use, so callers display both identically.
func validationFailure(errs []xhttp.ValidationError) *gateway.Result {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return &gateway.Result{
		Err:    map[string]interface{}{"detail": strings.Join(msgs, ", ")},
		Status: 0,
	}
}
