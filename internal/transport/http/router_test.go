package http

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-auth-api/internal/config"
	jwtinfra "github.com/go-auth-api/internal/infrastructure/jwt"
	"github.com/go-auth-api/internal/infrastructure/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureMailer records outgoing mail instead of delivering it.
type captureMailer struct {
	mu        sync.Mutex
	welcomes  []string
	lastCode  string
	lastCodeT string
}

func (m *captureMailer) SendWelcome(to, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, to)
	return nil
}

func (m *captureMailer) SendResetCode(to, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCode = code
	m.lastCodeT = to
	return nil
}

func (m *captureMailer) resetCode() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCode, m.lastCodeT
}

func (m *captureMailer) welcomeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.welcomes)
}

func newTestJWTProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o600))

	provider, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		SessionTokenTTL:   time.Hour,
	})
	require.NoError(t, err)
	return provider
}

func newTestRouter(t *testing.T) (http.Handler, *captureMailer, *jwtinfra.Provider) {
	t.Helper()

	mailer := &captureMailer{}
	provider := newTestJWTProvider(t)
	router := NewRouter(
		&config.Config{AllowedOrigins: []string{"*"}},
		&Deps{
			UserRepo:     memstore.NewUserRepo(),
			SettingsRepo: memstore.NewSettingsRepo(),
			Mailer:       mailer,
			JWTProvider:  provider,
		},
	)
	return router, mailer, provider
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func register(t *testing.T, router http.Handler, name, email, password string) string {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestHealthCheck(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodGet, "/v1/health-check/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestRegisterAndLoginFlow(t *testing.T) {
	router, mailer, _ := newTestRouter(t)

	token := register(t, router, "Ana", "Ana@Example.com ", "secret1")

	// welcome email is dispatched off the request path
	require.Eventually(t, func() bool { return mailer.welcomeCount() == 1 }, time.Second, 10*time.Millisecond)

	// duplicate registration, regardless of casing
	rec, env := doJSON(t, router, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": "Ana again", "email": "ANA@example.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already registered", env.Message)

	// wrong password and unknown email fail identically
	rec, env = doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", env.Message)

	rec, env = doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", env.Message)

	rec, env = doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// the session token names its subject
	rec, env = doJSON(t, router, http.MethodGet, "/v1/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ana@example.com", data.User.Email)

	rec, _ = doJSON(t, router, http.MethodGet, "/v1/auth/verify", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordRecoveryFlow(t *testing.T) {
	router, mailer, provider := newTestRouter(t)

	register(t, router, "Ana", "ana@example.com", "secret1")

	// unknown and known emails get the same answer
	rec, env := doJSON(t, router, http.MethodPost, "/v1/auth/forgot-password", "", map[string]string{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	neutralMsg := env.Message

	rec, env = doJSON(t, router, http.MethodPost, "/v1/auth/forgot-password", "", map[string]string{
		"email": "ana@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, neutralMsg, env.Message)

	code, sentTo := mailer.resetCode()
	require.Len(t, code, 6)
	assert.Equal(t, "ana@example.com", sentTo)

	// wrong code
	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/verify-reset-code", "", map[string]string{
		"email": "ana@example.com", "code": "000000",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// right code yields a reset-scoped token
	rec, env = doJSON(t, router, http.MethodPost, "/v1/auth/verify-reset-code", "", map[string]string{
		"email": "ana@example.com", "code": code,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		ResetToken string `json:"resetToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.ResetToken)

	// a reset token never passes the access guard
	rec, _ = doJSON(t, router, http.MethodGet, "/v1/auth/profile", data.ResetToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// and a session token never redeems a reset
	sessionToken, err := provider.SignSession("someone", "ana@example.com")
	require.NoError(t, err)
	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/reset-password", "", map[string]string{
		"email": "ana@example.com", "resetToken": sessionToken, "newPassword": "fresh-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/reset-password", "", map[string]string{
		"email": "ana@example.com", "resetToken": data.ResetToken, "newPassword": "fresh-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// the code is single-use
	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/verify-reset-code", "", map[string]string{
		"email": "ana@example.com", "code": code,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// old password is dead, new one works
	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "fresh-pass",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileAndSettingsFlow(t *testing.T) {
	router, _, _ := newTestRouter(t)

	token := register(t, router, "Ana", "ana@example.com", "secret1")

	rec, _ := doJSON(t, router, http.MethodGet, "/v1/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := doJSON(t, router, http.MethodGet, "/v1/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		Name string `json:"name"`
		Bio  string `json:"bio"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Ana", profile.Name)

	rec, env = doJSON(t, router, http.MethodPut, "/v1/auth/profile", token, map[string]string{
		"bio": "hello there",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Ana", profile.Name)
	assert.Equal(t, "hello there", profile.Bio)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/avatar", token, map[string]string{
		"avatarUrl": "https://cdn.example.com/a.png",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/avatar", token, map[string]string{
		"avatarUrl": "data:image/png;base64,AAAA",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/v1/auth/settings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var settings struct {
		Theme              string `json:"theme"`
		Language           string `json:"language"`
		EmailNotifications bool   `json:"email_notifications"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, "light", settings.Theme)
	assert.True(t, settings.EmailNotifications)

	rec, env = doJSON(t, router, http.MethodPost, "/v1/auth/settings", token, map[string]interface{}{
		"theme": "dark", "email_notifications": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, "en", settings.Language)
	assert.False(t, settings.EmailNotifications)
}

func TestChangePasswordAndDeleteAccountFlow(t *testing.T) {
	router, _, _ := newTestRouter(t)

	token := register(t, router, "Ana", "ana@example.com", "secret1")

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/auth/change-password", token, map[string]string{
		"currentPassword": "wrong", "newPassword": "secret2",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/change-password", token, map[string]string{
		"currentPassword": "secret1", "newPassword": "secret2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "secret2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/delete-account", token, map[string]string{
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/delete-account", token, map[string]string{
		"password": "secret2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// the surviving token points at a gone account
	rec, _ = doJSON(t, router, http.MethodGet, "/v1/auth/verify", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSensitiveRoutesAreRateLimited(t *testing.T) {
	router, _, _ := newTestRouter(t)

	limited := false
	for i := 0; i < 15; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited, "burst of requests should trip the limiter")
}
