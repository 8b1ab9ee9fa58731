package middlewarectx_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cafe-finder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
	"github.com/magabrotheeeer/cafe-finder/internal/services/auth"
)

// Мок для Authenticator
type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	identity, _ := args.Get(0).(*models.Identity)
	return identity, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var alice = &models.Identity{ID: "id-1", Email: "alice@example.com", IsActive: true}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setupMocks     func(m *AuthenticatorMock)
		wantStatusCode int
		wantNext       bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good",
			setupMocks: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "good").Return(alice, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantNext:       true,
		},
		{
			name:       "lower-case scheme",
			authHeader: "bearer good",
			setupMocks: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "good").Return(alice, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantNext:       true,
		},
		{
			name:           "missing header",
			authHeader:     "",
			setupMocks:     func(*AuthenticatorMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			setupMocks:     func(*AuthenticatorMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "empty token",
			authHeader:     "Bearer ",
			setupMocks:     func(*AuthenticatorMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			authHeader: "Bearer bad",
			setupMocks: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "bad").Return(nil, auth.ErrUnauthenticated).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthenticatorMock)
			tt.setupMocks(authMock)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				identity, ok := middlewarectx.IdentityFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, alice.ID, identity.ID)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middlewarectx.JWTMiddleware(authMock, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			if !tt.wantNext {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
				var body map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "Error", body["status"])
				assert.Equal(t, middlewarectx.UnauthorizedMessage, body["error"])
			}
			authMock.AssertExpectations(t)
		})
	}
}

func TestOptionalJWTMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		authHeader   string
		setupMocks   func(m *AuthenticatorMock)
		wantIdentity bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good",
			setupMocks: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "good").Return(alice, nil).Once()
			},
			wantIdentity: true,
		},
		{
			name:         "no token",
			setupMocks:   func(*AuthenticatorMock) {},
			wantIdentity: false,
		},
		{
			name:       "invalid token passes anonymously",
			authHeader: "Bearer bad",
			setupMocks: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "bad").Return(nil, auth.ErrUnauthenticated).Once()
			},
			wantIdentity: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthenticatorMock)
			tt.setupMocks(authMock)

			var gotIdentity bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, gotIdentity = middlewarectx.IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/public", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middlewarectx.OptionalJWTMiddleware(authMock, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantIdentity, gotIdentity)
			authMock.AssertExpectations(t)
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	_, ok := middlewarectx.IdentityFromContext(context.Background())
	assert.False(t, ok)
}
