// Package middlewarectx содержит HTTP middleware для проверки bearer-токенов.
//
// JWTMiddleware требует валидный токен и кладёт пользователя в контекст запроса.
// OptionalJWTMiddleware пропускает запрос без пользователя, если токена нет
// или он не принят. Любая причина отказа даёт одинаковый ответ 401.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/cafe-finder/internal/http/response"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey - ключ пользователя в контексте.
const IdentityKey Key = "identity"

// UnauthorizedMessage - единый текст отказа в аутентификации.
const UnauthorizedMessage = "could not validate credentials"

// Authenticator проверяет токен и возвращает активного пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// JWTMiddleware возвращает middleware, которое требует валидный токен в
// заголовке Authorization. При отказе отвечает 401 с WWW-Authenticate: Bearer.
func JWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				sl.Op(op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr, ok := bearerToken(r)
			if !ok {
				log.Info("missing or malformed authorization header")
				unauthorized(w, r)
				return
			}

			identity, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				log.Info("token rejected", sl.Err(err))
				unauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalJWTMiddleware кладёт пользователя в контекст, если токен валиден,
// и пропускает запрос дальше в любом случае.
func OptionalJWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.OptionalJWTMiddleware"

			tokenStr, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				log.Debug("optional token ignored",
					sl.Op(op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity возвращает контекст с пользователем.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFromContext возвращает пользователя, положенного middleware.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*models.Identity)
	return identity, ok && identity != nil
}

// bearerToken достаёт токен из заголовка "Authorization: Bearer <token>".
// Схема сравнивается без учёта регистра.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	response.JSON(w, r, http.StatusUnauthorized, response.Error(UnauthorizedMessage))
}
