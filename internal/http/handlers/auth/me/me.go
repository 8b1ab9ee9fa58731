// Package me реализует HTTP-обработчик получения текущего пользователя.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/cafe-finder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafe-finder/internal/http/response"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
)

// Handler возвращает публичные поля пользователя, которого положил JWTMiddleware.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Данные пользователя"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	identity, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		h.log.Error("identity not found in context",
			sl.Op(op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		w.Header().Set("WWW-Authenticate", "Bearer")
		response.JSON(w, r, http.StatusUnauthorized, response.Error(middlewarectx.UnauthorizedMessage))
		return
	}

	response.JSON(w, r, http.StatusOK, response.OKWithData(identity.Public()))
}
