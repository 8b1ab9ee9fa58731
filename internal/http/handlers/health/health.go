// Package health содержит служебные обработчики: состояние сервиса и сведения о нём.
package health

import (
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/magabrotheeeer/cafe-finder/internal/http/response"
)

// Version - версия API.
const Version = "1.0.0"

// BreakerState сообщает состояние circuit breaker'а каталога мест.
type BreakerState interface {
	State() gobreaker.State
}

// Handler отвечает на проверку состояния.
type Handler struct {
	log    *slog.Logger
	places BreakerState
}

// New создает новый экземпляр Handler. places может быть nil.
func New(log *slog.Logger, places BreakerState) *Handler {
	return &Handler{
		log:    log,
		places: places,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Service
// @Produce  json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"status": "healthy"}
	if h.places != nil {
		state := h.places.State()
		data["places_provider"] = state.String()
		// сервис отвечает, но поиск временно недоступен
		if state != gobreaker.StateClosed {
			data["status"] = "degraded"
			h.log.Debug("places provider breaker not closed", slog.String("state", state.String()))
		}
	}
	response.JSON(w, r, http.StatusOK, response.OKWithData(data))
}

// Info отдаёт название и версию сервиса.
type Info struct {
	name string
	env  string
}

// NewInfo создает обработчик сведений о сервисе.
func NewInfo(name, env string) *Info {
	return &Info{name: name, env: env}
}

// ServeHTTP godoc
// @Summary Сведения о сервисе
// @Tags Service
// @Produce  json
// @Success 200 {object} response.Response
// @Router / [get]
func (i *Info) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, response.OKWithData(map[string]any{
		"name":        i.name,
		"version":     Version,
		"environment": i.env,
		"docs":        "/docs/index.html",
	}))
}
