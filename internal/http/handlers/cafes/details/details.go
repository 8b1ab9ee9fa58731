// Package details реализует HTTP-обработчик получения кафе по идентификатору.
package details

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/cafe-finder/internal/http/handlers/cafes"
	"github.com/magabrotheeeer/cafe-finder/internal/http/response"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
	"github.com/magabrotheeeer/cafe-finder/internal/services/search"
)

// Service описывает получение места по идентификатору.
type Service interface {
	Details(ctx context.Context, placeID string) (*models.Place, error)
}

// Handler обрабатывает запросы подробностей кафе.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Кафе по идентификатору
// @Tags Cafes
// @Produce  json
// @Param id path string true "Идентификатор места"
// @Success 200 {object} response.Response "Кафе"
// @Failure 404 {object} response.ErrorResponse "Кафе не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка каталога мест"
// @Router /cafes/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cafes.details"

	id := chi.URLParam(r, "id")
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("place_id", id),
	)
	if id == "" {
		response.JSON(w, r, http.StatusBadRequest, response.Error("place id is required"))
		return
	}

	place, err := h.service.Details(r.Context(), id)
	if err != nil {
		if errors.Is(err, search.ErrPlaceNotFound) {
			response.JSON(w, r, http.StatusNotFound, response.Error("cafe not found"))
			return
		}
		log.Error("details lookup failed", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Error("failed to fetch cafe from places provider"))
		return
	}

	response.JSON(w, r, http.StatusOK, response.OKWithData(cafes.FromPlace(*place)))
}
