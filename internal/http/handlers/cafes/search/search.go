// Package search реализует HTTP-обработчик поиска кафе вокруг точки.
package search

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cafe-finder/internal/http/handlers/cafes"
	"github.com/magabrotheeeer/cafe-finder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafe-finder/internal/http/response"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
)

// Service описывает поиск кафе.
type Service interface {
	Search(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]models.Place, error)
}

// Handler обрабатывает запросы поиска.
type Handler struct {
	log           *slog.Logger
	service       Service
	validate      *validator.Validate
	defaultRadius int
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, defaultRadius int) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		validate:      validator.New(),
		defaultRadius: defaultRadius,
	}
}

// ServeHTTP godoc
// @Summary Поиск кафе
// @Description Возвращает кафе в радиусе от точки с расстоянием до каждого.
// @Tags Cafes
// @Produce  json
// @Param lat query number true "Широта (-90..90)"
// @Param lng query number true "Долгота (-180..180)"
// @Param radius query int false "Радиус в метрах (1..50000)" default(1000)
// @Success 200 {object} response.Response "Найденные кафе"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 422 {object} response.ErrorResponse "Параметры вне допустимых границ"
// @Failure 500 {object} response.ErrorResponse "Ошибка каталога мест"
// @Router /search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cafes.search"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if identity, ok := middlewarectx.IdentityFromContext(r.Context()); ok {
		log = log.With(slog.String("user_id", identity.ID))
	}

	query, err := cafes.ParseSearchQuery(r, h.defaultRadius)
	if err != nil {
		log.Info("bad query", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error(err.Error()))
		return
	}
	if err := h.validate.Struct(query); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.JSON(w, r, http.StatusUnprocessableEntity, response.ValidationError(verrs))
			return
		}
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid query"))
		return
	}
	origin, err := query.Origin()
	if err != nil {
		response.JSON(w, r, http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	log.Info("search request",
		slog.Float64("lat", query.Lat),
		slog.Float64("lng", query.Lng),
		slog.Int("radius", query.Radius),
	)

	places, err := h.service.Search(r.Context(), origin, query.Radius)
	if err != nil {
		log.Error("search failed", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Error("failed to fetch cafes from places provider"))
		return
	}

	response.JSON(w, r, http.StatusOK, response.OKWithData(cafes.SearchResult{
		Total: len(places),
		Cafes: cafes.FromPlaces(places),
	}))
}
