// Package recommend реализует HTTP-обработчик рекомендаций кафе.
//
// Обработчик ищет кафе вокруг точки, затем фильтрует и ранжирует их
// по рейтингу и расстоянию. Доступен только с валидным токеном.
package recommend

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
	"github.com/magabrotheeeer/cafe-finder/internal/services/recommend"
)

// Result - тело ответа с рекомендациями и применёнными фильтрами.
type Result struct {
	Total          int                  `json:"total"`
	Cafes          []cafes.CafeResponse `json:"cafes"`
	FiltersApplied recommend.Applied    `json:"filters_applied"`
}

// Searcher описывает поиск кафе.
type Searcher interface {
	Search(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]models.Place, error)
}

// Handler обрабатывает запросы рекомендаций.
type Handler struct {
	log           *slog.Logger
	searcher      Searcher
	validate      *validator.Validate
	defaultRadius int
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, searcher Searcher, defaultRadius int) *Handler {
	return &Handler{
		log:           log,
		searcher:      searcher,
		validate:      validator.New(),
		defaultRadius: defaultRadius,
	}
}

// ServeHTTP godoc
// @Summary Рекомендации кафе
// @Description Кафе вокруг точки, отфильтрованные по рейтингу и цене и отсортированные по рейтингу, затем по расстоянию.
// @Tags Cafes
// @Produce  json
// @Security BearerAuth
// @Param lat query number true "Широта (-90..90)"
// @Param lng query number true "Долгота (-180..180)"
// @Param radius query int false "Радиус в метрах (1..50000)" default(1000)
// @Param min_rating query number false "Минимальный рейтинг (0..5)" default(0)
// @Param price_range query string false "Ценовые категории через запятую, например CHEAP,MEDIUM"
// @Param limit query int false "Количество результатов (0..100)" default(20)
// @Success 200 {object} response.Response "Рекомендации"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 422 {object} response.ErrorResponse "Параметры вне допустимых границ"
// @Failure 500 {object} response.ErrorResponse "Ошибка каталога мест"
// @Router /recommendations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cafes.recommend"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if identity, ok := middlewarectx.IdentityFromContext(r.Context()); ok {
		log = log.With(slog.String("user_id", identity.ID))
	}

	query, err := cafes.ParseRecommendQuery(r, h.defaultRadius)
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
	filter := query.Filter()
	if err := filter.Validate(); err != nil {
		response.JSON(w, r, http.StatusUnprocessableEntity, response.Error(err.Error()))
		return
	}
	origin, err := query.Origin()
	if err != nil {
		response.JSON(w, r, http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	log.Info("recommendation request",
		slog.Float64("lat", query.Lat),
		slog.Float64("lng", query.Lng),
		slog.Int("radius", query.Radius),
		slog.Float64("min_rating", filter.MinRating),
		slog.Int("limit", filter.Limit),
		slog.Int("price_categories", len(filter.PriceCategories)),
	)

	places, err := h.searcher.Search(r.Context(), origin, query.Radius)
	if err != nil {
		log.Error("search failed", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Error("failed to fetch cafes from places provider"))
		return
	}

	ranked := recommend.Recommend(places, filter)
	log.Info("recommendations ready",
		slog.Int("found", len(places)),
		slog.Int("returned", len(ranked)),
	)

	response.JSON(w, r, http.StatusOK, response.OKWithData(Result{
		Total:          len(ranked),
		Cafes:          cafes.FromPlaces(ranked),
		FiltersApplied: filter.Applied(),
	}))
}
