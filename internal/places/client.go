package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
)

// DefaultBaseURL - адрес Places API по умолчанию.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Client - HTTP-клиент Google Places API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient создаёт клиент. Пустой baseURL заменяется на DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	const op = "places.NewClient"
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api key is required", op)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

// SearchNearby ищет кафе в радиусе radiusMeters от origin.
// ZERO_RESULTS - пустой результат, а не ошибка.
func (c *Client) SearchNearby(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]RawPlace, error) {
	const op = "places.Client.SearchNearby"
	log := c.log.With(sl.Op(op))

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%v,%v", origin.Latitude(), origin.Longitude()))
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("type", "cafe")

	log.Info("searching cafes",
		slog.Float64("lat", origin.Latitude()),
		slog.Float64("lng", origin.Longitude()),
		slog.Int("radius", radiusMeters),
	)

	body, err := c.get(ctx, "/nearbysearch/json", params)
	if err != nil {
		log.Error("places request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch body.Status {
	case statusOK:
		log.Info("found cafes", slog.Int("count", len(body.Results)))
		return body.Results, nil
	case statusZeroResults:
		log.Info("no cafes found in the specified area")
		return []RawPlace{}, nil
	default:
		log.Error("places provider returned error status",
			slog.String("status", body.Status),
			slog.String("message", body.ErrorMessage),
		)
		return nil, fmt.Errorf("%s: %w: %s - %s", op, ErrUpstream, body.Status, errorMessage(body))
	}
}

// Details возвращает подробности места или nil, если место не найдено.
func (c *Client) Details(ctx context.Context, placeID string) (*RawPlace, error) {
	const op = "places.Client.Details"
	log := c.log.With(sl.Op(op), slog.String("place_id", placeID))

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "place_id,name,rating,formatted_address,geometry,price_level")

	body, err := c.get(ctx, "/details/json", params)
	if err != nil {
		log.Error("places request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch body.Status {
	case statusOK:
		return body.Result, nil
	case statusNotFound:
		log.Warn("place not found")
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: %w: %s - %s", op, ErrUpstream, body.Status, errorMessage(body))
	}
}

// get выполняет GET-запрос. Ключ API добавляется здесь и не попадает в логи.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*searchResponse, error) {
	endpoint := c.baseURL + path
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// текст *url.Error содержит URL вместе с ключом
		return nil, fmt.Errorf("%w: request to %s failed: %v", ErrUpstream, endpoint, unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status: %s", ErrUpstream, resp.Status)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return &body, nil
}

func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

func errorMessage(body *searchResponse) string {
	if body.ErrorMessage == "" {
		return "unknown error"
	}
	return body.ErrorMessage
}
