package cafefinder

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/cafe-finder/internal/config"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/jwt"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/password"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
	"github.com/magabrotheeeer/cafe-finder/internal/places"
	"github.com/magabrotheeeer/cafe-finder/internal/services/auth"
	"github.com/magabrotheeeer/cafe-finder/internal/services/search"
	"github.com/magabrotheeeer/cafe-finder/internal/storage/memory"
)

type fakeProvider struct {
	results []places.RawPlace
	err     error
}

func (f *fakeProvider) SearchNearby(context.Context, models.Coordinate, int) ([]places.RawPlace, error) {
	return f.results, f.err
}

func (f *fakeProvider) Details(_ context.Context, id string) (*places.RawPlace, error) {
	for _, r := range f.results {
		if r.PlaceID == id {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func ptr[T any](v T) *T { return &v }

func rawPlace(id string, lat, lng, rating float64, level int) places.RawPlace {
	return places.RawPlace{
		PlaceID:    id,
		Name:       "Cafe " + id,
		Vicinity:   "Street " + id,
		Geometry:   &places.Geometry{Location: &places.LatLng{Lat: lat, Lng: lng}},
		Rating:     ptr(rating),
		PriceLevel: ptr(level),
	}
}

func newTestServer(t *testing.T, provider *fakeProvider) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Env:     config.EnvLocal,
		AppName: "Cafe Recommendation Service",
		Places:  config.Places{DefaultRadius: 1000},
	}

	tokens, err := jwt.NewJWTMaker("e2e-secret", "HS256", 30*time.Minute, logger)
	require.NoError(t, err)

	breaker := places.NewBreakerLookup(provider, places.BreakerConfig{Name: "e2e", FailureThreshold: 3}, logger)
	svc := Services{
		Auth:   auth.NewService(memory.New(), password.NewHasher(bcrypt.MinCost), tokens, logger),
		Search: search.NewService(breaker, breaker, logger),
		Places: breaker,
	}
	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, svc)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func do(t *testing.T, method, url, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func registerAndLogin(t *testing.T, base, email, pass string) string {
	t.Helper()
	resp, _ := do(t, http.MethodPost, base+"/api/v1/auth/register", "", map[string]string{"email": email, "password": pass})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := do(t, http.MethodPost, base+"/api/v1/auth/login", "", map[string]string{"email": email, "password": pass})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, int64(1800), tok.ExpiresIn)
	return tok.AccessToken
}

func TestRegisterLoginMe(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	token := registerAndLogin(t, srv.URL, "Alice@Example.COM", "password123")

	resp, env := do(t, http.MethodGet, srv.URL+"/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.PublicIdentity
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice@example.com", me.Email)
	assert.True(t, me.IsActive)
	assert.NotEmpty(t, me.ID)

	// повторная регистрация в другом регистре
	resp, env = do(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]string{"email": "ALICE@example.com", "password": "password456"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already registered", env.Error)

	// неверный пароль и неизвестный email неразличимы
	resp1, env1 := do(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong-pass"})
	resp2, env2 := do(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]string{"email": "bob@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, resp1.StatusCode)
	assert.Equal(t, resp1.StatusCode, resp2.StatusCode)
	assert.Equal(t, env1, env2)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	for _, path := range []string{"/api/v1/auth/me", "/api/v1/recommendations?lat=0&lng=0"} {
		for _, token := range []string{"", "garbage.token.value"} {
			resp, env := do(t, http.MethodGet, srv.URL+path, token, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
			assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
			assert.Equal(t, "could not validate credentials", env.Error)
		}
	}
}

func TestSearchAndRecommend(t *testing.T) {
	provider := &fakeProvider{results: []places.RawPlace{
		rawPlace("a", 40.7130, -74.0060, 3.5, 0),
		rawPlace("b", 40.7140, -74.0070, 4.8, 1),
		rawPlace("c", 40.7150, -74.0080, 4.2, 2),
		rawPlace("d", 40.7129, -74.0061, 4.0, 0),
		rawPlace("e", 40.7200, -74.0100, 4.9, 3),
		{PlaceID: "bad", Name: "Broken", Rating: ptr(9.0)},
	}}
	srv := newTestServer(t, provider)

	// поиск открыт, запись с невалидным рейтингом отброшена
	resp, env := do(t, http.MethodGet, srv.URL+"/api/v1/search?lat=40.7128&lng=-74.006", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found struct {
		Total int `json:"total"`
		Cafes []struct {
			ID             string   `json:"id"`
			DistanceMeters *float64 `json:"distance_meters"`
		} `json:"cafes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Equal(t, 5, found.Total)
	for _, c := range found.Cafes {
		require.NotNil(t, c.DistanceMeters)
		assert.Less(t, *c.DistanceMeters, 2000.0)
	}

	token := registerAndLogin(t, srv.URL, "carol@example.com", "password123")

	resp, env = do(t, http.MethodGet, srv.URL+"/api/v1/recommendations?lat=40.7128&lng=-74.006&min_rating=4&limit=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec struct {
		Total int `json:"total"`
		Cafes []struct {
			ID     string  `json:"id"`
			Rating float64 `json:"rating"`
		} `json:"cafes"`
		FiltersApplied map[string]any `json:"filters_applied"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	require.Equal(t, 2, rec.Total)
	assert.Equal(t, "e", rec.Cafes[0].ID)
	assert.Equal(t, "b", rec.Cafes[1].ID)
	assert.Equal(t, float64(2), rec.FiltersApplied["limit"])
	assert.Nil(t, rec.FiltersApplied["price_ranges"])

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/cafes/c", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/cafes/zzz", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpstreamFailureIsServerError(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{err: places.ErrUpstream})

	resp, env := do(t, http.MethodGet, srv.URL+"/api/v1/search?lat=1&lng=1", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Error", env.Status)
}

func TestHealthReportsOpenBreaker(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{err: places.ErrUpstream})

	resp, env := do(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy","places_provider":"closed"}`, string(env.Data))

	for i := 0; i < 3; i++ {
		resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/search?lat=1&lng=1", "", nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}

	resp, env = do(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"degraded","places_provider":"open"}`, string(env.Data))

	// открытый breaker отвечает той же ошибкой, не обращаясь к провайдеру
	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/search?lat=1&lng=1", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestConcurrentRegistrationSameEmail(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "race@example.com"
			if i%2 == 1 {
				email = strings.ToUpper(email)
			}
			b, _ := json.Marshal(map[string]string{"email": email, "password": "password123"})
			resp, err := http.Post(srv.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(b))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusCreated {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}

func TestServiceEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	resp, _ := do(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, http.MethodGet, srv.URL+"/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mresp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	body, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
}
