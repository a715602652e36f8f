package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-deck/internal/api"
	"github.com/phrazzld/scry-deck/internal/api/middleware"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/domain/srs"
	"github.com/phrazzld/scry-deck/internal/platform/jsonfile"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/service"
	"github.com/phrazzld/scry-deck/internal/store"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// newRouter mounts the API routes over svc the same way the server does.
func newRouter(t *testing.T, svc service.CardService) http.Handler {
	t.Helper()
	log, _ := logger.NewCapture(t)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	r.Route("/api", func(r chi.Router) {
		api.RegisterRoutes(r, api.NewCardHandler(svc, log), api.NewSettingsHandler(svc, log))
	})
	r.Get("/health", api.Health)
	return r
}

// newRealRouter wires a real card service on a JSON file store in a temp dir.
func newRealRouter(t *testing.T) (http.Handler, *jsonfile.Store) {
	t.Helper()

	st, err := jsonfile.New(t.TempDir(), store.CorruptionUseDefaults)
	require.NoError(t, err)
	srsService, err := srs.NewDefaultService()
	require.NoError(t, err)
	log, _ := logger.NewCapture(t)

	svc, err := service.NewCardService(context.Background(), st, st, srsService, log,
		service.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	return newRouter(t, svc), st
}

// doRequest performs a request against h. body is marshalled to JSON unless it is a string.
func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

// MockCardService mocks service.CardService for error path tests.
type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) CreateCard(ctx context.Context, front, back string, tag *string) (*domain.Card, error) {
	args := m.Called(ctx, front, back, tag)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *MockCardService) ListCards(ctx context.Context) ([]domain.Card, error) {
	args := m.Called(ctx)
	cards, _ := args.Get(0).([]domain.Card)
	return cards, args.Error(1)
}

func (m *MockCardService) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	args := m.Called(ctx, id)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *MockCardService) UpdateCard(ctx context.Context, id, front, back string, tag *string) (*domain.Card, error) {
	args := m.Called(ctx, id, front, back, tag)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *MockCardService) DeleteCard(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCardService) DeleteCards(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockCardService) ReviewCard(
	ctx context.Context,
	id string,
	difficulty domain.ReviewDifficulty,
) (*domain.Card, error) {
	args := m.Called(ctx, id, difficulty)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *MockCardService) DueCards(ctx context.Context) ([]domain.Card, error) {
	args := m.Called(ctx)
	cards, _ := args.Get(0).([]domain.Card)
	return cards, args.Error(1)
}

func (m *MockCardService) ReviewStats(ctx context.Context) (domain.ReviewStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(domain.ReviewStats)
	return stats, args.Error(1)
}

func (m *MockCardService) SearchCards(ctx context.Context, query, tag *string) ([]domain.Card, error) {
	args := m.Called(ctx, query, tag)
	cards, _ := args.Get(0).([]domain.Card)
	return cards, args.Error(1)
}

func (m *MockCardService) Tags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}

func (m *MockCardService) TagStats(ctx context.Context) ([]domain.TagStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]domain.TagStats)
	return stats, args.Error(1)
}

func (m *MockCardService) BulkUpdateTag(ctx context.Context, ids []string, tag *string) ([]domain.Card, error) {
	args := m.Called(ctx, ids, tag)
	cards, _ := args.Get(0).([]domain.Card)
	return cards, args.Error(1)
}

func (m *MockCardService) Settings(ctx context.Context) (domain.AppSettings, error) {
	args := m.Called(ctx)
	settings, _ := args.Get(0).(domain.AppSettings)
	return settings, args.Error(1)
}

func (m *MockCardService) UpdateSettings(ctx context.Context, settings domain.AppSettings) (domain.AppSettings, error) {
	args := m.Called(ctx, settings)
	out, _ := args.Get(0).(domain.AppSettings)
	return out, args.Error(1)
}
