package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-deck/internal/api/shared"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/service"
	"github.com/phrazzld/scry-deck/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"card not found", fmt.Errorf("%w: abc", service.ErrCardNotFound), http.StatusNotFound},
		{"generic not found", store.ErrNotFound, http.StatusNotFound},
		{"validation", fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrCardBackEmpty), http.StatusBadRequest},
		{"difficulty", fmt.Errorf("%w: 7", domain.ErrInvalidDifficulty), http.StatusBadRequest},
		{"settings", fmt.Errorf("%w: base too small", domain.ErrInvalidSettings), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"lock failure", service.NewCardServiceError("list", "lock", service.ErrLockFailure), http.StatusInternalServerError},
		{"persistence", service.NewCardServiceError("review", "save", service.ErrPersistence), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"card not found", fmt.Errorf("%w: abc", service.ErrCardNotFound), "Card not found"},
		{"front", fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrCardFrontEmpty), "Invalid front: required field"},
		{"generic validation", domain.NewValidationError("x", "bad", nil), "Validation error"},
		{
			"difficulty names the code",
			&domain.InvalidDifficultyError{Code: 9},
			"Invalid difficulty value 9: must be 0 (again), 1 (hard), 2 (good) or 3 (easy)",
		},
		{
			"difficulty without a code",
			fmt.Errorf("%w: \"meh\"", domain.ErrInvalidDifficulty),
			"Invalid difficulty: must be 0 (again), 1 (hard), 2 (good) or 3 (easy)",
		},
		{
			"settings keep their reason",
			fmt.Errorf("%w: leitner intervals cannot be empty", domain.ErrInvalidSettings),
			"Invalid settings: leitner intervals cannot be empty",
		},
		{"lock", service.ErrLockFailure, "Service temporarily unavailable"},
		{
			"persistence hides the cause",
			fmt.Errorf("%w: open /srv/data/cards.json: permission denied", service.ErrPersistence),
			"Failed to persist changes",
		},
		{"unknown", errors.New("pq: password authentication failed"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.Validate.Struct(SettingsRequest{ExponentialBase: 2})
	require.Error(t, err)
	assert.Equal(t, "Invalid algorithm: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("not a validator error")))
}

func TestHandleAPIErrorLogsRedactedCause(t *testing.T) {
	t.Parallel()

	ctx, logBuf := logger.CaptureContext(t)
	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil).WithContext(shared.SetTraceID(ctx))
	rr := httptest.NewRecorder()

	cause := errors.New("open /home/alice/.scry/cards.json: permission denied")
	HandleAPIError(rr, req, service.NewCardServiceError("list", "failed", cause), "Failed to list cards")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to list cards")
	assert.NotContains(t, rr.Body.String(), "alice")

	entries, err := logBuf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.Equal(t, shared.GetTraceID(req.Context()), entries[0]["trace_id"])
	assert.NotContains(t, entries[0]["error"], "alice")
	assert.Contains(t, entries[0]["error"], "[REDACTED_PATH]")
}
