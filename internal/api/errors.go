package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/scry-deck/internal/api/shared"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/service"
	"github.com/phrazzld/scry-deck/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never reach clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrInvalidSettings),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		// ErrLockFailure and ErrPersistence land here as well
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that leaks no
// internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, domain.ErrInvalidDifficulty):
		return difficultyMessage(err)
	case errors.Is(err, domain.ErrInvalidSettings):
		return settingsMessage(err)
	case errors.Is(err, domain.ErrCardFrontEmpty):
		return "Invalid front: required field"
	case errors.Is(err, domain.ErrCardBackEmpty):
		return "Invalid back: required field"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"
	case errors.Is(err, service.ErrLockFailure):
		return "Service temporarily unavailable"
	case errors.Is(err, service.ErrPersistence):
		return "Failed to persist changes"
	default:
		return "An unexpected error occurred"
	}
}

const difficultyRange = "must be 0 (again), 1 (hard), 2 (good) or 3 (easy)"

// difficultyMessage echoes the rejected code when the error carries one.
func difficultyMessage(err error) string {
	var invalid *domain.InvalidDifficultyError
	if errors.As(err, &invalid) {
		return fmt.Sprintf("Invalid difficulty value %d: %s", invalid.Code, difficultyRange)
	}
	return "Invalid difficulty: " + difficultyRange
}

// settingsMessage keeps the domain's explanation of why settings were
// rejected, which only ever names settings fields.
func settingsMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrInvalidSettings.Error()); i >= 0 {
		msg = msg[i:]
	}
	return "Invalid settings: " + strings.TrimPrefix(msg, domain.ErrInvalidSettings.Error()+": ")
}

// SanitizeValidationError turns validator errors into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gt", "gte":
		return "too small"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for a service error. fallback replaces
// the generic message for 500s that have no more specific explanation.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" &&
		!errors.Is(err, service.ErrPersistence) && !errors.Is(err, service.ErrLockFailure) {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
