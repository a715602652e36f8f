package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
)

// SettingsStore persists the process-wide AppSettings record.
type SettingsStore interface {
	// LoadSettings returns the persisted settings, or domain.DefaultSettings()
	// when nothing has been saved yet. How an undecodable record is treated
	// depends on the store's CorruptionPolicy.
	LoadSettings(ctx context.Context) (domain.AppSettings, error)

	// SaveSettings replaces the persisted settings record.
	SaveSettings(ctx context.Context, settings domain.AppSettings) error
}

// CorruptionPolicy decides how a store reacts to a snapshot it cannot decode.
type CorruptionPolicy string

const (
	// CorruptionUseDefaults logs a warning and continues with default values.
	CorruptionUseDefaults CorruptionPolicy = "default"

	// CorruptionFail returns an error wrapping ErrCorruptSnapshot.
	CorruptionFail CorruptionPolicy = "error"
)

// ParseCorruptionPolicy converts a configuration value into a CorruptionPolicy.
func ParseCorruptionPolicy(s string) (CorruptionPolicy, error) {
	switch p := CorruptionPolicy(s); p {
	case CorruptionUseDefaults, CorruptionFail:
		return p, nil
	case "":
		return CorruptionUseDefaults, nil
	default:
		return "", fmt.Errorf("unknown corruption policy %q", s)
	}
}

// Handle applies the policy to a decode failure of entity.
// It returns nil when the caller should continue with defaults.
func (p CorruptionPolicy) Handle(ctx context.Context, entity string, err error) error {
	if p == CorruptionFail {
		return NewStoreError(entity, "load", "snapshot could not be decoded", err)
	}

	logger.FromContextOrDefault(ctx, nil).Warn("corrupt snapshot, falling back to defaults",
		slog.String("entity", entity),
		slog.String("error", err.Error()))
	return nil
}
