// Package jsonfile implements the card and settings snapshot stores on two
// pretty-printed JSON documents, cards.json and settings.json, in a data directory.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/store"
)

const (
	cardsFileName    = "cards.json"
	settingsFileName = "settings.json"
)

// Store keeps both snapshots as files under one directory.
// It implements store.CardStore and store.SettingsStore.
type Store struct {
	dir    string
	policy store.CorruptionPolicy
}

// Compile-time checks
var (
	_ store.CardStore     = (*Store)(nil)
	_ store.SettingsStore = (*Store)(nil)
)

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, policy store.CorruptionPolicy) (*Store, error) {
	if dir == "" {
		return nil, errors.New("data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, policy: policy}, nil
}

// CardsPath returns the location of the cards snapshot.
func (s *Store) CardsPath() string { return filepath.Join(s.dir, cardsFileName) }

// SettingsPath returns the location of the settings snapshot.
func (s *Store) SettingsPath() string { return filepath.Join(s.dir, settingsFileName) }

// LoadCards implements store.CardStore.
// A missing or corrupt file yields an empty collection.
func (s *Store) LoadCards(ctx context.Context) (map[string]domain.Card, error) {
	b, err := readFile(s.CardsPath())
	if err != nil {
		return nil, store.NewStoreError(store.EntityCards, "load", "read file", err)
	}

	cards, err := store.DecodeCards(b)
	if err != nil {
		// Card snapshots never block startup, whatever the settings policy.
		_ = store.CorruptionUseDefaults.Handle(ctx, store.EntityCards, err)
		return map[string]domain.Card{}, nil
	}

	logger.FromContextOrDefault(ctx, nil).Debug("loaded cards snapshot",
		slog.String("path", s.CardsPath()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// SaveCards implements store.CardStore.
func (s *Store) SaveCards(ctx context.Context, cards map[string]domain.Card) error {
	b, err := store.EncodeCards(cards)
	if err != nil {
		return store.NewStoreError(store.EntityCards, "save", "json marshal", err)
	}
	if err := writeFileAtomic(s.CardsPath(), b); err != nil {
		return store.NewStoreError(store.EntityCards, "save", "write file", err)
	}
	return nil
}

// LoadSettings implements store.SettingsStore.
func (s *Store) LoadSettings(ctx context.Context) (domain.AppSettings, error) {
	b, err := readFile(s.SettingsPath())
	if err != nil {
		return domain.DefaultSettings(), store.NewStoreError(store.EntitySettings, "load", "read file", err)
	}

	settings, err := store.DecodeSettings(b)
	if err != nil {
		if perr := s.policy.Handle(ctx, store.EntitySettings, err); perr != nil {
			return domain.DefaultSettings(), perr
		}
	}
	return settings, nil
}

// SaveSettings implements store.SettingsStore.
func (s *Store) SaveSettings(ctx context.Context, settings domain.AppSettings) error {
	b, err := store.EncodeSettings(settings)
	if err != nil {
		return store.NewStoreError(store.EntitySettings, "save", "json marshal", err)
	}
	if err := writeFileAtomic(s.SettingsPath(), b); err != nil {
		return store.NewStoreError(store.EntitySettings, "save", "write file", err)
	}
	return nil
}

// readFile returns nil contents for a file that does not exist.
func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

// writeFileAtomic replaces path with data via a temporary file in the same directory,
// so readers never observe a partially written snapshot.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
