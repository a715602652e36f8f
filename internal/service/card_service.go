package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/domain/srs"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/store"
)

// CardService exposes every application operation on the card collection and
// the settings record.
type CardService interface {
	// CreateCard adds a new card that is due immediately.
	CreateCard(ctx context.Context, front, back string, tag *string) (*domain.Card, error)

	// ListCards returns every card ordered by creation time.
	ListCards(ctx context.Context) ([]domain.Card, error)

	// GetCard returns the card with the given ID, or nil without an error when it does not exist.
	GetCard(ctx context.Context, id string) (*domain.Card, error)

	// UpdateCard replaces the front, back and tag of a card. Scheduling state is kept.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateCard(ctx context.Context, id, front, back string, tag *string) (*domain.Card, error)

	// DeleteCard removes a card. A missing ID is not an error.
	DeleteCard(ctx context.Context, id string) error

	// DeleteCards removes every listed card that exists, persisting once.
	DeleteCards(ctx context.Context, ids []string) error

	// ReviewCard records a review and reschedules the card with the configured algorithm.
	// Returns ErrCardNotFound if the card does not exist.
	ReviewCard(ctx context.Context, id string, difficulty domain.ReviewDifficulty) (*domain.Card, error)

	// DueCards returns the cards whose next review is at or before now.
	DueCards(ctx context.Context) ([]domain.Card, error)

	// ReviewStats aggregates the whole collection.
	ReviewStats(ctx context.Context) (domain.ReviewStats, error)

	// SearchCards filters by a case-insensitive substring of front or back and
	// by exact tag. Nil filters match everything.
	SearchCards(ctx context.Context, query, tag *string) ([]domain.Card, error)

	// Tags returns the distinct tags in ascending order.
	Tags(ctx context.Context) ([]string, error)

	// TagStats aggregates cards per tag.
	TagStats(ctx context.Context) ([]domain.TagStats, error)

	// BulkUpdateTag sets tag on every listed card that exists and returns the updated cards.
	BulkUpdateTag(ctx context.Context, ids []string, tag *string) ([]domain.Card, error)

	// Settings returns the current settings.
	Settings(ctx context.Context) (domain.AppSettings, error)

	// UpdateSettings validates and replaces the settings wholesale.
	UpdateSettings(ctx context.Context, settings domain.AppSettings) (domain.AppSettings, error)
}

// Option configures a card service.
type Option func(*cardServiceImpl)

// WithClock replaces time.Now as the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(s *cardServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// cardServiceImpl implements the CardService interface.
//
// cards and settings are guarded independently. Operations that need both
// (ReviewCard) take the cards guard first and the settings guard inside it;
// nothing acquires them in the opposite order.
type cardServiceImpl struct {
	cardStore     store.CardStore
	settingsStore store.SettingsStore
	srsService    srs.Service
	logger        *slog.Logger
	now           func() time.Time

	cardsGuard guardedMutex
	cards      map[string]domain.Card

	settingsGuard guardedMutex
	settings      domain.AppSettings
}

// NewCardService loads both snapshots and returns a ready CardService.
// It returns an error if any of the required dependencies are nil or a snapshot cannot be loaded.
func NewCardService(
	ctx context.Context,
	cardStore store.CardStore,
	settingsStore store.SettingsStore,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...Option,
) (CardService, error) {
	if cardStore == nil {
		return nil, domain.NewValidationError("cardStore", "cannot be nil", domain.ErrValidation)
	}
	if settingsStore == nil {
		return nil, domain.NewValidationError("settingsStore", "cannot be nil", domain.ErrValidation)
	}
	if srsService == nil {
		return nil, domain.NewValidationError("srsService", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &cardServiceImpl{
		cardStore:     cardStore,
		settingsStore: settingsStore,
		srsService:    srsService,
		logger:        logger.With(slog.String("component", "card_service")),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	cards, err := cardStore.LoadCards(ctx)
	if err != nil {
		return nil, NewCardServiceError("load", "failed to load cards", err)
	}
	if cards == nil {
		cards = map[string]domain.Card{}
	}
	s.cards = cards

	settings, err := settingsStore.LoadSettings(ctx)
	if err != nil {
		return nil, NewCardServiceError("load", "failed to load settings", err)
	}
	s.settings = settings

	s.logger.Info("card service ready",
		slog.Int("card_count", len(cards)),
		slog.String("algorithm", string(settings.Algorithm)))

	return s, nil
}

// withCards runs fn under the cards guard.
func (s *cardServiceImpl) withCards(ctx context.Context, op string, fn func() error) error {
	return s.guarded(ctx, &s.cardsGuard, op, "cards", fn)
}

// withSettings runs fn under the settings guard.
func (s *cardServiceImpl) withSettings(ctx context.Context, op string, fn func() error) error {
	return s.guarded(ctx, &s.settingsGuard, op, "settings", fn)
}

func (s *cardServiceImpl) guarded(
	ctx context.Context,
	g *guardedMutex,
	op, resource string,
	fn func() error,
) error {
	err := g.run(fn)
	if errors.Is(err, ErrLockFailure) {
		logger.FromContextOrDefault(ctx, s.logger).Error("lock failure",
			slog.String("operation", op),
			slog.String("resource", resource))
		return NewCardServiceError(op, "failed to acquire "+resource+" lock", err)
	}
	return err
}

// saveCards writes the whole collection. Callers hold the cards guard.
func (s *cardServiceImpl) saveCards(ctx context.Context, op string) error {
	if err := s.cardStore.SaveCards(ctx, s.cards); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to persist cards",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return NewCardServiceError(op, "failed to persist cards",
			fmt.Errorf("%w: %w", ErrPersistence, err))
	}
	return nil
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	front, back string,
	tag *string,
) (*domain.Card, error) {
	card, err := domain.NewCard(front, back, tag, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	err = s.withCards(ctx, "create", func() error {
		s.cards[card.ID] = *card
		logger.FromContextOrDefault(ctx, s.logger).Debug("card created",
			slog.String("card_id", card.ID))
		return s.saveCards(ctx, "create")
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(ctx context.Context) ([]domain.Card, error) {
	return s.collect(ctx, "list", func(domain.Card) bool { return true })
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	var found *domain.Card
	err := s.withCards(ctx, "get", func() error {
		if card, ok := s.cards[id]; ok {
			found = &card
		}
		return nil
	})
	return found, err
}

// UpdateCard implements CardService.UpdateCard
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	id, front, back string,
	tag *string,
) (*domain.Card, error) {
	var updated domain.Card
	err := s.withCards(ctx, "update", func() error {
		card, ok := s.cards[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrCardNotFound, id)
		}
		if err := card.UpdateContent(front, back, tag); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}

		s.cards[id] = card
		updated = card
		logger.FromContextOrDefault(ctx, s.logger).Debug("card updated",
			slog.String("card_id", id))
		return s.saveCards(ctx, "update")
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, id string) error {
	return s.DeleteCards(ctx, []string{id})
}

// DeleteCards implements CardService.DeleteCards
func (s *cardServiceImpl) DeleteCards(ctx context.Context, ids []string) error {
	return s.withCards(ctx, "delete", func() error {
		removed := 0
		for _, id := range ids {
			if _, ok := s.cards[id]; ok {
				delete(s.cards, id)
				removed++
			}
		}

		log := logger.FromContextOrDefault(ctx, s.logger)
		if removed == 0 {
			log.Debug("no cards matched for deletion", slog.Int("requested", len(ids)))
			return nil
		}

		log.Debug("cards deleted",
			slog.Int("requested", len(ids)),
			slog.Int("removed", removed))
		return s.saveCards(ctx, "delete")
	})
}

// ReviewCard implements CardService.ReviewCard
func (s *cardServiceImpl) ReviewCard(
	ctx context.Context,
	id string,
	difficulty domain.ReviewDifficulty,
) (*domain.Card, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, difficulty)
	}

	var reviewed domain.Card
	err := s.withCards(ctx, "review", func() error {
		card, ok := s.cards[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrCardNotFound, id)
		}

		// Settings are captured once for the whole review.
		var settings domain.AppSettings
		if err := s.withSettings(ctx, "review", func() error {
			settings = s.settings.Clone()
			return nil
		}); err != nil {
			return err
		}

		now := s.now().UTC()
		next, err := s.srsService.CalculateNextReview(&card, difficulty, settings, now)
		if err != nil {
			return NewCardServiceError("review", "failed to schedule card", err)
		}

		card.LastReviewed = &now
		card.ReviewCount++
		if difficulty.IsCorrect() {
			card.CorrectCount++
		}
		card.Interval = next.Interval
		card.EaseFactor = next.EaseFactor
		card.LeitnerBox = next.LeitnerBox
		card.ExponentialFactor = next.ExponentialFactor
		card.NextReview = next.NextReview

		s.cards[id] = card
		reviewed = card

		logger.FromContextOrDefault(ctx, s.logger).Debug("card reviewed",
			slog.String("card_id", id),
			slog.String("difficulty", string(difficulty)),
			slog.String("algorithm", string(settings.Algorithm)),
			slog.Int("interval", card.Interval),
			slog.Time("next_review", card.NextReview))
		return s.saveCards(ctx, "review")
	})
	if err != nil {
		return nil, err
	}
	return &reviewed, nil
}

// DueCards implements CardService.DueCards
func (s *cardServiceImpl) DueCards(ctx context.Context) ([]domain.Card, error) {
	now := s.now()
	due, err := s.collect(ctx, "due", func(c domain.Card) bool { return c.IsDue(now) })
	if err != nil {
		return nil, err
	}

	// Most overdue first.
	slices.SortStableFunc(due, func(a, b domain.Card) int {
		return a.NextReview.Compare(b.NextReview)
	})
	return due, nil
}

// ReviewStats implements CardService.ReviewStats
func (s *cardServiceImpl) ReviewStats(ctx context.Context) (domain.ReviewStats, error) {
	all, err := s.ListCards(ctx)
	if err != nil {
		return domain.ReviewStats{}, err
	}
	return domain.ComputeReviewStats(all, s.now()), nil
}

// SearchCards implements CardService.SearchCards
func (s *cardServiceImpl) SearchCards(ctx context.Context, query, tag *string) ([]domain.Card, error) {
	var needle string
	if query != nil {
		needle = strings.ToLower(*query)
	}

	return s.collect(ctx, "search", func(c domain.Card) bool {
		if query != nil &&
			!strings.Contains(strings.ToLower(c.Front), needle) &&
			!strings.Contains(strings.ToLower(c.Back), needle) {
			return false
		}
		if tag != nil && !c.HasTag(*tag) {
			return false
		}
		return true
	})
}

// Tags implements CardService.Tags
func (s *cardServiceImpl) Tags(ctx context.Context) ([]string, error) {
	tags := []string{}
	err := s.withCards(ctx, "tags", func() error {
		seen := map[string]struct{}{}
		for _, card := range s.cards {
			if card.Tag == nil {
				continue
			}
			if _, ok := seen[*card.Tag]; !ok {
				seen[*card.Tag] = struct{}{}
				tags = append(tags, *card.Tag)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(tags)
	return tags, nil
}

// TagStats implements CardService.TagStats
func (s *cardServiceImpl) TagStats(ctx context.Context) ([]domain.TagStats, error) {
	all, err := s.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ComputeTagStats(all, s.now()), nil
}

// BulkUpdateTag implements CardService.BulkUpdateTag
func (s *cardServiceImpl) BulkUpdateTag(
	ctx context.Context,
	ids []string,
	tag *string,
) ([]domain.Card, error) {
	updated := []domain.Card{}
	err := s.withCards(ctx, "bulk_tag", func() error {
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			card, ok := s.cards[id]
			if !ok {
				continue
			}
			card.Tag = domain.NormalizeTag(tag)
			s.cards[id] = card
			updated = append(updated, card)
		}

		if len(updated) == 0 {
			return nil
		}

		logger.FromContextOrDefault(ctx, s.logger).Debug("cards retagged",
			slog.Int("requested", len(ids)),
			slog.Int("updated", len(updated)))
		return s.saveCards(ctx, "bulk_tag")
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Settings implements CardService.Settings
func (s *cardServiceImpl) Settings(ctx context.Context) (domain.AppSettings, error) {
	var settings domain.AppSettings
	err := s.withSettings(ctx, "get_settings", func() error {
		settings = s.settings.Clone()
		return nil
	})
	return settings, err
}

// UpdateSettings implements CardService.UpdateSettings
func (s *cardServiceImpl) UpdateSettings(
	ctx context.Context,
	settings domain.AppSettings,
) (domain.AppSettings, error) {
	if err := settings.Validate(); err != nil {
		return domain.AppSettings{}, err
	}
	settings = settings.Clone()

	err := s.withSettings(ctx, "update_settings", func() error {
		s.settings = settings

		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Debug("settings updated", slog.String("algorithm", string(settings.Algorithm)))

		if err := s.settingsStore.SaveSettings(ctx, s.settings); err != nil {
			log.Error("failed to persist settings", slog.String("error", err.Error()))
			return NewCardServiceError("update_settings", "failed to persist settings",
				fmt.Errorf("%w: %w", ErrPersistence, err))
		}
		return nil
	})
	if err != nil {
		return domain.AppSettings{}, err
	}
	return settings.Clone(), nil
}

// collect returns the cards matching keep, ordered by creation time then ID.
func (s *cardServiceImpl) collect(
	ctx context.Context,
	op string,
	keep func(domain.Card) bool,
) ([]domain.Card, error) {
	out := []domain.Card{}
	err := s.withCards(ctx, op, func() error {
		for _, card := range s.cards {
			if keep(card) {
				out = append(out, card)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b domain.Card) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}
