package service

import (
	"context"
	"fmt"
	"time"

	"distance-tracker/internal/constants"
	"distance-tracker/internal/domain"
	"distance-tracker/internal/feed"
	"distance-tracker/internal/storage"

	"github.com/rs/zerolog"
)

type LedgerService struct {
	ledger   LedgerStore
	objects  storage.ObjectStore
	notifier *feed.Notifier
	logger   zerolog.Logger
}

func NewLedgerService(ledger LedgerStore, objects storage.ObjectStore, notifier *feed.Notifier, logger zerolog.Logger) *LedgerService {
	return &LedgerService{ledger: ledger, objects: objects, notifier: notifier, logger: logger}
}

// RecordActivity appends a signed ledger entry stamped with the person's
// current team. sign +1 logs activity, -1 corrects it.
func (s *LedgerService) RecordActivity(ctx context.Context, personID string, distanceKm float64, activity domain.Activity, sign int) (*domain.LedgerEntry, error) {
	km, err := domain.SignedDistance(distanceKm, activity, sign)
	if err != nil {
		return nil, err
	}

	entry, err := s.ledger.InsertStamped(ctx, personID, km)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(feed.Event{Team: entry.Team, Kind: feed.KindInsert})

	s.logger.Info().
		Str("person", personID).
		Str("entry", entry.ID).
		Float64("km", km).
		Str("activity", string(activity)).
		Msg("activity recorded")

	return entry, nil
}

// DeleteEntry removes an owned entry. A proof object attached to it is
// released first so a retried record deletion can never strand the object.
func (s *LedgerService) DeleteEntry(ctx context.Context, entryID, ownerID string) error {
	entry, err := s.ledger.GetOwned(ctx, entryID, ownerID)
	if err != nil {
		return err
	}

	if entry.HasProof() {
		if err := s.objects.Delete(ctx, entry.ProofPath); err != nil {
			return fmt.Errorf("proof object not released, entry kept: %w", err)
		}
	}

	if err := s.ledger.Delete(ctx, entryID, ownerID); err != nil {
		if entry.HasProof() {
			// Object already gone, row still there.
			return fmt.Errorf("%w: proof released but entry not deleted: %v", domain.ErrPartialFailure, err)
		}
		return err
	}

	s.notifier.Publish(feed.Event{Team: entry.Team, Kind: feed.KindDelete})

	s.logger.Info().Str("person", ownerID).Str("entry", entryID).Msg("ledger entry deleted")
	return nil
}

func (s *LedgerService) History(ctx context.Context, personID string) ([]domain.LedgerEntry, error) {
	return s.ledger.History(ctx, personID, constants.HistoryLimit)
}

func (s *LedgerService) PersonTotal(ctx context.Context, personID string) (float64, error) {
	return s.ledger.PersonTotal(ctx, personID)
}

// Streak reports the person's consecutive-day run ending today.
func (s *LedgerService) Streak(ctx context.Context, personID string) (int, error) {
	timestamps, err := s.ledger.ActiveDays(ctx, personID)
	if err != nil {
		return 0, err
	}
	return domain.Streak(timestamps, time.Now()), nil
}
