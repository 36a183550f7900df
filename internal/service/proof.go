package service

import (
	"context"
	"fmt"
	"time"

	"distance-tracker/internal/domain"
	"distance-tracker/internal/feed"
	"distance-tracker/internal/storage"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

const proofSuffixLength = 8

// ImageNormalizer prepares an uploaded image for storage.
type ImageNormalizer interface {
	Normalize(data []byte) ([]byte, error)
}

type ProofService struct {
	ledger     LedgerStore
	objects    storage.ObjectStore
	normalizer ImageNormalizer
	notifier   *feed.Notifier
	logger     zerolog.Logger
}

func NewProofService(ledger LedgerStore, objects storage.ObjectStore, normalizer ImageNormalizer, notifier *feed.Notifier, logger zerolog.Logger) *ProofService {
	return &ProofService{
		ledger:     ledger,
		objects:    objects,
		normalizer: normalizer,
		notifier:   notifier,
		logger:     logger,
	}
}

// AttachProof stores an evidence image for an entry and records its
// locator. An empty entryID targets the person's latest entry. An entry
// holds at most one proof; an existing reference is never overwritten.
// The row is only touched after the upload succeeded; if the row update
// then fails the object is orphaned and left to the reconciler.
func (s *ProofService) AttachProof(ctx context.Context, personID, entryID string, imageData []byte) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry
	var err error
	if entryID == "" {
		entry, err = s.ledger.Latest(ctx, personID)
	} else {
		entry, err = s.ledger.GetOwned(ctx, entryID, personID)
	}
	if err != nil {
		return nil, err
	}

	if entry.HasProof() {
		return nil, fmt.Errorf("%w: entry %s", domain.ErrAlreadyHasProof, entry.ID)
	}

	normalized, err := s.normalizer.Normalize(imageData)
	if err != nil {
		return nil, err
	}

	suffix, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", proofSuffixLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate proof suffix: %w", err)
	}
	path := fmt.Sprintf("proof/%s/%d_%s.jpg", personID, time.Now().UnixMilli(), suffix)

	url, err := s.objects.Put(ctx, path, normalized, "image/jpeg")
	if err != nil {
		return nil, err
	}

	if err := s.ledger.SetProof(ctx, entry.ID, path, url); err != nil {
		// The object is already in the bucket; the reconciler sweeps it up.
		s.logger.Error().Err(err).Str("entry", entry.ID).Str("path", path).Msg("proof stored but reference update failed")
		return nil, fmt.Errorf("%w: proof stored at %s but entry not updated: %v", domain.ErrPartialFailure, path, err)
	}

	s.notifier.Publish(feed.Event{Team: entry.Team, Kind: feed.KindUpdate})

	entry.ProofPath = path
	entry.ProofURL = url

	s.logger.Info().Str("person", personID).Str("entry", entry.ID).Str("path", path).Msg("proof attached")
	return entry, nil
}

// DetachProof removes the object first and only then clears the
// reference; a failed removal leaves the reference intact rather than
// orphaning the object.
func (s *ProofService) DetachProof(ctx context.Context, personID, entryID string) error {
	entry, err := s.ledger.GetOwned(ctx, entryID, personID)
	if err != nil {
		return err
	}
	if !entry.HasProof() {
		return fmt.Errorf("%w: entry %s has no proof", domain.ErrNotFound, entryID)
	}

	if err := s.objects.Delete(ctx, entry.ProofPath); err != nil {
		return err
	}

	if err := s.ledger.ClearProof(ctx, entry.ID); err != nil {
		return fmt.Errorf("%w: proof object removed but reference not cleared: %v", domain.ErrPartialFailure, err)
	}

	s.notifier.Publish(feed.Event{Team: entry.Team, Kind: feed.KindUpdate})

	s.logger.Info().Str("person", personID).Str("entry", entryID).Msg("proof detached")
	return nil
}

// Gallery lists the person's proofed entries, newest first.
func (s *ProofService) Gallery(ctx context.Context, personID string) ([]domain.ProofItem, error) {
	entries, err := s.ledger.Gallery(ctx, personID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ProofItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, domain.ProofItem{
			EntryID:   e.ID,
			ProofURL:  e.ProofURL,
			CreatedAt: e.CreatedAt,
		})
	}
	return items, nil
}
