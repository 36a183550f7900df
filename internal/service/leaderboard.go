package service

import (
	"context"
	"fmt"

	"distance-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type LeaderboardService struct {
	ledger LedgerStore
	logger zerolog.Logger
}

func NewLeaderboardService(ledger LedgerStore, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{ledger: ledger, logger: logger}
}

// Standings aggregates a team's ledger into per-member scores and shares.
// Sorting is a presentation choice layered on the unordered aggregate.
func (s *LeaderboardService) Standings(ctx context.Context, team int, sortField string, descending bool) ([]domain.Standing, error) {
	if !domain.ValidTeam(team) {
		return nil, fmt.Errorf("%w: unknown team %d", domain.ErrInvalidInput, team)
	}

	members, err := s.ledger.MemberTotals(ctx, team)
	if err != nil {
		return nil, err
	}
	total, err := s.ledger.TeamTotal(ctx, team)
	if err != nil {
		return nil, err
	}

	standings := domain.BuildStandings(members, total)
	if sortField != "" {
		domain.SortStandings(standings, sortField, descending)
	}
	return standings, nil
}

func (s *LeaderboardService) TeamTotal(ctx context.Context, team int) (float64, error) {
	if !domain.ValidTeam(team) {
		return 0, fmt.Errorf("%w: unknown team %d", domain.ErrInvalidInput, team)
	}
	return s.ledger.TeamTotal(ctx, team)
}
