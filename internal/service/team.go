package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"distance-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type TeamService struct {
	people PersonStore
	logger zerolog.Logger
}

func NewTeamService(people PersonStore, logger zerolog.Logger) *TeamService {
	return &TeamService{people: people, logger: logger}
}

// SetTeam applies a person's team selection. Only future ledger entries
// pick up the new assignment; nothing historical is recomputed.
func (s *TeamService) SetTeam(ctx context.Context, personID, selector string) error {
	team, err := domain.ParseTeamSelector(selector)
	if err != nil {
		return err
	}

	if err := s.people.SetTeam(ctx, personID, team); err != nil {
		return fmt.Errorf("failed to update team assignment: %w", err)
	}

	s.logger.Info().Str("person", personID).Str("selector", selector).Msg("team selected")
	return nil
}

// People lists everyone, for picking draw participants.
func (s *TeamService) People(ctx context.Context) ([]domain.Person, error) {
	return s.people.List(ctx)
}

// Randomize shuffles the selected people into two halves and persists the
// assignments in bulk. Anyone not selected loses their team; the draw is
// a full reset, not an incremental move.
func (s *TeamService) Randomize(ctx context.Context, personIDs []string) (*domain.TeamDraw, error) {
	if len(personIDs) < 2 {
		return nil, fmt.Errorf("%w: select at least 2 people", domain.ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(personIDs))
	people := make([]domain.Person, 0, len(personIDs))
	for _, id := range personIDs {
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate person %s", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}

		person, err := s.people.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		people = append(people, *person)
	}

	rand.Shuffle(len(people), func(i, j int) {
		people[i], people[j] = people[j], people[i]
	})

	mid := (len(people) + 1) / 2
	draw := &domain.TeamDraw{Blue: people[:mid], Red: people[mid:]}

	blueIDs := make([]string, 0, len(draw.Blue))
	for _, p := range draw.Blue {
		blueIDs = append(blueIDs, p.ID)
	}
	redIDs := make([]string, 0, len(draw.Red))
	for _, p := range draw.Red {
		redIDs = append(redIDs, p.ID)
	}

	if err := s.people.AssignTeams(ctx, blueIDs, redIDs); err != nil {
		return nil, fmt.Errorf("failed to save drawn teams: %w", err)
	}

	blue, red := domain.TeamBlue, domain.TeamRed
	for i := range draw.Blue {
		draw.Blue[i].Team = &blue
	}
	for i := range draw.Red {
		draw.Red[i].Team = &red
	}

	s.logger.Info().Int("blue", len(draw.Blue)).Int("red", len(draw.Red)).Msg("teams randomized")
	return draw, nil
}

func (s *TeamService) Rename(ctx context.Context, personID, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
	}
	if err := s.people.SetName(ctx, personID, name); err != nil {
		return fmt.Errorf("failed to rename person: %w", err)
	}
	return nil
}
