package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"distance-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PersonRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPersonRepository(db *sql.DB, logger zerolog.Logger) *PersonRepository {
	return &PersonRepository{db: db, logger: logger}
}

// Create inserts a person row. The password hash is passed separately so
// domain.Person never carries credential material.
func (r *PersonRepository) Create(ctx context.Context, person *domain.Person, passwordHash string) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO people (id, name, email, password_hash, is_admin, team, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		person.ID, person.Name, person.Email, passwordHash, person.IsAdmin, person.Team, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	person.CreatedAt = now
	person.UpdatedAt = now
	return nil
}

func (r *PersonRepository) List(ctx context.Context) ([]domain.Person, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, is_admin, team, created_at, updated_at
		FROM people ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []domain.Person
	for rows.Next() {
		var p domain.Person
		var team sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.IsAdmin, &team, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		if team.Valid {
			t := int(team.Int64)
			p.Team = &t
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (r *PersonRepository) Get(ctx context.Context, id string) (*domain.Person, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, is_admin, team, created_at, updated_at
		FROM people WHERE id = ?`, id)
	return scanPerson(row)
}

func (r *PersonRepository) GetByEmail(ctx context.Context, email string) (*domain.Person, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, is_admin, team, created_at, updated_at, password_hash
		FROM people WHERE email = ?`, email)

	var p domain.Person
	var team sql.NullInt64
	var hash string
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.IsAdmin, &team, &p.CreatedAt, &p.UpdatedAt, &hash)
	if err == sql.ErrNoRows {
		return nil, "", domain.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get person by email: %w", err)
	}
	if team.Valid {
		t := int(team.Int64)
		p.Team = &t
	}
	return &p, hash, nil
}

// SetTeam updates the person's current assignment only. Historical ledger
// entries keep the team they were stamped with.
func (r *PersonRepository) SetTeam(ctx context.Context, id string, team *int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE people SET team = ?, updated_at = ? WHERE id = ?`,
		team, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set team: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	r.logger.Debug().Str("person", id).Interface("team", team).Msg("team assignment updated")
	return nil
}

// AssignTeams replaces every assignment in one transaction: all teams are
// cleared, then the two drawn halves are written. People outside the draw
// end up unassigned.
func (r *PersonRepository) AssignTeams(ctx context.Context, blueIDs, redIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.ExecContext(ctx, `UPDATE people SET team = NULL, updated_at = ?`, now); err != nil {
		return fmt.Errorf("failed to reset teams: %w", err)
	}

	assign := func(team int, ids []string) error {
		for _, id := range ids {
			res, err := tx.ExecContext(ctx,
				`UPDATE people SET team = ?, updated_at = ? WHERE id = ?`, team, now, id)
			if err != nil {
				return fmt.Errorf("failed to assign team: %w", err)
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return fmt.Errorf("%w: person %s", domain.ErrNotFound, id)
			}
		}
		return nil
	}
	if err := assign(domain.TeamBlue, blueIDs); err != nil {
		return err
	}
	if err := assign(domain.TeamRed, redIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit team assignments: %w", err)
	}

	r.logger.Info().Int("blue", len(blueIDs)).Int("red", len(redIDs)).Msg("teams reassigned from draw")
	return nil
}

func (r *PersonRepository) SetName(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE people SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set name: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PersonRepository) IsAdmin(ctx context.Context, id string) (bool, error) {
	var isAdmin bool
	err := r.db.QueryRowContext(ctx,
		`SELECT is_admin FROM people WHERE id = ?`, id,
	).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin flag: %w", err)
	}
	return isAdmin, nil
}

func scanPerson(row *sql.Row) (*domain.Person, error) {
	var p domain.Person
	var team sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.IsAdmin, &team, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan person: %w", err)
	}
	if team.Valid {
		t := int(team.Int64)
		p.Team = &t
	}
	return &p, nil
}
