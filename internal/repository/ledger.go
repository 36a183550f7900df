package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"distance-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type LedgerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewLedgerRepository(db *sql.DB, logger zerolog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, logger: logger}
}

// InsertStamped reads the person's current team and appends the entry in a
// single transaction, so a concurrent reassignment cannot slip between the
// read and the insert.
func (r *LedgerRepository) InsertStamped(ctx context.Context, personID string, km float64) (*domain.LedgerEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var team sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT team FROM people WHERE id = ?`, personID).Scan(&team)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read team assignment: %w", err)
	}
	if !team.Valid {
		return nil, domain.ErrNoTeamAssigned
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate entry id: %w", err)
	}

	entry := &domain.LedgerEntry{
		ID:        id,
		Person:    personID,
		Km:        km,
		Team:      int(team.Int64),
		CreatedAt: time.Now(),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, person, km, team, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Person, entry.Km, entry.Team, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ledger entry: %w", err)
	}

	r.logger.Debug().
		Str("entry", entry.ID).
		Str("person", personID).
		Float64("km", km).
		Int("team", entry.Team).
		Msg("ledger entry appended")

	return entry, nil
}

func (r *LedgerRepository) GetOwned(ctx context.Context, entryID, ownerID string) (*domain.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, person, km, team, proof_path, proof_url, created_at
		FROM ledger_entries WHERE id = ? AND person = ?`, entryID, ownerID)
	return scanEntry(row)
}

// Latest returns the person's most recent entry, regardless of km.
func (r *LedgerRepository) Latest(ctx context.Context, personID string) (*domain.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, person, km, team, proof_path, proof_url, created_at
		FROM ledger_entries WHERE person = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`, personID)
	return scanEntry(row)
}

func (r *LedgerRepository) Delete(ctx context.Context, entryID, ownerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM ledger_entries WHERE id = ? AND person = ?`, entryID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetProof attaches a proof reference, guarding against overwriting an
// existing one even under concurrent attach attempts.
func (r *LedgerRepository) SetProof(ctx context.Context, entryID, path, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ledger_entries SET proof_path = ?, proof_url = ? WHERE id = ? AND proof_path IS NULL`,
		path, url, entryID)
	if err != nil {
		return fmt.Errorf("failed to set proof reference: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM ledger_entries WHERE id = ?`, entryID).Scan(&exists); err == nil {
			return domain.ErrAlreadyHasProof
		}
		return domain.ErrNotFound
	}
	return nil
}

func (r *LedgerRepository) ClearProof(ctx context.Context, entryID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ledger_entries SET proof_path = NULL, proof_url = NULL WHERE id = ?`,
		entryID)
	if err != nil {
		return fmt.Errorf("failed to clear proof reference: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// History lists a person's non-zero entries, newest first.
func (r *LedgerRepository) History(ctx context.Context, personID string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, person, km, team, proof_path, proof_url, created_at
		FROM ledger_entries WHERE person = ? AND km != 0
		ORDER BY created_at DESC, id DESC LIMIT ?`, personID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// Gallery lists a person's entries that carry a proof, newest first.
func (r *LedgerRepository) Gallery(ctx context.Context, personID string) ([]domain.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, person, km, team, proof_path, proof_url, created_at
		FROM ledger_entries WHERE person = ? AND proof_url IS NOT NULL
		ORDER BY created_at DESC, id DESC`, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// MemberTotals is the per-person totals view for one team, derived from the
// entries' stamped team rather than the current assignment.
func (r *LedgerRepository) MemberTotals(ctx context.Context, team int) ([]domain.MemberTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.person, COALESCE(p.name, ''), l.team, SUM(l.km)
		FROM ledger_entries l
		LEFT JOIN people p ON p.id = l.person
		WHERE l.team = ?
		GROUP BY l.person
		ORDER BY l.person`, team)
	if err != nil {
		return nil, fmt.Errorf("failed to query member totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.MemberTotal
	for rows.Next() {
		var t domain.MemberTotal
		if err := rows.Scan(&t.Person, &t.Name, &t.Team, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan member total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *LedgerRepository) TeamTotal(ctx context.Context, team int) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(km), 0) FROM ledger_entries WHERE team = ?`, team,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to query team total: %w", err)
	}
	return total, nil
}

func (r *LedgerRepository) PersonTotal(ctx context.Context, personID string) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(km), 0) FROM ledger_entries WHERE person = ?`, personID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to query person total: %w", err)
	}
	return total, nil
}

// ActiveDays returns the timestamps of a person's non-zero entries for the
// streak calculation.
func (r *LedgerRepository) ActiveDays(ctx context.Context, personID string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT created_at FROM ledger_entries
		WHERE person = ? AND km != 0
		ORDER BY created_at DESC`, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active days: %w", err)
	}
	defer rows.Close()

	var timestamps []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("failed to scan timestamp: %w", err)
		}
		timestamps = append(timestamps, ts)
	}
	return timestamps, rows.Err()
}

// ProofPaths lists every referenced proof object path, for reconciliation
// against the bucket contents.
func (r *LedgerRepository) ProofPaths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT proof_path FROM ledger_entries WHERE proof_path IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query proof paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan proof path: %w", err)
		}
		paths[path] = struct{}{}
	}
	return paths, rows.Err()
}

func scanEntry(row *sql.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var proofPath, proofURL sql.NullString
	err := row.Scan(&e.ID, &e.Person, &e.Km, &e.Team, &proofPath, &proofURL, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}
	e.ProofPath = proofPath.String
	e.ProofURL = proofURL.String
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var proofPath, proofURL sql.NullString
		if err := rows.Scan(&e.ID, &e.Person, &e.Km, &e.Team, &proofPath, &proofURL, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.ProofPath = proofPath.String
		e.ProofURL = proofURL.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
