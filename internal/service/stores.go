// Package service implements the application operations on top of the
// repositories and the object store. Services depend on interfaces so
// tests run against fakes instead of a live backend.
package service

import (
	"context"
	"time"

	"distance-tracker/internal/domain"
)

type PersonStore interface {
	Create(ctx context.Context, person *domain.Person, passwordHash string) error
	Get(ctx context.Context, id string) (*domain.Person, error)
	GetByEmail(ctx context.Context, email string) (*domain.Person, string, error)
	List(ctx context.Context) ([]domain.Person, error)
	SetTeam(ctx context.Context, id string, team *int) error
	SetName(ctx context.Context, id, name string) error
	AssignTeams(ctx context.Context, blueIDs, redIDs []string) error
	IsAdmin(ctx context.Context, id string) (bool, error)
}

type LedgerStore interface {
	InsertStamped(ctx context.Context, personID string, km float64) (*domain.LedgerEntry, error)
	GetOwned(ctx context.Context, entryID, ownerID string) (*domain.LedgerEntry, error)
	Latest(ctx context.Context, personID string) (*domain.LedgerEntry, error)
	Delete(ctx context.Context, entryID, ownerID string) error
	SetProof(ctx context.Context, entryID, path, url string) error
	ClearProof(ctx context.Context, entryID string) error
	History(ctx context.Context, personID string, limit int) ([]domain.LedgerEntry, error)
	Gallery(ctx context.Context, personID string) ([]domain.LedgerEntry, error)
	MemberTotals(ctx context.Context, team int) ([]domain.MemberTotal, error)
	TeamTotal(ctx context.Context, team int) (float64, error)
	PersonTotal(ctx context.Context, personID string) (float64, error)
	ActiveDays(ctx context.Context, personID string) ([]time.Time, error)
	ProofPaths(ctx context.Context) (map[string]struct{}, error)
}
