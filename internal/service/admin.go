package service

import (
	"context"
	"slices"

	"distance-tracker/internal/config"
)

// AdminPolicy decides who may hit admin operations. The variant is picked
// at wiring time from configuration, not by branching at call sites.
type AdminPolicy interface {
	IsAdmin(ctx context.Context, personID string) (bool, error)
}

// StaticAllowlist grants admin to a fixed set of person ids.
type StaticAllowlist struct {
	ids []string
}

func (p *StaticAllowlist) IsAdmin(_ context.Context, personID string) (bool, error) {
	return slices.Contains(p.ids, personID), nil
}

// StoreFlagPolicy consults the is_admin flag on the person row.
type StoreFlagPolicy struct {
	people PersonStore
}

func (p *StoreFlagPolicy) IsAdmin(ctx context.Context, personID string) (bool, error) {
	return p.people.IsAdmin(ctx, personID)
}

// NewAdminPolicy selects the allowlist when one is configured, otherwise
// the store flag lookup.
func NewAdminPolicy(cfg *config.Config, people PersonStore) AdminPolicy {
	if len(cfg.AdminIDs) > 0 {
		return &StaticAllowlist{ids: cfg.AdminIDs}
	}
	return &StoreFlagPolicy{people: people}
}
