// Package reconcile sweeps proof objects that lost their ledger reference,
// the one failure mode AttachProof knowingly leaves behind.
package reconcile

import (
	"context"
	"sync"

	"distance-tracker/internal/constants"
	"distance-tracker/internal/storage"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const proofPrefix = "proof/"

// RefSource exposes the set of proof paths the ledger still references.
type RefSource interface {
	ProofPaths(ctx context.Context) (map[string]struct{}, error)
}

type Reconciler struct {
	refs    RefSource
	objects storage.ObjectStore
	logger  zerolog.Logger
}

func NewReconciler(refs RefSource, objects storage.ObjectStore, logger zerolog.Logger) *Reconciler {
	return &Reconciler{refs: refs, objects: objects, logger: logger}
}

// Sweep deletes every bucket object under the proof prefix that no ledger
// entry references, and returns the removed paths. It is invoked on
// demand; a failed attach is never retried into it automatically.
func (r *Reconciler) Sweep(ctx context.Context) ([]string, error) {
	referenced, err := r.refs.ProofPaths(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := r.objects.List(ctx, proofPrefix)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.ReconcileWorkers)

	var mu sync.Mutex
	var removed []string

	for _, path := range stored {
		if _, ok := referenced[path]; ok {
			continue
		}
		g.Go(func() error {
			if err := r.objects.Delete(ctx, path); err != nil {
				r.logger.Error().Err(err).Str("path", path).Msg("failed to remove orphaned proof")
				return err
			}
			r.logger.Info().Str("path", path).Msg("orphaned proof removed")
			mu.Lock()
			removed = append(removed, path)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return removed, err
	}
	return removed, nil
}
