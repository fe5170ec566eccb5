package worker

// reconcile_cron.go
// Background goroutine that periodically reconciles the denormalized
// productos.stock column against the sum of its inventory rows. Drift can
// appear after manual DB surgery or a crashed transaction; the cron keeps it
// bounded without operator action.

import (
	"context"
	"time"

	"github.com/Eduardv6/SisPOS-Backend/internal/dto"

	"github.com/rs/zerolog/log"
)

// Reconciliador recomputes cached stock totals. Satisfied by the inventory
// service; declared here to keep the dependency pointing one way.
type Reconciliador interface {
	Reconciliar(ctx context.Context) (*dto.ReconciliacionResponse, error)
}

// StartReconcileCron launches a goroutine that runs a reconciliation pass on
// every tick. It respects the context for graceful shutdown.
func StartReconcileCron(ctx context.Context, svc Reconciliador, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("reconcile_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reconcile_cron: shutting down")
				return
			case <-ticker.C:
				res, err := svc.Reconciliar(ctx)
				if err != nil {
					log.Error().Err(err).Msg("reconcile_cron: pass failed")
					continue
				}
				if res.Corregidos > 0 {
					log.Warn().
						Int("revisados", res.Revisados).
						Int("corregidos", res.Corregidos).
						Msg("reconcile_cron: stock drift corrected")
				} else {
					log.Debug().Int("revisados", res.Revisados).Msg("reconcile_cron: no drift")
				}
			}
		}
	}()
}
