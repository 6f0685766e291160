// Package reconcile watches for succeeded payments that never produced
// an order, the gap left when a checkout is abandoned after the charge.
package reconcile

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"shop-checkout-service/internal/repository"
)

type Sweeper struct {
	intentRepo repository.IntentRepository
	interval   time.Duration
	ageLimit   time.Duration
	stop       chan struct{}
	done       chan struct{}
}

func NewSweeper(intentRepo repository.IntentRepository, interval, ageLimit time.Duration) *Sweeper {
	return &Sweeper{
		intentRepo: intentRepo,
		interval:   interval,
		ageLimit:   ageLimit,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if err := s.SweepOnce(context.Background()); err != nil {
					log.Println("reconcile sweep:", err)
				}
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

// SweepOnce flags every succeeded intent older than the age limit that
// has no order. Flagging is idempotent; an intent is alerted once.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	cutoff := time.Now().Add(-s.ageLimit)

	orphans, err := s.intentRepo.FindOrphaned(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, intent := range orphans {
		alert, _ := json.Marshal(map[string]any{
			"alert":      "orphaned_payment_intent",
			"intent_id":  intent.ExternalID,
			"user_id":    intent.UserID,
			"amount":     intent.Amount,
			"currency":   intent.Currency,
			"created_at": intent.CreatedAt.UTC().Format(time.RFC3339),
			"message":    "payment succeeded but no order was placed; operator review required",
		})
		log.Print(string(alert))

		if err := s.intentRepo.MarkFlagged(ctx, intent.ExternalID); err != nil {
			return err
		}
	}

	return nil
}
