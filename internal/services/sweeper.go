package services

import (
	"context"
	"log"
	"time"

	"tutsin-digital/internal/storage"
)

// SessionSweeper purges expired client and admin sessions on an interval so
// the session tables stay bounded. Expiry itself is passive: reads already
// treat expired sessions as absent.
type SessionSweeper struct {
	store    storage.Storage
	interval time.Duration
	stop     chan struct{}
}

func NewSessionSweeper(store storage.Storage, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (s *SessionSweeper) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				purged, err := s.store.DeleteExpiredSessions(context.Background(), time.Now())
				if err != nil {
					log.Printf("Session sweep failed: %v", err)
					continue
				}
				if purged > 0 {
					log.Printf("Session sweep purged %d expired sessions", purged)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *SessionSweeper) Stop() {
	close(s.stop)
}
