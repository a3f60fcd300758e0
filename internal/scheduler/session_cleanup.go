// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mwalczyk/webauth/internal/config"
	"github.com/mwalczyk/webauth/internal/database/sessions"
)

// SessionCleanup periodically deletes expired session rows. Expired
// sessions are also removed lazily on validation; this job keeps rows
// for abandoned sessions from accumulating.
type SessionCleanup struct {
	sessions *sessions.Repository
	config   config.Cleanup

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

// NewSessionCleanup creates a new cleanup scheduler.
func NewSessionCleanup(sessionRepo *sessions.Repository, cfg config.Cleanup) *SessionCleanup {
	return &SessionCleanup{
		sessions: sessionRepo,
		config:   cfg,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if cleanup is enabled.
func (s *SessionCleanup) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Session cleanup scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, s.runCleanup)
	if err != nil {
		return fmt.Errorf("failed to schedule session cleanup: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true
	log.Printf("Session cleanup scheduler: started with schedule %q", s.config.Schedule)

	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *SessionCleanup) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Session cleanup scheduler: stopped")
}

func (s *SessionCleanup) runCleanup() {
	deleted, err := s.sessions.DeleteExpired(time.Now())
	if err != nil {
		log.Printf("Session cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Session cleanup: removed %d expired sessions", deleted)
	}
}
