package auth

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mwalczyk/webauth/internal/config"
	"github.com/mwalczyk/webauth/internal/database/sessions"
	"github.com/mwalczyk/webauth/internal/database/users"
	"github.com/mwalczyk/webauth/internal/entities"
)

// sessionIDBytes is the entropy of a session identifier. 20 random
// bytes encode to a 32-character base32 string.
const sessionIDBytes = 20

var sessionIDEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// SessionManager creates, validates, and invalidates database-backed
// sessions and owns the session cookie lifecycle.
type SessionManager struct {
	users    *users.Repository
	sessions *sessions.Repository
	lifetime time.Duration
	secure   bool // cookie Secure attribute, true in production
}

// NewSessionManager creates a configured session manager.
func NewSessionManager(userRepo *users.Repository, sessionRepo *sessions.Repository, cfg config.Auth, secureCookies bool) *SessionManager {
	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &SessionManager{
		users:    userRepo,
		sessions: sessionRepo,
		lifetime: lifetime,
		secure:   secureCookies,
	}
}

// Lifetime returns the configured session lifetime.
func (sm *SessionManager) Lifetime() time.Duration {
	return sm.lifetime
}

// CreateSession generates a new session for the user and persists it
// with a full lifetime expiry.
func (sm *SessionManager) CreateSession(userID uint) (*entities.Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	session := &entities.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: time.Now().Add(sm.lifetime),
	}
	if err := sm.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ValidateSession resolves a session ID to its (session, user) pair.
//
// Unknown and expired sessions resolve to (nil, nil, false, nil);
// expired and orphaned rows are deleted on the way. When the session
// has passed half its lifetime the expiry is extended to a full
// lifetime again and fresh=true tells the caller to reissue the
// cookie. Store failures are returned as errors.
func (sm *SessionManager) ValidateSession(id string) (*entities.Session, *entities.User, bool, error) {
	if id == "" {
		return nil, nil, false, nil
	}

	session, err := sm.sessions.GetByID(id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, nil, false, nil
		}
		return nil, nil, false, fmt.Errorf("failed to load session: %w", err)
	}

	now := time.Now()
	if !now.Before(session.ExpiresAt) {
		if err := sm.sessions.Delete(session.ID); err != nil {
			return nil, nil, false, fmt.Errorf("failed to delete expired session: %w", err)
		}
		return nil, nil, false, nil
	}

	user, err := sm.users.GetByID(session.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			// Owning user is gone, the session is orphaned.
			if err := sm.sessions.Delete(session.ID); err != nil {
				return nil, nil, false, fmt.Errorf("failed to delete orphaned session: %w", err)
			}
			return nil, nil, false, nil
		}
		return nil, nil, false, fmt.Errorf("failed to load session user: %w", err)
	}

	fresh := session.ExpiresAt.Sub(now) < sm.lifetime/2
	if fresh {
		session.ExpiresAt = now.Add(sm.lifetime)
		if err := sm.sessions.UpdateExpiry(session.ID, session.ExpiresAt); err != nil {
			return nil, nil, false, fmt.Errorf("failed to renew session: %w", err)
		}
	}

	return session, user, fresh, nil
}

// InvalidateSession deletes the session row. Idempotent.
func (sm *SessionManager) InvalidateSession(id string) error {
	return sm.sessions.Delete(id)
}

// generateSessionID creates a cryptographically random session
// identifier with sessionIDBytes of entropy.
func generateSessionID() (string, error) {
	bytes := make([]byte, sessionIDBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return strings.ToLower(sessionIDEncoding.EncodeToString(bytes)), nil
}
