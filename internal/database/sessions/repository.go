// Package sessions provides database operations for login sessions.
package sessions

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mwalczyk/webauth/internal/entities"
)

// ErrNotFound is returned when no session matches the given ID.
var ErrNotFound = errors.New("session not found")

// Repository handles all session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new session row.
func (r *Repository) Create(session *entities.Session) error {
	return r.db.Create(session).Error
}

// GetByID retrieves a session by its identifier.
func (r *Repository) GetByID(id string) (*entities.Session, error) {
	var session entities.Session
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// UpdateExpiry moves a session's expiry to a new point in time.
func (r *Repository) UpdateExpiry(id string, expiresAt time.Time) error {
	return r.db.Model(&entities.Session{}).
		Where("id = ?", id).
		Update("expires_at", expiresAt).Error
}

// Delete removes a session row. Deleting a session that no longer
// exists is not an error, which makes invalidation idempotent.
func (r *Repository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.Session{}).Error
}

// DeleteForUser removes every session belonging to a user and returns
// the number of rows deleted.
func (r *Repository) DeleteForUser(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&entities.Session{})
	return result.RowsAffected, result.Error
}

// DeleteExpired removes all sessions that expired before now and
// returns the number of rows deleted. Used by the cleanup scheduler;
// expired sessions are also deleted lazily on validation.
func (r *Repository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&entities.Session{})
	return result.RowsAffected, result.Error
}
