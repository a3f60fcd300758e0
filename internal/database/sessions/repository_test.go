package sessions

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mwalczyk/webauth/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_sessions_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Session{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func newSession(id string, userID uint, expiresAt time.Time) *entities.Session {
	return &entities.Session{ID: id, UserID: userID, ExpiresAt: expiresAt}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	expiry := time.Now().Add(time.Hour)
	err := repo.Create(newSession("sess-1", 42, expiry))
	require.NoError(t, err)

	session, err := repo.GetByID("sess-1")
	require.NoError(t, err)
	assert.EqualValues(t, 42, session.UserID)
	assert.WithinDuration(t, expiry, session.ExpiresAt, time.Second)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_UpdateExpiry(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(newSession("sess-1", 1, time.Now().Add(time.Minute))))

	renewed := time.Now().Add(2 * time.Hour)
	require.NoError(t, repo.UpdateExpiry("sess-1", renewed))

	session, err := repo.GetByID("sess-1")
	require.NoError(t, err)
	assert.WithinDuration(t, renewed, session.ExpiresAt, time.Second)
}

func TestRepository_Delete_Idempotent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(newSession("sess-1", 1, time.Now().Add(time.Hour))))

	require.NoError(t, repo.Delete("sess-1"))
	_, err := repo.GetByID("sess-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is not an error
	require.NoError(t, repo.Delete("sess-1"))
}

func TestRepository_DeleteForUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(newSession("a", 1, time.Now().Add(time.Hour))))
	require.NoError(t, repo.Create(newSession("b", 1, time.Now().Add(time.Hour))))
	require.NoError(t, repo.Create(newSession("c", 2, time.Now().Add(time.Hour))))

	deleted, err := repo.DeleteForUser(1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	_, err = repo.GetByID("c")
	assert.NoError(t, err)
}

func TestRepository_DeleteExpired(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	require.NoError(t, repo.Create(newSession("expired-1", 1, now.Add(-time.Hour))))
	require.NoError(t, repo.Create(newSession("expired-2", 1, now.Add(-time.Minute))))
	require.NoError(t, repo.Create(newSession("live", 1, now.Add(time.Hour))))

	deleted, err := repo.DeleteExpired(now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	_, err = repo.GetByID("live")
	assert.NoError(t, err)

	// Nothing left to delete
	deleted, err = repo.DeleteExpired(now)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
