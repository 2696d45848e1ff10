package services

import (
	"testing"
	"time"

	"github.com/join-board/join-api/internal/logging"
	"github.com/join-board/join-api/internal/models"
	"github.com/join-board/join-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testRepos struct {
	db       *gorm.DB
	users    repository.UserRepository
	tokens   repository.TokenRepository
	contacts repository.ContactRepository
	tasks    repository.TaskRepository
	subtasks repository.SubtaskRepository
}

func setupTestDB(t *testing.T) testRepos {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Contact{},
		&models.Task{},
		&models.TaskUserDetails{},
		&models.Subtask{},
	))

	return testRepos{
		db:       db,
		users:    repository.NewUserRepository(db),
		tokens:   repository.NewTokenRepository(db),
		contacts: repository.NewContactRepository(db),
		tasks:    repository.NewTaskRepository(db),
		subtasks: repository.NewSubtaskRepository(db),
	}
}

func (r testRepos) insertUser(t *testing.T, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, PasswordHash: "x", IsActive: true}
	require.NoError(t, r.db.Create(user).Error)
	return user
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

var testLog = logging.Discard()
