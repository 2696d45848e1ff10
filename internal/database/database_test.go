package database

import (
	"testing"

	"github.com/join-board/join-api/internal/config"
	"github.com/join-board/join-api/internal/constants"
	"github.com/join-board/join-api/internal/logging"
	"github.com/join-board/join-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   "file::memory:",
	}
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{config.DriverMySQL, "mysql"},
		{config.DriverPostgres, "postgres"},
		{config.DriverSQLite, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := Dialector(&config.Config{DBDriver: tt.driver, DBHost: "localhost", DBPort: "5432"})
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestConnectAndMigrate(t *testing.T) {
	log := logging.Discard()

	db, err := Connect(testConfig(), log)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, Migrate(db, log))

	for _, model := range []interface{}{
		&models.User{},
		&models.AuthToken{},
		&models.Contact{},
		&models.Task{},
		&models.TaskUserDetails{},
		&models.Subtask{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}

	for _, idx := range compositeIndexes {
		assert.True(t, db.Migrator().HasIndex(idx.table, idx.name), idx.name)
	}

	// Running again must not fail on existing indexes or duplicate the guest
	require.NoError(t, Migrate(db, log))

	var guests []models.User
	require.NoError(t, db.Where("email = ?", constants.GuestEmail).Find(&guests).Error)
	require.Len(t, guests, 1)
	assert.True(t, guests[0].IsGuest)
	assert.True(t, guests[0].IsActive)
	assert.Equal(t, constants.GuestUsername, guests[0].Username)
	assert.Empty(t, guests[0].PasswordHash)
}
