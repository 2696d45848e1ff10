package database

import (
	"fmt"
	"strings"

	"github.com/join-board/join-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// compositeIndexes backs the queries that filter on more than one column.
var compositeIndexes = []struct {
	table   string
	name    string
	columns []string
}{
	// Per-owner duplicate email check on contacts
	{"contacts", "idx_contacts_user_email", []string{"user_id", "email"}},

	// Inactivity sweep over guest accounts
	{"users", "idx_users_guest_activity", []string{"is_guest", "last_activity"}},

	// Ordered child reads of a task
	{"subtasks", "idx_subtasks_task_order", []string{"task_id", "id"}},
}

// AddIndexes creates the composite indexes that struct tags do not declare.
// Existing indexes are left alone, so the call is safe on every start.
func AddIndexes(db *gorm.DB, log logrus.FieldLogger) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(logrus.Fields{
			"index":   idx.name,
			"table":   idx.table,
			"columns": idx.columns,
		}).Info("Created index")
	}

	return nil
}

// SeedGuest creates the shared guest account when it is missing.
func SeedGuest(db *gorm.DB, log logrus.FieldLogger) error {
	guest := models.NewGuestUser()
	result := db.Where("email = ?", guest.Email).Attrs(*guest).FirstOrCreate(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.WithField("email", guest.Email).Info("Created guest account")
	}
	return nil
}
