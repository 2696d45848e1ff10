package repository

import (
	"context"
	"time"

	"github.com/join-board/join-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether any account uses the email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByUsername reports whether any account uses the username
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// List returns all accounts ordered by ID
func (r *GormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ExistingIDs returns the subset of ids that belong to existing accounts
func (r *GormUserRepository) ExistingIDs(ctx context.Context, ids []uint64) (map[uint64]struct{}, error) {
	found := make(map[uint64]struct{}, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var existing []uint64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error; err != nil {
		return nil, err
	}

	for _, id := range existing {
		found[id] = struct{}{}
	}
	return found, nil
}

// FirstOrCreate loads the account with user.Email or creates it from user
func (r *GormUserRepository) FirstOrCreate(ctx context.Context, user *models.User) error {
	var existing models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", user.Email).
		Attrs(*user).
		FirstOrCreate(&existing).Error; err != nil {
		return err
	}
	*user = existing
	return nil
}

// TouchActivity sets last_activity without running save hooks
func (r *GormUserRepository) TouchActivity(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{ID: id}).UpdateColumn("last_activity", at).Error
}

// Delete removes a user and everything the user owns in a transaction
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteUserCascade(tx, id)
	})
}

// FindInactiveGuests lists guests idle since before idleBefore that joined before joinedBefore
func (r *GormUserRepository) FindInactiveGuests(ctx context.Context, idleBefore, joinedBefore time.Time) ([]models.User, error) {
	var guests []models.User
	if err := r.db.WithContext(ctx).
		Where("is_guest = ? AND last_activity < ? AND created_at < ?", true, idleBefore, joinedBefore).
		Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

// deleteUserCascade removes the user's assignments, tasks (with their subtasks
// and assignments), contacts, token and finally the account itself.
func deleteUserCascade(tx *gorm.DB, userID uint64) error {
	ownTasks := tx.Model(&models.Task{}).Select("card_id").Where("created_by_id = ?", userID)

	if err := tx.Where("user_id = ? OR task_id IN (?)", userID, ownTasks).
		Delete(&models.TaskUserDetails{}).Error; err != nil {
		return err
	}
	if err := tx.Where("task_id IN (?)", ownTasks).Delete(&models.Subtask{}).Error; err != nil {
		return err
	}
	if err := tx.Where("created_by_id = ?", userID).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.Contact{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.User{}, userID).Error
}
