package repository

import (
	"context"
	"time"

	"github.com/join-board/join-api/internal/models"
	"gorm.io/gorm"
)

// GormTokenRepository is a GORM implementation of TokenRepository
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &GormTokenRepository{db: db}
}

// Replace deletes the user's current token and stores token in its place
func (r *GormTokenRepository) Replace(ctx context.Context, token *models.AuthToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).Delete(&models.AuthToken{}).Error; err != nil {
			return err
		}
		return tx.Omit("User").Create(token).Error
	})
}

// FindByKey finds a token with its user preloaded
func (r *GormTokenRepository) FindByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	if key == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var token models.AuthToken
	if err := r.db.WithContext(ctx).Preload("User").Where(&models.AuthToken{Key: key}).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteByUserID removes the user's token, if any
func (r *GormTokenRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}

// RevokeIdle removes tokens of non-guest users idle since before idleBefore
// and returns the affected users.
func (r *GormTokenRepository) RevokeIdle(ctx context.Context, idleBefore time.Time) ([]models.User, error) {
	var users []models.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Select("users.*").
			Joins("JOIN auth_tokens ON auth_tokens.user_id = users.id").
			Where("users.is_guest = ? AND users.last_activity < ?", false, idleBefore).
			Find(&users).Error; err != nil {
			return err
		}
		if len(users) == 0 {
			return nil
		}

		// Idleness is checked again in the delete so a login racing the
		// select keeps its new token.
		idle := tx.Model(&models.User{}).
			Select("id").
			Where("is_guest = ? AND last_activity < ?", false, idleBefore)
		return tx.Where("user_id IN (?)", idle).Delete(&models.AuthToken{}).Error
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
