package repository

import (
	"context"

	"github.com/join-board/join-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContactRepository is a GORM implementation of ContactRepository
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &GormContactRepository{db: db}
}

// ListByOwner returns the owner's contacts ordered by name
func (r *GormContactRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name ASC, id ASC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// FindByID finds a contact within the owner's contacts
func (r *GormContactRepository) FindByID(ctx context.Context, ownerID, id uint64) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// EmailTaken reports whether another contact of the owner uses the email
func (r *GormContactRepository) EmailTaken(ctx context.Context, ownerID uint64, email string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contact{}).
		Where("user_id = ? AND email = ? AND id <> ?", ownerID, email, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Create creates a new contact
func (r *GormContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(contact).Error
}

// Update saves all contact fields
func (r *GormContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(contact).Error
}

// Delete removes a contact and, when deleteOwner is set, its owner account
func (r *GormContactRepository) Delete(ctx context.Context, contact *models.Contact, deleteOwner bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Contact{}, contact.ID).Error; err != nil {
			return err
		}
		if !deleteOwner {
			return nil
		}
		return deleteUserCascade(tx, contact.UserID)
	})
}
