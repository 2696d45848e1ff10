package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicateContactEmail is returned by the save hook when the owner already
// has another contact with the same email.
var ErrDuplicateContactEmail = errors.New("email already exists.")

type Contact struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	Name   string `gorm:"type:varchar(50);not null" json:"name"`
	Email  string `gorm:"type:varchar(254);not null;index" json:"email"`
	Phone  string `gorm:"type:varchar(13);not null" json:"phone"`
	Emblem string `gorm:"type:varchar(100)" json:"emblem"`
	Color  string `gorm:"type:varchar(100)" json:"color"`
	UserID uint64 `gorm:"not null;index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeSave re-checks per-owner email uniqueness at write time, independent
// of the service-level validation.
func (c *Contact) BeforeSave(tx *gorm.DB) error {
	var count int64
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&Contact{}).
		Where("user_id = ? AND email = ? AND id <> ?", c.UserID, c.Email, c.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateContactEmail
	}
	return nil
}
