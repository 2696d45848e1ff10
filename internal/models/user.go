package models

import (
	"time"

	"github.com/join-board/join-api/internal/constants"
	"gorm.io/gorm"
)

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null;default:''" json:"-"`
	Phone        string     `gorm:"type:varchar(13);not null" json:"phone"`
	Emblem       string     `gorm:"type:varchar(100)" json:"emblem"`
	Color        string     `gorm:"type:varchar(100)" json:"color"`
	IsGuest      bool       `gorm:"not null;index" json:"is_guest"`
	IsActive     bool       `gorm:"not null;default:true" json:"-"`
	LastActivity *time.Time `gorm:"index" json:"last_activity"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Contacts     []Contact `gorm:"foreignKey:UserID" json:"-"`
	CreatedTasks []Task    `gorm:"foreignKey:CreatedByID" json:"-"`
}

// HasUsablePassword reports whether the account can log in with a password.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != "" && !u.IsGuest && u.Username != constants.GuestUsername
}

// BeforeSave keeps guest accounts password-less.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.IsGuest || u.Username == constants.GuestUsername {
		u.PasswordHash = ""
	}
	if u.Phone == "" {
		u.Phone = constants.DefaultPhone
	}
	return nil
}

// NewGuestUser returns the shared demo account as it is first stored.
func NewGuestUser() *User {
	return &User{
		Username: constants.GuestUsername,
		Email:    constants.GuestEmail,
		Emblem:   constants.GuestEmblem,
		Color:    constants.GuestColor,
		IsGuest:  true,
		IsActive: true,
	}
}
