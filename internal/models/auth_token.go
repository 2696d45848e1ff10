package models

import "time"

// AuthToken is the single active API token of a user. Issuing a new token
// replaces the previous one.
type AuthToken struct {
	Key       string    `gorm:"primarykey;type:varchar(40)" json:"token"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
