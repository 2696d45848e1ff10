package models

// TaskUserDetails assigns a user to a task and keeps that user's checked state.
type TaskUserDetails struct {
	ID      uint64 `gorm:"primarykey" json:"-"`
	TaskID  uint64 `gorm:"not null;uniqueIndex:idx_task_user" json:"-"`
	UserID  uint64 `gorm:"not null;uniqueIndex:idx_task_user;index" json:"-"`
	Checked bool   `gorm:"not null" json:"checked"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user"`
}
