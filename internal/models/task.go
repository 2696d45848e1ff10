package models

// Task is a board card. Status is a free-form column label.
type Task struct {
	CardID      uint64 `gorm:"column:card_id;primarykey" json:"cardId"`
	Title       string `gorm:"type:varchar(100);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Date        string `gorm:"type:varchar(10);not null" json:"date"`
	Priority    string `gorm:"type:varchar(20)" json:"priority"`
	Category    string `gorm:"type:varchar(100);not null" json:"category"`
	Status      string `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedByID uint64 `gorm:"column:created_by_id;not null;index" json:"-"`

	// Relations
	CreatedBy    User              `gorm:"foreignKey:CreatedByID" json:"-"`
	UserStatuses []TaskUserDetails `gorm:"foreignKey:TaskID;references:CardID" json:"user"`
	Subtasks     []Subtask         `gorm:"foreignKey:TaskID;references:CardID" json:"subtasks"`
}
