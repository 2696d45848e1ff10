package models

type Subtask struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Subtasktext string `gorm:"column:subtasktext;type:varchar(100);not null" json:"subtasktext"`
	Checked     bool   `gorm:"not null" json:"checked"`
	TaskID      uint64 `gorm:"not null;index" json:"task"`
}
