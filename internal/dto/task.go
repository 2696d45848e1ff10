package dto

import (
	"github.com/join-board/join-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Emblem   string `json:"emblem"`
	Color    string `json:"color"`
}

// TokenDTO is returned by login and guest login
type TokenDTO struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// ContactDTO represents a contact in API responses
type ContactDTO struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Emblem string `json:"emblem"`
	Color  string `json:"color"`
}

// TaskUserDTO represents one assignee of a task with their own checked state
type TaskUserDTO struct {
	User    UserDTO `json:"user"`
	Checked bool    `json:"checked"`
}

// SubtaskDTO represents a checklist item in API responses
type SubtaskDTO struct {
	ID          uint64 `json:"id"`
	Subtasktext string `json:"subtasktext"`
	Checked     bool   `json:"checked"`
	Task        uint64 `json:"task"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	CardID      uint64        `json:"cardId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        string        `json:"date"`
	Priority    string        `json:"priority"`
	Category    string        `json:"category"`
	Status      string        `json:"status"`
	Users       []TaskUserDTO `json:"user"`
	Subtasks    []SubtaskDTO  `json:"subtasks"`
}

// StatusUpdateDTO is the response of a status-only task update
type StatusUpdateDTO struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
		Emblem:   user.Emblem,
		Color:    user.Color,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}

// ToTokenDTO converts an issued token and its user to TokenDTO
func ToTokenDTO(token models.AuthToken, user models.User) TokenDTO {
	return TokenDTO{
		Token: token.Key,
		Email: user.Email,
	}
}

// ToContactDTO converts a Contact model to ContactDTO
func ToContactDTO(contact models.Contact) ContactDTO {
	return ContactDTO{
		ID:     contact.ID,
		Name:   contact.Name,
		Email:  contact.Email,
		Phone:  contact.Phone,
		Emblem: contact.Emblem,
		Color:  contact.Color,
	}
}

// ToContactDTOs converts a slice of contacts
func ToContactDTOs(contacts []models.Contact) []ContactDTO {
	items := make([]ContactDTO, len(contacts))
	for i, contact := range contacts {
		items[i] = ToContactDTO(contact)
	}
	return items
}

// ToSubtaskDTO converts a Subtask model to SubtaskDTO
func ToSubtaskDTO(subtask models.Subtask) SubtaskDTO {
	return SubtaskDTO{
		ID:          subtask.ID,
		Subtasktext: subtask.Subtasktext,
		Checked:     subtask.Checked,
		Task:        subtask.TaskID,
	}
}

// ToSubtaskDTOs converts a slice of subtasks
func ToSubtaskDTOs(subtasks []models.Subtask) []SubtaskDTO {
	items := make([]SubtaskDTO, len(subtasks))
	for i, subtask := range subtasks {
		items[i] = ToSubtaskDTO(subtask)
	}
	return items
}

// ToTaskDTO converts a Task model to TaskDTO.
// Assignments and subtasks are always present as arrays, possibly empty.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		CardID:      task.CardID,
		Title:       task.Title,
		Description: task.Description,
		Date:        task.Date,
		Priority:    task.Priority,
		Category:    task.Category,
		Status:      task.Status,
		Users:       make([]TaskUserDTO, len(task.UserStatuses)),
		Subtasks:    ToSubtaskDTOs(task.Subtasks),
	}

	for i, detail := range task.UserStatuses {
		dto.Users[i] = TaskUserDTO{
			User:    ToUserDTO(detail.User),
			Checked: detail.Checked,
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
