package repository

import (
	"context"
	"time"

	"github.com/join-board/join-api/internal/models"
)

// UserRepository defines the interface for user account data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsByEmail reports whether any account uses the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername reports whether any account uses the username
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// List returns all accounts ordered by ID
	List(ctx context.Context) ([]models.User, error)

	// ExistingIDs returns the subset of ids that belong to existing accounts
	ExistingIDs(ctx context.Context, ids []uint64) (map[uint64]struct{}, error)

	// FirstOrCreate loads the account with user.Email or creates it from user
	FirstOrCreate(ctx context.Context, user *models.User) error

	// TouchActivity sets last_activity without running save hooks
	TouchActivity(ctx context.Context, id uint64, at time.Time) error

	// Delete removes a user and everything the user owns
	Delete(ctx context.Context, id uint64) error

	// FindInactiveGuests lists guests idle since before idleBefore that joined before joinedBefore
	FindInactiveGuests(ctx context.Context, idleBefore, joinedBefore time.Time) ([]models.User, error)
}

// TokenRepository defines the interface for API token data access
type TokenRepository interface {
	// Replace deletes the user's current token and stores token in its place
	Replace(ctx context.Context, token *models.AuthToken) error

	// FindByKey finds a token with its user preloaded
	FindByKey(ctx context.Context, key string) (*models.AuthToken, error)

	// DeleteByUserID removes the user's token, if any
	DeleteByUserID(ctx context.Context, userID uint64) error

	// RevokeIdle removes tokens of non-guest users idle since before idleBefore
	RevokeIdle(ctx context.Context, idleBefore time.Time) ([]models.User, error)
}

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	// ListByOwner returns the owner's contacts
	ListByOwner(ctx context.Context, ownerID uint64) ([]models.Contact, error)

	// FindByID finds a contact within the owner's contacts
	FindByID(ctx context.Context, ownerID, id uint64) (*models.Contact, error)

	// EmailTaken reports whether another contact of the owner uses the email
	EmailTaken(ctx context.Context, ownerID uint64, email string, excludeID uint64) (bool, error)

	// Create creates a new contact
	Create(ctx context.Context, contact *models.Contact) error

	// Update saves all contact fields
	Update(ctx context.Context, contact *models.Contact) error

	// Delete removes a contact and, when deleteOwner is set, its owner account
	Delete(ctx context.Context, contact *models.Contact, deleteOwner bool) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// ListByCreator returns the creator's tasks with assignments and subtasks
	ListByCreator(ctx context.Context, creatorID uint64) ([]models.Task, error)

	// FindByCardID finds a task within the creator's tasks
	FindByCardID(ctx context.Context, creatorID, cardID uint64) (*models.Task, error)

	// Create stores the task and its assignments and subtasks in one transaction
	Create(ctx context.Context, task *models.Task, userIDs []uint64, subtasks []models.Subtask) error

	// Update saves the task; non-nil userIDs/subtasks replace the current sets
	Update(ctx context.Context, task *models.Task, userIDs *[]uint64, subtasks *[]models.Subtask) error

	// UpdateStatus writes only the status column
	UpdateStatus(ctx context.Context, cardID uint64, status string) error

	// Delete removes the task with its assignments and subtasks
	Delete(ctx context.Context, cardID uint64) error
}

// SubtaskRepository defines the interface for subtask data access
type SubtaskRepository interface {
	// ListByTask returns the task's subtasks
	ListByTask(ctx context.Context, taskID uint64) ([]models.Subtask, error)

	// FindByID finds a subtask within the task
	FindByID(ctx context.Context, taskID, id uint64) (*models.Subtask, error)

	// Create creates a new subtask
	Create(ctx context.Context, subtask *models.Subtask) error

	// Update saves all subtask fields
	Update(ctx context.Context, subtask *models.Subtask) error

	// Delete removes a subtask
	Delete(ctx context.Context, id uint64) error
}
