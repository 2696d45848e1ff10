package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/join-board/join-api/internal/models"
	"github.com/join-board/join-api/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("Contact not found.")

const (
	msgContactOwnEmail  = "E-Mail cannot be the same as the user's E-Mail."
	msgContactEmailUsed = "email already exists."
)

// ContactService manages the requester's contact book.
type ContactService struct {
	contactRepo repository.ContactRepository
	userRepo    repository.UserRepository
	log         logrus.FieldLogger
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo repository.ContactRepository, userRepo repository.UserRepository, log logrus.FieldLogger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

// ContactInput holds every writable contact field.
type ContactInput struct {
	Name   string
	Email  string
	Phone  string
	Emblem string
	Color  string
}

// ContactPatch holds the contact fields present in a partial update.
type ContactPatch struct {
	Name   *string
	Email  *string
	Phone  *string
	Emblem *string
	Color  *string
}

// Apply copies the present fields onto c.
func (p ContactPatch) Apply(c *models.Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Emblem != nil {
		c.Emblem = *p.Emblem
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
}

// List returns the actor's contacts
func (s *ContactService) List(ctx context.Context, actor *models.User) ([]models.Contact, error) {
	contacts, err := s.contactRepo.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// Get returns one of the actor's contacts
func (s *ContactService) Get(ctx context.Context, actor *models.User, id uint64) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, actor.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return contact, nil
}

// Create adds a contact to the actor's book
func (s *ContactService) Create(ctx context.Context, actor *models.User, input ContactInput) (*models.Contact, error) {
	if err := s.validateEmail(ctx, actor, input.Email, 0); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Emblem: input.Emblem,
		Color:  input.Color,
		UserID: actor.ID,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, s.translateSaveError(err, "failed to create contact")
	}
	return contact, nil
}

// Update replaces every field of one of the actor's contacts
func (s *ContactService) Update(ctx context.Context, actor *models.User, id uint64, input ContactInput) (*models.Contact, error) {
	return s.Patch(ctx, actor, id, ContactPatch{
		Name:   &input.Name,
		Email:  &input.Email,
		Phone:  &input.Phone,
		Emblem: &input.Emblem,
		Color:  &input.Color,
	})
}

// Patch changes the present fields of one of the actor's contacts
func (s *ContactService) Patch(ctx context.Context, actor *models.User, id uint64, patch ContactPatch) (*models.Contact, error) {
	contact, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		if err := s.validateEmail(ctx, actor, *patch.Email, contact.ID); err != nil {
			return nil, err
		}
	}

	patch.Apply(contact)
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, s.translateSaveError(err, "failed to update contact")
	}
	return contact, nil
}

// Delete removes one of the actor's contacts. When the contact's owner is the
// actor, the actor's account is deleted along with it.
func (s *ContactService) Delete(ctx context.Context, actor *models.User, id uint64) error {
	contact, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	deleteOwner := contact.UserID == actor.ID
	if err := s.contactRepo.Delete(ctx, contact, deleteOwner); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	if deleteOwner {
		s.log.WithFields(logrus.Fields{"user_id": actor.ID, "contact_id": contact.ID}).
			Warn("contact deleted together with its owner account")
	}
	return nil
}

// validateEmail rejects the actor's own email, an email already used by
// another of the actor's contacts, and any registered account's email.
func (s *ContactService) validateEmail(ctx context.Context, actor *models.User, email string, contactID uint64) error {
	if email == actor.Email {
		return NewValidationError("email", msgContactOwnEmail)
	}

	taken, err := s.contactRepo.EmailTaken(ctx, actor.ID, email, contactID)
	if err != nil {
		return fmt.Errorf("failed to check contact email: %w", err)
	}
	if taken {
		return NewValidationError("email", msgContactEmailUsed)
	}

	registered, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check account email: %w", err)
	}
	if registered {
		return NewValidationError("email", msgContactEmailUsed)
	}
	return nil
}

func (s *ContactService) translateSaveError(err error, msg string) error {
	if errors.Is(err, models.ErrDuplicateContactEmail) {
		return NewValidationError("email", msgContactEmailUsed)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
