package services

import (
	"context"
	"testing"

	"github.com/join-board/join-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_EmailValidationOrder(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	svc := NewContactService(r.contacts, r.users, testLog)
	owner := r.insertUser(t, "owner", "owner@x.com")
	r.insertUser(t, "other", "other@x.com")

	_, err := svc.Create(ctx, owner, ContactInput{Name: "Bob", Email: "bob@x.com", Phone: "123456"})
	require.NoError(t, err)

	tests := []struct {
		email   string
		message string
	}{
		{"owner@x.com", msgContactOwnEmail},
		{"bob@x.com", msgContactEmailUsed},
		{"other@x.com", msgContactEmailUsed},
	}
	for _, tt := range tests {
		_, err := svc.Create(ctx, owner, ContactInput{Name: "X", Email: tt.email, Phone: "123456"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, tt.email)
		assert.Equal(t, tt.message, verr.Error())
	}
}

func TestContactService_SaveHookGuardsDuplicates(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	owner := r.insertUser(t, "owner", "owner@x.com")

	require.NoError(t, r.contacts.Create(ctx, &models.Contact{Name: "a", Email: "dup@x.com", Phone: "123456", UserID: owner.ID}))

	// Bypassing the service still hits the model hook
	err := r.contacts.Create(ctx, &models.Contact{Name: "b", Email: "dup@x.com", Phone: "123456", UserID: owner.ID})
	assert.ErrorIs(t, err, models.ErrDuplicateContactEmail)
}

func TestContactService_PatchAndScope(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	svc := NewContactService(r.contacts, r.users, testLog)
	owner := r.insertUser(t, "owner", "owner@x.com")
	stranger := r.insertUser(t, "stranger", "stranger@x.com")

	contact, err := svc.Create(ctx, owner, ContactInput{Name: "Bob", Email: "bob@x.com", Phone: "123456"})
	require.NoError(t, err)

	name := "Robert"
	patched, err := svc.Patch(ctx, owner, contact.ID, ContactPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Robert", patched.Name)
	assert.Equal(t, "bob@x.com", patched.Email)

	_, err = svc.Get(ctx, stranger, contact.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)
	_, err = svc.Patch(ctx, stranger, contact.ID, ContactPatch{Name: &name})
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestContactService_DeleteRemovesOwner(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	svc := NewContactService(r.contacts, r.users, testLog)
	owner := r.insertUser(t, "owner", "owner@x.com")

	contact, err := svc.Create(ctx, owner, ContactInput{Name: "Bob", Email: "bob@x.com", Phone: "123456"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, contact.ID))

	_, err = r.users.FindByID(ctx, owner.ID)
	assert.Error(t, err)

	// A second attempt finds nothing
	assert.ErrorIs(t, svc.Delete(ctx, owner, contact.ID), ErrContactNotFound)
}
