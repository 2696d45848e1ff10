package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/join-board/join-api/internal/dto"
	apierrors "github.com/join-board/join-api/internal/errors"
	"github.com/join-board/join-api/internal/services"
)

// ContactHandler serves the requester's contact book.
type ContactHandler struct {
	contactService *services.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ContactRequest is the body of POST and PUT on contacts.
type ContactRequest struct {
	Name   string `json:"name" binding:"required,max=50,username_format"`
	Email  string `json:"email" binding:"required,email,max=254"`
	Phone  string `json:"phone" binding:"required,min=6,max=13,phone_format"`
	Emblem string `json:"emblem" binding:"max=100"`
	Color  string `json:"color" binding:"max=100"`
}

// ContactPatchRequest is the body of PATCH on a contact.
type ContactPatchRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=50,username_format"`
	Email  *string `json:"email" binding:"omitempty,email,max=254"`
	Phone  *string `json:"phone" binding:"omitempty,min=6,max=13,phone_format"`
	Emblem *string `json:"emblem" binding:"omitempty,max=100"`
	Color  *string `json:"color" binding:"omitempty,max=100"`
}

func (r ContactRequest) input() services.ContactInput {
	return services.ContactInput{
		Name:   r.Name,
		Email:  r.Email,
		Phone:  r.Phone,
		Emblem: r.Emblem,
		Color:  r.Color,
	}
}

// ListContacts returns the requester's contacts.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	contacts, err := h.contactService.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactDTOs(contacts))
}

// GetContact returns one of the requester's contacts.
func (h *ContactHandler) GetContact(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", services.ErrContactNotFound)
	if !ok {
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactDTO(*contact))
}

// CreateContact adds a contact to the requester's book.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), user, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToContactDTO(*contact))
}

// UpdateContact replaces every field of a contact.
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", services.ErrContactNotFound)
	if !ok {
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), user, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactDTO(*contact))
}

// PatchContact changes the fields present in the body.
func (h *ContactHandler) PatchContact(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", services.ErrContactNotFound)
	if !ok {
		return
	}

	var req ContactPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	contact, err := h.contactService.Patch(c.Request.Context(), user, id, services.ContactPatch{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Emblem: req.Emblem,
		Color:  req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContactDTO(*contact))
}

// DeleteContact removes a contact. See ContactService.Delete for the owner
// account side effect.
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", services.ErrContactNotFound)
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
