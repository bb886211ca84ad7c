package service

import (
	"context"

	"github.com/retailmart/retailmart/internal/models"
)

// ContactRepository is interface for interacting with contact-related data
type ContactRepository interface {
	// CreateContact inserts new user contact to database
	CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	// GetContactsByUserID returns contacts owned by user
	GetContactsByUserID(ctx context.Context, userID uint64) ([]models.Contact, error)
	// GetContact returns user contact by id
	GetContact(ctx context.Context, id, userID uint64) (*models.Contact, error)
	// UpdateContact updates user contact
	UpdateContact(ctx context.Context, contact *models.Contact) error
	// DeleteContact deletes user contact
	DeleteContact(ctx context.Context, id, userID uint64) error
}

// ContactService implements ContactService interface. Every operation is
// scoped to the owning user.
type ContactService struct {
	repo ContactRepository
}

// NewContactService creates new ContactService instance
func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// CreateContact creates new contact for user
func (cs *ContactService) CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	return cs.repo.CreateContact(ctx, contact)
}

// ListContacts returns user contacts
func (cs *ContactService) ListContacts(ctx context.Context, userID uint64) ([]models.Contact, error) {
	return cs.repo.GetContactsByUserID(ctx, userID)
}

// GetContact returns user contact by id
func (cs *ContactService) GetContact(ctx context.Context, id, userID uint64) (*models.Contact, error) {
	return cs.repo.GetContact(ctx, id, userID)
}

// UpdateContact updates user contact
func (cs *ContactService) UpdateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	if err := cs.repo.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}

	return cs.repo.GetContact(ctx, contact.ID, contact.UserID)
}

// DeleteContact deletes user contact
func (cs *ContactService) DeleteContact(ctx context.Context, id, userID uint64) error {
	return cs.repo.DeleteContact(ctx, id, userID)
}
