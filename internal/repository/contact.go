package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/retailmart/retailmart/internal/models"
	"github.com/retailmart/retailmart/internal/repository/postgres"
)

const (
	insertContactQuery = `
						INSERT INTO contacts (user_id, phone, city, street, house, structure, building, apartment)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
						RETURNING id, user_id, phone, city, street, house, structure, building, apartment
`
	selectContactsByUserIDQuery = `
						SELECT id, user_id, phone, city, street, house, structure, building, apartment FROM contacts
						WHERE user_id = $1
						ORDER BY id
`
	selectContactQuery = `
						SELECT id, user_id, phone, city, street, house, structure, building, apartment FROM contacts
						WHERE id = $1 AND user_id = $2
`
	updateContactQuery = `
						UPDATE contacts
						SET phone = $1, city = $2, street = $3, house = $4, structure = $5, building = $6, apartment = $7
						WHERE id = $8 AND user_id = $9
`
	deleteContactQuery = `
						DELETE FROM contacts
						WHERE id = $1 AND user_id = $2
`
)

// ContactRepository implements ContactRepository interface
type ContactRepository struct {
	db *postgres.DB
}

// NewContactRepository creates new ContactRepository instance
func NewContactRepository(db *postgres.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func scanContact(row pgx.Row, contact *models.Contact) error {
	return row.Scan(&contact.ID, &contact.UserID, &contact.Phone, &contact.City,
		&contact.Street, &contact.House, &contact.Structure, &contact.Building, &contact.Apartment)
}

// CreateContact inserts new user contact to database
func (cr *ContactRepository) CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	row := cr.db.QueryRow(ctx, insertContactQuery, contact.UserID, contact.Phone, contact.City,
		contact.Street, contact.House, contact.Structure, contact.Building, contact.Apartment)
	if err := scanContact(row, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

// GetContactsByUserID returns contacts owned by user
func (cr *ContactRepository) GetContactsByUserID(ctx context.Context, userID uint64) ([]models.Contact, error) {
	rows, err := cr.db.Query(ctx, selectContactsByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []models.Contact{}

	for rows.Next() {
		contact := models.Contact{}
		if err := scanContact(rows, &contact); err != nil {
			continue
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return contacts, nil
}

// GetContact returns user contact by id
func (cr *ContactRepository) GetContact(ctx context.Context, id, userID uint64) (*models.Contact, error) {
	contact := models.Contact{}
	if err := scanContact(cr.db.QueryRow(ctx, selectContactQuery, id, userID), &contact); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &contact, nil
}

// UpdateContact updates user contact
func (cr *ContactRepository) UpdateContact(ctx context.Context, contact *models.Contact) error {
	cmd, err := cr.db.Exec(ctx, updateContactQuery, contact.Phone, contact.City, contact.Street,
		contact.House, contact.Structure, contact.Building, contact.Apartment, contact.ID, contact.UserID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DeleteContact deletes user contact
func (cr *ContactRepository) DeleteContact(ctx context.Context, id, userID uint64) error {
	cmd, err := cr.db.Exec(ctx, deleteContactQuery, id, userID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
