package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/retailmart/retailmart/internal/models"
	"github.com/retailmart/retailmart/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertUserQuery = `
						INSERT INTO users (username, email, password_hash, first_name, last_name, middle_name, position, role)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
						RETURNING id, username, email, password_hash, first_name, last_name, middle_name, position, role, is_staff, is_active, created_at, updated_at
`
	selectUserByEmailQuery = `
						SELECT id, username, email, password_hash, first_name, last_name, middle_name, position, role, is_staff, is_active, created_at, updated_at FROM users
						WHERE email = $1
`
	selectUserByIDQuery = `
						SELECT id, username, email, password_hash, first_name, last_name, middle_name, position, role, is_staff, is_active, created_at, updated_at FROM users
						WHERE id = $1
`
	updateUserQuery = `
						UPDATE users
						SET username = $1, first_name = $2, last_name = $3, middle_name = $4, position = $5, updated_at = now()
						WHERE id = $6
`
	updateUserPasswordQuery = `
						UPDATE users
						SET password_hash = $1, updated_at = now()
						WHERE id = $2
`
)

// UserRepository implements UserRepository interface
type UserRepository struct {
	db *postgres.DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row, user *models.User) error {
	return row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.MiddleName, &user.Position,
		&user.Role, &user.IsStaff, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
}

// CreateUser inserts new user to database
func (ur *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	row := ur.db.QueryRow(ctx, insertUserQuery, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.MiddleName, user.Position, user.Role)
	if err := scanUser(row, user); err != nil {
		if errCode := ur.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return user, nil
}

// GetUserByEmail returns user by email
func (ur *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	if err := scanUser(ur.db.QueryRow(ctx, selectUserByEmailQuery, email), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByID returns user by id
func (ur *UserRepository) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	user := models.User{}
	if err := scanUser(ur.db.QueryRow(ctx, selectUserByIDQuery, id), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// UpdateUser updates user profile fields
func (ur *UserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	cmd, err := ur.db.Exec(ctx, updateUserQuery, user.Username, user.FirstName,
		user.LastName, user.MiddleName, user.Position, user.ID)
	if err != nil {
		if errCode := ur.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return models.ErrConflictData
		}
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// UpdateUserPassword replaces user password hash
func (ur *UserRepository) UpdateUserPassword(ctx context.Context, userID uint64, passwordHash string) error {
	cmd, err := ur.db.Exec(ctx, updateUserPasswordQuery, passwordHash, userID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
