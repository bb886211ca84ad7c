package service

import (
	"context"

	"github.com/retailmart/retailmart/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is interface for interacting with user-related data
type UserRepository interface {
	// CreateUser inserts new user to database
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail returns user by email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns user by id
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
	// UpdateUser updates user profile fields
	UpdateUser(ctx context.Context, user *models.User) error
	// UpdateUserPassword replaces user password hash
	UpdateUserPassword(ctx context.Context, userID uint64, passwordHash string) error
}

// UserService implements UserService interface
type UserService struct {
	repo    UserRepository
	checker PasswordChecker
}

// NewUserService creates new UserService instance
func NewUserService(repo UserRepository, checker PasswordChecker) *UserService {
	return &UserService{
		repo:    repo,
		checker: checker,
	}
}

// Register creates new user account with hashed password
func (us *UserService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if err := us.checker.CheckPassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)

	if user.Role == "" {
		user.Role = models.RoleBuyer
	}

	return us.repo.CreateUser(ctx, user)
}

// GetUser returns user by id
func (us *UserService) GetUser(ctx context.Context, userID uint64) (*models.User, error) {
	return us.repo.GetUserByID(ctx, userID)
}

// UpdateUser updates user profile fields
func (us *UserService) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := us.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return us.repo.GetUserByID(ctx, user.ID)
}

// ChangePassword verifies the current password and replaces it with a new
// one after a strength check
func (us *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := us.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return models.ErrInvalidCredentials
	}

	if err := us.checker.CheckPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return us.repo.UpdateUserPassword(ctx, userID, string(hash))
}
