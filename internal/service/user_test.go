package service

import (
	"context"
	"testing"

	"github.com/retailmart/retailmart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[uint64]*models.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*models.User{}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, models.ErrConflictData
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.IsActive = true
	stored := *user
	f.users[user.ID] = &stored
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrDataNotFound
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uint64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	u, ok := f.users[user.ID]
	if !ok {
		return models.ErrDataNotFound
	}
	u.Username = user.Username
	u.FirstName = user.FirstName
	u.LastName = user.LastName
	u.MiddleName = user.MiddleName
	u.Position = user.Position
	return nil
}

func (f *fakeUserRepo) UpdateUserPassword(_ context.Context, userID uint64, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return models.ErrDataNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func TestUserServiceRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, NewStrengthChecker())
	ctx := context.Background()

	user := models.User{
		Username:  "ivanov",
		Email:     "ivanov@example.com",
		FirstName: "Ivan",
		LastName:  "Ivanov",
	}

	created, err := svc.Register(ctx, &user, "s3cret-passw0rd")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.RoleBuyer, created.Role)

	// plain password is never stored
	assert.NotEqual(t, "s3cret-passw0rd", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-passw0rd")))

	// duplicate email
	_, err = svc.Register(ctx, &models.User{Username: "other", Email: "ivanov@example.com"}, "s3cret-passw0rd")
	assert.ErrorIs(t, err, models.ErrConflictData)
}

func TestUserServiceRegisterWeakPassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), NewStrengthChecker())

	tests := []struct {
		name     string
		password string
	}{
		{"too_short", "a1"},
		{"all_digits", "123456789012"},
		{"all_letters", "abcdefghijkl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &models.User{
				Username: "ivanov",
				Email:    "ivanov@example.com",
			}, tt.password)
			assert.ErrorIs(t, err, models.ErrWeakPassword)
		})
	}
}

func TestUserServiceChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, NewStrengthChecker())
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.User{
		Username: "ivanov",
		Email:    "ivanov@example.com",
	}, "old-passw0rd")
	require.NoError(t, err)

	// wrong current password
	err = svc.ChangePassword(ctx, user.ID, "not-the-passw0rd", "new-passw0rd")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	// weak new password
	err = svc.ChangePassword(ctx, user.ID, "old-passw0rd", "short")
	assert.ErrorIs(t, err, models.ErrWeakPassword)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old-passw0rd", "new-passw0rd"))

	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-passw0rd")))
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newFakeUserRepo()
	userSvc := NewUserService(repo, NewStrengthChecker())
	ctx := context.Background()

	user, err := userSvc.Register(ctx, &models.User{
		Username: "ivanov",
		Email:    "ivanov@example.com",
	}, "s3cret-passw0rd")
	require.NoError(t, err)

	authSvc := NewAuthService(repo, fakeTokens{})

	token, err := authSvc.Login(ctx, "ivanov@example.com", "s3cret-passw0rd")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = authSvc.Login(ctx, "ivanov@example.com", "wrong-passw0rd")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = authSvc.Login(ctx, "nobody@example.com", "s3cret-passw0rd")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	// deactivated account
	repo.users[user.ID].IsActive = false
	_, err = authSvc.Login(ctx, "ivanov@example.com", "s3cret-passw0rd")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

type fakeTokens struct{}

func (fakeTokens) CreateToken(user *models.User) (string, error) {
	return "token-for-user", nil
}

func (fakeTokens) VerifyToken(string) (*models.TokenPayload, error) {
	return nil, nil
}
