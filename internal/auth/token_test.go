package auth

import (
	"testing"

	"github.com/retailmart/retailmart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	at := NewAuthToken([]byte("0123456789abcdef"))

	user := models.User{
		ID:      42,
		Role:    models.RoleSupplier,
		IsStaff: true,
	}

	tokenString, err := at.CreateToken(&user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	payload, err := at.VerifyToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, user.ID, payload.UserID)
	assert.Equal(t, user.Role, payload.Role)
	assert.True(t, payload.IsStaff)
	assert.NotZero(t, payload.ID)
}

func TestAuthTokenWrongKey(t *testing.T) {
	at := NewAuthToken([]byte("0123456789abcdef"))

	tokenString, err := at.CreateToken(&models.User{ID: 1, Role: models.RoleBuyer})
	require.NoError(t, err)

	other := NewAuthToken([]byte("fedcba9876543210"))
	_, err = other.VerifyToken(tokenString)
	assert.Error(t, err)
}

func TestAuthTokenGarbage(t *testing.T) {
	at := NewAuthToken([]byte("0123456789abcdef"))

	_, err := at.VerifyToken("not-a-token")
	assert.Error(t, err)
}
