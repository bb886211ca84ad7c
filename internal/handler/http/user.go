package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/retailmart/retailmart/internal/middleware"
	"github.com/retailmart/retailmart/internal/models"
)

type UserService interface {
	// Register creates new user account with hashed password
	Register(ctx context.Context, user *models.User, password string) (*models.User, error)
	// GetUser returns user by id
	GetUser(ctx context.Context, userID uint64) (*models.User, error)
	// UpdateUser updates user profile fields
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)
	// ChangePassword verifies the current password and replaces it
	ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error
}

// UserHandler represents HTTP handler for user-related requests
type UserHandler struct {
	svc UserService
}

// NewUserHandler creates new UserHandler instance
func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Role      string `json:"role" validate:"omitempty,oneof=buyer supplier"`
}

type userResponse struct {
	ID         uint64 `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MiddleName string `json:"middle_name,omitempty"`
	Position   string `json:"position,omitempty"`
	Role       string `json:"role"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		MiddleName: user.MiddleName,
		Position:   user.Position,
		Role:       string(user.Role),
	}
}

// RegisterUser registers new user account
// 201 — пользователь зарегистрирован;
// 400 — неверный формат запроса или слабый пароль;
// 409 — логин или email уже занят;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) RegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		user := models.User{
			Username:  req.Username,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      models.UserRole(req.Role),
		}

		created, err := uh.svc.Register(r.Context(), &user, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrWeakPassword):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "user already exists", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, newUserResponse(created))
	}
}

// GetProfile returns the authenticated user profile
// 200 — успешная обработка запроса.
// 401 — пользователь не авторизован.
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := uh.svc.GetUser(r.Context(), payload.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

type updateProfileRequest struct {
	Username   string `json:"username" validate:"omitempty,max=150"`
	FirstName  string `json:"first_name" validate:"omitempty,max=150"`
	LastName   string `json:"last_name" validate:"omitempty,max=150"`
	MiddleName string `json:"middle_name" validate:"omitempty,max=150"`
	Position   string `json:"position" validate:"omitempty,max=100"`
}

// UpdateProfile partially updates the authenticated user profile
// 200 — профиль обновлен;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 409 — имя пользователя занято;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateProfileRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		user, err := uh.svc.GetUser(r.Context(), payload.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if req.Username != "" {
			user.Username = req.Username
		}
		if req.FirstName != "" {
			user.FirstName = req.FirstName
		}
		if req.LastName != "" {
			user.LastName = req.LastName
		}
		if req.MiddleName != "" {
			user.MiddleName = req.MiddleName
		}
		if req.Position != "" {
			user.Position = req.Position
		}

		updated, err := uh.svc.UpdateUser(r.Context(), user)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrConflictData):
				http.Error(w, "username already taken", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newUserResponse(updated))
	}
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// ChangeUserPassword changes the password of the authenticated user
// 200 — пароль изменен;
// 400 — неверный формат запроса или слабый пароль;
// 401 — пользователь не авторизован или неверный текущий пароль;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) ChangeUserPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req changePasswordRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		err := uh.svc.ChangePassword(r.Context(), payload.UserID, req.OldPassword, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidCredentials):
				http.Error(w, "invalid current password", http.StatusUnauthorized)
			case errors.Is(err, models.ErrWeakPassword):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "password was changed"})
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}
