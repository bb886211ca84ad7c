package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/retailmart/retailmart/internal/middleware"
	"github.com/retailmart/retailmart/internal/models"
)

type ContactService interface {
	// CreateContact creates new contact for user
	CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	// ListContacts returns user contacts
	ListContacts(ctx context.Context, userID uint64) ([]models.Contact, error)
	// GetContact returns user contact by id
	GetContact(ctx context.Context, id, userID uint64) (*models.Contact, error)
	// UpdateContact updates user contact
	UpdateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	// DeleteContact deletes user contact
	DeleteContact(ctx context.Context, id, userID uint64) error
}

// ContactHandler represents HTTP handler for contact-related requests
type ContactHandler struct {
	svc ContactService
}

// NewContactHandler creates new ContactHandler instance
func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

type contactRequest struct {
	Phone     string `json:"phone" validate:"required,max=16"`
	City      string `json:"city" validate:"omitempty,max=50"`
	Street    string `json:"street" validate:"omitempty,max=100"`
	House     string `json:"house" validate:"omitempty,max=5"`
	Structure string `json:"structure" validate:"omitempty,max=5"`
	Building  string `json:"building" validate:"omitempty,max=5"`
	Apartment string `json:"apartment" validate:"omitempty,max=5"`
}

type contactResponse struct {
	ID        uint64 `json:"id"`
	Phone     string `json:"phone"`
	City      string `json:"city,omitempty"`
	Street    string `json:"street,omitempty"`
	House     string `json:"house,omitempty"`
	Structure string `json:"structure,omitempty"`
	Building  string `json:"building,omitempty"`
	Apartment string `json:"apartment,omitempty"`
}

func newContactResponse(contact *models.Contact) contactResponse {
	return contactResponse{
		ID:        contact.ID,
		Phone:     contact.Phone,
		City:      contact.City,
		Street:    contact.Street,
		House:     contact.House,
		Structure: contact.Structure,
		Building:  contact.Building,
		Apartment: contact.Apartment,
	}
}

// CreateContact creates a contact for the authenticated user
// 201 — контакт создан;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 500 — внутренняя ошибка сервера.
func (ch *ContactHandler) CreateContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req contactRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		contact := models.Contact{
			UserID:    payload.UserID,
			Phone:     req.Phone,
			City:      req.City,
			Street:    req.Street,
			House:     req.House,
			Structure: req.Structure,
			Building:  req.Building,
			Apartment: req.Apartment,
		}

		created, err := ch.svc.CreateContact(r.Context(), &contact)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, newContactResponse(created))
	}
}

// ListContacts returns contacts of the authenticated user
// 200 — успешная обработка запроса;
// 401 — пользователь не авторизован;
// 500 — внутренняя ошибка сервера.
func (ch *ContactHandler) ListContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		contacts, err := ch.svc.ListContacts(r.Context(), payload.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]contactResponse, 0, len(contacts))
		for i := range contacts {
			resp = append(resp, newContactResponse(&contacts[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// GetContact returns one contact of the authenticated user
// 200 — успешная обработка запроса;
// 401 — пользователь не авторизован;
// 404 — контакт не найден;
// 500 — внутренняя ошибка сервера.
func (ch *ContactHandler) GetContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseUint(chi.URLParam(r, "contactID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		contact, err := ch.svc.GetContact(r.Context(), id, payload.UserID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "contact not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newContactResponse(contact))
	}
}

// UpdateContact updates one contact of the authenticated user
// 200 — контакт обновлен;
// 400 — неверный формат запроса;
// 401 — пользователь не авторизован;
// 404 — контакт не найден;
// 500 — внутренняя ошибка сервера.
func (ch *ContactHandler) UpdateContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseUint(chi.URLParam(r, "contactID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req contactRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		contact := models.Contact{
			ID:        id,
			UserID:    payload.UserID,
			Phone:     req.Phone,
			City:      req.City,
			Street:    req.Street,
			House:     req.House,
			Structure: req.Structure,
			Building:  req.Building,
			Apartment: req.Apartment,
		}

		updated, err := ch.svc.UpdateContact(r.Context(), &contact)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "contact not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, newContactResponse(updated))
	}
}

// DeleteContact deletes one contact of the authenticated user
// 204 — контакт удален;
// 401 — пользователь не авторизован;
// 404 — контакт не найден;
// 500 — внутренняя ошибка сервера.
func (ch *ContactHandler) DeleteContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.GetAuthPayload(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseUint(chi.URLParam(r, "contactID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if err := ch.svc.DeleteContact(r.Context(), id, payload.UserID); err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "contact not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
