package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/retailmart/retailmart/internal/handler/http/mocks"
	"github.com/retailmart/retailmart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_RegisterUser(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockUserService
		wantStatusCode int
	}{
		{
			name: "valid_request_return_201",
			body: `{"username":"ivanov","email":"ivanov@example.com","password":"s3cret-passw0rd","first_name":"Ivan","last_name":"Ivanov"}`,
			setup: func(t *testing.T) *mocks.MockUserService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockUserService(ctrl)
				svcMock.EXPECT().Register(gomock.Any(), gomock.Any(), "s3cret-passw0rd").
					Return(&models.User{
						ID:        1,
						Username:  "ivanov",
						Email:     "ivanov@example.com",
						FirstName: "Ivan",
						LastName:  "Ivanov",
						Role:      models.RoleBuyer,
					}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "bad_body_return_400",
			body: `{`,
			setup: func(t *testing.T) *mocks.MockUserService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockUserService(ctrl)
				svcMock.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "missing_email_return_400",
			body: `{"username":"ivanov","password":"s3cret-passw0rd","first_name":"Ivan","last_name":"Ivanov"}`,
			setup: func(t *testing.T) *mocks.MockUserService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockUserService(ctrl)
				svcMock.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "bad_role_return_400",
			body: `{"username":"ivanov","email":"ivanov@example.com","password":"s3cret-passw0rd","first_name":"Ivan","last_name":"Ivanov","role":"admin"}`,
			setup: func(t *testing.T) *mocks.MockUserService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockUserService(ctrl)
				svcMock.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "weak_password_return_400",
			body: `{"username":"ivanov","email":"ivanov@example.com","password":"abcdefghij","first_name":"Ivan","last_name":"Ivanov"}`,
			setup: func(t *testing.T) *mocks.MockUserService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockUserService(ctrl)
				svcMock.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrWeakPassword).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "duplicate_user_return_409",
			body: `{"username":"ivanov","email":"ivanov@example.com","password":"s3cret-passw0rd","first_name":"Ivan","last_name":"Ivanov"}`,
			setup: func(t *testing.T) *mocks.MockUserService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockUserService(ctrl)
				svcMock.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrConflictData).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()

			NewUserHandler(tt.setup(t)).RegisterUser().ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
