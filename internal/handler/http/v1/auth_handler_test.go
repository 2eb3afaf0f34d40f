package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/matthewru/hd-mobile/internal/models"
	"github.com/matthewru/hd-mobile/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRegister_Success(t *testing.T) {
	_, _, mockAuth, router := newTestHandler(t)
	reqBody := RegisterRequest{
		Name:     "Alex",
		Email:    "alex@example.com",
		Password: "hunter2hunter2",
		Role:     models.RoleCommunity,
	}
	expected := &models.User{
		ID:    uuid.New(),
		Name:  reqBody.Name,
		Email: reqBody.Email,
		Role:  reqBody.Role,
	}

	mockAuth.EXPECT().
		Register(gomock.Any(), reqBody.Name, reqBody.Email, reqBody.Password, reqBody.Role).
		Return(expected, "signed-token", nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "signed-token", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, expected.ID, resp.User.ID)
}

func TestRegister_InvalidRole(t *testing.T) {
	_, _, mockAuth, router := newTestHandler(t)
	reqBody := RegisterRequest{
		Name:     "Alex",
		Email:    "alex@example.com",
		Password: "hunter2hunter2",
		Role:     "admin",
	}

	mockAuth.EXPECT().
		Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Role' failed on the 'oneof' tag")
}

func TestRegister_EmailTaken(t *testing.T) {
	_, _, mockAuth, router := newTestHandler(t)
	reqBody := RegisterRequest{
		Name:     "Alex",
		Email:    "alex@example.com",
		Password: "hunter2hunter2",
		Role:     models.RoleOfficer,
	}

	mockAuth.EXPECT().
		Register(gomock.Any(), reqBody.Name, reqBody.Email, reqBody.Password, reqBody.Role).
		Return(nil, "", service.ErrEmailTaken).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestLogin_Success(t *testing.T) {
	_, _, mockAuth, router := newTestHandler(t)
	reqBody := LoginRequest{Email: "alex@example.com", Password: "hunter2hunter2"}
	expected := &models.User{
		ID:    uuid.New(),
		Name:  "Alex",
		Email: reqBody.Email,
		Role:  models.RoleOfficer,
	}

	mockAuth.EXPECT().
		Login(gomock.Any(), reqBody.Email, reqBody.Password).
		Return(expected, "signed-token", nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "signed-token", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, models.RoleOfficer, resp.User.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, _, mockAuth, router := newTestHandler(t)
	reqBody := LoginRequest{Email: "alex@example.com", Password: "wrong-password"}

	mockAuth.EXPECT().
		Login(gomock.Any(), reqBody.Email, reqBody.Password).
		Return(nil, "", service.ErrInvalidCredentials).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}

func TestLogin_MissingEmail(t *testing.T) {
	_, _, mockAuth, router := newTestHandler(t)

	mockAuth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/auth/login", bytes.NewBufferString(`{"password":"x"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
