package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bap-api/internal/dto"
	appErrors "github.com/noah-isme/bap-api/pkg/errors"
)

type authServiceMock struct {
	got dto.LoginRequest
	err error
}

func (m *authServiceMock) Login(ctx context.Context, req dto.LoginRequest) error {
	m.got = req
	return m.err
}

func TestAuthHandlerLogin(t *testing.T) {
	mockSvc := &authServiceMock{}
	h := NewAuthHandler(mockSvc)
	c, w := newGinContext(http.MethodPost, "/api/login", strings.NewReader(`{"username":"admin","password":"12345"}`), "application/json")

	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())
	require.Equal(t, "admin", mockSvc.got.Username)
}

func TestAuthHandlerLoginRejected(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{err: appErrors.ErrInvalidCredentials})
	c, w := newGinContext(http.MethodPost, "/api/login", strings.NewReader(`{"username":"admin","password":"x"}`), "application/json")

	h.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"success":false,"error":"Invalid credentials"}`, w.Body.String())
}
