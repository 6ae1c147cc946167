package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bap-api/internal/dto"
	appErrors "github.com/noah-isme/bap-api/pkg/errors"
)

func TestAuthServiceLogin(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{Username: "admin", Password: "12345"})

	require.NoError(t, svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "12345"}))

	err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "wrong"})
	require.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	err = svc.Login(context.Background(), dto.LoginRequest{})
	require.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceRejectsEmptyConfiguredUser(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{})

	err := svc.Login(context.Background(), dto.LoginRequest{})
	require.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}
