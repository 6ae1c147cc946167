package service

import (
	"context"
	"crypto/subtle"

	"go.uber.org/zap"

	"github.com/noah-isme/bap-api/internal/dto"
	appErrors "github.com/noah-isme/bap-api/pkg/errors"
)

// AuthConfig holds the single admin login pair.
type AuthConfig struct {
	Username string
	Password string
}

// AuthService performs the stateless admin credential check. No session or
// token is issued; a successful login only tells the front-end to proceed.
type AuthService struct {
	logger *zap.Logger
	config AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{logger: logger, config: config}
}

// Login returns nil when the credentials match and ErrInvalidCredentials otherwise.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) error {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.config.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.config.Password)) == 1
	if !userOK || !passOK || s.config.Username == "" {
		s.logger.Info("admin login rejected", zap.String("username", req.Username))
		return appErrors.ErrInvalidCredentials
	}
	s.logger.Info("admin login accepted", zap.String("username", req.Username))
	return nil
}
