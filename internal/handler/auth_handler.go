package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bap-api/internal/dto"
	appErrors "github.com/noah-isme/bap-api/pkg/errors"
	"github.com/noah-isme/bap-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req dto.LoginRequest) error
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Check admin credentials
// @Description Compares the submitted pair against the configured admin account. No session is issued.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} response.Success
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.FailureBody
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidJSON.Code, appErrors.ErrInvalidJSON.Status, appErrors.ErrInvalidJSON.Message))
		return
	}
	if err := h.service.Login(c.Request.Context(), req); err != nil {
		response.Failure(c, err)
		return
	}
	response.OK(c)
}
