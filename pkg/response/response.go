package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/bap-api/pkg/errors"
)

// ErrorBody is the contract for every failed request: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

// FailureBody is the login failure contract: {"success": false, "error": "..."}.
type FailureBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Success is the minimal acknowledgement body for mutating endpoints.
type Success struct {
	Success bool `json:"success"`
}

// JSON sends a success response without caching.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// OK responds with {"success": true}.
func OK(c *gin.Context) {
	JSON(c, http.StatusOK, Success{Success: true})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.AbortWithStatusJSON(appErr.Status, ErrorBody{Error: appErr.Message})
}

// Failure sends the {"success": false} variant used by the login endpoint.
func Failure(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(appErr.Status, FailureBody{Success: false, Error: appErr.Message})
}

// Attachment streams a generated file as a download.
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}
