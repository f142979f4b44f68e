package handlers

import (
	"errors"
	"net/http"

	"busbackend/internal/domain"
	"busbackend/internal/http/middleware"
	"busbackend/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		status, code := http.StatusUnprocessableEntity, "validation_error"
		if domain.IsRuleViolation(err) {
			status, code = http.StatusBadRequest, "rule_violation"
		}
		respondError(c, status, code, err.Error(), validationDetails(err))
	case domain.IsInvalidCredentials(err):
		respondError(c, http.StatusBadRequest, "invalid_credentials", err.Error(), nil)
	case domain.IsUnauthenticated(err):
		c.Header("WWW-Authenticate", "Bearer")
		respondError(c, http.StatusUnauthorized, "unauthenticated", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		utils.LogError(middleware.GetRequestID(c), "http", c.Request.Method+" "+c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func validationDetails(err error) any {
	var ve domain.ValidationError
	if !errors.As(err, &ve) || ve.Field == "" {
		return nil
	}
	return gin.H{"field": ve.Field}
}
