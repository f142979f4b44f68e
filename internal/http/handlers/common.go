package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"busbackend/internal/domain"
	"busbackend/internal/services"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and valid; it writes the error
// response and returns false otherwise.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusUnprocessableEntity, "validation_error", "request body is required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(c, http.StatusUnprocessableEntity, "validation_error", "request body is required", nil)
			return false
		}
		RespondDomainError(c, services.BindingError(err))
		return false
	}
	return true
}

// paramID parses a positive integer path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: name, Msg: "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// okResponse is the body of successful state changes without a payload.
func okResponse(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
