package handlers

import (
	"net/http"
	"strconv"

	"busbackend/internal/domain"
	"busbackend/internal/domain/models"
	"busbackend/internal/http/middleware"
	"busbackend/internal/services"

	"github.com/gin-gonic/gin"
)

func accountService(c *gin.Context) services.AccountService {
	return services.AccountService{
		Events:    current().Events,
		RequestID: middleware.GetRequestID(c),
	}
}

// principal returns the caller's id; routes using it sit behind RequireUser.
func principal(c *gin.Context) (int64, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		RespondDomainError(c, domain.UnauthenticatedError{})
		return 0, false
	}
	return int64(p.UserID), true
}

// POST /api/users
func CreateUser(c *gin.Context) {
	var req models.UserCreate
	if !BindJSONOrError(c, &req) {
		return
	}
	user, err := accountService(c).CreateUser(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GET /api/users/me
func GetCurrentUser(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	user, err := accountService(c).GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /api/users/me
func UpdateCurrentUser(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	var req models.UserUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	user, err := accountService(c).UpdateCurrentUser(c.Request.Context(), userID, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /api/users/me/change-password
func ChangePassword(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	var req models.PasswordChange
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := accountService(c).ChangePassword(c.Request.Context(), userID, req); err != nil {
		RespondDomainError(c, err)
		return
	}
	okResponse(c)
}

// DELETE /api/users/me?confirm=true
func DeleteCurrentUser(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if err := accountService(c).DeleteCurrentUser(c.Request.Context(), userID, confirmed); err != nil {
		RespondDomainError(c, err)
		return
	}
	okResponse(c)
}
