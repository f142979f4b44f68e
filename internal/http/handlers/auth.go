package handlers

import (
	"context"
	"net/http"
	"strings"

	"busbackend/internal/domain"
	"busbackend/internal/http/middleware"
	"busbackend/internal/repositories"
	"busbackend/internal/services"
	"busbackend/internal/utils"

	"github.com/gin-gonic/gin"
)

type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func authService() services.AuthService {
	rt := current()
	return services.AuthService{
		Users:  repositories.UserRepository{},
		Secret: rt.Secret,
	}
}

// POST /api/token accepts the OAuth2 password form or a JSON body.
func Token(c *gin.Context) {
	var req tokenRequest
	var err error
	if strings.HasPrefix(c.ContentType(), "application/json") {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBind(&req)
	}
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Msg: "malformed credentials", Err: err})
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		RespondDomainError(c, domain.ValidationError{Field: "username", Msg: "is required"})
		return
	}
	if req.Password == "" {
		RespondDomainError(c, domain.ValidationError{Field: "password", Msg: "is required"})
		return
	}

	svc := authService()
	user, err := svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	token, err := svc.IssueToken(user.Username, current().TokenTTL)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "auth", "token", "username="+user.Username)
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// VerifyToken is the middleware.TokenVerifier backed by the user table.
func VerifyToken(ctx context.Context, raw string) (domain.Principal, error) {
	user, err := authService().VerifyToken(ctx, raw)
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{UserID: domain.ID(user.ID), Username: user.Username, IsStaff: user.IsStaff}, nil
}
