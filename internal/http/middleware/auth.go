package middleware

import (
	"context"
	"net/http"
	"strings"

	"busbackend/internal/domain"
	"busbackend/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	principalKey = "principal"
	roleKey      = "userRole"

	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// TokenVerifier resolves a raw bearer token to the calling user.
type TokenVerifier func(ctx context.Context, token string) (domain.Principal, error)

// RequireUser rejects requests without a valid bearer token and stores the
// principal in the context.
func RequireUser(verify TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthenticated(c)
			return
		}
		p, err := verify(c.Request.Context(), raw)
		if err != nil {
			if !domain.IsUnauthenticated(err) {
				utils.LogError(GetRequestID(c), "auth", "verify_token", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "internal error",
					"code":       "internal_error",
					"request_id": GetRequestID(c),
				})
				return
			}
			abortUnauthenticated(c)
			return
		}

		role := RoleCustomer
		if p.IsStaff {
			role = RoleStaff
		}
		c.Set(principalKey, p)
		c.Set(roleKey, role)
		c.Next()
	}
}

// RequireRoles only lets through principals whose role is listed. It must
// run after RequireUser.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(roleKey)
		if role == "" {
			abortUnauthenticated(c)
			return
		}
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "not enough permissions",
				"code":       "forbidden",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

// RequireStaff is RequireRoles(RoleStaff).
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(RoleStaff)
}

// CurrentPrincipal returns the principal stored by RequireUser.
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	if c == nil {
		return domain.Principal{}, false
	}
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      domain.UnauthenticatedError{}.Error(),
		"code":       "unauthenticated",
		"request_id": GetRequestID(c),
	})
}
