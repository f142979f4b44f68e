package handlers

import (
	"net/http"
	"sync"

	intconfig "busbackend/internal/config"
	"busbackend/internal/domain"
	"busbackend/internal/http/middleware"
	"busbackend/internal/repositories"
	"busbackend/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DBCheck pings the database and reports account rows that lost their pair.
func DBCheck(c *gin.Context) {
	if err := intconfig.Ping(c.Request.Context()); err != nil {
		utils.LogError(middleware.GetRequestID(c), "system", "db_check", err)
		respondError(c, http.StatusInternalServerError, "db_unavailable", "database is not reachable", nil)
		return
	}
	users, customers, err := repositories.UserRepository{}.CountOrphans(c.Request.Context())
	if err != nil {
		utils.LogError(middleware.GetRequestID(c), "system", "db_check", err)
		respondError(c, http.StatusInternalServerError, "db_query_failed", "database query failed", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"orphan_users":     users,
		"orphan_customers": customers,
	})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}

// GET /api/cities
func Cities(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Cities())
}
