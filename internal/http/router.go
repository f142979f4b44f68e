package api

import (
	stdhttp "net/http"

	intconfig "busbackend/internal/config"
	h "busbackend/internal/http/handlers"
	"busbackend/internal/http/middleware"
	"busbackend/internal/services"
	"busbackend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// NewRouter wires middleware and every /api route.
func NewRouter(env intconfig.Env, rt h.Runtime) *gin.Engine {
	h.Configure(rt)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := services.RegisterValidations(v); err != nil {
			utils.Logger().Warn("failed to register binding validations", zap.Error(err))
		}
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Logger().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	requireUser := middleware.RequireUser(h.VerifyToken)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)
		api.GET("/cities", h.Cities)

		// Fleet
		buses := api.Group("/buses")
		buses.GET("", h.ListBuses)
		buses.GET("/:id", h.GetBus)
		staff := buses.Group("", requireUser, middleware.RequireStaff())
		staff.POST("", h.CreateBus)
		staff.PUT("/:id", h.UpdateBus)
		staff.DELETE("/:id", h.DeleteBus)

		// Schedule
		travels := api.Group("/travels")
		travels.GET("", h.QueryTravels)
		travels.GET("/:id", h.GetTravel)

		// Auth
		api.POST("/token", h.Token)

		// Accounts
		users := api.Group("/users")
		users.POST("", h.CreateUser)

		me := users.Group("/me", requireUser)
		me.GET("", h.GetCurrentUser)
		me.PATCH("", h.UpdateCurrentUser)
		me.DELETE("", h.DeleteCurrentUser)
		me.PATCH("/change-password", h.ChangePassword)

		// Tickets
		tickets := me.Group("/tickets")
		tickets.GET("", h.ListTickets)
		tickets.POST("", h.PurchaseTicket)
		tickets.GET("/:id", h.GetTicket)
		tickets.GET("/:id/e-ticket", h.GetTicketPDF)
		tickets.DELETE("/:id", h.CancelTicket)
	}

	h.SetRouter(r)
	return r
}
