package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"busbackend/internal/domain"
	"busbackend/internal/domain/models"
	"busbackend/internal/http/middleware"
	"busbackend/internal/services"
	"busbackend/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/buses?limit=
func ListBuses(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			RespondDomainError(c, domain.ValidationError{Field: "limit", Msg: "must be a non-negative integer"})
			return
		}
		limit = n
	}
	buses, err := services.BusService{}.ListBuses(c.Request.Context(), limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, buses)
}

// GET /api/buses/:id
func GetBus(c *gin.Context) {
	bus, err := services.BusService{}.GetBus(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bus)
}

// POST /api/buses
func CreateBus(c *gin.Context) {
	var spec models.BusSpec
	if !BindJSONOrError(c, &spec) {
		return
	}
	bus, err := services.BusService{}.CreateBus(c.Request.Context(), spec)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "bus", "create", "bus_id="+bus.BusID)
	c.JSON(http.StatusCreated, bus)
}

// PUT /api/buses/:id
func UpdateBus(c *gin.Context) {
	var spec models.BusSpec
	if !BindJSONOrError(c, &spec) {
		return
	}
	bus, err := services.BusService{}.UpdateBus(c.Request.Context(), c.Param("id"), spec)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "bus", "update", "bus_id="+bus.BusID)
	c.JSON(http.StatusOK, bus)
}

// DELETE /api/buses/:id
func DeleteBus(c *gin.Context) {
	id := c.Param("id")
	if err := (services.BusService{}).DeleteBus(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "bus", "delete", "bus_id="+id)
	okResponse(c)
}
