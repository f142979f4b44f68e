package handlers

import (
	"net/http"
	"strings"

	"busbackend/internal/domain"
	"busbackend/internal/domain/models"
	"busbackend/internal/services"
	"busbackend/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/travels?date=YYYY-MM-DD&to_date=&origin=&destination=
// An empty result answers 204 No Content.
func QueryTravels(c *gin.Context) {
	rt := current()
	q, err := parseTravelQuery(c, rt)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	travels, err := services.TravelService{Location: rt.Location}.QueryTravels(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if len(travels) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, travels)
}

// GET /api/travels/:id
func GetTravel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	travel, err := services.TravelService{Location: current().Location}.GetTravel(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, travel)
}

type travelQueryParams struct {
	Date        string `form:"date" binding:"required"`
	ToDate      string `form:"to_date"`
	Origin      string `form:"origin" binding:"omitempty,city"`
	Destination string `form:"destination" binding:"omitempty,city"`
}

func parseTravelQuery(c *gin.Context, rt Runtime) (models.TravelQuery, error) {
	var (
		q models.TravelQuery
		p travelQueryParams
	)
	if err := c.ShouldBindQuery(&p); err != nil {
		return q, services.BindingError(err)
	}

	date, err := utils.ParseDateIn(p.Date, rt.Location)
	if err != nil {
		return q, domain.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD", Err: err}
	}
	q.Date = date

	if strings.TrimSpace(p.ToDate) != "" {
		to, err := utils.ParseDateIn(p.ToDate, rt.Location)
		if err != nil {
			return q, domain.ValidationError{Field: "to_date", Msg: "must be YYYY-MM-DD", Err: err}
		}
		q.ToDate = &to
	}
	if city, ok := domain.ParseCity(p.Origin); ok {
		q.Origin = &city
	}
	if city, ok := domain.ParseCity(p.Destination); ok {
		q.Destination = &city
	}
	return q, nil
}
