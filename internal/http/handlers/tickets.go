package handlers

import (
	"net/http"

	"busbackend/internal/domain/models"
	"busbackend/internal/http/middleware"
	"busbackend/internal/services"

	"github.com/gin-gonic/gin"
)

func ticketService(c *gin.Context) services.TicketService {
	rt := current()
	return services.TicketService{
		Location:  rt.Location,
		Events:    rt.Events,
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/users/me/tickets
func ListTickets(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	tickets, err := ticketService(c).ListTicketsForUser(c.Request.Context(), userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// POST /api/users/me/tickets
func PurchaseTicket(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	var req models.TicketPurchase
	if !BindJSONOrError(c, &req) {
		return
	}
	ticket, err := ticketService(c).PurchaseTicket(c.Request.Context(), userID, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// GET /api/users/me/tickets/:id
func GetTicket(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	ticketID, ok := paramID(c, "id")
	if !ok {
		return
	}
	ticket, err := ticketService(c).GetTicket(c.Request.Context(), ticketID, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// DELETE /api/users/me/tickets/:id
func CancelTicket(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	ticketID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ticketService(c).CancelTicket(c.Request.Context(), ticketID, userID); err != nil {
		RespondDomainError(c, err)
		return
	}
	okResponse(c)
}

// GET /api/users/me/tickets/:id/e-ticket returns the PDF inline.
func GetTicketPDF(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	ticketID, ok := paramID(c, "id")
	if !ok {
		return
	}

	svc := services.DocsService{
		Location:  current().Location,
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateETicket(c.Request.Context(), ticketID, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
