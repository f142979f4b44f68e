package models

import (
	"time"

	"busbackend/internal/domain"
)

// Ticket mirrors booking_ticket.
type Ticket struct {
	ID               int64     `json:"id"`
	SeatNumber       int       `json:"seat_number"`
	Price            int64     `json:"price"`
	PurchaseDatetime time.Time `json:"purchase_datetime"`
	TravelID         int64     `json:"travel_id"`
	UserID           int64     `json:"-"`
}

// TicketPublic is a ticket joined with its travel.
type TicketPublic struct {
	ID          int64       `json:"id"`
	SeatNumber  int         `json:"seat_number"`
	Price       int64       `json:"price"`
	Origin      domain.City `json:"origin"`
	Destination domain.City `json:"destination"`
	Schedule    time.Time   `json:"schedule"`
	TravelID    int64       `json:"travel_id"`
	BusID       string      `json:"bus_id,omitempty"`
}

// TicketPurchase requests a seat on a travel. A nil SeatNumber asks for
// automatic allocation.
type TicketPurchase struct {
	TravelID   int64 `json:"travel_id" binding:"required,gt=0"`
	SeatNumber *int  `json:"seat_number" binding:"omitempty,gt=0"`
}
