package models

import (
	"time"

	"busbackend/internal/domain"
)

// Travel mirrors booking_travel.
type Travel struct {
	ID          int64       `json:"id"`
	Schedule    time.Time   `json:"schedule"`
	Origin      domain.City `json:"origin"`
	Destination domain.City `json:"destination"`
	BusID       string      `json:"bus_id"`
}

// TravelListing is a travel enriched with its bus capacity.
type TravelListing struct {
	Travel
	Seats     int `json:"seats"`
	FreeSeats int `json:"free_seats"`
}

// TravelQuery filters travels by departure day window and optional endpoints.
type TravelQuery struct {
	Date        time.Time
	ToDate      *time.Time
	Origin      *domain.City
	Destination *domain.City
}
