package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	intconfig "busbackend/internal/config"
	"busbackend/internal/domain"
	"busbackend/internal/domain/models"
	"busbackend/internal/repositories"
	"busbackend/internal/utils"
)

// TravelService is the schedule index.
type TravelService struct {
	DB       *sql.DB
	Location *time.Location
}

func (s TravelService) repo() repositories.TravelRepository {
	if s.DB != nil {
		return repositories.TravelRepository{DB: s.DB}
	}
	return repositories.TravelRepository{DB: intconfig.DB}
}

func (s TravelService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// QueryTravels lists travels departing between Date 00:00 and the day after
// ToDate (or Date) in the reference zone, filtered by the optional endpoints.
// An empty result is not an error.
func (s TravelService) QueryTravels(ctx context.Context, q models.TravelQuery) ([]models.TravelListing, error) {
	if q.Date.IsZero() {
		return nil, domain.ValidationError{Field: "date", Msg: "is required"}
	}
	to := q.Date
	if q.ToDate != nil {
		if q.ToDate.Before(q.Date) {
			return nil, domain.ValidationError{Field: "to_date", Msg: "must not be before date"}
		}
		to = *q.ToDate
	}
	if q.Origin != nil && !q.Origin.Valid() {
		return nil, domain.ValidationError{Field: "origin", Msg: "unknown city code"}
	}
	if q.Destination != nil && !q.Destination.Valid() {
		return nil, domain.ValidationError{Field: "destination", Msg: "unknown city code"}
	}

	start, end := utils.DayWindow(q.Date, to, s.loc())
	travels, err := s.repo().Search(ctx, start, end, q.Origin, q.Destination)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	for i := range travels {
		travels[i].Schedule = travels[i].Schedule.In(s.loc())
	}
	return travels, nil
}

func (s TravelService) GetTravel(ctx context.Context, id int64) (models.TravelListing, error) {
	travel, err := s.repo().Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return travel, domain.NotFoundError{Resource: "travel", Err: err}
		}
		return travel, domain.InternalError{Err: err}
	}
	travel.Schedule = travel.Schedule.In(s.loc())
	return travel, nil
}
