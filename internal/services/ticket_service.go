package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	intconfig "busbackend/internal/config"
	intdb "busbackend/internal/db"
	"busbackend/internal/domain"
	"busbackend/internal/domain/models"
	"busbackend/internal/events"
	"busbackend/internal/repositories"
	"busbackend/internal/utils"
)

// CancellationCutoff is the minimum lead time before departure for a cancellation.
const CancellationCutoff = 24 * time.Hour

// TicketService is the booking ledger.
type TicketService struct {
	DB        *sql.DB
	Location  *time.Location
	Events    events.Publisher
	Now       func() time.Time
	RequestID string
}

func (s TicketService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s TicketService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s TicketService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s TicketService) publisher() events.Publisher {
	if s.Events != nil {
		return s.Events
	}
	return events.NopPublisher{}
}

func (s TicketService) localize(tp models.TicketPublic) models.TicketPublic {
	tp.Schedule = tp.Schedule.In(s.loc())
	return tp
}

// ListTicketsForUser returns NotFound when the user holds no ticket.
func (s TicketService) ListTicketsForUser(ctx context.Context, userID int64) ([]models.TicketPublic, error) {
	tickets, err := repositories.TicketRepository{DB: s.db()}.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	if len(tickets) == 0 {
		return nil, domain.NotFoundError{Resource: "tickets"}
	}
	for i := range tickets {
		tickets[i] = s.localize(tickets[i])
	}
	return tickets, nil
}

// GetTicket answers NotFound for missing tickets and for tickets of other users alike.
func (s TicketService) GetTicket(ctx context.Context, ticketID, userID int64) (models.TicketPublic, error) {
	tp, err := repositories.TicketRepository{DB: s.db()}.GetOwned(ctx, ticketID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tp, domain.NotFoundError{Resource: "ticket"}
		}
		return tp, domain.InternalError{Err: err}
	}
	return s.localize(tp), nil
}

// CancelTicket deletes an owned ticket unless departure is less than 24 hours away.
func (s TicketService) CancelTicket(ctx context.Context, ticketID, userID int64) error {
	var cancelled models.TicketPublic
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		repo := repositories.TicketRepository{}.WithTx(tx)
		tp, err := repo.GetOwnedForUpdate(ctx, ticketID, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFoundError{Resource: "ticket"}
			}
			return err
		}
		if tp.Schedule.Sub(s.now()) < CancellationCutoff {
			return domain.ValidationError{Msg: "too close to departure: tickets can be cancelled up to 24 hours before", Rule: true}
		}
		if _, err := repo.Delete(ctx, ticketID, userID); err != nil {
			return err
		}
		cancelled = tp
		return nil
	})
	if err != nil {
		return wrapInternal(err)
	}

	utils.LogEvent(s.RequestID, "ticket", "cancel", "ticket_id="+strconv.FormatInt(ticketID, 10))
	s.publish(ctx, events.TopicTicketCancelled, events.TicketCancelled{
		TicketID: cancelled.ID,
		TravelID: cancelled.TravelID,
		UserID:   userID,
	})
	return nil
}

// PurchaseTicket sells a seat on a travel. The travel row is locked for the
// whole allocation and the (travel, seat) unique key rejects any duplicate
// that slips past it.
func (s TicketService) PurchaseTicket(ctx context.Context, userID int64, req models.TicketPurchase) (models.TicketPublic, error) {
	var out models.TicketPublic
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		travels := repositories.TravelRepository{}.WithTx(tx)
		tickets := repositories.TicketRepository{}.WithTx(tx)
		users := repositories.UserRepository{}.WithTx(tx)

		travel, err := travels.GetForUpdate(ctx, req.TravelID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFoundError{Resource: "travel"}
			}
			return err
		}
		now := s.now()
		if !travel.Schedule.After(now) {
			return domain.ValidationError{Field: "travel_id", Msg: "travel has already departed", Rule: true}
		}

		_, customer, err := users.GetProfile(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFoundError{Resource: "customer"}
			}
			return err
		}

		taken, err := tickets.TakenSeats(ctx, travel.ID)
		if err != nil {
			return err
		}

		seat, err := chooseSeat(travel.Seats, travel.SeatsReducedMobility, customer.HasReducedMobility, taken, req.SeatNumber)
		if err != nil {
			return err
		}

		ticket := models.Ticket{
			SeatNumber:       seat,
			Price:            utils.ComputeFare(travel.Origin, travel.Destination, customer.HasLargeFamily),
			PurchaseDatetime: now,
			TravelID:         travel.ID,
			UserID:           userID,
		}
		id, err := tickets.Insert(ctx, ticket)
		if err != nil {
			switch {
			case intdb.IsDuplicate(err):
				return domain.ConflictError{Resource: "seat", Msg: "seat " + strconv.Itoa(seat) + " is already taken", Err: err}
			case intdb.IsMissingReference(err):
				return domain.NotFoundError{Resource: "customer", Err: err}
			}
			return err
		}

		out = models.TicketPublic{
			ID:          id,
			SeatNumber:  seat,
			Price:       ticket.Price,
			Origin:      travel.Origin,
			Destination: travel.Destination,
			Schedule:    travel.Schedule,
			TravelID:    travel.ID,
			BusID:       travel.BusID,
		}
		return nil
	})
	if err != nil {
		return out, wrapInternal(err)
	}

	utils.LogEvent(s.RequestID, "ticket", "purchase",
		"ticket_id="+strconv.FormatInt(out.ID, 10)+" travel_id="+strconv.FormatInt(out.TravelID, 10))
	s.publish(ctx, events.TopicTicketPurchased, events.TicketPurchased{
		TicketID:   out.ID,
		TravelID:   out.TravelID,
		UserID:     userID,
		SeatNumber: out.SeatNumber,
		Price:      out.Price,
	})
	return s.localize(out), nil
}

// chooseSeat validates a requested seat or allocates the lowest free one.
// Seats 1..reduced are kept for reduced-mobility customers; those customers
// are offered them first.
func chooseSeat(seats, reduced int, reducedMobility bool, taken map[int]bool, requested *int) (int, error) {
	if requested != nil {
		seat := *requested
		if seat < 1 || seat > seats {
			return 0, domain.ValidationError{Field: "seat_number", Msg: "must be between 1 and " + strconv.Itoa(seats)}
		}
		if seat <= reduced && !reducedMobility {
			return 0, domain.ValidationError{Field: "seat_number", Msg: "seat is reserved for passengers with reduced mobility", Rule: true}
		}
		if taken[seat] {
			return 0, domain.ConflictError{Resource: "seat", Msg: "seat " + strconv.Itoa(seat) + " is already taken"}
		}
		return seat, nil
	}

	first := reduced + 1
	if reducedMobility {
		first = 1
	}
	for seat := first; seat <= seats; seat++ {
		if !taken[seat] {
			return seat, nil
		}
	}
	return 0, domain.ConflictError{Resource: "travel", Msg: "travel is full"}
}

func (s TicketService) publish(ctx context.Context, topic string, payload any) {
	if err := s.publisher().Publish(ctx, topic, payload); err != nil {
		utils.LogError(s.RequestID, "events", "publish_"+topic, err)
	}
}
