package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"busbackend/internal/domain"
	"busbackend/internal/domain/models"
)

const travelListingSelect = `
	SELECT t.id, t.schedule, t.origin, t.destination, t.bus_id, b.seats,
		b.seats - (SELECT COUNT(*) FROM booking_ticket tk WHERE tk.travel_id = t.id) AS free_seats
	FROM booking_travel t
	JOIN booking_bus b ON b.bus_id = t.bus_id`

// TravelSeats is a travel locked for seat allocation.
type TravelSeats struct {
	models.Travel
	Seats                int
	SeatsReducedMobility int
}

type TravelRepository struct {
	DB *sql.DB
	Tx *sql.Tx
}

func (r TravelRepository) WithTx(tx *sql.Tx) TravelRepository {
	r.Tx = tx
	return r
}

// Search lists travels departing in [start, end). Each combination of the
// optional endpoints is its own predicate shape.
func (r TravelRepository) Search(ctx context.Context, start, end time.Time, origin, destination *domain.City) ([]models.TravelListing, error) {
	where := []string{"t.schedule >= ?", "t.schedule < ?"}
	args := []any{start.UTC(), end.UTC()}

	switch {
	case origin != nil && destination != nil:
		where = append(where, "t.origin = ?", "t.destination = ?")
		args = append(args, string(*origin), string(*destination))
	case origin != nil:
		where = append(where, "t.origin = ?")
		args = append(args, string(*origin))
	case destination != nil:
		where = append(where, "t.destination = ?")
		args = append(args, string(*destination))
	}

	query := travelListingSelect + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY t.schedule ASC, t.id ASC`

	rows, err := conn(r.DB, r.Tx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TravelListing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return out, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Get returns sql.ErrNoRows when the travel does not exist.
func (r TravelRepository) Get(ctx context.Context, id int64) (models.TravelListing, error) {
	row := conn(r.DB, r.Tx).QueryRowContext(ctx, travelListingSelect+` WHERE t.id = ?`, id)
	return scanListing(row)
}

// GetForUpdate locks the travel row so seat allocation on it is serialized.
func (r TravelRepository) GetForUpdate(ctx context.Context, id int64) (TravelSeats, error) {
	var (
		out         TravelSeats
		origin, dst string
	)
	err := conn(r.DB, r.Tx).QueryRowContext(ctx, `
		SELECT t.id, t.schedule, t.origin, t.destination, t.bus_id, b.seats, b.seats_reduced_mobility
		FROM booking_travel t
		JOIN booking_bus b ON b.bus_id = t.bus_id
		WHERE t.id = ?
		FOR UPDATE
	`, id).Scan(&out.ID, &out.Schedule, &origin, &dst, &out.BusID, &out.Seats, &out.SeatsReducedMobility)
	out.Origin = domain.City(origin)
	out.Destination = domain.City(dst)
	return out, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(s rowScanner) (models.TravelListing, error) {
	var (
		l           models.TravelListing
		origin, dst string
	)
	if err := s.Scan(&l.ID, &l.Schedule, &origin, &dst, &l.BusID, &l.Seats, &l.FreeSeats); err != nil {
		return l, err
	}
	l.Origin = domain.City(strings.TrimSpace(origin))
	l.Destination = domain.City(strings.TrimSpace(dst))
	return l, nil
}
