package repositories

import (
	"context"
	"database/sql"
	"strings"

	"busbackend/internal/domain"
	"busbackend/internal/domain/models"
)

const ticketPublicSelect = `
	SELECT tk.id, tk.seat_number, COALESCE(tk.price, 0), t.origin, t.destination, t.schedule, t.id, t.bus_id
	FROM booking_ticket tk
	JOIN booking_travel t ON t.id = tk.travel_id`

type TicketRepository struct {
	DB *sql.DB
	Tx *sql.Tx
}

func (r TicketRepository) WithTx(tx *sql.Tx) TicketRepository {
	r.Tx = tx
	return r
}

// ListByUser returns the user's tickets ordered by departure.
func (r TicketRepository) ListByUser(ctx context.Context, userID int64) ([]models.TicketPublic, error) {
	rows, err := conn(r.DB, r.Tx).QueryContext(ctx,
		ticketPublicSelect+` WHERE tk.user_id = ? ORDER BY t.schedule ASC, tk.id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TicketPublic{}
	for rows.Next() {
		tp, err := scanTicketPublic(rows)
		if err != nil {
			return out, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

// GetOwned returns sql.ErrNoRows both for a missing ticket and for a ticket
// of another user.
func (r TicketRepository) GetOwned(ctx context.Context, ticketID, userID int64) (models.TicketPublic, error) {
	row := conn(r.DB, r.Tx).QueryRowContext(ctx,
		ticketPublicSelect+` WHERE tk.id = ? AND tk.user_id = ?`, ticketID, userID)
	return scanTicketPublic(row)
}

// GetOwnedForUpdate is GetOwned with the ticket row locked.
func (r TicketRepository) GetOwnedForUpdate(ctx context.Context, ticketID, userID int64) (models.TicketPublic, error) {
	row := conn(r.DB, r.Tx).QueryRowContext(ctx,
		ticketPublicSelect+` WHERE tk.id = ? AND tk.user_id = ? FOR UPDATE`, ticketID, userID)
	return scanTicketPublic(row)
}

// TakenSeats lists seat numbers already sold on a travel.
func (r TicketRepository) TakenSeats(ctx context.Context, travelID int64) (map[int]bool, error) {
	rows, err := conn(r.DB, r.Tx).QueryContext(ctx,
		`SELECT seat_number FROM booking_ticket WHERE travel_id = ?`, travelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := map[int]bool{}
	for rows.Next() {
		var seat int
		if err := rows.Scan(&seat); err != nil {
			return taken, err
		}
		taken[seat] = true
	}
	return taken, rows.Err()
}

// Insert stores a ticket and returns its id. A duplicate (travel_id,
// seat_number) surfaces as a MySQL 1062 error.
func (r TicketRepository) Insert(ctx context.Context, t models.Ticket) (int64, error) {
	res, err := conn(r.DB, r.Tx).ExecContext(ctx, `
		INSERT INTO booking_ticket (seat_number, price, purchase_datetime, travel_id, user_id)
		VALUES (?, ?, ?, ?, ?)
	`, t.SeatNumber, t.Price, t.PurchaseDatetime.UTC(), t.TravelID, t.UserID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r TicketRepository) Delete(ctx context.Context, ticketID, userID int64) (int64, error) {
	res, err := conn(r.DB, r.Tx).ExecContext(ctx,
		`DELETE FROM booking_ticket WHERE id = ? AND user_id = ?`, ticketID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r TicketRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	res, err := conn(r.DB, r.Tx).ExecContext(ctx, `DELETE FROM booking_ticket WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanTicketPublic(s rowScanner) (models.TicketPublic, error) {
	var (
		tp          models.TicketPublic
		origin, dst string
	)
	if err := s.Scan(&tp.ID, &tp.SeatNumber, &tp.Price, &origin, &dst, &tp.Schedule, &tp.TravelID, &tp.BusID); err != nil {
		return tp, err
	}
	tp.Origin = domain.City(strings.TrimSpace(origin))
	tp.Destination = domain.City(strings.TrimSpace(dst))
	return tp, nil
}
