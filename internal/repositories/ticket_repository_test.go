package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"busbackend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var ticketCols = []string{"id", "seat_number", "price", "origin", "destination", "schedule", "travel_id", "bus_id"}

func TestTicketGetOwnedFiltersByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE tk.id = ? AND tk.user_id = ?")).
		WithArgs(int64(5), int64(2)).
		WillReturnRows(sqlmock.NewRows(ticketCols))

	_, err = TicketRepository{DB: db}.GetOwned(context.Background(), 5, 2)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	when := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM booking_ticket tk").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(1, 4, 45, "M", "B", when, 10, "AB12").
			AddRow(2, 5, 45, "M", "B", when, 10, "AB12"))

	out, err := TicketRepository{DB: db}.ListByUser(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(out) != 2 || out[1].SeatNumber != 5 || !out[0].Schedule.Equal(when) {
		t.Fatalf("unexpected tickets %+v", out)
	}
}

func TestTicketTakenSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT seat_number FROM booking_ticket").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow(1).AddRow(3))

	taken, err := TicketRepository{DB: db}.TakenSeats(context.Background(), 7)
	if err != nil {
		t.Fatalf("TakenSeats error: %v", err)
	}
	if !taken[1] || taken[2] || !taken[3] {
		t.Fatalf("unexpected taken map %v", taken)
	}
}

func TestTicketInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO booking_ticket").
		WithArgs(4, int64(45), sqlmock.AnyArg(), int64(10), int64(3)).
		WillReturnResult(sqlmock.NewResult(99, 1))

	id, err := TicketRepository{DB: db}.Insert(context.Background(), models.Ticket{
		SeatNumber: 4, Price: 45, PurchaseDatetime: time.Now(), TravelID: 10, UserID: 3,
	})
	if err != nil || id != 99 {
		t.Fatalf("Insert got id=%d err=%v", id, err)
	}
}
