package services

import (
	"context"
	"testing"

	"busbackend/internal/domain"
	"busbackend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestValidateBusLayout(t *testing.T) {
	cases := []struct {
		name string
		spec models.BusSpec
		ok   bool
	}{
		{"full rows", models.BusSpec{Seats: 12, SeatsFirstRow: 4}, true},
		{"short first row", models.BusSpec{Seats: 10, SeatsFirstRow: 2, SeatsReducedMobility: 2}, true},
		{"max", models.BusSpec{Seats: 72, SeatsFirstRow: 4}, true},
		{"partial last row", models.BusSpec{Seats: 11, SeatsFirstRow: 4}, false},
		{"too few seats", models.BusSpec{Seats: 5, SeatsFirstRow: 1}, false},
		{"too many seats", models.BusSpec{Seats: 76, SeatsFirstRow: 4}, false},
		{"first row too wide", models.BusSpec{Seats: 13, SeatsFirstRow: 5}, false},
		{"first row empty", models.BusSpec{Seats: 12, SeatsFirstRow: 0}, false},
		{"too many reduced", models.BusSpec{Seats: 12, SeatsFirstRow: 4, SeatsReducedMobility: 3}, false},
		{"bad id", models.BusSpec{BusID: "A123", Seats: 12, SeatsFirstRow: 4}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBus(tc.spec)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !tc.ok && !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateBusRejectsLayoutWithoutTouchingDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	_, err = BusService{DB: db}.CreateBus(context.Background(), models.BusSpec{BusID: "AB12", Seats: 11, SeatsFirstRow: 4})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestCreateBusDuplicateIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO booking_bus").WithArgs("AB12", 12, 4, 0).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'AB12'"})

	_, err = BusService{DB: db}.CreateBus(context.Background(), models.BusSpec{BusID: "AB12", Seats: 12, SeatsFirstRow: 4})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateBusMissingIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM booking_bus WHERE bus_id=\\? FOR UPDATE").WithArgs("ZZ99").
		WillReturnRows(sqlmock.NewRows([]string{"bus_id", "seats", "seats_first_row", "seats_reduced_mobility"}))
	mock.ExpectRollback()

	_, err = BusService{DB: db}.UpdateBus(context.Background(), "ZZ99", models.BusSpec{Seats: 12, SeatsFirstRow: 4})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateBusRevalidates(t *testing.T) {
	_, err := BusService{}.UpdateBus(context.Background(), "AB12", models.BusSpec{Seats: 14, SeatsFirstRow: 4})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateBusKeepsIdentifier(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("AB12").
		WillReturnRows(sqlmock.NewRows([]string{"bus_id", "seats", "seats_first_row", "seats_reduced_mobility"}).AddRow("AB12", 12, 4, 0))
	mock.ExpectExec("UPDATE booking_bus").WithArgs(16, 4, 1, "AB12").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	bus, err := BusService{DB: db}.UpdateBus(context.Background(), "AB12", models.BusSpec{BusID: "XX00", Seats: 16, SeatsFirstRow: 4, SeatsReducedMobility: 1})
	if err != nil {
		t.Fatalf("UpdateBus error: %v", err)
	}
	if bus.BusID != "AB12" {
		t.Fatalf("identifier changed to %s", bus.BusID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteBus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM booking_bus").WithArgs("ZZ99").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := (BusService{DB: db}).DeleteBus(context.Background(), "ZZ99"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("DELETE FROM booking_bus").WithArgs("AB12").
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "a foreign key constraint fails"})
	if err := (BusService{DB: db}).DeleteBus(context.Background(), "AB12"); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
