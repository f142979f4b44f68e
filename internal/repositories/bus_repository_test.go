package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestBusListWithLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM booking_bus ORDER BY bus_id ASC LIMIT").WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"bus_id", "seats", "seats_first_row", "seats_reduced_mobility"}).
			AddRow("AB12", 12, 4, 1).
			AddRow("CD34", 10, 2, 0))

	out, err := BusRepository{DB: db}.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(out) != 2 || out[0].BusID != "AB12" || out[1].SeatsFirstRow != 2 {
		t.Fatalf("unexpected buses %+v", out)
	}
}

func TestBusDeleteReportsAffectedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM booking_bus").WithArgs("ZZ99").WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := BusRepository{DB: db}.Delete(context.Background(), "ZZ99")
	if err != nil || n != 0 {
		t.Fatalf("Delete got %d %v", n, err)
	}
}
