package repositories

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"busbackend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

var listingCols = []string{"id", "schedule", "origin", "destination", "bus_id", "seats", "free_seats"}

func TestTravelSearchPredicateShapes(t *testing.T) {
	start := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	m, b := domain.Madrid, domain.Barcelona

	cases := []struct {
		name        string
		origin      *domain.City
		destination *domain.City
		where       string
		args        int
	}{
		{"no filters", nil, nil, "WHERE t.schedule >= ? AND t.schedule < ? ORDER BY", 2},
		{"origin", &m, nil, "t.schedule < ? AND t.origin = ? ORDER BY", 3},
		{"destination", nil, &b, "t.schedule < ? AND t.destination = ? ORDER BY", 3},
		{"both", &m, &b, "t.origin = ? AND t.destination = ? ORDER BY", 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock init error: %v", err)
			}
			defer db.Close()

			args := make([]any, 0, tc.args)
			args = append(args, start, end)
			if tc.origin != nil {
				args = append(args, string(*tc.origin))
			}
			if tc.destination != nil {
				args = append(args, string(*tc.destination))
			}
			driverArgs := make([]driver.Value, 0, len(args))
			for _, a := range args {
				driverArgs = append(driverArgs, anyOf{a})
			}

			mock.ExpectQuery(regexp.QuoteMeta(tc.where)).
				WithArgs(driverArgs...).
				WillReturnRows(sqlmock.NewRows(listingCols).
					AddRow(1, start.Add(8*time.Hour), "M", "B", "AB12", 12, 10))

			repo := TravelRepository{DB: db}
			out, err := repo.Search(context.Background(), start, end, tc.origin, tc.destination)
			if err != nil {
				t.Fatalf("Search error: %v", err)
			}
			if len(out) != 1 || out[0].Origin != domain.Madrid || out[0].FreeSeats != 10 {
				t.Fatalf("unexpected result %+v", out)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestTravelGetForUpdateLocksRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	when := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "schedule", "origin", "destination", "bus_id", "seats", "seats_reduced_mobility"}).
			AddRow(9, when, "B", "M", "CD34", 16, 2))

	got, err := TravelRepository{DB: db}.GetForUpdate(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetForUpdate error: %v", err)
	}
	if got.Seats != 16 || got.SeatsReducedMobility != 2 || got.Destination != domain.Madrid {
		t.Fatalf("unexpected %+v", got)
	}
}

// anyOf matches a single expected value, comparing times by instant.
type anyOf struct{ want any }

func (a anyOf) Match(v driver.Value) bool {
	if wt, ok := a.want.(time.Time); ok {
		gt, ok := v.(time.Time)
		return ok && gt.Equal(wt)
	}
	return v == a.want
}
