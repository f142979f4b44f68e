package repositories

import (
	"context"
	"regexp"
	"testing"

	"busbackend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUpdateUserWritesOnlyPresentFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	email := "new@example.com"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE auth_user SET email = ? WHERE id = ?")).
		WithArgs(email, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (UserRepository{DB: db}).UpdateUser(context.Background(), 4, models.UserUpdate{Email: &email}); err != nil {
		t.Fatalf("UpdateUser error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateCustomerSkipsWhenNothingPresent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	first := "Ana"
	if err := (UserRepository{DB: db}).UpdateCustomer(context.Background(), 4, models.UserUpdate{FirstName: &first}); err != nil {
		t.Fatalf("UpdateCustomer error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestUpdateCustomerFlags(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	yes := true
	birth, _ := models.ParseDate("1990-05-17")
	mock.ExpectExec(regexp.QuoteMeta("UPDATE booking_customer SET birth_date = ?, has_reduced_mobility = ? WHERE user_id = ?")).
		WithArgs("1990-05-17", true, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = (UserRepository{DB: db}).UpdateCustomer(context.Background(), 4, models.UserUpdate{BirthDate: &birth, HasReducedMobility: &yes})
	if err != nil {
		t.Fatalf("UpdateCustomer error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCountOrphans(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("LEFT JOIN booking_customer").
		WillReturnRows(sqlmock.NewRows([]string{"users", "customers"}).AddRow(0, 0))

	users, customers, err := UserRepository{DB: db}.CountOrphans(context.Background())
	if err != nil || users != 0 || customers != 0 {
		t.Fatalf("CountOrphans got %d %d %v", users, customers, err)
	}
}
