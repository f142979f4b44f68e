package services

import (
	"context"
	"testing"
	"time"

	"busbackend/internal/domain"
	"busbackend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
)

var userRowCols = []string{"id", "password", "last_login", "is_superuser", "username", "first_name", "last_name", "email", "is_staff", "is_active", "date_joined"}

func userRow(id int64, username, hash string) *sqlmock.Rows {
	return sqlmock.NewRows(userRowCols).
		AddRow(id, hash, nil, false, username, "Ana", "Ruiz", username+"@example.com", false, true, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func fixedNow() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }

func TestAuthenticateRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	hasher := DefaultHasher{Cost: 4}
	hash, _ := hasher.Hash("abcdefg1")

	svc := AuthService{Users: repositories.UserRepository{DB: db}, Hasher: hasher, Secret: []byte("k"), Now: fixedNow}

	mock.ExpectQuery("FROM auth_user WHERE username").WithArgs("ana").WillReturnRows(userRow(1, "ana", hash))
	mock.ExpectExec("UPDATE auth_user SET last_login").WithArgs(sqlmock.AnyArg(), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	user, err := svc.Authenticate(context.Background(), "ana", "abcdefg1")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if user.ID != 1 || user.LastLogin == nil {
		t.Fatalf("unexpected user %+v", user)
	}

	mock.ExpectQuery("FROM auth_user WHERE username").WithArgs("ana").WillReturnRows(userRow(1, "ana", hash))
	if _, err := svc.Authenticate(context.Background(), "ana", "abcdefg2"); !domain.IsInvalidCredentials(err) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuthenticateUnknownUserSameError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc := AuthService{Users: repositories.UserRepository{DB: db}, Secret: []byte("k")}
	mock.ExpectQuery("FROM auth_user WHERE username").WithArgs("ghost").WillReturnRows(sqlmock.NewRows(userRowCols))

	_, err = svc.Authenticate(context.Background(), "ghost", "abcdefg1")
	if !domain.IsInvalidCredentials(err) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if err.Error() != (domain.InvalidCredentialsError{}).Error() {
		t.Fatalf("message leaks which factor failed: %q", err.Error())
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc := AuthService{Users: repositories.UserRepository{DB: db}, Secret: []byte("secret"), Now: fixedNow}
	token, err := svc.IssueToken("ana", 90*time.Minute)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	mock.ExpectQuery("FROM auth_user WHERE username").WithArgs("ana").WillReturnRows(userRow(1, "ana", "x"))
	user, err := svc.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if user.Username != "ana" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestIssueTokenDefaultTTL(t *testing.T) {
	svc := AuthService{Secret: []byte("secret"), Now: fixedNow}
	token, err := svc.IssueToken("ana", 0)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := claims.ExpiresAt.Time.Sub(fixedNow()); got != DefaultTokenTTL {
		t.Fatalf("ttl got %s", got)
	}
	if claims.Subject != "ana" {
		t.Fatalf("subject got %q", claims.Subject)
	}
}

func TestVerifyTokenRejections(t *testing.T) {
	svc := AuthService{Secret: []byte("secret"), Now: fixedNow}

	expired, _ := AuthService{Secret: []byte("secret"), Now: func() time.Time { return fixedNow().Add(-2 * time.Hour) }}.
		IssueToken("ana", time.Minute)
	otherKey, _ := AuthService{Secret: []byte("other"), Now: fixedNow}.IssueToken("ana", time.Hour)
	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(fixedNow().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "ana"}).SignedString([]byte("secret"))
	wrongAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "ana",
		ExpiresAt: jwt.NewNumericDate(fixedNow().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	for name, token := range map[string]string{
		"empty":     "",
		"garbage":   "not.a.token",
		"expired":   expired,
		"other key": otherKey,
		"no sub":    noSub,
		"no exp":    noExp,
		"wrong alg": wrongAlg,
	} {
		if _, err := svc.VerifyToken(context.Background(), token); !domain.IsUnauthenticated(err) {
			t.Errorf("%s: expected unauthenticated, got %v", name, err)
		}
	}
}

func TestVerifyTokenUnknownSubject(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc := AuthService{Users: repositories.UserRepository{DB: db}, Secret: []byte("secret"), Now: fixedNow}
	token, _ := svc.IssueToken("gone", time.Hour)
	mock.ExpectQuery("FROM auth_user WHERE username").WithArgs("gone").WillReturnRows(sqlmock.NewRows(userRowCols))

	if _, err := svc.VerifyToken(context.Background(), token); !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
