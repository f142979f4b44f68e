package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"busbackend/internal/domain/models"
)

const userColumns = `id, password, last_login, is_superuser, username, first_name, last_name, email, is_staff, is_active, date_joined`

type UserRepository struct {
	DB *sql.DB
	Tx *sql.Tx
}

func (r UserRepository) WithTx(tx *sql.Tx) UserRepository {
	r.Tx = tx
	return r
}

// GetByUsername returns sql.ErrNoRows when no user has that username.
func (r UserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	row := conn(r.DB, r.Tx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM auth_user WHERE username = ?`, username)
	return scanUser(row)
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	row := conn(r.DB, r.Tx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM auth_user WHERE id = ?`, id)
	return scanUser(row)
}

// GetProfile joins auth_user with booking_customer.
func (r UserRepository) GetProfile(ctx context.Context, userID int64) (models.User, models.Customer, error) {
	var (
		u         models.User
		c         models.Customer
		lastLogin sql.NullTime
		birth     sql.NullTime
	)
	err := conn(r.DB, r.Tx).QueryRowContext(ctx, `
		SELECT u.id, u.password, u.last_login, u.is_superuser, u.username, u.first_name, u.last_name,
			u.email, u.is_staff, u.is_active, u.date_joined,
			c.id, c.birth_date, c.has_large_family, c.has_reduced_mobility, c.user_id
		FROM auth_user u
		JOIN booking_customer c ON c.user_id = u.id
		WHERE u.id = ?
	`, userID).Scan(
		&u.ID, &u.Password, &lastLogin, &u.IsSuperuser, &u.Username, &u.FirstName, &u.LastName,
		&u.Email, &u.IsStaff, &u.IsActive, &u.DateJoined,
		&c.ID, &birth, &c.HasLargeFamily, &c.HasReducedMobility, &c.UserID,
	)
	if err != nil {
		return u, c, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	if birth.Valid {
		d := models.NewDate(birth.Time)
		c.BirthDate = &d
	}
	return u, c, nil
}

// InsertUser stores a new auth_user row and returns its id.
func (r UserRepository) InsertUser(ctx context.Context, u models.User) (int64, error) {
	res, err := conn(r.DB, r.Tx).ExecContext(ctx, `
		INSERT INTO auth_user (password, is_superuser, username, first_name, last_name, email, is_staff, is_active, date_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.Password, u.IsSuperuser, u.Username, u.FirstName, u.LastName, u.Email, u.IsStaff, u.IsActive, u.DateJoined.UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r UserRepository) InsertCustomer(ctx context.Context, c models.Customer) (int64, error) {
	res, err := conn(r.DB, r.Tx).ExecContext(ctx, `
		INSERT INTO booking_customer (birth_date, has_large_family, has_reduced_mobility, user_id)
		VALUES (?, ?, ?, ?)
	`, dateArg(c.BirthDate), c.HasLargeFamily, c.HasReducedMobility, c.UserID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateUser writes only the auth_user columns present in upd.
func (r UserRepository) UpdateUser(ctx context.Context, userID int64, upd models.UserUpdate) error {
	sets := []string{}
	args := []any{}
	if upd.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, strings.TrimSpace(*upd.Username))
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, strings.TrimSpace(*upd.Email))
	}
	if upd.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *upd.FirstName)
	}
	if upd.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *upd.LastName)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, userID)
	_, err := conn(r.DB, r.Tx).ExecContext(ctx, `UPDATE auth_user SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return err
}

// UpdateCustomer writes only the booking_customer columns present in upd.
func (r UserRepository) UpdateCustomer(ctx context.Context, userID int64, upd models.UserUpdate) error {
	sets := []string{}
	args := []any{}
	if upd.BirthDate != nil {
		sets = append(sets, "birth_date = ?")
		args = append(args, dateArg(upd.BirthDate))
	}
	if upd.HasLargeFamily != nil {
		sets = append(sets, "has_large_family = ?")
		args = append(args, *upd.HasLargeFamily)
	}
	if upd.HasReducedMobility != nil {
		sets = append(sets, "has_reduced_mobility = ?")
		args = append(args, *upd.HasReducedMobility)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, userID)
	_, err := conn(r.DB, r.Tx).ExecContext(ctx, `UPDATE booking_customer SET `+strings.Join(sets, ", ")+` WHERE user_id = ?`, args...)
	return err
}

func (r UserRepository) SetPassword(ctx context.Context, userID int64, hash string) error {
	_, err := conn(r.DB, r.Tx).ExecContext(ctx, `UPDATE auth_user SET password = ? WHERE id = ?`, hash, userID)
	return err
}

func (r UserRepository) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := conn(r.DB, r.Tx).ExecContext(ctx, `UPDATE auth_user SET last_login = ? WHERE id = ?`, at.UTC(), userID)
	return err
}

func (r UserRepository) DeleteCustomer(ctx context.Context, userID int64) (int64, error) {
	res, err := conn(r.DB, r.Tx).ExecContext(ctx, `DELETE FROM booking_customer WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r UserRepository) DeleteUser(ctx context.Context, userID int64) (int64, error) {
	res, err := conn(r.DB, r.Tx).ExecContext(ctx, `DELETE FROM auth_user WHERE id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountOrphans reports auth_user rows without a customer and customer rows
// without a user. Both are expected to be zero.
func (r UserRepository) CountOrphans(ctx context.Context) (users int, customers int, err error) {
	err = conn(r.DB, r.Tx).QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM auth_user u LEFT JOIN booking_customer c ON c.user_id = u.id WHERE c.id IS NULL),
			(SELECT COUNT(*) FROM booking_customer c LEFT JOIN auth_user u ON u.id = c.user_id WHERE u.id IS NULL)
	`).Scan(&users, &customers)
	return users, customers, err
}

func scanUser(s rowScanner) (models.User, error) {
	var (
		u         models.User
		lastLogin sql.NullTime
	)
	err := s.Scan(&u.ID, &u.Password, &lastLogin, &u.IsSuperuser, &u.Username, &u.FirstName, &u.LastName,
		&u.Email, &u.IsStaff, &u.IsActive, &u.DateJoined)
	if err != nil {
		return u, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

func dateArg(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
