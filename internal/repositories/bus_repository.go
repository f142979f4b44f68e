package repositories

import (
	"context"
	"database/sql"

	"busbackend/internal/domain/models"
)

const busColumns = `bus_id, seats, seats_first_row, seats_reduced_mobility`

type BusRepository struct {
	DB *sql.DB
	Tx *sql.Tx
}

// WithTx binds the repository to tx.
func (r BusRepository) WithTx(tx *sql.Tx) BusRepository {
	r.Tx = tx
	return r
}

func (r BusRepository) List(ctx context.Context, limit int) ([]models.Bus, error) {
	query := `SELECT ` + busColumns + ` FROM booking_bus ORDER BY bus_id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := conn(r.DB, r.Tx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Bus{}
	for rows.Next() {
		var b models.Bus
		if err := rows.Scan(&b.BusID, &b.Seats, &b.SeatsFirstRow, &b.SeatsReducedMobility); err != nil {
			return out, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Get returns sql.ErrNoRows when the bus does not exist.
func (r BusRepository) Get(ctx context.Context, id string) (models.Bus, error) {
	return r.get(ctx, `SELECT `+busColumns+` FROM booking_bus WHERE bus_id=?`, id)
}

// GetForUpdate locks the row until the bound transaction ends.
func (r BusRepository) GetForUpdate(ctx context.Context, id string) (models.Bus, error) {
	return r.get(ctx, `SELECT `+busColumns+` FROM booking_bus WHERE bus_id=? FOR UPDATE`, id)
}

func (r BusRepository) get(ctx context.Context, query, id string) (models.Bus, error) {
	var b models.Bus
	err := conn(r.DB, r.Tx).QueryRowContext(ctx, query, id).
		Scan(&b.BusID, &b.Seats, &b.SeatsFirstRow, &b.SeatsReducedMobility)
	return b, err
}

func (r BusRepository) Insert(ctx context.Context, b models.Bus) error {
	_, err := conn(r.DB, r.Tx).ExecContext(ctx, `
		INSERT INTO booking_bus (bus_id, seats, seats_first_row, seats_reduced_mobility)
		VALUES (?, ?, ?, ?)
	`, b.BusID, b.Seats, b.SeatsFirstRow, b.SeatsReducedMobility)
	return err
}

func (r BusRepository) Update(ctx context.Context, b models.Bus) error {
	_, err := conn(r.DB, r.Tx).ExecContext(ctx, `
		UPDATE booking_bus
		SET seats=?, seats_first_row=?, seats_reduced_mobility=?
		WHERE bus_id=?
	`, b.Seats, b.SeatsFirstRow, b.SeatsReducedMobility, b.BusID)
	return err
}

// Delete returns the number of removed rows.
func (r BusRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := conn(r.DB, r.Tx).ExecContext(ctx, `DELETE FROM booking_bus WHERE bus_id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
