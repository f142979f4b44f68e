package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names follow the external identity schema (auth_user) and the
// booking application tables that live next to it.
const (
	TableBus      = "booking_bus"
	TableTravel   = "booking_travel"
	TableUser     = "auth_user"
	TableCustomer = "booking_customer"
	TableTicket   = "booking_ticket"
)

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS booking_bus (
	bus_id VARCHAR(4) NOT NULL PRIMARY KEY,
	seats INT NOT NULL,
	seats_first_row INT NOT NULL,
	seats_reduced_mobility INT NOT NULL DEFAULT 0
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS booking_travel (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	schedule DATETIME(6) NOT NULL,
	origin VARCHAR(2) NOT NULL,
	destination VARCHAR(2) NOT NULL,
	bus_id VARCHAR(4) NOT NULL,
	KEY idx_travel_schedule (schedule),
	CONSTRAINT fk_travel_bus FOREIGN KEY (bus_id) REFERENCES booking_bus (bus_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS auth_user (
	id INT AUTO_INCREMENT PRIMARY KEY,
	password VARCHAR(128) NOT NULL,
	last_login DATETIME(6) NULL,
	is_superuser TINYINT(1) NOT NULL DEFAULT 0,
	username VARCHAR(150) NOT NULL,
	first_name VARCHAR(150) NOT NULL DEFAULT '',
	last_name VARCHAR(150) NOT NULL DEFAULT '',
	email VARCHAR(254) NOT NULL,
	is_staff TINYINT(1) NOT NULL DEFAULT 0,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	date_joined DATETIME(6) NOT NULL,
	UNIQUE KEY uniq_auth_user_username (username)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS booking_customer (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	birth_date DATE NULL,
	has_large_family TINYINT(1) NOT NULL DEFAULT 0,
	has_reduced_mobility TINYINT(1) NOT NULL DEFAULT 0,
	user_id INT NOT NULL,
	UNIQUE KEY uniq_customer_user (user_id),
	CONSTRAINT fk_customer_user FOREIGN KEY (user_id) REFERENCES auth_user (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	`CREATE TABLE IF NOT EXISTS booking_ticket (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	seat_number SMALLINT NOT NULL,
	price INT NULL,
	purchase_datetime DATETIME(6) NOT NULL,
	travel_id BIGINT NOT NULL,
	user_id INT NOT NULL,
	UNIQUE KEY uniq_ticket_travel_seat (travel_id, seat_number),
	KEY idx_ticket_user (user_id),
	CONSTRAINT fk_ticket_travel FOREIGN KEY (travel_id) REFERENCES booking_travel (id),
	CONSTRAINT fk_ticket_user FOREIGN KEY (user_id) REFERENCES auth_user (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

// EnsureSchema creates the application tables when missing. Existing tables
// are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database not available")
	}
	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
