package database

import (
	"context"
	"fmt"
)

const OrdersSQL = `
CREATE TABLE IF NOT EXISTS orders (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    created_at DATETIME(3) NOT NULL,
    drink_type VARCHAR(16) NOT NULL,
    menu VARCHAR(100) NOT NULL,
    price INT NOT NULL,
    milk VARCHAR(50) NOT NULL DEFAULT '',
    sugar VARCHAR(50) NOT NULL DEFAULT '',
    table_number INT NOT NULL,
    payment_method VARCHAR(32) NOT NULL DEFAULT '',
    receipt_status ENUM('unreceived', 'received') NOT NULL DEFAULT 'unreceived',
    cash_amount INT NULL,
    note TEXT,
    status ENUM('pending', 'completed', 'cancelled') NOT NULL DEFAULT 'pending',
    INDEX idx_created_at (created_at),
    INDEX idx_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const CupMovementsSQL = `
CREATE TABLE IF NOT EXISTS cup_movements (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    movement_date DATE NULL,
    carried_over BOOLEAN NOT NULL DEFAULT FALSE,
    category ENUM('ice', 'hot') NOT NULL,
    in_stock INT NOT NULL DEFAULT 0,
    out_stock INT NOT NULL DEFAULT 0,
    created_at DATETIME(3) NOT NULL,
    INDEX idx_category_date (category, movement_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const CupClosingsSQL = `
CREATE TABLE IF NOT EXISTS cup_closings (
    closing_date DATE PRIMARY KEY,
    ice_used INT NOT NULL,
    hot_used INT NOT NULL,
    remaining_ice INT NULL,
    remaining_hot INT NULL,
    created_at DATETIME(3) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const CupPlansSQL = `
CREATE TABLE IF NOT EXISTS cup_plans (
    plan_date DATE PRIMARY KEY,
    planned_ice INT NOT NULL DEFAULT 0,
    planned_hot INT NOT NULL DEFAULT 0,
    updated_at DATETIME(3) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const StartCupsSQL = `
CREATE TABLE IF NOT EXISTS start_cups (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    cup_date DATE NOT NULL,
    shift ENUM('early', 'late') NOT NULL,
    drink_type ENUM('ice', 'hot') NOT NULL,
    count INT NOT NULL,
    updated_at DATETIME(3) NOT NULL,
    UNIQUE KEY uk_date_shift_drink (cup_date, shift, drink_type)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const SalesReportsSQL = `
CREATE TABLE IF NOT EXISTS sales_reports (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    report_date DATE NOT NULL,
    shift ENUM('early', 'late') NOT NULL,
    diff INT NOT NULL,
    staff VARCHAR(100) NULL,
    note TEXT NULL,
    adjusted_sales INT NOT NULL,
    summary JSON NULL,
    updated_at DATETIME(3) NOT NULL,
    UNIQUE KEY uk_date_shift (report_date, shift)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

var tables = []struct {
	name string
	ddl  string
}{
	{"orders", OrdersSQL},
	{"cup_movements", CupMovementsSQL},
	{"cup_closings", CupClosingsSQL},
	{"cup_plans", CupPlansSQL},
	{"start_cups", StartCupsSQL},
	{"sales_reports", SalesReportsSQL},
}

// SetupSchema creates every table that does not exist yet
func (db *DB) SetupSchema(ctx context.Context) error {
	for _, t := range tables {
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", t.name, err)
		}
	}
	return nil
}

// DropSchema removes all tables
func (db *DB) DropSchema(ctx context.Context) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+tables[i].name); err != nil {
			return fmt.Errorf("failed to drop %s: %w", tables[i].name, err)
		}
	}
	return nil
}
