package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/orders"
)

// insertColumns is the insert order of canonical order fields. Each is
// written under the deployment's column name.
var insertColumns = []string{
	"created_at", "drink_type", "menu", "price", "milk", "sugar", "table_number",
	"payment_method", "receipt_status", "cash_amount", "note", "status",
}

func (db *DB) column(field string) string {
	if name, ok := db.orderColumns[field]; ok {
		return "`" + name + "`"
	}
	return "`" + field + "`"
}

func (db *DB) InsertOrder(ctx context.Context, o models.Order) (models.Order, error) {
	rec := orders.ToRecord(o)

	cols := make([]string, 0, len(insertColumns))
	args := make([]any, 0, len(insertColumns))
	for _, c := range insertColumns {
		cols = append(cols, db.column(c))
		args = append(args, rec[c])
	}

	query := fmt.Sprintf("INSERT INTO orders (%s) VALUES (%s)",
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Order{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Order{}, err
	}

	o.ID = id
	o.CreatedAt = rec["created_at"].(time.Time)
	return o, nil
}

func (db *DB) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	list, err := db.queryOrders(ctx, "SELECT * FROM orders WHERE id = ?", id)
	if err != nil {
		return models.Order{}, err
	}
	if len(list) == 0 {
		return models.Order{}, models.ErrNotFound
	}
	return list[0], nil
}

// ListOrders returns orders created in [from, to), newest first. Zero bounds are open.
func (db *DB) ListOrders(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	col := db.column("created_at")

	var where []string
	var args []any
	if !from.IsZero() {
		where = append(where, col+" >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		where = append(where, col+" < ?")
		args = append(args, to.UTC())
	}

	query := "SELECT * FROM orders"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + col + " DESC, id DESC"

	return db.queryOrders(ctx, query, args...)
}

func (db *DB) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (models.Order, error) {
	if _, err := db.ExecContext(ctx, "UPDATE orders SET status = ? WHERE id = ?", string(status), id); err != nil {
		return models.Order{}, err
	}
	return db.GetOrder(ctx, id)
}

// queryOrders scans rows generically so tables written with either column
// convention load through the same normalization.
func (db *DB) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanMaps(rows)
	if err != nil {
		return nil, err
	}

	list := make([]models.Order, 0, len(records))
	for _, rec := range records {
		o, err := orders.NormalizeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to read order row: %w", err)
		}
		list = append(list, o)
	}
	return list, nil
}

func scanMaps(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := make(map[string]any, len(cols))
		for i, c := range cols {
			rec[c] = values[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
