package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/matthieukhl/drinkstand/internal/models"
)

// UpsertSalesReport writes the report for (date, shift), replacing an earlier
// one. LAST_INSERT_ID(id) makes the existing row id come back on update.
func (db *DB) UpsertSalesReport(ctx context.Context, r models.SalesReport) (models.SalesReport, error) {
	r.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	var summary any
	if len(r.Summary) > 0 {
		summary = string(r.Summary)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO sales_reports (report_date, shift, diff, staff, note, adjusted_sales, summary, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			id = LAST_INSERT_ID(id),
			diff = VALUES(diff),
			staff = VALUES(staff),
			note = VALUES(note),
			adjusted_sales = VALUES(adjusted_sales),
			summary = VALUES(summary),
			updated_at = VALUES(updated_at)
	`, r.Date.String(), string(r.Shift), r.Diff, nullableString(r.Staff), nullableString(r.Note),
		r.AdjustedSales, summary, r.UpdatedAt)
	if err != nil {
		return models.SalesReport{}, err
	}

	if r.ID, err = res.LastInsertId(); err != nil {
		return models.SalesReport{}, err
	}
	return r, nil
}

func (db *DB) ListSalesReports(ctx context.Context, day models.Day) ([]models.SalesReport, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, report_date, shift, diff, staff, note, adjusted_sales, summary, updated_at
		FROM sales_reports
		WHERE report_date = ?
		ORDER BY shift
	`, day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.SalesReport
	for rows.Next() {
		var r models.SalesReport
		var shift string
		var staff, note sql.NullString
		var summary []byte
		if err := rows.Scan(&r.ID, &r.Date, &shift, &r.Diff, &staff, &note, &r.AdjustedSales, &summary, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.Shift = models.Shift(shift)
		r.Staff = stringFromNull(staff)
		r.Note = stringFromNull(note)
		r.Summary = summary
		list = append(list, r)
	}
	return list, rows.Err()
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringFromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
