package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/matthieukhl/drinkstand/internal/models"
)

func (db *DB) AppendMovement(ctx context.Context, m models.CupMovement) (models.CupMovement, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	var date any
	if m.Date != nil {
		date = m.Date.String()
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO cup_movements (movement_date, carried_over, category, in_stock, out_stock, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, date, m.CarriedOver, string(m.Category), m.InStock, m.OutStock, m.CreatedAt)
	if err != nil {
		return models.CupMovement{}, err
	}

	if m.ID, err = res.LastInsertId(); err != nil {
		return models.CupMovement{}, err
	}
	return m, nil
}

func (db *DB) ListMovements(ctx context.Context, category models.DrinkType) ([]models.CupMovement, error) {
	query := `
		SELECT id, movement_date, carried_over, category, in_stock, out_stock, created_at
		FROM cup_movements`
	var args []any
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, string(category))
	}
	query += " ORDER BY id"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.CupMovement
	for rows.Next() {
		var m models.CupMovement
		var date models.Day
		var cat string
		if err := rows.Scan(&m.ID, &date, &m.CarriedOver, &cat, &m.InStock, &m.OutStock, &m.CreatedAt); err != nil {
			return nil, err
		}
		if !date.IsZero() {
			m.Date = &date
		}
		m.Category = models.DrinkType(cat)
		list = append(list, m)
	}
	return list, rows.Err()
}

// ClosingExists checks if the day already has a closing entry
func (db *DB) ClosingExists(ctx context.Context, day models.Day) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cup_closings WHERE closing_date = ?",
		day.String(),
	).Scan(&count)

	return count > 0, err
}

func (db *DB) InsertClosing(ctx context.Context, c models.CupClosing) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO cup_closings (closing_date, ice_used, hot_used, remaining_ice, remaining_hot, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.Date.String(), c.IceUsed, c.HotUsed, nullableInt(c.RemainingIce), nullableInt(c.RemainingHot), c.CreatedAt)
	if isDuplicateEntry(err) {
		return models.ErrAlreadyExists
	}
	return err
}

func (db *DB) ListClosings(ctx context.Context, from, to models.Day) ([]models.CupClosing, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT closing_date, ice_used, hot_used, remaining_ice, remaining_hot, created_at
		FROM cup_closings
		WHERE closing_date BETWEEN ? AND ?
		ORDER BY closing_date
	`, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.CupClosing
	for rows.Next() {
		var c models.CupClosing
		var ice, hot sql.NullInt64
		if err := rows.Scan(&c.Date, &c.IceUsed, &c.HotUsed, &ice, &hot, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.RemainingIce = intFromNull(ice)
		c.RemainingHot = intFromNull(hot)
		list = append(list, c)
	}
	return list, rows.Err()
}

func (db *DB) UpsertPlan(ctx context.Context, p models.CupPlan) (models.CupPlan, error) {
	p.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := db.ExecContext(ctx, `
		INSERT INTO cup_plans (plan_date, planned_ice, planned_hot, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			planned_ice = VALUES(planned_ice),
			planned_hot = VALUES(planned_hot),
			updated_at = VALUES(updated_at)
	`, p.Date.String(), p.PlannedIce, p.PlannedHot, p.UpdatedAt)
	if err != nil {
		return models.CupPlan{}, err
	}
	return p, nil
}

func (db *DB) GetPlan(ctx context.Context, day models.Day) (models.CupPlan, error) {
	var p models.CupPlan
	err := db.QueryRowContext(ctx,
		"SELECT plan_date, planned_ice, planned_hot, updated_at FROM cup_plans WHERE plan_date = ?",
		day.String(),
	).Scan(&p.Date, &p.PlannedIce, &p.PlannedHot, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CupPlan{}, models.ErrNotFound
	}
	if err != nil {
		return models.CupPlan{}, err
	}
	return p, nil
}

func (db *DB) UpsertStartCup(ctx context.Context, sc models.StartCup) (models.StartCup, error) {
	sc.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := db.ExecContext(ctx, `
		INSERT INTO start_cups (cup_date, shift, drink_type, count, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			count = VALUES(count),
			updated_at = VALUES(updated_at)
	`, sc.Date.String(), string(sc.Shift), string(sc.DrinkType), sc.Count, sc.UpdatedAt)
	if err != nil {
		return models.StartCup{}, err
	}
	return sc, nil
}

func (db *DB) ListStartCups(ctx context.Context, day models.Day) ([]models.StartCup, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT cup_date, shift, drink_type, count, updated_at
		FROM start_cups
		WHERE cup_date = ?
		ORDER BY shift, drink_type
	`, day.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.StartCup
	for rows.Next() {
		var sc models.StartCup
		var shift, drink string
		if err := rows.Scan(&sc.Date, &shift, &drink, &sc.Count, &sc.UpdatedAt); err != nil {
			return nil, err
		}
		sc.Shift = models.Shift(shift)
		sc.DrinkType = models.DrinkType(drink)
		list = append(list, sc)
	}
	return list, rows.Err()
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
