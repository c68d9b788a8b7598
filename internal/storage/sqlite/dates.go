package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/blockout/internal/models"
)

const (
	// insertBatch bounds the number of rows per INSERT statement.
	insertBatch = 200
	// timestampLayout is fixed width so created_at sorts lexically.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

func (s *Store) FetchUnavailableDates(ctx context.Context, productID string) ([]models.Day, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT day FROM unavailable_dates WHERE product_id = ? ORDER BY day", productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unavailable dates: %w", err)
	}
	defer rows.Close()

	var days []models.Day
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := models.ParseDay(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt unavailable date row: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (s *Store) PersistUnavailableDates(ctx context.Context, productID string, dates []models.Day, reason string) error {
	unique := models.NewDaySet(dates...).Sorted()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM unavailable_dates WHERE product_id = ?", productID); err != nil {
		return fmt.Errorf("failed to clear unavailable dates: %w", err)
	}

	for start := 0; start < len(unique); start += insertBatch {
		end := min(start+insertBatch, len(unique))
		query := "INSERT INTO unavailable_dates (product_id, day) VALUES "
		args := make([]any, 0, 2*(end-start))
		for i, d := range unique[start:end] {
			if i > 0 {
				query += ", "
			}
			query += "(?, ?)"
			args = append(args, productID, d.String())
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert unavailable dates: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO availability_changes (id, product_id, reason, day_count, created_at) VALUES (?, ?, ?, ?, ?)",
		uuid.New().String(), productID, reason, len(unique), time.Now().UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record change: %w", err)
	}

	return tx.Commit()
}

func (s *Store) GetChangeLog(ctx context.Context, productID string, limit int) ([]models.ChangeEntry, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, product_id, reason, day_count, created_at FROM availability_changes WHERE product_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		productID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query change log: %w", err)
	}
	defer rows.Close()

	var entries []models.ChangeEntry
	for rows.Next() {
		var e models.ChangeEntry
		var created string
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Reason, &e.DayCount, &created); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = time.Parse(timestampLayout, created); err != nil {
			return nil, fmt.Errorf("corrupt change log timestamp %q: %w", created, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
