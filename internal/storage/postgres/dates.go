package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	pq "github.com/lib/pq"

	"github.com/julianstephens/blockout/internal/models"
)

func (s *Store) FetchUnavailableDates(ctx context.Context, productID string) ([]models.Day, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT day FROM unavailable_dates WHERE product_id = $1 ORDER BY day", productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unavailable dates: %w", err)
	}
	defer rows.Close()

	var days []models.Day
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		days = append(days, models.DayOf(t))
	}
	return days, rows.Err()
}

func (s *Store) PersistUnavailableDates(ctx context.Context, productID string, dates []models.Day, reason string) error {
	unique := models.NewDaySet(dates...).Sorted()
	raw := make([]string, len(unique))
	for i, d := range unique {
		raw[i] = d.String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM unavailable_dates WHERE product_id = $1", productID); err != nil {
		return fmt.Errorf("failed to clear unavailable dates: %w", err)
	}

	if len(raw) > 0 {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO unavailable_dates (product_id, day) SELECT $1, d::date FROM unnest($2::text[]) AS d",
			productID, pq.Array(raw),
		)
		if err != nil {
			return fmt.Errorf("failed to insert unavailable dates: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO availability_changes (id, product_id, reason, day_count, created_at) VALUES ($1, $2, $3, $4, $5)",
		uuid.New().String(), productID, reason, len(unique), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record change: %w", err)
	}

	return tx.Commit()
}

func (s *Store) GetChangeLog(ctx context.Context, productID string, limit int) ([]models.ChangeEntry, error) {
	query := "SELECT id, product_id, reason, day_count, created_at FROM availability_changes WHERE product_id = $1 ORDER BY created_at DESC, id DESC"
	args := []any{productID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query change log: %w", err)
	}
	defer rows.Close()

	var entries []models.ChangeEntry
	for rows.Next() {
		var e models.ChangeEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Reason, &e.DayCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
