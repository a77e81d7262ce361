package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"assessment-service/internal/gateway"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Outbox persists failed submission writes so they survive a restart and
// can be retried.
type Outbox struct {
	pool *pgxpool.Pool
}

func NewOutbox(pool *pgxpool.Pool) *Outbox {
	return &Outbox{pool: pool}
}

func (o *Outbox) Enqueue(ctx context.Context, sheet string, record map[string]string) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode outbox record: %w", err)
	}
	_, err = o.pool.Exec(ctx,
		`INSERT INTO submission_outbox (sheet, record) VALUES ($1, $2)`, sheet, raw)
	if err != nil {
		return fmt.Errorf("enqueue outbox write: %w", err)
	}
	return nil
}

func (o *Outbox) Pending(ctx context.Context, limit int) ([]gateway.PendingWrite, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := o.pool.Query(ctx,
		`SELECT id, sheet, record FROM submission_outbox ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("load pending writes: %w", err)
	}
	defer rows.Close()

	var pending []gateway.PendingWrite
	for rows.Next() {
		var (
			w   gateway.PendingWrite
			raw []byte
		)
		if err := rows.Scan(&w.ID, &w.Sheet, &raw); err != nil {
			return nil, fmt.Errorf("scan pending write: %w", err)
		}
		if err := json.Unmarshal(raw, &w.Record); err != nil {
			return nil, fmt.Errorf("decode pending write %d: %w", w.ID, err)
		}
		pending = append(pending, w)
	}
	return pending, rows.Err()
}

func (o *Outbox) Delete(ctx context.Context, id int64) error {
	_, err := o.pool.Exec(ctx, `DELETE FROM submission_outbox WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete outbox write %d: %w", id, err)
	}
	return nil
}
