package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/printcost/internal/jobs"
)

// RecordJob inserts rec and deducts usage from the owner's stock in one
// transaction. Usage for ids the owner does not have is ignored.
func (s *Store) RecordJob(ctx context.Context, owner int64, rec jobs.Record, usage jobs.StockUsage) (jobs.Record, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return jobs.Record{}, fmt.Errorf("begin record transaction: %w", err)
	}
	defer tx.Rollback()

	if rec.CategoryID != nil {
		var name string
		err := tx.GetContext(ctx, &name, tx.Rebind(`SELECT name FROM categories WHERE id = ? AND user_id = ?`), *rec.CategoryID, owner)
		if err != nil {
			if errors.Is(notFound(err), ErrNotFound) {
				return jobs.Record{}, &jobs.ValidationError{Missing: []string{"category"}}
			}
			return jobs.Record{}, fmt.Errorf("check category: %w", err)
		}
		rec.CategoryName = name
	}

	id, err := insert(ctx, tx, `
		INSERT INTO job_history (
			user_id, created_at, client, product, category_id, printer_name,
			total_weight_g, total_hours, quantity, total_cost, unit_price,
			unit_profit, total_profit, margin_pct, tier
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		owner, rec.CreatedAt, rec.Client, rec.Product, rec.CategoryID, rec.PrinterName,
		rec.TotalWeightG, rec.TotalHours, rec.Quantity, rec.TotalCost, rec.UnitPrice,
		rec.UnitProfit, rec.TotalProfit, rec.MarginPct, rec.Tier)
	if err != nil {
		return jobs.Record{}, fmt.Errorf("insert history record: %w", err)
	}
	rec.ID = id

	if err := deduct(ctx, tx, `UPDATE filaments SET stock_g = stock_g - ? WHERE id = ? AND user_id = ?`, owner, usage.FilamentGrams); err != nil {
		return jobs.Record{}, fmt.Errorf("deduct filament stock: %w", err)
	}
	if err := deduct(ctx, tx, `UPDATE accessories SET stock = stock - ? WHERE id = ? AND user_id = ?`, owner, usage.Accessories); err != nil {
		return jobs.Record{}, fmt.Errorf("deduct accessory stock: %w", err)
	}
	if err := deduct(ctx, tx, `UPDATE packaging SET stock = stock - ? WHERE id = ? AND user_id = ?`, owner, usage.Packaging); err != nil {
		return jobs.Record{}, fmt.Errorf("deduct packaging stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return jobs.Record{}, fmt.Errorf("commit record transaction: %w", err)
	}
	return rec, nil
}

func deduct(ctx context.Context, tx *sqlx.Tx, query string, owner int64, amounts map[int64]float64) error {
	query = tx.Rebind(query)
	for id, amount := range amounts {
		if _, err := tx.ExecContext(ctx, query, amount, id, owner); err != nil {
			return fmt.Errorf("item %d: %w", id, err)
		}
	}
	return nil
}

// ListHistory returns the owner's records, newest first.
func (s *Store) ListHistory(ctx context.Context, owner int64) ([]jobs.Record, error) {
	out := []jobs.Record{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`
		SELECT h.id, h.created_at, h.client, h.product, h.category_id,
		       COALESCE(c.name, '') AS category_name, h.printer_name,
		       h.total_weight_g, h.total_hours, h.quantity, h.total_cost,
		       h.unit_price, h.unit_profit, h.total_profit, h.margin_pct, h.tier
		FROM job_history h
		LEFT JOIN categories c ON c.id = h.category_id
		WHERE h.user_id = ?
		ORDER BY h.created_at DESC, h.id DESC`), owner)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return out, nil
}

// DeleteHistory removes one record. Stock is not restored.
func (s *Store) DeleteHistory(ctx context.Context, owner, id int64) error {
	if err := exec(ctx, s.db, `DELETE FROM job_history WHERE id = ? AND user_id = ?`, id, owner); err != nil {
		return fmt.Errorf("delete history record %d: %w", id, err)
	}
	return nil
}
