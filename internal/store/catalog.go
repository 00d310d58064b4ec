package store

import (
	"context"
	"fmt"

	"github.com/Simplici0/printcost/internal/catalog"
)

// SupplyKind selects the accessories or the packaging table.
type SupplyKind string

const (
	Accessories SupplyKind = "accessories"
	Packaging   SupplyKind = "packaging"
)

func (k SupplyKind) valid() bool { return k == Accessories || k == Packaging }

func (s *Store) ListPrinters(ctx context.Context, owner int64) ([]catalog.Printer, error) {
	out := []catalog.Printer{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`
		SELECT id, brand, model, power_watts, lifetime_hours, purchase_price, failure_rate_pct
		FROM printers WHERE user_id = ? ORDER BY id`), owner)
	if err != nil {
		return nil, fmt.Errorf("list printers: %w", err)
	}
	return out, nil
}

func (s *Store) CreatePrinter(ctx context.Context, owner int64, p catalog.Printer) (catalog.Printer, error) {
	id, err := insert(ctx, s.db, `
		INSERT INTO printers (user_id, brand, model, power_watts, lifetime_hours, purchase_price, failure_rate_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		owner, p.Brand, p.Model, p.PowerWatts, p.LifetimeHours, p.PurchasePrice, p.FailureRatePct)
	if err != nil {
		return catalog.Printer{}, fmt.Errorf("insert printer: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *Store) UpdatePrinter(ctx context.Context, owner int64, p catalog.Printer) error {
	err := exec(ctx, s.db, `
		UPDATE printers
		SET brand = ?, model = ?, power_watts = ?, lifetime_hours = ?, purchase_price = ?, failure_rate_pct = ?
		WHERE id = ? AND user_id = ?`,
		p.Brand, p.Model, p.PowerWatts, p.LifetimeHours, p.PurchasePrice, p.FailureRatePct, p.ID, owner)
	if err != nil {
		return fmt.Errorf("update printer %d: %w", p.ID, err)
	}
	return nil
}

func (s *Store) DeletePrinter(ctx context.Context, owner, id int64) error {
	if err := exec(ctx, s.db, `DELETE FROM printers WHERE id = ? AND user_id = ?`, id, owner); err != nil {
		return fmt.Errorf("delete printer %d: %w", id, err)
	}
	return nil
}

func (s *Store) ListFilaments(ctx context.Context, owner int64) ([]catalog.Filament, error) {
	out := []catalog.Filament{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`
		SELECT id, brand, material, color, spool_cost, spool_weight_g, stock_g
		FROM filaments WHERE user_id = ? ORDER BY id`), owner)
	if err != nil {
		return nil, fmt.Errorf("list filaments: %w", err)
	}
	return out, nil
}

func (s *Store) CreateFilament(ctx context.Context, owner int64, f catalog.Filament) (catalog.Filament, error) {
	id, err := insert(ctx, s.db, `
		INSERT INTO filaments (user_id, brand, material, color, spool_cost, spool_weight_g, stock_g)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		owner, f.Brand, f.Material, f.Color, f.SpoolCost, f.SpoolWeightG, f.StockG)
	if err != nil {
		return catalog.Filament{}, fmt.Errorf("insert filament: %w", err)
	}
	f.ID = id
	return f, nil
}

func (s *Store) UpdateFilament(ctx context.Context, owner int64, f catalog.Filament) error {
	err := exec(ctx, s.db, `
		UPDATE filaments
		SET brand = ?, material = ?, color = ?, spool_cost = ?, spool_weight_g = ?, stock_g = ?
		WHERE id = ? AND user_id = ?`,
		f.Brand, f.Material, f.Color, f.SpoolCost, f.SpoolWeightG, f.StockG, f.ID, owner)
	if err != nil {
		return fmt.Errorf("update filament %d: %w", f.ID, err)
	}
	return nil
}

func (s *Store) DeleteFilament(ctx context.Context, owner, id int64) error {
	if err := exec(ctx, s.db, `DELETE FROM filaments WHERE id = ? AND user_id = ?`, id, owner); err != nil {
		return fmt.Errorf("delete filament %d: %w", id, err)
	}
	return nil
}

func (s *Store) ListSupplies(ctx context.Context, owner int64, kind SupplyKind) ([]catalog.Supply, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("list supplies: unknown kind %q", kind)
	}
	out := []catalog.Supply{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`
		SELECT id, name, total_quantity, total_price, unit_price, stock
		FROM `+string(kind)+` WHERE user_id = ? ORDER BY id`), owner)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return out, nil
}

// CreateSupply derives the unit price and starts stock at the lot size.
func (s *Store) CreateSupply(ctx context.Context, owner int64, kind SupplyKind, item catalog.Supply) (catalog.Supply, error) {
	if !kind.valid() {
		return catalog.Supply{}, fmt.Errorf("create supply: unknown kind %q", kind)
	}
	item.UnitPrice = catalog.UnitPrice(item.TotalPrice, item.TotalQuantity)
	item.Stock = item.TotalQuantity

	id, err := insert(ctx, s.db, `
		INSERT INTO `+string(kind)+` (user_id, name, total_quantity, total_price, unit_price, stock)
		VALUES (?, ?, ?, ?, ?, ?)`,
		owner, item.Name, item.TotalQuantity, item.TotalPrice, item.UnitPrice, item.Stock)
	if err != nil {
		return catalog.Supply{}, fmt.Errorf("insert %s: %w", kind, err)
	}
	item.ID = id
	return item, nil
}

// UpdateSupply rewrites name, lot and derived unit price. Stock is kept.
func (s *Store) UpdateSupply(ctx context.Context, owner int64, kind SupplyKind, item catalog.Supply) error {
	if !kind.valid() {
		return fmt.Errorf("update supply: unknown kind %q", kind)
	}
	item.UnitPrice = catalog.UnitPrice(item.TotalPrice, item.TotalQuantity)

	err := exec(ctx, s.db, `
		UPDATE `+string(kind)+`
		SET name = ?, total_quantity = ?, total_price = ?, unit_price = ?
		WHERE id = ? AND user_id = ?`,
		item.Name, item.TotalQuantity, item.TotalPrice, item.UnitPrice, item.ID, owner)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", kind, item.ID, err)
	}
	return nil
}

func (s *Store) DeleteSupply(ctx context.Context, owner int64, kind SupplyKind, id int64) error {
	if !kind.valid() {
		return fmt.Errorf("delete supply: unknown kind %q", kind)
	}
	if err := exec(ctx, s.db, `DELETE FROM `+string(kind)+` WHERE id = ? AND user_id = ?`, id, owner); err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, owner int64) ([]catalog.Category, error) {
	out := []catalog.Category{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`
		SELECT id, name FROM categories WHERE user_id = ? ORDER BY name`), owner)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, owner int64, c catalog.Category) (catalog.Category, error) {
	id, err := insert(ctx, s.db, `INSERT INTO categories (user_id, name) VALUES (?, ?)`, owner, c.Name)
	if err != nil {
		return catalog.Category{}, fmt.Errorf("insert category: %w", err)
	}
	c.ID = id
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, owner int64, c catalog.Category) error {
	if err := exec(ctx, s.db, `UPDATE categories SET name = ? WHERE id = ? AND user_id = ?`, c.Name, c.ID, owner); err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, owner, id int64) error {
	if err := exec(ctx, s.db, `DELETE FROM categories WHERE id = ? AND user_id = ?`, id, owner); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

// Snapshot loads all four catalogs of owner.
func (s *Store) Snapshot(ctx context.Context, owner int64) (catalog.Snapshot, error) {
	printers, err := s.ListPrinters(ctx, owner)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	filaments, err := s.ListFilaments(ctx, owner)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	accessories, err := s.ListSupplies(ctx, owner, Accessories)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	packaging, err := s.ListSupplies(ctx, owner, Packaging)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	return catalog.NewSnapshot(printers, filaments, accessories, packaging), nil
}
