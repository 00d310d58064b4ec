package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultDeliveryTime  = "7 dias úteis"
	DefaultQuoteValidity = "30 dias"
)

// CompanySettings is the letterhead printed on client quotes.
type CompanySettings struct {
	TradeName     string    `json:"trade_name" db:"trade_name"`
	LegalName     string    `json:"legal_name" db:"legal_name"`
	TaxID         string    `json:"tax_id" db:"tax_id"`
	Address       string    `json:"address" db:"address"`
	Phone         string    `json:"phone" db:"phone"`
	Email         string    `json:"email" db:"email"`
	Website       string    `json:"website" db:"website"`
	PixKey        string    `json:"pix_key" db:"pix_key"`
	BankDetails   string    `json:"bank_details" db:"bank_details"`
	DeliveryTime  string    `json:"delivery_time" db:"delivery_time"`
	QuoteValidity string    `json:"quote_validity" db:"quote_validity"`
	Notes         string    `json:"notes" db:"notes"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultCompanySettings is what a user sees before saving anything.
func DefaultCompanySettings() CompanySettings {
	return CompanySettings{DeliveryTime: DefaultDeliveryTime, QuoteValidity: DefaultQuoteValidity}
}

// CompanySettings returns the owner's settings, or the defaults when none
// were saved.
func (s *Store) CompanySettings(ctx context.Context, owner int64) (CompanySettings, error) {
	var cs CompanySettings
	err := s.db.GetContext(ctx, &cs, s.db.Rebind(`
		SELECT trade_name, legal_name, tax_id, address, phone, email, website,
		       pix_key, bank_details, delivery_time, quote_validity, notes, updated_at
		FROM company_settings WHERE user_id = ?`), owner)
	if errors.Is(notFound(err), ErrNotFound) {
		return DefaultCompanySettings(), nil
	}
	if err != nil {
		return CompanySettings{}, fmt.Errorf("get company settings: %w", err)
	}
	return cs, nil
}

// SaveCompanySettings upserts the owner's settings. Empty delivery time and
// validity fall back to the defaults.
func (s *Store) SaveCompanySettings(ctx context.Context, owner int64, cs CompanySettings) (CompanySettings, error) {
	if cs.DeliveryTime == "" {
		cs.DeliveryTime = DefaultDeliveryTime
	}
	if cs.QuoteValidity == "" {
		cs.QuoteValidity = DefaultQuoteValidity
	}
	cs.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO company_settings (
			user_id, trade_name, legal_name, tax_id, address, phone, email, website,
			pix_key, bank_details, delivery_time, quote_validity, notes, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			trade_name = excluded.trade_name,
			legal_name = excluded.legal_name,
			tax_id = excluded.tax_id,
			address = excluded.address,
			phone = excluded.phone,
			email = excluded.email,
			website = excluded.website,
			pix_key = excluded.pix_key,
			bank_details = excluded.bank_details,
			delivery_time = excluded.delivery_time,
			quote_validity = excluded.quote_validity,
			notes = excluded.notes,
			updated_at = excluded.updated_at`),
		owner, cs.TradeName, cs.LegalName, cs.TaxID, cs.Address, cs.Phone, cs.Email, cs.Website,
		cs.PixKey, cs.BankDetails, cs.DeliveryTime, cs.QuoteValidity, cs.Notes, cs.UpdatedAt)
	if err != nil {
		return CompanySettings{}, fmt.Errorf("save company settings: %w", err)
	}
	return cs, nil
}

// EnsureCompanyDefaults inserts the default settings row for owner when it
// is missing. It reports whether a row was inserted.
func (s *Store) EnsureCompanyDefaults(ctx context.Context, owner int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO company_settings (user_id, delivery_time, quote_validity, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`),
		owner, DefaultDeliveryTime, DefaultQuoteValidity, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert default company settings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
