package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/catalog"
	"github.com/Simplici0/printcost/internal/margin"
	"github.com/Simplici0/printcost/internal/pricing"
)

// CatalogSource loads the catalog snapshot of an owner.
type CatalogSource interface {
	Snapshot(ctx context.Context, owner int64) (catalog.Snapshot, error)
}

// Recorder stores a record and deducts usage from stock in one transaction.
type Recorder interface {
	RecordJob(ctx context.Context, owner int64, rec Record, usage StockUsage) (Record, error)
}

// Observer receives quote and recording events.
type Observer interface {
	ObserveQuote(tier margin.TierID, took time.Duration)
	ObserveRecorded()
	ObserveValidationFailure()
}

// Quote is a priced job.
type Quote struct {
	Breakdown pricing.Breakdown `json:"breakdown"`
	Tier      margin.Tier       `json:"tier"`
	Slices    []pricing.Slice   `json:"slices"`
}

type Service struct {
	catalog  CatalogSource
	recorder Recorder
	observer Observer
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(src CatalogSource, rec Recorder, obs Observer, logger *zap.Logger) *Service {
	return &Service{catalog: src, recorder: rec, observer: obs, logger: logger, now: time.Now}
}

// Price calculates job against an already loaded snapshot.
func Price(job pricing.Job, snap catalog.Snapshot, opts pricing.ChartOptions) Quote {
	b := pricing.Calculate(job, snap)
	return Quote{
		Breakdown: b,
		Tier:      margin.Classify(b.MarginPercent),
		Slices:    b.Slices(opts),
	}
}

// Quote prices job against the owner's catalog.
func (s *Service) Quote(ctx context.Context, owner int64, job pricing.Job, opts pricing.ChartOptions) (Quote, error) {
	start := s.now()

	snap, err := s.catalog.Snapshot(ctx, owner)
	if err != nil {
		return Quote{}, fmt.Errorf("load catalog: %w", err)
	}

	q := Price(job, snap, opts)
	s.observer.ObserveQuote(q.Tier.ID, s.now().Sub(start))
	return q, nil
}

// Save validates d, prices it and records it with its stock usage.
func (s *Service) Save(ctx context.Context, owner int64, d Draft) (Record, error) {
	snap, err := s.catalog.Snapshot(ctx, owner)
	if err != nil {
		return Record{}, fmt.Errorf("load catalog: %w", err)
	}

	if err := Validate(d, snap); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.observer.ObserveValidationFailure()
		}
		return Record{}, err
	}

	q := Price(d.Job, snap, pricing.ChartOptions{})
	rec := NewRecord(d, snap, q.Breakdown, q.Tier, s.now().UTC())

	saved, err := s.recorder.RecordJob(ctx, owner, rec, UsageOf(d.Job))
	if err != nil {
		return Record{}, fmt.Errorf("record job: %w", err)
	}

	s.observer.ObserveRecorded()
	s.logger.Info("job recorded",
		zap.Int64("owner", owner),
		zap.Int64("record_id", saved.ID),
		zap.String("tier", saved.Tier),
		zap.Float64("total_profit", saved.TotalProfit))
	return saved, nil
}
