package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"asset-server/internal/core/domain"
	"asset-server/internal/infra/async"

	"github.com/robfig/cron/v3"
)

func NewWarrantyWorker(
	ticker *time.Ticker,
	assets AssetRepository,
	audit AuditService,
	schedule string,
	windowDays int,
) *WarrantyWorker {
	return &WarrantyWorker{
		ticker:     ticker,
		assets:     assets,
		audit:      audit,
		schedule:   schedule,
		windowDays: windowDays,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}
}

var _ async.Worker = (*WarrantyWorker)(nil)

// WarrantyWorker periodically scans active assets whose warranty_expiry
// payload value falls inside the configured window and records one
// maintenance audit entry per finding, deduplicated per scan day.
type WarrantyWorker struct {
	ticker     *time.Ticker
	assets     AssetRepository
	audit      AuditService
	schedule   string
	windowDays int
	cronParser cron.Parser
	lastRun    time.Time
}

func (w *WarrantyWorker) Run(ctx context.Context, done func()) {
	slog.Debug("warranty worker started", slog.String("schedule", w.schedule))
	defer done()
	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			slog.Info("warranty worker cancelled")
			wg.Wait()
			return
		case <-w.ticker.C:
			due, err := w.scheduleDue(time.Now())
			if err != nil {
				slog.Error("evaluating warranty schedule",
					slog.String("schedule", w.schedule),
					slog.Any("error", err))
				continue
			}
			if due {
				wg.Add(1)
				w.scanExpiringWarranties(context.Background(), wg.Done)
			}
		}
	}
}

func (w *WarrantyWorker) Shutdown() {
	w.ticker.Stop()
}

func (w *WarrantyWorker) scheduleDue(now time.Time) (bool, error) {
	spec, err := w.cronParser.Parse(w.schedule)
	if err != nil {
		return false, fmt.Errorf("parsing cron schedule: %w", err)
	}

	if w.lastRun.IsZero() {
		w.lastRun = now
		return true, nil
	}

	next := spec.Next(w.lastRun)
	if next.After(now) {
		return false, nil
	}

	w.lastRun = now
	return true, nil
}

func (w *WarrantyWorker) scanExpiringWarranties(ctx context.Context, done func()) {
	defer done()

	active := domain.StatusActive
	assets, err := w.assets.FindByFilter(ctx, CoreFilter{Status: &active})
	if err != nil {
		slog.Error("finding assets for warranty scan", slog.Any("error", err))
		return
	}

	reference := time.Now().Truncate(24 * time.Hour)
	windowEnd := reference.AddDate(0, 0, w.windowDays)
	found := 0
	for _, asset := range assets {
		expiry, ok := asset.WarrantyExpiry()
		if !ok || expiry.Before(reference) || expiry.After(windowEnd) {
			continue
		}

		entry, err := domain.NewAuditEntryBuilder().
			WithAction(domain.ActionMaintenance).
			WithAsset(asset.ID).
			WithDetails(fmt.Sprintf("warranty expires on %s", expiry.Format("2006-01-02"))).
			WithMetadata(map[string]any{
				"warranty_expiry": expiry.Format("2006-01-02"),
				"window_days":     w.windowDays,
			}).
			Build()
		if err != nil {
			continue
		}
		if err := w.audit.Record(ctx, entry); err != nil {
			slog.Error("recording warranty finding",
				slog.Uint64("asset_id", asset.ID),
				slog.Any("error", err))
			continue
		}
		found++
	}

	slog.Info("warranty scan completed",
		slog.Int("asset_count", len(assets)),
		slog.Int("expiring", found))
}
