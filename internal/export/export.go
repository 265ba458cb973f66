// Package export periodically dumps analytics snapshots to disk. It is
// a persistence adapter layered on top of the core: the core computes
// snapshots, this runner decides where they go.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adhocore/gronx"

	"convolog/pkg/analytics"
	"convolog/pkg/config"
	"convolog/pkg/convo"
	"convolog/pkg/logger"
)

// Start launches the export scheduler if enabled and returns a cancel
// func. The cron expression is validated here, once.
func Start(ctx context.Context, cfg config.ExportConfig, reg *convo.Registry, agg *analytics.Aggregator) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("export_disabled")
		return func() {}, nil
	}
	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = "0 * * * *"
	}
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid export cron expression: %s", cfg.Cron)
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	logger.Info("export_enabled", "cron", cronExpr, "dir", cfg.Dir)
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, cfg.Dir, reg, agg)
	return cancel, nil
}

// runScheduler sleeps until the next cron tick and runs one export
// pass per tick.
func runScheduler(ctx context.Context, cronExpr, dir string, reg *convo.Registry, agg *analytics.Aggregator) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("export_scheduler_stopping")
			return
		default:
		}
		next, err := gronx.NextTickAfter(cronExpr, time.Now().UTC(), false)
		if err != nil {
			logger.Error("export_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}
		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			logger.Info("export_scheduler_stopping")
			return
		}
		if err := RunOnce(dir, reg, agg); err != nil {
			logger.Error("export_run_error", "error", err)
		}
	}
}

// RunOnce writes every conversation's current snapshot to
// <dir>/<id>.json. The snapshot is serialized verbatim; its JSON keys
// are the export contract.
func RunOnce(dir string, reg *convo.Registry, agg *analytics.Aggregator) error {
	for _, id := range reg.IDs() {
		l, ok := reg.Get(id)
		if !ok {
			continue
		}
		snap := agg.Snapshot(l)
		b, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal snapshot %s: %w", id, err)
		}
		path := filepath.Join(dir, id+".json")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return fmt.Errorf("write snapshot %s: %w", id, err)
		}
		logger.Info("snapshot_exported", "convo", id, "path", path, "messages", snap.TotalMessages)
	}
	return nil
}
