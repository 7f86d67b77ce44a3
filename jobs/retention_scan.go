package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// RetentionScanner runs the expiry sweep over document records.
type RetentionScanner interface {
	Scan(ctx context.Context) (int64, error)
}

// NewRetentionScanHandler processes TaskRetentionScan tasks.
func NewRetentionScanHandler(scanner RetentionScanner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		flagged, err := scanner.Scan(ctx)
		if err != nil {
			return err
		}
		logger.Info("retention scan completed", slog.Int64("flagged", flagged))
		return nil
	}
}
