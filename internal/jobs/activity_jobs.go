package jobs

import (
	"context"

	"himpunan-backend/internal/logger"
)

// RefreshActivityStatuses moves scheduled and ongoing activities along the
// clock. Completed and cancelled activities are left untouched.
func (jr *JobRunner) RefreshActivityStatuses() {
	jr.runWithRecovery("RefreshActivityStatuses", func(ctx context.Context) error {
		n, err := jr.services.Activity.RefreshStatuses(ctx)
		if err != nil {
			return err
		}
		logger.Info("Refreshed activity statuses", "count", n)
		return nil
	})
}
