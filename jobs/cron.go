package jobs

import (
	"context"
	"errors"
	"time"

	"market/commands"
	"market/config"
	"market/constants"
	"market/services/logger"

	"github.com/robfig/cron/v3"
)

// jobTimeout bounds one run of a discount job.
const jobTimeout = 30 * time.Minute

// Runner runs a named job; satisfied by commands.Registry.
type Runner interface {
	Run(ctx context.Context, name string) (interface{}, error)
}

// InitCronJobs khởi tạo các cron jobs của vòng đời discount
func InitCronJobs(ctx context.Context, c *cron.Cron, runner Runner, cfg config.JobsConfig, log logger.Logger) error {
	schedule := []struct {
		spec string
		name string
	}{
		{cfg.ThresholdSpec, constants.JobCancelExpiredDiscounts},
		{cfg.DeactivateSpec, constants.JobDeactivateFinishedDiscount},
	}
	for _, s := range schedule {
		name := s.name
		if _, err := c.AddFunc(s.spec, func() {
			runCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()
			if _, err := runner.Run(runCtx, name); err != nil && !errors.Is(err, commands.ErrJobRunning) {
				log.Error("❌ cron %s: %v", name, err)
			}
		}); err != nil {
			return err
		}
		log.Info("⏰ cron %s scheduled at %q", name, s.spec)
	}

	c.Start()
	log.Info("Cron jobs initialized successfully")
	return nil
}
