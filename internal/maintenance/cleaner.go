package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"straypaws/rescue-portal/rescue-portal-backend/internal/accounts"
)

// Cleaner periodically purges password reset challenges that are used or
// expired. Dead challenges are inert either way; this keeps the table small.
type Cleaner struct {
	accounts accounts.Repository
	logger   *zap.Logger
	cron     *cron.Cron
}

// NewCleaner creates a maintenance cleaner.
func NewCleaner(repo accounts.Repository, logger *zap.Logger) *Cleaner {
	return &Cleaner{
		accounts: repo,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules the purge job. schedule uses cron syntax, e.g. "@hourly".
func (c *Cleaner) Start(schedule string) error {
	if _, err := c.cron.AddFunc(schedule, c.purge); err != nil {
		return err
	}
	c.cron.Start()
	c.logger.Info("reset challenge cleanup scheduled", zap.String("schedule", schedule))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (c *Cleaner) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}

func (c *Cleaner) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := c.accounts.PurgeDeadChallenges(ctx, time.Now())
	if err != nil {
		c.logger.Warn("failed to purge reset challenges", zap.Error(err))
		return
	}
	if removed > 0 {
		c.logger.Info("purged reset challenges", zap.Int64("count", removed))
	}
}
