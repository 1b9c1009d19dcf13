package utils

import (
	"time"

	"onwserver/archive"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper evicts expired sessions and reports how many were removed.
// The in-memory store implements it; the Redis store expires keys on
// its own and passes nil here.
type Sweeper interface {
	Sweep() int
}

// CronCleaner schedules the periodic cleanup jobs: evicting expired
// in-memory sessions and purging old archived games.
func CronCleaner(sweeper Sweeper, arc *archive.Archive, logger *zap.Logger) {
	c := cron.New()

	if sweeper != nil {
		c.AddFunc("@every 10m", func() {
			if removed := sweeper.Sweep(); removed > 0 {
				logger.Info("expired sessions evicted", zap.Int("sessions", removed))
			}
		})
	}

	if arc != nil {
		// Archived games older than 48 hours are dropped daily.
		c.AddFunc("0 3 * * *", func() {
			removed, err := arc.PurgeOld(48 * time.Hour)
			if err != nil {
				logger.Error("Failed to purge archived games", zap.Error(err))
				return
			}
			logger.Info("archived games purged", zap.Int64("records", removed))
		})
	}

	c.Start()
}
