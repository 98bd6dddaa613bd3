package utils

import (
	"fmt"
	"time"

	"purchase-orders-backend/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	maxRetries = 3
	retryDelay = 2 * time.Minute
)

// CleanupTarget is a storage area whose files expire after TTL.
type CleanupTarget struct {
	Name    string
	Storage FileStorage
	TTL     time.Duration
}

// CleanupAllExpired removes expired files from every target and returns the number removed.
func CleanupAllExpired(targets []CleanupTarget) (int, error) {
	total := 0
	var firstErr error
	for _, t := range targets {
		n, err := t.Storage.DeleteOlderThan(t.TTL)
		total += n
		if err != nil {
			config.Logger.Error("Cleanup failed for target", zap.String("target", t.Name), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("cleanup %s: %w", t.Name, err)
			}
			continue
		}
		config.Logger.Info("Cleaned expired files", zap.String("target", t.Name), zap.Int("removed", n))
	}
	return total, firstErr
}

// RunScheduledCleanup schedules the cleanup daily at 1 AM with retries and
// emails adminEmail when every attempt fails. onCleaned, when set, receives the
// number of files each successful run removed. The returned scheduler is running.
func RunScheduledCleanup(targets []CleanupTarget, adminEmail string, onCleaned func(int)) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc("0 1 * * *", func() {
		config.Logger.Info("Running scheduled cleanup task")

		for attempt := 1; attempt <= maxRetries; attempt++ {
			n, err := CleanupAllExpired(targets)
			if err == nil {
				if onCleaned != nil {
					onCleaned(n)
				}
				return
			}
			config.Logger.Warn("Cleanup attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			if attempt < maxRetries {
				time.Sleep(retryDelay)
			}
		}

		config.Logger.Error("Cleanup task failed after retries", zap.Int("retries", maxRetries))
		if adminEmail != "" {
			SendEmail(adminEmail, "Cleanup Task Failed", "The scheduled cleanup task failed after multiple attempts.", "")
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
