package scheduler

import (
	"context"
	"log"
	"time"

	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/reporter"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// RegisterBlacklistCleanup purges expired blacklist rows daily; rows are kept
// for graceDays after expiry.
func RegisterBlacklistCleanup(c *cron.Cron, db *gorm.DB, graceDays int) (cron.EntryID, error) {
	grace := time.Duration(graceDays) * 24 * time.Hour
	return c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := helperAuth.PurgeExpired(ctx, db, grace)
		if err != nil {
			log.Printf("[CLEANUP ERROR] token_blacklist: %v", err)
			reporter.Default.Error(err, map[string]interface{}{"job": "blacklist_cleanup"})
			return
		}
		log.Printf("[CLEANUP] %d jeton(s) expiré(s) supprimé(s)", n)
	})
}
