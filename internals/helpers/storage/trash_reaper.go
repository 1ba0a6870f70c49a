package storage

import (
	"context"
	"log"
	"time"

	"schoolku_backend/internals/helpers/reporter"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SoftDeleteTargets are the tables whose soft-deleted rows the reaper purges.
// Children come before parents.
var SoftDeleteTargets = []struct{ Table, Col string }{
	{"assessments", "assessment_deleted_at"},
	{"assessment_types", "assessment_type_deleted_at"},
	{"subjects", "subject_deleted_at"},
	{"subject_categories", "subject_category_deleted_at"},
	{"classrooms", "classroom_deleted_at"},
	{"grade_levels", "grade_level_deleted_at"},
	{"academic_terms", "academic_term_deleted_at"},
	{"academic_years", "academic_year_deleted_at"},
	{"payments", "payment_deleted_at"},
	{"schools", "school_deleted_at"},
}

// PurgeSoftDeleted hard-deletes rows soft-deleted before cutoff. A failing
// table is logged and skipped.
func PurgeSoftDeleted(ctx context.Context, db *gorm.DB, cutoff time.Time) int64 {
	var total int64
	for _, t := range SoftDeleteTargets {
		res := db.WithContext(ctx).Exec(
			`DELETE FROM `+t.Table+` WHERE `+t.Col+` IS NOT NULL AND `+t.Col+` < ?`, cutoff)
		if res.Error != nil {
			log.Printf("[DB-REAPER] %s: %v", t.Table, res.Error)
			continue
		}
		if res.RowsAffected > 0 {
			log.Printf("[DB-REAPER] %s: %d ligne(s) supprimée(s)", t.Table, res.RowsAffected)
		}
		total += res.RowsAffected
	}
	return total
}

// RegisterTrashReaper schedules the DB purge and, when store is set, the file trash purge.
func RegisterTrashReaper(c *cron.Cron, db *gorm.DB, store FileStore, schedule string, retentionDays int) (cron.EntryID, error) {
	retention := time.Duration(retentionDays) * 24 * time.Hour
	return c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		cutoff := time.Now().Add(-retention)

		n := PurgeSoftDeleted(ctx, db, cutoff)
		if store != nil {
			files, err := store.PurgeTrash(ctx, cutoff)
			if err != nil {
				log.Printf("[TRASH-REAPER] fichiers: %v", err)
				reporter.Default.Error(err, map[string]interface{}{"job": "trash_reaper"})
			}
			log.Printf("[TRASH-REAPER] %d ligne(s), %d fichier(s) purgé(s)", n, files)
			return
		}
		log.Printf("[TRASH-REAPER] %d ligne(s) purgée(s)", n)
	})
}
