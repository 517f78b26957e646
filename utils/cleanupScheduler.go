package utils

import (
	"fmt"
	"lms/config"
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// logCleanup logs cleanup job events with timestamp
func logCleanup(message string) {
	log.Printf("[CLEANUP %s] %s", time.Now().Format(time.RFC3339), message)
}

// purgeSoftDeleted permanently removes soft-deleted catalog rows older than
// the retention window, plus completed-set entries orphaned by lesson purges.
// Enrollment progress is deliberately left alone; it refreshes on the
// learner's next completion toggle.
func purgeSoftDeleted() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -config.AppConfig.RetentionDays)

	for _, target := range []struct {
		name  string
		model interface{}
	}{
		{"courses", &models.Course{}},
		{"lessons", &models.Lesson{}},
		{"comments", &models.Comment{}},
	} {
		result := db.Unscoped().Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).Delete(target.model)
		if result.Error != nil {
			logCleanup(fmt.Sprintf("Error purging %s: %v", target.name, result.Error))
			continue
		}
		if result.RowsAffected > 0 {
			logCleanup(fmt.Sprintf("Purged %d %s", result.RowsAffected, target.name))
		}
	}

	// Completed-set rows whose lesson is gone for good
	result := db.Where("lesson_id NOT IN (?)",
		db.Unscoped().Model(&models.Lesson{}).Select("id"),
	).Delete(&models.CompletedLesson{})
	if result.Error != nil {
		logCleanup(fmt.Sprintf("Error purging orphaned completed lessons: %v", result.Error))
	} else if result.RowsAffected > 0 {
		logCleanup(fmt.Sprintf("Purged %d orphaned completed lessons", result.RowsAffected))
	}
}

// InitializeCleanupScheduler starts the nightly purge job
func InitializeCleanupScheduler() *cron.Cron {
	c := cron.New()

	// Every day at 03:00
	if _, err := c.AddFunc("0 3 * * *", purgeSoftDeleted); err != nil {
		log.Fatalf("Failed to schedule cleanup job: %v", err)
	}

	c.Start()
	logCleanup(fmt.Sprintf("Cleanup scheduler started (retention %d days)", config.AppConfig.RetentionDays))

	return c
}
