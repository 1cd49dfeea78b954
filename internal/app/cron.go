package app

import (
	"context"
	"time"

	"github.com/lumen-studio/site-core/internal/models"
	"github.com/lumen-studio/site-core/internal/modules/storage/file"
	pkgcron "github.com/lumen-studio/site-core/internal/pkg/cron"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, staticDir string, logger *zap.Logger) {
	cronLogger := logger.Named("cron")
	fileSvc := file.NewService(db, staticDir)

	sched.Register(pkgcron.Job{
		Name:        "cleanup_orphan_uploads",
		Description: "delete uploads that were never attached to content",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			attached, deleted, err := fileSvc.CleanupOrphans(file.DefaultOrphanAge)
			if err != nil {
				cronLogger.Warn("orphan cleanup failed", zap.Error(err))
				return err
			}
			cronLogger.Info("orphan cleanup finished",
				zap.Int("attached", attached),
				zap.Int("deleted", deleted))
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "purge_expired_sessions",
		Description: "remove expired admin sessions",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			result := db.Where("expires_at < ?", time.Now()).Delete(&models.UserSession{})
			if result.Error != nil {
				cronLogger.Warn("session purge failed", zap.Error(result.Error))
				return result.Error
			}
			cronLogger.Info("session purge finished", zap.Int64("deleted", result.RowsAffected))
			return nil
		},
	})
}
