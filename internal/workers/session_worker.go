package workers

import (
	"context"
	"time"

	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/repositories"

	"gorm.io/gorm"
)

// revokedRetention - отозванные сессии хранятся сутки для разбора инцидентов
const revokedRetention = 24 * time.Hour

// SessionWorker удаляет истекшие и давно отозванные сессии
type SessionWorker struct {
	db          *gorm.DB
	sessionRepo repositories.SessionRepository
	interval    time.Duration
	now         func() time.Time
}

func NewSessionWorker(db *gorm.DB, interval time.Duration) *SessionWorker {
	return &SessionWorker{
		db:          db,
		sessionRepo: repositories.NewSessionRepository(),
		interval:    interval,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (w *SessionWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("Session worker stopped")
				return
			case <-ticker.C:
				_, _ = w.RunOnce(ctx)
			}
		}
	}()
}

func (w *SessionWorker) RunOnce(ctx context.Context) (int64, error) {
	now := w.now()
	purged, err := w.sessionRepo.PurgeInactive(w.db.WithContext(ctx), now, now.Add(-revokedRetention))
	logger.WorkerLog("session", "purge_sessions", purged, err)
	return purged, err
}
