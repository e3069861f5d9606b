package workers

import (
	"context"
	"time"

	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/repositories"

	"gorm.io/gorm"
)

const requestWorkerName = "request"

// RequestWorker отменяет pending-заявки, чья дата прошла больше staleAfter назад,
// и отклоняет их pending-предложения.
type RequestWorker struct {
	db           *gorm.DB
	requestRepo  repositories.RequestRepository
	proposalRepo repositories.ProposalRepository
	interval     time.Duration
	staleAfter   time.Duration
	now          func() time.Time
}

func NewRequestWorker(db *gorm.DB, interval, staleAfter time.Duration) *RequestWorker {
	return &RequestWorker{
		db:           db,
		requestRepo:  repositories.NewRequestRepository(),
		proposalRepo: repositories.NewProposalRepository(),
		interval:     interval,
		staleAfter:   staleAfter,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start запускает фоновую задачу; остановка через ctx
func (w *RequestWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *RequestWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Request worker stopped")
			return
		case <-ticker.C:
			_, _ = w.RunOnce(ctx)
		}
	}
}

// RunOnce - один проход: отмена просроченных заявок и отклонение их предложений
// в одной транзакции. Возвращает число отмененных заявок.
func (w *RequestWorker) RunOnce(ctx context.Context) (int64, error) {
	now := w.now()
	var cancelled, rejected int64

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cancelled, err = w.requestRepo.CancelStalePending(tx, now.Add(-w.staleAfter), now)
		if err != nil {
			return err
		}
		rejected, err = w.proposalRepo.RejectPendingForCancelledRequests(tx)
		return err
	})

	logger.WorkerLog(requestWorkerName, "cancel_stale_requests", cancelled, err)
	if err == nil && rejected > 0 {
		logger.WorkerLog(requestWorkerName, "reject_orphan_proposals", rejected, nil)
	}
	return cancelled, err
}
