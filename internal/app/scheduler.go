package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/service"
)

// Refresher умеет перечитывать снимок событий
type Refresher interface {
	Refresh(ctx context.Context) (*service.EventSnapshot, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	logger    *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(refresher Refresher, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		interval:  interval,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start запускает фоновые задачи. Нулевой интервал отключает обновление.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Events refresh disabled")
		return
	}

	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.runRefreshTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runRefreshTask периодически перечитывает события
func (s *Scheduler) runRefreshTask(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refreshEvents(ctx)
		case <-s.stopChan:
			s.logger.Info("Events refresh task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Events refresh task cancelled")
			return
		}
	}
}

// refreshEvents публикует новый снимок; при ошибке продолжаем работать на старом
func (s *Scheduler) refreshEvents(ctx context.Context) {
	snapshot, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.logger.Error("Failed to refresh events, keeping previous snapshot", zap.Error(err))
		return
	}

	s.logger.Debug("Events refreshed", zap.String("snapshot_id", snapshot.ID.String()))
}
