package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/slot_finder/internal/availability"
	"github.com/Freeeeeet/slot_finder/internal/model"
)

// ErrNoSnapshot события ещё не загружены и загрузить их не удалось
var ErrNoSnapshot = errors.New("events snapshot is not available")

// EventSource источник занятых интервалов (файл, БД, календарь)
type EventSource interface {
	LoadEvents(ctx context.Context) ([]model.Event, error)
	Name() string
}

// EventSnapshot неизменяемый срез событий, общий для всех расписаний пакета
type EventSnapshot struct {
	ID       uuid.UUID
	Source   string
	Events   []model.Event
	Busy     []availability.Period
	LoadedAt time.Time
}

// ScheduleError ошибка конкретного расписания в пакете
type ScheduleError struct {
	Index int
	Err   error
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("schedule %d: %v", e.Index, e.Err)
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}

// BatchError возвращает первую ошибку расписания в пакете или nil
func BatchError(results []model.ScheduleResult) error {
	for i, result := range results {
		if result.Err != nil {
			return &ScheduleError{Index: i, Err: result.Err}
		}
	}
	return nil
}

type AvailabilityService struct {
	source  EventSource
	options availability.Options
	workers int
	logger  *zap.Logger

	snapshot atomic.Pointer[EventSnapshot]
	loadMu   sync.Mutex
}

func NewAvailabilityService(source EventSource, options availability.Options, workers int, logger *zap.Logger) *AvailabilityService {
	if workers < 1 {
		workers = 1
	}

	return &AvailabilityService{
		source:  source,
		options: options,
		workers: workers,
		logger:  logger,
	}
}

// Options возвращает опции расчёта
func (s *AvailabilityService) Options() availability.Options {
	return s.options
}

// Refresh загружает события и публикует новый снимок.
// При ошибке предыдущий снимок остаётся в силе.
func (s *AvailabilityService) Refresh(ctx context.Context) (*EventSnapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	events, err := s.source.LoadEvents(ctx)
	if err != nil {
		s.logger.Error("Failed to load events",
			zap.String("source", s.source.Name()),
			zap.Error(err))
		return nil, fmt.Errorf("load events from %s: %w", s.source.Name(), err)
	}

	busy, err := availability.ParseMeetings(events)
	if err != nil {
		s.logger.Error("Failed to parse events",
			zap.String("source", s.source.Name()),
			zap.Error(err))
		return nil, fmt.Errorf("parse events from %s: %w", s.source.Name(), err)
	}

	snapshot := &EventSnapshot{
		ID:       uuid.New(),
		Source:   s.source.Name(),
		Events:   events,
		Busy:     busy,
		LoadedAt: time.Now(),
	}
	s.snapshot.Store(snapshot)

	s.logger.Info("Events snapshot loaded",
		zap.String("snapshot_id", snapshot.ID.String()),
		zap.String("source", snapshot.Source),
		zap.Int("events", len(events)),
		zap.Int("meetings", len(busy)))

	return snapshot, nil
}

// invalidator источник с кэшем, который можно сбросить
type invalidator interface {
	Invalidate(ctx context.Context) error
}

// ForceRefresh сбрасывает кэш источника (если он есть) и перезагружает снимок
func (s *AvailabilityService) ForceRefresh(ctx context.Context) (*EventSnapshot, error) {
	if cached, ok := s.source.(invalidator); ok {
		if err := cached.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate events cache",
				zap.String("source", s.source.Name()),
				zap.Error(err))
		}
	}

	return s.Refresh(ctx)
}

// Current возвращает текущий снимок без загрузки (nil если ещё не загружен)
func (s *AvailabilityService) Current() *EventSnapshot {
	return s.snapshot.Load()
}

// Snapshot возвращает текущий снимок, при первом обращении загружает его
func (s *AvailabilityService) Snapshot(ctx context.Context) (*EventSnapshot, error) {
	if snapshot := s.snapshot.Load(); snapshot != nil {
		return snapshot, nil
	}

	snapshot, err := s.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSnapshot, err)
	}
	return snapshot, nil
}

// Evaluate считает слоты для каждого расписания пакета.
// Снимок событий берётся один раз на пакет, расписания считаются параллельно,
// порядок результатов совпадает с порядком входа.
// Ошибка разбора окна попадает только в результат своего расписания.
func (s *AvailabilityService) Evaluate(ctx context.Context, schedules []model.Schedule) ([]model.ScheduleResult, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]model.ScheduleResult, len(schedules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, schedule := range schedules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			slots, err := availability.Compute(schedule, snapshot.Busy, s.options)
			if err != nil {
				s.logger.Warn("Schedule skipped",
					zap.Int("index", i),
					zap.Error(err))
			}

			results[i] = model.ScheduleResult{
				Schedule: schedule,
				Slots:    slots,
				Err:      err,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluate schedules: %w", err)
	}

	s.logger.Debug("Batch evaluated",
		zap.String("snapshot_id", snapshot.ID.String()),
		zap.Int("schedules", len(schedules)))

	return results, nil
}

// EvaluateWindow считает слоты для одного окна
func (s *AvailabilityService) EvaluateWindow(ctx context.Context, startTime, endTime string) ([]model.Slot, error) {
	results, err := s.Evaluate(ctx, []model.Schedule{model.NewSchedule(startTime, endTime)})
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, errors.New("empty evaluation result")
	}

	return results[0].Slots, results[0].Err
}
