package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/model"
	"github.com/Freeeeeet/slot_finder/internal/service"
)

// SlotsService операции сервиса доступности, нужные HTTP-слою
type SlotsService interface {
	Evaluate(ctx context.Context, schedules []model.Schedule) ([]model.ScheduleResult, error)
	ForceRefresh(ctx context.Context) (*service.EventSnapshot, error)
	Current() *service.EventSnapshot
}

type errorResponse struct {
	Error string `json:"error"`
	Index *int   `json:"index,omitempty"`
}

type snapshotResponse struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Events   int       `json:"events"`
	Meetings int       `json:"meetings"`
	LoadedAt time.Time `json:"loadedAt"`
}

func newSnapshotResponse(snapshot *service.EventSnapshot) *snapshotResponse {
	if snapshot == nil {
		return nil
	}

	return &snapshotResponse{
		ID:       snapshot.ID.String(),
		Source:   snapshot.Source,
		Events:   len(snapshot.Events),
		Meetings: len(snapshot.Busy),
		LoadedAt: snapshot.LoadedAt,
	}
}

type Handler struct {
	service SlotsService
	strict  bool
	logger  *zap.Logger
}

func NewHandler(svc SlotsService, strict bool, logger *zap.Logger) *Handler {
	return &Handler{
		service: svc,
		strict:  strict,
		logger:  logger,
	}
}

// Health GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"snapshot": newSnapshotResponse(h.service.Current()),
	})
}

// EvaluateBatch POST /api/v1/slots
func (h *Handler) EvaluateBatch(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.abort(c, http.StatusRequestEntityTooLarge, err, nil)
			return
		}
		h.abort(c, http.StatusBadRequest, err, nil)
		return
	}

	schedules, err := model.DecodeSchedules(body)
	if err != nil {
		h.abort(c, http.StatusBadRequest, err, nil)
		return
	}

	results, ok := h.evaluate(c, schedules)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, results)
}

// EvaluateWindow GET /api/v1/slots?startTime=..&endTime=..
func (h *Handler) EvaluateWindow(c *gin.Context) {
	schedule := model.NewSchedule(
		c.Query(model.FieldStartTime),
		c.Query(model.FieldEndTime),
	)

	results, ok := h.evaluate(c, []model.Schedule{schedule})
	if !ok {
		return
	}

	result := results[0]
	if result.Err != nil {
		h.abort(c, http.StatusBadRequest, result.Err, nil)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RefreshEvents POST /api/v1/events/refresh
func (h *Handler) RefreshEvents(c *gin.Context) {
	snapshot, err := h.service.ForceRefresh(c.Request.Context())
	if err != nil {
		h.abort(c, http.StatusServiceUnavailable, err, nil)
		return
	}

	c.JSON(http.StatusOK, newSnapshotResponse(snapshot))
}

// evaluate считает пакет и сам отвечает ошибкой, если считать нельзя
func (h *Handler) evaluate(c *gin.Context, schedules []model.Schedule) ([]model.ScheduleResult, bool) {
	results, err := h.service.Evaluate(c.Request.Context(), schedules)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrNoSnapshot) {
			status = http.StatusServiceUnavailable
		}
		h.logger.Warn("Batch evaluation failed",
			zap.Int("schedules", len(schedules)),
			zap.Error(err))
		h.abort(c, status, err, nil)
		return nil, false
	}

	if h.strict {
		var scheduleErr *service.ScheduleError
		if errors.As(service.BatchError(results), &scheduleErr) {
			index := scheduleErr.Index
			h.abort(c, http.StatusUnprocessableEntity, scheduleErr, &index)
			return nil, false
		}
	}

	return results, true
}

func (h *Handler) abort(c *gin.Context, status int, err error, index *int) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error(), Index: index})
}
