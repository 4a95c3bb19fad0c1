package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/controller/state"
	"github.com/Freeeeeet/slot_finder/internal/model"
	"github.com/Freeeeeet/slot_finder/internal/service"
)

// SlotsService то, что боту нужно от сервиса доступности
type SlotsService interface {
	EvaluateWindow(ctx context.Context, startTime, endTime string) ([]model.Slot, error)
	Current() *service.EventSnapshot
}

// ImageRenderer рисует PNG со слотами
type ImageRenderer func(slots []model.Slot) ([]byte, error)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	slotsService SlotsService
	renderImage  ImageRenderer
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд.
// renderImage может быть nil, тогда картинка не отправляется.
func NewHandlers(
	slotsService SlotsService,
	renderImage ImageRenderer,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		slotsService: slotsService,
		renderImage:  renderImage,
		stateManager: stateManager,
		logger:       logger,
	}
}
