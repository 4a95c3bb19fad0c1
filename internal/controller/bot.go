package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/controller/callbacks"
	"github.com/Freeeeeet/slot_finder/internal/controller/handlers"
	"github.com/Freeeeeet/slot_finder/internal/controller/render"
	"github.com/Freeeeeet/slot_finder/internal/controller/state"
)

// stateCleanupInterval как часто забываются брошенные диалоги
const stateCleanupInterval = time.Minute

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	logger          *zap.Logger
}

// NewBotHandlers собирает обработчики команд. Вызывается до создания бота,
// чтобы передать HandleTextMessage как обработчик по умолчанию.
func NewBotHandlers(slotsService handlers.SlotsService, stateManager *state.Manager, logger *zap.Logger) *handlers.Handlers {
	return handlers.NewHandlers(
		slotsService,
		render.GenerateAvailabilityImage,
		stateManager,
		logger,
	)
}

func NewBotController(
	botInstance *bot.Bot,
	cmdHandlers *handlers.Handlers,
	stateManager *state.Manager,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbacks.NewHandler(cmdHandlers.ReplyWithSlots, logger),
		stateManager:    stateManager,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact, c.handlers.HandleStatus)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, handlers.CommandSlots, bot.MatchTypePrefix, c.handlers.HandleSlots)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, callbacks.WindowPrefix, bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "slots", Description: "🗓 Свободные слоты в окне"},
		{Command: "status", Description: "📦 Загруженные события"},
		{Command: "cancel", Description: "✖️ Отменить ввод"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")

	go c.cleanupStates(ctx)

	c.bot.Start(ctx)
	return nil
}

func (c *BotController) cleanupStates(ctx context.Context) {
	ticker := time.NewTicker(stateCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.stateManager.Cleanup(); removed > 0 {
				c.logger.Debug("Expired dialog states removed", zap.Int("count", removed))
			}
		}
	}
}
