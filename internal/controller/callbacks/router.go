package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ReplyFunc отвечает в чат списком слотов окна
type ReplyFunc func(ctx context.Context, b *bot.Bot, chatID int64, startTime, endTime string)

// Handler обрабатывает нажатия на inline кнопки
type Handler struct {
	reply  ReplyFunc
	logger *zap.Logger
}

func NewHandler(reply ReplyFunc, logger *zap.Logger) *Handler {
	return &Handler{
		reply:  reply,
		logger: logger,
	}
}

// HandleCallbackQuery маршрутизирует callback по префиксу data
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	data := callback.Data
	switch {
	case strings.HasPrefix(data, WindowPrefix):
		h.handleWindow(ctx, b, callback)
	default:
		h.logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		answerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}

func (h *Handler) handleWindow(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	startTime, endTime, err := NextWindow(callback.Data)
	if err != nil {
		h.logger.Warn("Failed to parse window callback",
			zap.String("data", callback.Data),
			zap.Error(err))
		answerCallback(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	message := callback.Message.Message
	if message == nil {
		answerCallback(ctx, b, callback.ID, "❌ Сообщение устарело, используйте /slots")
		return
	}

	answerCallback(ctx, b, callback.ID, "")

	h.reply(ctx, b, message.Chat.ID, startTime, endTime)
}

// answerCallback отвечает на callback query (без alert)
func answerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	_, _ = b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}
