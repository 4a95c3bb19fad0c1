package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/availability"
	"github.com/Freeeeeet/slot_finder/internal/controller/callbacks"
	"github.com/Freeeeeet/slot_finder/internal/controller/state"
	"github.com/Freeeeeet/slot_finder/internal/model"
)

const windowHint = "Отправьте окно в формате:\n" +
	"2024-01-10 09:00:00; 2024-01-10 12:00:00\n\n" +
	"или одной строкой: /slots 2024-01-10T09:00:00 2024-01-10T12:00:00\n\n" +
	"Для отмены используйте /cancel"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "друг"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я нахожу свободные слоты в календаре.\n\n"+
			"Доступные команды:\n"+
			"/slots - Слоты в окне\n"+
			"/status - Загруженные события\n"+
			"/help - Справка",
		name,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/slots <начало> <конец> - Разбить окно на слоты и показать занятые\n" +
		"/slots - Спросить окно следующим сообщением\n" +
		"/status - Какие события сейчас загружены\n" +
		"/cancel - Отменить ввод\n" +
		"/help - Показать эту справку\n\n" +
		"✅ свободный слот, ❌ слот пересекается со встречей"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleStatus обрабатывает команду /status
func (h *Handlers) HandleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, FormatSnapshot(h.slotsService.Current()))
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID

	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// HandleSlots обрабатывает /slots с окном или без него
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	args := commandArgs(update.Message.Text)
	if args == "" {
		h.stateManager.SetState(update.Message.From.ID, state.StateAwaitingWindow)
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🗓 "+windowHint)
		return
	}

	h.replyWithWindow(ctx, b, update.Message.Chat.ID, args)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	switch currentState {
	case state.StateNone:
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
	case state.StateAwaitingWindow:
		h.stateManager.ClearState(telegramID)
		h.replyWithWindow(ctx, b, update.Message.Chat.ID, update.Message.Text)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
	}
}

// replyWithWindow разбирает окно из текста и отвечает слотами
func (h *Handlers) replyWithWindow(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	startTime, endTime, err := ParseWindowArgs(text)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Не понял окно.\n\n"+windowHint)
		return
	}

	h.ReplyWithSlots(ctx, b, chatID, startTime, endTime)
}

// ReplyWithSlots считает слоты окна и отвечает списком с кнопками и картинкой
func (h *Handlers) ReplyWithSlots(ctx context.Context, b *bot.Bot, chatID int64, startTime, endTime string) {
	slots, err := h.slotsService.EvaluateWindow(ctx, startTime, endTime)
	if err != nil {
		h.logger.Warn("Failed to evaluate window",
			zap.Int64("chat_id", chatID),
			zap.String("start_time", startTime),
			zap.String("end_time", endTime),
			zap.Error(err))
		h.sendError(ctx, b, chatID, FormatEvaluateError(err))
		return
	}

	h.sendSlots(ctx, b, chatID, FormatSlots(slots), windowKeyboard(startTime, endTime))

	if h.renderImage == nil || len(slots) == 0 {
		return
	}

	image, err := h.renderImage(slots)
	if err != nil {
		h.logger.Error("Failed to render slots image", zap.Error(err))
		return
	}
	h.sendImage(ctx, b, chatID, image, fmt.Sprintf("%s - %s", startTime, endTime))
}

// windowKeyboard кнопки навигации; окно уже прошло разбор в EvaluateWindow
func windowKeyboard(startTime, endTime string) *models.InlineKeyboardMarkup {
	start, errStart := availability.ParseTimestamp(model.FieldStartTime, startTime)
	end, errEnd := availability.ParseTimestamp(model.FieldEndTime, endTime)
	if errStart != nil || errEnd != nil {
		return nil
	}

	return callbacks.WindowKeyboard(start, end)
}
