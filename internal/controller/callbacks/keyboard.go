package callbacks

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

// Button создаёт кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// WindowKeyboard кнопки под списком слотов.
// Окно нулевой длины сдвигать некуда, остаётся только пересчёт.
func WindowKeyboard(start, end time.Time) *models.InlineKeyboardMarkup {
	builder := NewBuilder()

	if end.After(start) {
		builder.Row(
			Button("⬅️ Раньше", EncodeWindow(WindowPrev, start, end)),
			Button("Позже ➡️", EncodeWindow(WindowNext, start, end)),
		)
	}
	builder.Row(Button("🔄 Пересчитать", EncodeWindow(WindowRefresh, start, end)))

	return builder.Build()
}
