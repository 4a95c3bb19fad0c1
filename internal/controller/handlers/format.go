package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/slot_finder/internal/availability"
	"github.com/Freeeeeet/slot_finder/internal/model"
	"github.com/Freeeeeet/slot_finder/internal/service"
)

// ErrWindowFormat текст не похож на окно "начало; конец"
var ErrWindowFormat = errors.New("window must be two timestamps")

// ParseWindowArgs достаёт начало и конец окна из текста.
// Поддерживается "start; end", два токена без пробелов внутри
// и четыре токена вида "дата время дата время".
func ParseWindowArgs(text string) (string, string, error) {
	text = strings.TrimSpace(text)

	if before, after, found := strings.Cut(text, ";"); found {
		start, end := strings.TrimSpace(before), strings.TrimSpace(after)
		if start == "" || end == "" {
			return "", "", ErrWindowFormat
		}
		return start, end, nil
	}

	fields := strings.Fields(text)
	switch len(fields) {
	case 2:
		return fields[0], fields[1], nil
	case 4:
		return fields[0] + " " + fields[1], fields[2] + " " + fields[3], nil
	default:
		return "", "", ErrWindowFormat
	}
}

// commandArgs отрезает команду (вместе с @botname) от аргументов
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}

	_, args, _ := strings.Cut(text, " ")
	return strings.TrimSpace(args)
}

// FormatSlots форматирует список слотов для сообщения
func FormatSlots(slots []model.Slot) string {
	if len(slots) == 0 {
		return "📭 В окне нет ни одного слота."
	}

	free := 0
	for _, slot := range slots {
		if slot.Available {
			free++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 %d %s, свободно %d\n\n", len(slots), PluralizeSlots(len(slots)), free)

	lastDay := ""
	for i, slot := range slots {
		if i == MaxSlotsInMessage {
			fmt.Fprintf(&sb, "\n…и ещё %d", len(slots)-MaxSlotsInMessage)
			break
		}

		day := slot.StartTime.Format("02.01.2006")
		if day != lastDay {
			if lastDay != "" {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "📅 %s\n", day)
			lastDay = day
		}

		emoji := "✅"
		if !slot.Available {
			emoji = "❌"
		}
		fmt.Fprintf(&sb, "%s %s\n", emoji, FormatTimeRange(slot.StartTime, slot.EndTime))
	}

	text := sb.String()
	if len(text) > MaxMessageLength {
		text = strings.ToValidUTF8(text[:MaxMessageLength], "")
	}
	return text
}

// FormatSnapshot краткое описание загруженных событий
func FormatSnapshot(snapshot *service.EventSnapshot) string {
	if snapshot == nil {
		return "⏳ События ещё не загружены."
	}

	return fmt.Sprintf(
		"📦 Источник: %s\n"+
			"📋 Событий: %d\n"+
			"⏰ Встреч: %d\n"+
			"🕐 Загружено: %s",
		snapshot.Source,
		len(snapshot.Events),
		len(snapshot.Busy),
		snapshot.LoadedAt.Format("02.01.2006 15:04:05"),
	)
}

// FormatEvaluateError переводит ошибку расчёта в текст для пользователя
func FormatEvaluateError(err error) string {
	var malformed *availability.MalformedTimestampError
	var tooLarge *availability.WindowTooLargeError
	switch {
	case errors.As(err, &malformed):
		return fmt.Sprintf("❌ Не удалось разобрать время %q.\n\nПример: 2024-01-10 09:00:00; 2024-01-10 12:00:00", malformed.Value)
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("❌ Окно слишком большое: не больше %d %s.", tooLarge.Max, PluralizeSlots(tooLarge.Max))
	case errors.Is(err, service.ErrNoSnapshot):
		return "❌ Календарь сейчас недоступен. Попробуйте позже."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// PluralizeSlots возвращает правильное склонение слова "слот"
func PluralizeSlots(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "слот"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "слота"
	}
	return "слотов"
}
