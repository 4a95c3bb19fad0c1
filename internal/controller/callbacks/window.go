package callbacks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/slot_finder/internal/model"
)

// Префикс callback data для навигации по окнам:
// slots:<action>:<start unix>:<end unix>:<utc offset seconds>
const WindowPrefix = "slots:"

const maxZoneOffset = 24 * 60 * 60

// WindowAction что сделать с окном
type WindowAction string

const (
	WindowPrev    WindowAction = "prev"
	WindowNext    WindowAction = "next"
	WindowRefresh WindowAction = "refresh"
)

var ErrInvalidCallbackData = errors.New("invalid callback data format")

// EncodeWindow собирает callback data кнопки. Смещение зоны берётся у start.
func EncodeWindow(action WindowAction, start, end time.Time) string {
	_, offset := start.Zone()
	return fmt.Sprintf("%s%s:%d:%d:%d", WindowPrefix, action, start.Unix(), end.Unix(), offset)
}

// ParseWindow разбирает callback data кнопки.
// Данные без смещения (старые кнопки) читаются в UTC.
func ParseWindow(data string) (WindowAction, time.Time, time.Time, error) {
	rest, ok := strings.CutPrefix(data, WindowPrefix)
	if !ok {
		return "", time.Time{}, time.Time{}, ErrInvalidCallbackData
	}

	parts := strings.Split(rest, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return "", time.Time{}, time.Time{}, ErrInvalidCallbackData
	}

	action := WindowAction(parts[0])
	switch action {
	case WindowPrev, WindowNext, WindowRefresh:
	default:
		return "", time.Time{}, time.Time{}, fmt.Errorf("%w: action %q", ErrInvalidCallbackData, parts[0])
	}

	start, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidCallbackData, err)
	}
	end, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidCallbackData, err)
	}

	loc := time.UTC
	if len(parts) == 4 {
		offset, err := strconv.Atoi(parts[3])
		if err != nil {
			return "", time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidCallbackData, err)
		}
		if offset <= -maxZoneOffset || offset >= maxZoneOffset {
			return "", time.Time{}, time.Time{}, fmt.Errorf("%w: offset %d", ErrInvalidCallbackData, offset)
		}
		if offset != 0 {
			loc = time.FixedZone("", offset)
		}
	}

	return action, time.Unix(start, 0).In(loc), time.Unix(end, 0).In(loc), nil
}

// FormatWindowTime форматирует границу окна для повторного разбора.
// UTC пишется как во входных данных, остальные зоны в RFC3339 со смещением.
func FormatWindowTime(t time.Time) string {
	if _, offset := t.Zone(); offset == 0 {
		return t.UTC().Format(model.SlotTimeLayout)
	}
	return t.Format(time.RFC3339)
}

// ShiftWindow сдвигает окно на его длину
func ShiftWindow(action WindowAction, start, end time.Time) (time.Time, time.Time) {
	length := end.Sub(start)

	switch action {
	case WindowPrev:
		return start.Add(-length), start
	case WindowNext:
		return end, end.Add(length)
	default:
		return start, end
	}
}

// NextWindow разбирает кнопку и возвращает границы окна после действия
// в виде, пригодном для повторного расчёта
func NextWindow(data string) (string, string, error) {
	action, start, end, err := ParseWindow(data)
	if err != nil {
		return "", "", err
	}

	start, end = ShiftWindow(action, start, end)
	return FormatWindowTime(start), FormatWindowTime(end), nil
}
