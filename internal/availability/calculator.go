// Package availability делит окно расписания на слоты фиксированной длины
// и проверяет каждый слот на пересечение с занятыми интервалами.
package availability

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Freeeeeet/slot_finder/internal/model"
)

const (
	// DefaultInterval длина слота по умолчанию
	DefaultInterval = 15 * time.Minute
	// DefaultMaxSlots предел слотов на одно расписание, около трёх месяцев по 15 минут
	DefaultMaxSlots = 10000
)

// ConflictMode правило определения конфликта слота со встречей
type ConflictMode string

const (
	// ConflictEndpoints конфликт только если начало или конец слота попадает во встречу
	ConflictEndpoints ConflictMode = "endpoints"
	// ConflictOverlap конфликт при любом пересечении интервалов
	ConflictOverlap ConflictMode = "overlap"
)

var ErrUnknownConflictMode = errors.New("unknown conflict mode")

// ErrWindowTooLarge окно даёт больше слотов, чем разрешено
var ErrWindowTooLarge = errors.New("window too large")

// WindowTooLargeError описывает окно, превысившее предел слотов
type WindowTooLargeError struct {
	Slots int64
	Max   int
}

func (e *WindowTooLargeError) Error() string {
	return fmt.Sprintf("%s: %d slots, max %d", ErrWindowTooLarge, e.Slots, e.Max)
}

func (e *WindowTooLargeError) Is(target error) bool {
	return target == ErrWindowTooLarge
}

// ParseConflictMode разбирает режим из конфигурации, пустая строка означает endpoints
func ParseConflictMode(value string) (ConflictMode, error) {
	switch ConflictMode(value) {
	case "", ConflictEndpoints:
		return ConflictEndpoints, nil
	case ConflictOverlap:
		return ConflictOverlap, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConflictMode, value)
	}
}

// Options общие для всех расписаний в одном запуске
type Options struct {
	Interval time.Duration
	Mode     ConflictMode
	MaxSlots int
}

func (o Options) interval() time.Duration {
	if o.Interval <= 0 {
		return DefaultInterval
	}
	return o.Interval
}

func (o Options) maxSlots() int {
	if o.MaxSlots <= 0 {
		return DefaultMaxSlots
	}
	return o.MaxSlots
}

// Period замкнутый интервал времени
type Period struct {
	Start time.Time
	End   time.Time
}

// contains проверяет start <= t <= end
func (p Period) contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

func (p Period) overlaps(other Period) bool {
	return p.Start.Before(other.End) && other.Start.Before(p.End)
}

// ParseWindow разбирает startTime/endTime расписания
func ParseWindow(schedule model.Schedule) (Period, error) {
	start, err := ParseTimestamp(model.FieldStartTime, schedule.StartTime())
	if err != nil {
		return Period{}, err
	}

	end, err := ParseTimestamp(model.FieldEndTime, schedule.EndTime())
	if err != nil {
		return Period{}, err
	}

	return Period{Start: start, End: end}, nil
}

// ParseMeetings разворачивает встречи всех событий в один список занятых интервалов.
// Порядок событий и встреч сохраняется.
func ParseMeetings(events []model.Event) ([]Period, error) {
	busy := make([]Period, 0, model.MeetingsCount(events))

	for i, event := range events {
		for j, meeting := range event.Meetings {
			field := fmt.Sprintf("events[%d].meetings[%d]", i, j)

			start, err := ParseTimestamp(field+"."+model.FieldStartTime, meeting.StartTime)
			if err != nil {
				return nil, err
			}

			end, err := ParseTimestamp(field+"."+model.FieldEndTime, meeting.EndTime)
			if err != nil {
				return nil, err
			}

			// Перевёрнутая встреча трактуется как тот же интервал
			if end.Before(start) {
				start, end = end, start
			}

			busy = append(busy, Period{Start: start, End: end})
		}
	}

	return busy, nil
}

// ComputeSlots делит окно на слоты длины opts.Interval.
// Начала слотов идут от window.Start с шагом интервала, пока строго меньше window.End,
// поэтому последний слот может заканчиваться позже window.End.
// Окно больше opts.MaxSlots слотов отклоняется до выделения памяти.
func ComputeSlots(window Period, busy []Period, opts Options) ([]model.Slot, error) {
	interval := opts.interval()

	count := slotsCount(window, interval)
	if limit := opts.maxSlots(); count > int64(limit) {
		return nil, &WindowTooLargeError{Slots: count, Max: limit}
	}

	slots := make([]model.Slot, 0, count)

	for start := window.Start; start.Before(window.End); start = start.Add(interval) {
		slot := Period{Start: start, End: start.Add(interval)}

		slots = append(slots, model.Slot{
			StartTime: slot.Start,
			EndTime:   slot.End,
			Available: IsAvailable(slot, busy, opts.Mode),
		})
	}

	return slots, nil
}

// Compute разбирает окно расписания и считает слоты
func Compute(schedule model.Schedule, busy []Period, opts Options) ([]model.Slot, error) {
	window, err := ParseWindow(schedule)
	if err != nil {
		return nil, err
	}

	return ComputeSlots(window, busy, opts)
}

// IsAvailable возвращает false на первой конфликтующей встрече.
//
// В режиме endpoints проверяются только границы слота: встреча целиком внутри слота,
// не задевающая его начало и конец, конфликтом не считается.
func IsAvailable(slot Period, busy []Period, mode ConflictMode) bool {
	for _, meeting := range busy {
		if meeting.contains(slot.Start) || meeting.contains(slot.End) {
			return false
		}

		if mode == ConflictOverlap && meeting.overlaps(slot) {
			return false
		}
	}

	return true
}

// slotsCount считает слоты без их построения.
// time.Time.Sub насыщается на ~292 годах, поэтому длинные окна считаются по секундам.
func slotsCount(window Period, interval time.Duration) int64 {
	if !window.Start.Before(window.End) {
		return 0
	}

	if length := window.End.Sub(window.Start); length < maxExactSpan {
		count := int64(length / interval)
		if length%interval != 0 {
			count++
		}
		return count
	}

	seconds := window.End.Unix() - window.Start.Unix()
	step := int64(interval / time.Second)
	if step < 1 {
		return math.MaxInt64
	}
	return seconds/step + 1
}

const maxExactSpan = time.Duration(math.MaxInt64)
