package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Freeeeeet/slot_finder/internal/model"
)

// Форматы даты-времени в iCalendar
var icsLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
}

// ICSEventRepository читает занятость из iCalendar-файла.
// Встречи группируются в события по дням (UTC).
type ICSEventRepository struct {
	path string
}

func NewICSEventRepository(path string) *ICSEventRepository {
	return &ICSEventRepository{path: path}
}

func (r *ICSEventRepository) Name() string {
	return "ics:" + r.path
}

func (r *ICSEventRepository) LoadEvents(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := readSource(r.path, ErrMissingEventsSource)
	if err != nil {
		return nil, err
	}

	events, err := ParseICS(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingEventsSource, r.path, err)
	}

	return events, nil
}

var errICSDuration = errors.New("invalid DURATION")

// ParseICS превращает VEVENT-компоненты в события по дням.
// VEVENT без DTSTART пропускается. Без DTEND конец берётся из DURATION,
// событие на дату (VALUE=DATE) длится сутки, иначе встреча мгновенная.
func ParseICS(data []byte) ([]model.Event, error) {
	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	byDay := make(map[string]*model.Event)

	for _, vevent := range cal.Events() {
		start, allDay, err := icsDateTime(vevent, ics.ComponentPropertyDtStart)
		if err != nil {
			continue
		}

		end, err := icsEnd(vevent, start, allDay)
		if err != nil {
			return nil, fmt.Errorf("parse event %q: %w", icsUID(vevent), err)
		}

		day := start.Format("2006-01-02")
		event, ok := byDay[day]
		if !ok {
			event = &model.Event{ID: day, Title: day, Meetings: []model.Meeting{}}
			byDay[day] = event
		}

		event.Meetings = append(event.Meetings, model.Meeting{
			StartTime: start.Format(time.RFC3339),
			EndTime:   end.Format(time.RFC3339),
		})
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	events := make([]model.Event, 0, len(days))
	for _, day := range days {
		event := byDay[day]
		sort.SliceStable(event.Meetings, func(i, j int) bool {
			return event.Meetings[i].StartTime < event.Meetings[j].StartTime
		})
		events = append(events, *event)
	}

	return events, nil
}

// icsEnd возвращает конец встречи: DTEND, затем DTSTART+DURATION
func icsEnd(vevent *ics.VEvent, start time.Time, allDay bool) (time.Time, error) {
	if end, _, err := icsDateTime(vevent, ics.ComponentPropertyDtEnd); err == nil {
		return end, nil
	}

	if prop := vevent.GetProperty(ics.ComponentPropertyDuration); prop != nil {
		duration, err := parseICSDuration(prop.Value)
		if err != nil {
			return time.Time{}, err
		}
		return start.Add(duration), nil
	}

	if allDay {
		return start.AddDate(0, 0, 1), nil
	}
	return start, nil
}

func icsUID(vevent *ics.VEvent) string {
	if prop := vevent.GetProperty(ics.ComponentPropertyUniqueId); prop != nil {
		return prop.Value
	}
	return ""
}

// parseICSDuration разбирает длительность RFC 5545: [+|-]P[nW][nD][T[nH][nM][nS]].
// Отрицательная длительность допустима, перевёрнутая встреча нормализуется при расчёте.
func parseICSDuration(value string) (time.Duration, error) {
	raw := strings.ToUpper(strings.TrimSpace(value))

	sign := time.Duration(1)
	switch {
	case strings.HasPrefix(raw, "-"):
		sign = -1
		raw = raw[1:]
	case strings.HasPrefix(raw, "+"):
		raw = raw[1:]
	}

	if !strings.HasPrefix(raw, "P") || len(raw) < 3 {
		return 0, fmt.Errorf("%w %q", errICSDuration, value)
	}
	raw = raw[1:]

	var total time.Duration
	inTime := false
	number := ""

	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			number += string(r)
			continue
		case r == 'T':
			if inTime || number != "" {
				return 0, fmt.Errorf("%w %q", errICSDuration, value)
			}
			inTime = true
			continue
		}

		if number == "" {
			return 0, fmt.Errorf("%w %q", errICSDuration, value)
		}
		n, err := strconv.Atoi(number)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %w", errICSDuration, value, err)
		}
		number = ""

		var unit time.Duration
		switch {
		case r == 'W' && !inTime:
			unit = 7 * 24 * time.Hour
		case r == 'D' && !inTime:
			unit = 24 * time.Hour
		case r == 'H' && inTime:
			unit = time.Hour
		case r == 'M' && inTime:
			unit = time.Minute
		case r == 'S' && inTime:
			unit = time.Second
		default:
			return 0, fmt.Errorf("%w %q", errICSDuration, value)
		}
		total += time.Duration(n) * unit
	}

	if number != "" || strings.HasSuffix(raw, "T") {
		return 0, fmt.Errorf("%w %q", errICSDuration, value)
	}

	return sign * total, nil
}

// icsDateTime разбирает свойство даты. Время без зоны считается UTC.
// allDay отмечает значение-дату (VALUE=DATE или восемь цифр).
func icsDateTime(vevent *ics.VEvent, property ics.ComponentProperty) (time.Time, bool, error) {
	prop := vevent.GetProperty(property)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property %s", property)
	}

	loc := time.UTC
	allDay := false
	for key, values := range prop.ICalParameters {
		switch {
		case strings.EqualFold(key, "TZID") && len(values) > 0:
			if tz, err := time.LoadLocation(values[0]); err == nil {
				loc = tz
			}
		case strings.EqualFold(key, "VALUE") && len(values) > 0:
			allDay = strings.EqualFold(values[0], "DATE")
		}
	}

	value := strings.TrimSpace(prop.Value)
	for _, layout := range icsLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), allDay || len(value) == len("20060102"), nil
		}
	}

	return time.Time{}, false, fmt.Errorf("parse %s %q", property, value)
}
