package handlers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_finder/internal/availability"
	"github.com/Freeeeeet/slot_finder/internal/model"
	"github.com/Freeeeeet/slot_finder/internal/service"
)

func TestParseWindowArgs(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{"1. semicolon", "2024-01-10 09:00:00; 2024-01-10 12:00:00", "2024-01-10 09:00:00", "2024-01-10 12:00:00", false},
		{"2. two tokens", "2024-01-10T09:00:00 2024-01-10T12:00:00", "2024-01-10T09:00:00", "2024-01-10T12:00:00", false},
		{"3. four tokens", "2024-01-10 09:00:00 2024-01-10 12:00:00", "2024-01-10 09:00:00", "2024-01-10 12:00:00", false},
		{"4. single token", "2024-01-10", "", "", true},
		{"5. empty half", "2024-01-10 09:00:00;", "", "", true},
		{"6. three tokens", "a b c", "", "", true},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				start, end, errParse := ParseWindowArgs(tt.text)
				if tt.wantErr {
					require.ErrorIs(t, errParse, ErrWindowFormat)
					return
				}

				require.NoError(t, errParse)
				require.Equal(t, tt.wantStart, start)
				require.Equal(t, tt.wantEnd, end)
			},
		)
	}
}

func TestCommandArgs(t *testing.T) {
	require.Equal(t, "", commandArgs("/slots"))
	require.Equal(t, "a b", commandArgs("/slots  a b "))
	require.Equal(t, "a; b", commandArgs("/slots@slot_finder_bot a; b"))
	require.Equal(t, "plain text", commandArgs(" plain text "))
}

func TestFormatSlots(t *testing.T) {
	t.Run(
		"1. grouped by day",
		func(t *testing.T) {
			start := time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC)
			slots := []model.Slot{
				{StartTime: start, EndTime: start.Add(15 * time.Minute), Available: true},
				{StartTime: start.Add(15 * time.Minute), EndTime: start.Add(30 * time.Minute), Available: false},
				{StartTime: start.Add(30 * time.Minute), EndTime: start.Add(45 * time.Minute), Available: true},
			}

			require.Equal(t,
				"🗓 3 слота, свободно 2\n\n"+
					"📅 10.01.2024\n"+
					"✅ 23:30-23:45\n"+
					"❌ 23:45-00:00\n"+
					"\n📅 11.01.2024\n"+
					"✅ 00:00-00:15\n",
				FormatSlots(slots),
			)
		},
	)

	t.Run(
		"2. empty",
		func(t *testing.T) {
			require.Contains(t, FormatSlots(nil), "нет ни одного слота")
		},
	)

	t.Run(
		"3. truncated",
		func(t *testing.T) {
			start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
			slots := make([]model.Slot, 0, MaxSlotsInMessage+5)
			for i := 0; i < MaxSlotsInMessage+5; i++ {
				slotStart := start.Add(time.Duration(i) * 15 * time.Minute)
				slots = append(slots, model.Slot{StartTime: slotStart, EndTime: slotStart.Add(15 * time.Minute)})
			}

			text := FormatSlots(slots)
			require.Contains(t, text, "…и ещё 5")
			require.Equal(t, MaxSlotsInMessage, strings.Count(text, "❌"))
		},
	)
}

func TestPluralizeSlots(t *testing.T) {
	for count, want := range map[int]string{1: "слот", 3: "слота", 5: "слотов", 11: "слотов", 21: "слот", 22: "слота"} {
		require.Equal(t, want, PluralizeSlots(count), fmt.Sprint(count))
	}
}

func TestFormatEvaluateError(t *testing.T) {
	_, errParse := availability.ParseTimestamp("startTime", "garbage")
	require.Contains(t, FormatEvaluateError(errParse), `"garbage"`)

	errNoSnapshot := fmt.Errorf("%w: %w", service.ErrNoSnapshot, errors.New("down"))
	require.Contains(t, FormatEvaluateError(errNoSnapshot), "недоступен")

	errTooLarge := &availability.WindowTooLargeError{Slots: 20000, Max: 10000}
	require.Contains(t, FormatEvaluateError(errTooLarge), "не больше 10000")

	require.Contains(t, FormatEvaluateError(errors.New("boom")), "Произошла ошибка")
}

func TestFormatSnapshot(t *testing.T) {
	require.Contains(t, FormatSnapshot(nil), "не загружены")

	snapshot := &service.EventSnapshot{
		ID:       uuid.New(),
		Source:   "file:events.json",
		Events:   []model.Event{{}, {}},
		Busy:     []availability.Period{{}},
		LoadedAt: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	}

	require.Equal(t,
		"📦 Источник: file:events.json\n"+
			"📋 Событий: 2\n"+
			"⏰ Встреч: 1\n"+
			"🕐 Загружено: 10.01.2024 09:00:00",
		FormatSnapshot(snapshot),
	)
}
