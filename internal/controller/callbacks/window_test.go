package callbacks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_finder/internal/availability"
	"github.com/Freeeeeet/slot_finder/internal/model"
)

func TestWindowData(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run(
		"1. encode and parse",
		func(t *testing.T) {
			data := EncodeWindow(WindowNext, start, end)
			require.Equal(t, "slots:next:1704877200:1704888000:0", data)
			require.LessOrEqual(t, len(data), 64)

			action, gotStart, gotEnd, errParse := ParseWindow(data)
			require.NoError(t, errParse)
			require.Equal(t, WindowNext, action)
			require.True(t, gotStart.Equal(start))
			require.True(t, gotEnd.Equal(end))
		},
	)

	t.Run(
		"2. zone offset survives the round trip",
		func(t *testing.T) {
			zone := time.FixedZone("", 2*60*60)
			local := time.Date(2024, 1, 10, 11, 0, 0, 0, zone)

			data := EncodeWindow(WindowRefresh, local, local.Add(time.Hour))
			require.Equal(t, "slots:refresh:1704877200:1704880800:7200", data)
			require.LessOrEqual(t, len(data), 64)

			_, gotStart, gotEnd, errParse := ParseWindow(data)
			require.NoError(t, errParse)
			require.True(t, gotStart.Equal(local))
			require.Equal(t, "2024-01-10 11:00:00", gotStart.Format(model.SlotTimeLayout))
			require.Equal(t, "2024-01-10 12:00:00", gotEnd.Format(model.SlotTimeLayout))
		},
	)

	t.Run(
		"3. data without offset is utc",
		func(t *testing.T) {
			_, gotStart, _, errParse := ParseWindow("slots:next:1704877200:1704888000")
			require.NoError(t, errParse)
			require.Equal(t, time.UTC, gotStart.Location())
			require.True(t, gotStart.Equal(start))
		},
	)

	t.Run(
		"4. invalid data",
		func(t *testing.T) {
			for _, data := range []string{
				"view_subject:1",
				"slots:next:1",
				"slots:jump:1:2",
				"slots:next:x:2",
				"slots:next:1:y",
				"slots:next:1:2:z",
				"slots:next:1:2:90000",
				"slots:next:1:2:3:4",
			} {
				_, _, _, errParse := ParseWindow(data)
				require.ErrorIs(t, errParse, ErrInvalidCallbackData, data)
			}
		},
	)
}

func TestShiftWindow(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	prevStart, prevEnd := ShiftWindow(WindowPrev, start, end)
	require.Equal(t, start.Add(-3*time.Hour), prevStart)
	require.Equal(t, start, prevEnd)

	nextStart, nextEnd := ShiftWindow(WindowNext, start, end)
	require.Equal(t, end, nextStart)
	require.Equal(t, end.Add(3*time.Hour), nextEnd)

	sameStart, sameEnd := ShiftWindow(WindowRefresh, start, end)
	require.Equal(t, start, sameStart)
	require.Equal(t, end, sameEnd)
}

func TestWindowKeyboard(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	keyboard := WindowKeyboard(start, start.Add(time.Hour))
	require.Len(t, keyboard.InlineKeyboard, 2)
	require.Len(t, keyboard.InlineKeyboard[0], 2)
	require.Equal(t, EncodeWindow(WindowPrev, start, start.Add(time.Hour)), keyboard.InlineKeyboard[0][0].CallbackData)

	empty := WindowKeyboard(start, start)
	require.Len(t, empty.InlineKeyboard, 1)
	require.Equal(t, EncodeWindow(WindowRefresh, start, start), empty.InlineKeyboard[0][0].CallbackData)
}

func TestNextWindow(t *testing.T) {
	tests := []struct {
		name      string
		startTime string
		endTime   string
		action    WindowAction
		wantStart string
		wantEnd   string
	}{
		{
			name:      "1. utc window moves forward",
			startTime: "2024-01-10 09:00:00",
			endTime:   "2024-01-10 12:00:00",
			action:    WindowNext,
			wantStart: "2024-01-10 12:00:00",
			wantEnd:   "2024-01-10 15:00:00",
		},
		{
			name:      "2. offset window keeps local time",
			startTime: "2024-01-10T11:00:00+02:00",
			endTime:   "2024-01-10T12:00:00+02:00",
			action:    WindowRefresh,
			wantStart: "2024-01-10T11:00:00+02:00",
			wantEnd:   "2024-01-10T12:00:00+02:00",
		},
		{
			name:      "3. negative offset moves back",
			startTime: "2024-01-10T09:00:00-05:00",
			endTime:   "2024-01-10T10:00:00-05:00",
			action:    WindowPrev,
			wantStart: "2024-01-10T08:00:00-05:00",
			wantEnd:   "2024-01-10T09:00:00-05:00",
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				start, errStart := availability.ParseTimestamp(model.FieldStartTime, tt.startTime)
				require.NoError(t, errStart)
				end, errEnd := availability.ParseTimestamp(model.FieldEndTime, tt.endTime)
				require.NoError(t, errEnd)

				gotStart, gotEnd, errNext := NextWindow(EncodeWindow(tt.action, start, end))
				require.NoError(t, errNext)
				require.Equal(t, tt.wantStart, gotStart)
				require.Equal(t, tt.wantEnd, gotEnd)

				reparsed, errReparse := availability.ParseTimestamp(model.FieldStartTime, gotStart)
				require.NoError(t, errReparse)
				require.Equal(t, tt.wantStart, FormatWindowTime(reparsed))
			},
		)
	}

	_, _, errNext := NextWindow("slots:jump:1:2:0")
	require.ErrorIs(t, errNext, ErrInvalidCallbackData)
}
