package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduleFields(t *testing.T) {
	t.Run(
		"1. string timestamps",
		func(t *testing.T) {
			var schedule Schedule
			require.NoError(t,
				json.Unmarshal(
					[]byte(`{"startTime":"2024-01-10 09:00:00","endTime":"2024-01-10 09:30:00","subject":"math"}`),
					&schedule,
				),
			)

			require.Equal(t, "2024-01-10 09:00:00", schedule.StartTime())
			require.Equal(t, "2024-01-10 09:30:00", schedule.EndTime())

			subject, ok := schedule.Field("subject")
			require.True(t, ok)
			require.JSONEq(t, `"math"`, string(subject))
		},
	)

	t.Run(
		"2. missing and non-string timestamps",
		func(t *testing.T) {
			var schedule Schedule
			require.NoError(t,
				json.Unmarshal([]byte(`{"endTime":123}`), &schedule),
			)

			require.Empty(t, schedule.StartTime())
			require.Equal(t, "123", schedule.EndTime())
		},
	)

	t.Run(
		"3. null and non-object input",
		func(t *testing.T) {
			var schedule Schedule
			require.Error(t, json.Unmarshal([]byte(`null`), &schedule))
			require.Error(t, json.Unmarshal([]byte(`[1,2]`), &schedule))
		},
	)
}

func TestScheduleResultPassThrough(t *testing.T) {
	input := `{
		"startTime": "2024-01-10 09:00:00",
		"endTime": "2024-01-10 09:15:00",
		"subject": "interview",
		"attendees": [1, 2, {"name": "x"}],
		"slots": "will be replaced"
	}`

	var schedule Schedule
	require.NoError(t, json.Unmarshal([]byte(input), &schedule))

	result := ScheduleResult{
		Schedule: schedule,
		Slots: []Slot{
			{
				StartTime: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2024, 1, 10, 9, 15, 0, 0, time.UTC),
				Available: true,
			},
		},
	}

	out, errMarshal := json.Marshal(result)
	require.NoError(t, errMarshal)

	require.JSONEq(t,
		`{
			"startTime": "2024-01-10 09:00:00",
			"endTime": "2024-01-10 09:15:00",
			"subject": "interview",
			"attendees": [1, 2, {"name": "x"}],
			"slots": [
				{"startTime": "2024-01-10 09:00:00", "endTime": "2024-01-10 09:15:00", "available": 1}
			]
		}`,
		string(out),
	)
}

func TestScheduleResultWithError(t *testing.T) {
	result := ScheduleResult{
		Schedule: NewSchedule("", "2024-01-10 09:15:00"),
		Err:      errors.New("malformed timestamp"),
	}

	out, errMarshal := json.Marshal(result)
	require.NoError(t, errMarshal)

	require.JSONEq(t,
		`{"startTime": "", "endTime": "2024-01-10 09:15:00", "slots": [], "error": "malformed timestamp"}`,
		string(out),
	)
}

func TestSlotJSON(t *testing.T) {
	slot := Slot{
		StartTime: time.Date(2024, 1, 10, 9, 15, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC),
	}

	out, errMarshal := json.Marshal(slot)
	require.NoError(t, errMarshal)
	require.JSONEq(t,
		`{"startTime": "2024-01-10 09:15:00", "endTime": "2024-01-10 09:30:00", "available": 0}`,
		string(out),
	)
	require.Equal(t, SlotStatusBusy, slot.Status())

	var decoded Slot
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.True(t, decoded.StartTime.Equal(slot.StartTime))
	require.True(t, decoded.EndTime.Equal(slot.EndTime))
	require.False(t, decoded.Available)
}

func TestScheduleKeepsKeyOrder(t *testing.T) {
	t.Run(
		"1. input order survives evaluation",
		func(t *testing.T) {
			var schedule Schedule
			require.NoError(t,
				json.Unmarshal(
					[]byte(`{"subject": "x", "endTime": "2024-01-10 09:15:00", "startTime": "2024-01-10 09:00:00", "slots": "old", "z": 1}`),
					&schedule,
				),
			)
			require.Equal(t, []string{"subject", "endTime", "startTime", "slots", "z"}, schedule.Keys())

			out, errMarshal := json.Marshal(ScheduleResult{
				Schedule: schedule,
				Slots: []Slot{
					{
						StartTime: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
						EndTime:   time.Date(2024, 1, 10, 9, 15, 0, 0, time.UTC),
						Available: true,
					},
				},
			})
			require.NoError(t, errMarshal)
			require.Equal(t,
				`{"subject":"x","endTime":"2024-01-10 09:15:00","startTime":"2024-01-10 09:00:00",`+
					`"slots":[{"startTime":"2024-01-10 09:00:00","endTime":"2024-01-10 09:15:00","available":1}],"z":1}`,
				string(out),
			)
		},
	)

	t.Run(
		"2. computed fields are appended",
		func(t *testing.T) {
			var schedule Schedule
			require.NoError(t,
				json.Unmarshal([]byte(`{"b": 2, "a": 1, "startTime": ""}`), &schedule),
			)

			out, errMarshal := json.Marshal(ScheduleResult{
				Schedule: schedule,
				Err:      errors.New("bad"),
			})
			require.NoError(t, errMarshal)
			require.Equal(t, `{"b":2,"a":1,"startTime":"","slots":[],"error":"bad"}`, string(out))
			require.Equal(t, []string{"b", "a", "startTime"}, schedule.Keys())
		},
	)

	t.Run(
		"3. duplicate key keeps first position and last value",
		func(t *testing.T) {
			var schedule Schedule
			require.NoError(t,
				json.Unmarshal([]byte(`{"a": 1, "b": 2, "a": 3}`), &schedule),
			)

			out, errMarshal := json.Marshal(schedule)
			require.NoError(t, errMarshal)
			require.Equal(t, `{"a":3,"b":2}`, string(out))
		},
	)

	t.Run(
		"4. new and empty schedules",
		func(t *testing.T) {
			out, errMarshal := json.Marshal(NewSchedule("2024-01-10 09:00:00", "2024-01-10 10:00:00"))
			require.NoError(t, errMarshal)
			require.Equal(t, `{"startTime":"2024-01-10 09:00:00","endTime":"2024-01-10 10:00:00"}`, string(out))

			empty, errEmpty := json.Marshal(Schedule{})
			require.NoError(t, errEmpty)
			require.Equal(t, `{}`, string(empty))
		},
	)
}
