package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/availability"
	"github.com/Freeeeeet/slot_finder/internal/config"
	"github.com/Freeeeeet/slot_finder/internal/repository"
	"github.com/Freeeeeet/slot_finder/internal/service"
)

const eventsJSON = `[
	{"meetings": [{"startTime": "2024-01-10 09:40:00", "endTime": "2024-01-10 09:50:00"}]},
	{"meetings": []}
]`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Environment:  "test",
		EventsSource: config.EventsSourceFile,
		EventsFile:   filepath.Join(dir, "events.json"),
		InputFile:    filepath.Join(dir, "input.json"),
		SlotInterval: 15 * time.Minute,
		ConflictMode: availability.ConflictEndpoints,
		Workers:      2,
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run(
		"1. file in, json out",
		func(t *testing.T) {
			dir := t.TempDir()
			writeFixture(t, dir, "events.json", eventsJSON)
			writeFixture(t, dir, "input.json",
				`[{"subject": "math", "startTime": "2024-01-10 09:00:00", "endTime": "2024-01-10 10:00:00"}]`)

			var stdout bytes.Buffer
			require.NoError(t, run(ctx, testConfig(dir), nil, &stdout, zap.NewNop()))

			require.JSONEq(t,
				`[{
					"subject": "math",
					"startTime": "2024-01-10 09:00:00",
					"endTime": "2024-01-10 10:00:00",
					"slots": [
						{"startTime": "2024-01-10 09:00:00", "endTime": "2024-01-10 09:15:00", "available": 1},
						{"startTime": "2024-01-10 09:15:00", "endTime": "2024-01-10 09:30:00", "available": 1},
						{"startTime": "2024-01-10 09:30:00", "endTime": "2024-01-10 09:45:00", "available": 0},
						{"startTime": "2024-01-10 09:45:00", "endTime": "2024-01-10 10:00:00", "available": 0}
					]
				}]`,
				stdout.String(),
			)
			require.Less(t,
				bytes.Index(stdout.Bytes(), []byte(`"subject"`)),
				bytes.Index(stdout.Bytes(), []byte(`"startTime"`)),
			)
		},
	)

	t.Run(
		"2. malformed schedule is reported inline",
		func(t *testing.T) {
			dir := t.TempDir()
			writeFixture(t, dir, "events.json", `[]`)
			writeFixture(t, dir, "input.json",
				`[{"startTime": "2024-01-10 09:00:00", "endTime": "2024-01-10 09:15:00"}, {"startTime": "", "endTime": "2024-01-10 09:15:00"}]`)

			var stdout bytes.Buffer
			require.NoError(t, run(ctx, testConfig(dir), nil, &stdout, zap.NewNop()))
			require.Contains(t, stdout.String(), `"error": "malformed timestamp`)
		},
	)

	t.Run(
		"3. strict flag fails the run",
		func(t *testing.T) {
			dir := t.TempDir()
			writeFixture(t, dir, "events.json", `[]`)
			writeFixture(t, dir, "input.json",
				`[{"startTime": "2024-01-10 09:00:00", "endTime": "2024-01-10 09:15:00"}, {"startTime": "", "endTime": "2024-01-10 09:15:00"}]`)

			var stdout bytes.Buffer
			errRun := run(ctx, testConfig(dir), []string{"-strict"}, &stdout, zap.NewNop())
			require.ErrorIs(t, errRun, availability.ErrMalformedTimestamp)

			var scheduleErr *service.ScheduleError
			require.True(t, errors.As(errRun, &scheduleErr))
			require.Equal(t, 1, scheduleErr.Index)
			require.Empty(t, stdout.String())
		},
	)

	t.Run(
		"4. flags override sources",
		func(t *testing.T) {
			dir := t.TempDir()
			input := writeFixture(t, dir, "custom.json",
				`[{"startTime": "2024-01-10 09:00:00", "endTime": "2024-01-10 09:30:00"}]`)
			calendar := writeFixture(t, dir, "busy.ics", "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//slot_finder//test//EN\r\n"+
				"BEGIN:VEVENT\r\nUID:a\r\nDTSTAMP:20240101T000000Z\r\nDTSTART:20240110T092000Z\r\nDURATION:PT20M\r\nEND:VEVENT\r\n"+
				"END:VCALENDAR\r\n")
			imagePath := filepath.Join(dir, "slots.png")

			var stdout bytes.Buffer
			require.NoError(t,
				run(ctx, testConfig(dir), []string{"-input", input, "-ics", calendar, "-image", imagePath}, &stdout, zap.NewNop()),
			)
			require.JSONEq(t,
				`[{
					"startTime": "2024-01-10 09:00:00",
					"endTime": "2024-01-10 09:30:00",
					"slots": [
						{"startTime": "2024-01-10 09:00:00", "endTime": "2024-01-10 09:15:00", "available": 1},
						{"startTime": "2024-01-10 09:15:00", "endTime": "2024-01-10 09:30:00", "available": 0}
					]
				}]`,
				stdout.String(),
			)

			png, errRead := os.ReadFile(imagePath)
			require.NoError(t, errRead)
			require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
		},
	)

	t.Run(
		"5. missing sources",
		func(t *testing.T) {
			dir := t.TempDir()

			errInput := run(ctx, testConfig(dir), nil, &bytes.Buffer{}, zap.NewNop())
			require.ErrorIs(t, errInput, repository.ErrMissingInputSource)

			writeFixture(t, dir, "input.json", `[]`)
			errEvents := run(ctx, testConfig(dir), nil, &bytes.Buffer{}, zap.NewNop())
			require.ErrorIs(t, errEvents, repository.ErrMissingEventsSource)
		},
	)

	t.Run(
		"6. unknown flag",
		func(t *testing.T) {
			errRun := run(ctx, testConfig(t.TempDir()), []string{"-bogus"}, &bytes.Buffer{}, zap.NewNop())
			require.Error(t, errRun)
		},
	)
}
