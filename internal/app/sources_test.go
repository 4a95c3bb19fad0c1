package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/config"
)

func TestNewEventSource(t *testing.T) {
	ctx := context.Background()

	eventsFile := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(eventsFile, []byte(`[]`), 0o600))

	t.Run(
		"1. file source",
		func(t *testing.T) {
			cfg := &config.Config{EventsSource: config.EventsSourceFile, EventsFile: eventsFile}

			source, closeSource, errSource := NewEventSource(ctx, cfg, zap.NewNop())
			require.NoError(t, errSource)
			defer closeSource()

			require.Equal(t, "file:"+eventsFile, source.Name())

			events, errLoad := source.LoadEvents(ctx)
			require.NoError(t, errLoad)
			require.Empty(t, events)
		},
	)

	t.Run(
		"2. ics source",
		func(t *testing.T) {
			cfg := &config.Config{EventsSource: config.EventsSourceICS, ICSFile: "calendar.ics"}

			source, closeSource, errSource := NewEventSource(ctx, cfg, zap.NewNop())
			require.NoError(t, errSource)
			defer closeSource()

			require.Equal(t, "ics:calendar.ics", source.Name())
		},
	)

	t.Run(
		"3. cached file source",
		func(t *testing.T) {
			mr := miniredis.RunT(t)
			cfg := &config.Config{
				EventsSource:   config.EventsSourceFile,
				EventsFile:     eventsFile,
				RedisAddr:      mr.Addr(),
				EventsCacheTTL: time.Minute,
			}

			source, closeSource, errSource := NewEventSource(ctx, cfg, zap.NewNop())
			require.NoError(t, errSource)
			defer closeSource()

			require.Equal(t, "redis(file:"+eventsFile+")", source.Name())
		},
	)

	t.Run(
		"4. unknown source",
		func(t *testing.T) {
			_, _, errSource := NewEventSource(ctx, &config.Config{EventsSource: "ftp"}, zap.NewNop())
			require.Error(t, errSource)
		},
	)
}
