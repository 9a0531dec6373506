package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailsense/pkg/logging"
)

func writeReplayFixtures(t *testing.T) options {
	t.Helper()
	dir := t.TempDir()

	cfg := fmt.Sprintf(`log:
  server:
    path: %s
    level: DEBUG
  events:
    path: %s
tracking:
  off_path_threshold: 5m
  proximity_threshold: 10m
replay:
  interval: 0s
`, filepath.Join(dir, "server.log"), filepath.Join(dir, "events.log"))

	files := map[string]string{
		"trailsense.yaml": cfg,
		"trail.geojson":   `{"type":"LineString","coordinates":[[0,0],[0.01,0]]}`,
		"track.geojson":   `{"type":"MultiPoint","coordinates":[[0.005,0.001],[0.0055,0.001],[0.006,0]]}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return options{
		configPath: filepath.Join(dir, "trailsense.yaml"),
		pathFile:   filepath.Join(dir, "trail.geojson"),
		trackFile:  filepath.Join(dir, "track.geojson"),
	}
}

func TestRun(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	defer logging.SetEventLogPath("")

	opts := writeReplayFixtures(t)
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "#000 ")
	assert.Contains(t, lines[0], "head S (180°)")
	assert.NotContains(t, lines[0], "travel", "first sample has no direction of travel")

	assert.Contains(t, lines[1], "travel 90° E turn +90°")
	assert.Contains(t, lines[2], "on trail")
	assert.Equal(t, "samples=3 off_path=2 ref_lines=1 anchor_moves=2", lines[3])

	events, err := os.ReadFile(filepath.Join(filepath.Dir(opts.configPath), "events.log"))
	require.NoError(t, err)
	for _, typ := range []string{"session_start", "off_path", "on_path", "session_end"} {
		assert.Contains(t, string(events), "["+typ+"]")
	}
}

func TestRun_ThresholdOverride(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	defer logging.SetEventLogPath("")

	opts := writeReplayFixtures(t)
	opts.threshold = "1km"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &out))
	assert.Equal(t, 3, strings.Count(out.String(), "on trail"))

	opts.threshold = "far"
	assert.Error(t, run(context.Background(), opts, &out))
}

func TestRun_Canceled(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	defer logging.SetEventLogPath("")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, writeReplayFixtures(t), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "samples=0")
}

func TestRun_MissingTrail(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	defer logging.SetEventLogPath("")

	opts := writeReplayFixtures(t)
	opts.pathFile = filepath.Join(t.TempDir(), "nope.geojson")

	var out bytes.Buffer
	assert.Error(t, run(context.Background(), opts, &out))
}
