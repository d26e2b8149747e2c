package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := `
logLevel: debug
fps: 30
proximity: 0.001
timing:
  hold: 3s
  rotation: 6000ms
  rotationDelta: -90
`
	path := filepath.Join(dir, "geotour.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 30, c.FPS)
	assert.Equal(t, 0.001, c.ProximityDegrees)
	assert.Equal(t, 3*time.Second, c.Timing.Hold)
	assert.Equal(t, 6*time.Second, c.Timing.Rotation)
	assert.Equal(t, -90.0, c.Timing.RotationDelta)
	// untouched keys keep their defaults
	assert.Equal(t, time.Second, c.Timing.FadeIn)
	assert.Equal(t, "tours", c.ToursDir)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 60, c.FPS)
	assert.Equal(t, 0.002, c.ProximityDegrees)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 96, c.DPI)
	assert.False(t, c.ShowStats)
	assert.Equal(t, DefaultTiming(), c.Timing)
	assert.Equal(t, 1000*time.Millisecond, c.Timing.FadeIn)
	assert.Equal(t, 2000*time.Millisecond, c.Timing.Hold)
	assert.Equal(t, 2000*time.Millisecond, c.Timing.FadeOut)
	assert.Equal(t, 4500*time.Millisecond, c.Timing.Rotation)
	assert.Equal(t, -150.0, c.Timing.RotationDelta)
	assert.Equal(t, 1000*time.Millisecond, c.Timing.NavigateDelay)
	assert.Equal(t, 1500*time.Millisecond, c.Timing.ReturnDelay)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEOTOUR_TIMING_HOLD", "4s")
	t.Setenv("GEOTOUR_FPS", "24")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4*time.Second, c.Timing.Hold)
	assert.Equal(t, 24, c.FPS)
	assert.Equal(t, time.Second/24, c.FrameInterval())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/geotour.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geotour.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 0\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTimingValidate(t *testing.T) {
	tm := DefaultTiming()
	require.NoError(t, tm.Validate())

	tm.Hold = -time.Second
	assert.ErrorIs(t, tm.Validate(), ErrInvalidConfig)

	tm = DefaultTiming()
	tm.Rotation = 0
	assert.ErrorIs(t, tm.Validate(), ErrInvalidConfig)

	// zero-length fades are allowed
	tm = DefaultTiming()
	tm.FadeIn = 0
	assert.NoError(t, tm.Validate())
}
