package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
display:
  bus: 1
  height: 32
filter:
  width: 40
  interval: 250ms
log_level: debug
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Display.Bus)
	assert.Equal(t, 128, c.Display.Width)
	assert.Equal(t, 32, c.Display.Height)
	assert.Equal(t, uint16(0x3c), c.Display.Addr)
	assert.Equal(t, uint8(40), c.Filter.Width)
	assert.Equal(t, uint16(2048), c.Filter.JoystickX)
	assert.Equal(t, 250*time.Millisecond, c.Filter.Interval)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: [\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	c := &Config{
		Display: Display{Width: -1, Height: 64, SpeedKHz: -5, Contrast: 300},
		Filter:  Filter{JoystickX: 5000, JoystickY: 10},
	}
	c.Normalize()

	def := DefaultConfig()
	assert.Equal(t, def.Display.Addr, c.Display.Addr)
	assert.Equal(t, 128, c.Display.Width)
	assert.Equal(t, 64, c.Display.Height)
	assert.Zero(t, c.Display.SpeedKHz)
	assert.Equal(t, 0xff, c.Display.Contrast)
	assert.Equal(t, uint16(4095), c.Filter.JoystickX)
	assert.Equal(t, uint16(10), c.Filter.JoystickY)
	assert.Equal(t, def.Filter.Interval, c.Filter.Interval)
	assert.Equal(t, "info", c.LogLevel)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "filter.yaml")
	c := DefaultConfig()
	c.Filter.Height = 30
	require.NoError(t, c.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLevel(t *testing.T) {
	for _, test := range []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	} {
		c := &Config{LogLevel: test.in}
		assert.Equal(t, test.want, c.Level(), "level %q", test.in)
	}
}
