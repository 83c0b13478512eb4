// Package config loads the YAML configuration shared by the filter commands.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Display describes the panel and the bus it hangs off.
type Display struct {
	// Bus is the I²C bus number, -1 picks the first available bus.
	Bus int `yaml:"bus"`

	// Addr is the I²C device address.
	Addr uint16 `yaml:"addr"`

	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// SpeedKHz is the I²C clock, 0 keeps the bus default.
	SpeedKHz int `yaml:"speed_khz"`

	// Contrast is applied after bring-up.
	Contrast int `yaml:"contrast"`
}

// Filter describes the simulated fill.
type Filter struct {
	// Width and Height fix the container size. When zero the size is derived from the
	// joystick readings.
	Width  uint8 `yaml:"width"`
	Height uint8 `yaml:"height"`

	// JoystickX and JoystickY are raw 12-bit readings.
	JoystickX uint16 `yaml:"joystick_x"`
	JoystickY uint16 `yaml:"joystick_y"`

	// Interval between two fill steps.
	Interval time.Duration `yaml:"interval"`
}

// Config is the top-level configuration.
type Config struct {
	Display Display `yaml:"display"`
	Filter  Filter  `yaml:"filter"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration of a 128x64 panel on the first I²C bus.
func DefaultConfig() *Config {
	return &Config{
		Display: Display{
			Bus:      -1,
			Addr:     0x3c,
			Width:    128,
			Height:   64,
			SpeedKHz: 400,
			Contrast: 0xff,
		},
		Filter: Filter{
			JoystickX: 2048,
			JoystickY: 2048,
			Interval:  500 * time.Millisecond,
		},
		LogLevel: "info",
	}
}

// Normalize replaces missing or out of range values with defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Display.Addr == 0 {
		c.Display.Addr = def.Display.Addr
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		c.Display.Width, c.Display.Height = def.Display.Width, def.Display.Height
	}
	if c.Display.SpeedKHz < 0 {
		c.Display.SpeedKHz = 0
	}
	if c.Display.Contrast < 0 || c.Display.Contrast > 0xff {
		c.Display.Contrast = def.Display.Contrast
	}
	if c.Filter.JoystickX > 4095 {
		c.Filter.JoystickX = 4095
	}
	if c.Filter.JoystickY > 4095 {
		c.Filter.JoystickY = 4095
	}
	if c.Filter.Interval <= 0 {
		c.Filter.Interval = def.Filter.Interval
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = def.LogLevel
	}
}

// Load reads the configuration at path on top of the defaults. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	} else if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	c.Normalize()
	return c, nil
}

// Save writes the configuration to path, readable by the owner only.
func (c *Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Level is the zerolog level for LogLevel.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
