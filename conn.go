package oled

import (
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/oled/conn"
)

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Device is the I²C device, use -1 to use the first available device.
	Device int

	// Speed is the bus clock, zero keeps the bus default.
	Speed physic.Frequency
}

// DefaultI2CConfig uses the first bus in fast mode.
var DefaultI2CConfig = I2CConfig{
	Device: -1,
	Speed:  400 * physic.KiloHertz,
}

// OpenI2C opens the bus a panel is attached to. Pass the result to [New].
func OpenI2C(config *I2CConfig) (i2c.BusCloser, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}
	bus, err := conn.OpenI2C(config.Device, config.Speed)
	if err != nil {
		return nil, err
	}
	return bus, nil
}
