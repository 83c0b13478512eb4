// Package conn opens the buses the display drivers talk over.
package conn

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
)

// I2C is an open I²C bus.
type I2C struct {
	i2c.BusCloser
	name string
}

// OpenI2C opens the numbered I²C bus, use a negative device to open the first available bus.
// A non-zero speed sets the bus clock.
func OpenI2C(device int, speed physic.Frequency) (*I2C, error) {
	var name string
	if device >= 0 {
		name = strconv.FormatInt(int64(device), 10)
	}

	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, err
	}

	if speed > 0 {
		if err = bus.SetSpeed(speed); err != nil {
			_ = bus.Close()
			return nil, fmt.Errorf("conn: I²C bus %s speed %s: %w", bus, speed, err)
		}
	}

	return &I2C{
		BusCloser: bus,
		name:      name,
	}, nil
}

func (c *I2C) String() string {
	if c.name == "" {
		return fmt.Sprintf("I²C bus %s (default)", c.BusCloser)
	}
	return fmt.Sprintf("I²C bus %s", c.BusCloser)
}
