// Package filter renders the water-filter simulator screen: a container sized by the joystick
// that fills up while a fill sequence runs.
package filter

import (
	"image"
)

// Joystick calibration of the 12-bit ADC.
const (
	JoystickCenter   = 2048
	JoystickDeadZone = 180
	MinSize          = 10
)

// Canvas is the drawing surface a scene is rendered on.
type Canvas interface {
	Width() int
	Height() int
	Clear()
	VerticalLine(x, y0, y1 int, on bool)
	DrawContainer(outerWidth, outerHeight, fillHeight uint8)
	MaxFill(outerHeight uint8) uint8
}

// Scene is what the panel should show.
type Scene struct {
	// Width and Height are the outer size of the container.
	Width, Height uint8

	// Level is the number of liquid rows.
	Level uint8

	// Filling is set while a fill sequence runs.
	Filling bool
}

// Render draws the scene on a cleared canvas. While filling, a two pixel wide stream runs
// down the middle of the panel until the container is full.
func Render(c Canvas, s Scene) {
	c.Clear()
	c.DrawContainer(s.Width, s.Height, s.Level)
	if s.Filling && s.Level < c.MaxFill(s.Height) {
		x := c.Width() / 2
		c.VerticalLine(x-1, 0, c.Height()-1, true)
		c.VerticalLine(x, 0, c.Height()-1, true)
	}
}

// SizeFromJoystick maps raw joystick readings to a container size for a panel. Readings
// within the dead zone around the center count as centered, which gives the minimum size.
func SizeFromJoystick(x, y uint16, panel image.Point) (width, height uint8) {
	return axisSize(x, panel.X), axisSize(y, panel.Y)
}

func axisSize(raw uint16, panel int) uint8 {
	delta := int(raw) - JoystickCenter
	if delta < 0 {
		delta = -delta
	}
	if delta < JoystickDeadZone {
		delta = 0
	}
	perPixel := JoystickCenter / max(panel-MinSize-2, 1)
	return uint8(min(MinSize+delta/max(perPixel, 1), 255))
}
