package oled

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/i2c"

	"github.com/BeatGlow/oled/pixel"
)

const pageSize = 8

// Framebuffer is the in-memory pixel state of one panel.
//
// Pixels are packed column-major: the pages of one column occupy consecutive bytes, and bit b
// of a byte is row page*8+b. Byte 0 of the buffer is the I²C data header so the whole buffer
// can be written to the device in one transfer.
type Framebuffer struct {
	dev    i2c.Dev
	width  int
	height int
	pages  int
	buf    []byte
	halted bool
}

// New allocates a zeroed framebuffer for the panel behind bus. It does not talk to the device;
// call [Framebuffer.Configure] for that.
func New(bus i2c.Bus, config *Config) (*Framebuffer, error) {
	c := DefaultConfig
	if config != nil {
		c = *config
	}
	config = &c
	if config.Width == 0 && config.Height == 0 {
		config.Width = DefaultConfig.Width
		config.Height = DefaultConfig.Height
	}
	if config.Addr == 0 {
		config.Addr = DefaultConfig.Addr
	}

	switch {
	case config.Width <= 0 || config.Height <= 0:
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrAllocation, config.Width, config.Height)
	case config.Height%pageSize != 0:
		return nil, fmt.Errorf("%w: height %d is not a multiple of %d", ErrAllocation, config.Height, pageSize)
	case config.Width > 256 || config.Height > 256:
		return nil, fmt.Errorf("%w: size %dx%d exceeds the addressable range", ErrAllocation, config.Width, config.Height)
	}

	pages := config.Height / pageSize
	fb := &Framebuffer{
		dev:    i2c.Dev{Bus: bus, Addr: config.Addr},
		width:  config.Width,
		height: config.Height,
		pages:  pages,
		buf:    make([]byte, pages*config.Width+1),
	}
	fb.buf[0] = controlData
	return fb, nil
}

func (fb *Framebuffer) String() string {
	return fmt.Sprintf("SSD1306 OLED %dx%d", fb.width, fb.height)
}

// Width of the panel in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height of the panel in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Pages is the number of 8-row pages.
func (fb *Framebuffer) Pages() int { return fb.pages }

// Bytes returns the raw transfer buffer, header byte included. The slice is owned by the
// framebuffer and must not be modified.
func (fb *Framebuffer) Bytes() []byte {
	return fb.buf
}

// ByteOffset is the buffer index of the byte holding pixel (x, y).
func (fb *Framebuffer) ByteOffset(x, y int) int {
	return 1 + y/pageSize + x*fb.pages
}

// SetPixel turns pixel (x, y) on or off. Coordinates are not bounds checked.
func (fb *Framebuffer) SetPixel(x, y int, on bool) {
	var (
		pos = fb.ByteOffset(x, y)
		bit = byte(1) << uint(y%pageSize)
	)
	if on {
		fb.buf[pos] |= bit
	} else {
		fb.buf[pos] &^= bit
	}
}

// Pixel reports whether pixel (x, y) is on. Coordinates are not bounds checked.
func (fb *Framebuffer) Pixel(x, y int) bool {
	return fb.buf[fb.ByteOffset(x, y)]&(byte(1)<<uint(y%pageSize)) != 0
}

// HorizontalLine sets the pixels (x0..x1, y), both ends inclusive.
func (fb *Framebuffer) HorizontalLine(x0, x1, y int, on bool) {
	for x := x0; x <= x1; x++ {
		fb.SetPixel(x, y, on)
	}
}

// VerticalLine sets the pixels (x, y0..y1), both ends inclusive.
func (fb *Framebuffer) VerticalLine(x, y0, y1 int, on bool) {
	for y := y0; y <= y1; y++ {
		fb.SetPixel(x, y, on)
	}
}

// Fill sets every pixel of the panel.
func (fb *Framebuffer) Fill(on bool) {
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			fb.SetPixel(x, y, on)
		}
	}
}

// Clear turns all pixels off.
func (fb *Framebuffer) Clear() {
	fb.Fill(false)
}

// Bounds is the panel bounding box.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// ColorModel used by the panel.
func (fb *Framebuffer) ColorModel() color.Model {
	return pixel.MonoModel
}

// At returns the color of the pixel at (x, y).
func (fb *Framebuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(fb.Bounds()) {
		return color.Transparent
	}
	return pixel.Mono{On: fb.Pixel(x, y)}
}

// RGBA64At returns the color of the pixel at (x, y) without boxing it in an interface.
func (fb *Framebuffer) RGBA64At(x, y int) color.RGBA64 {
	if !(image.Point{X: x, Y: y}).In(fb.Bounds()) {
		return color.RGBA64{}
	}
	if fb.Pixel(x, y) {
		return color.RGBA64{R: 0xffff, G: 0xffff, B: 0xffff, A: 0xffff}
	}
	return color.RGBA64{A: 0xffff}
}

// Set the pixel color at (x, y). Points outside the panel are ignored.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(fb.Bounds()) {
		return
	}
	fb.SetPixel(x, y, pixel.MonoModel.Convert(c).(pixel.Mono).On)
}
