package filter

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/BeatGlow/oled"
)

func newFramebuffer(t *testing.T) *oled.Framebuffer {
	t.Helper()
	fb, err := oled.New(&i2ctest.Record{}, nil)
	require.NoError(t, err)
	return fb
}

func TestRender(t *testing.T) {
	fb := newFramebuffer(t)

	// Stale pixels from an earlier frame are cleared.
	fb.SetPixel(0, 0, true)
	Render(fb, Scene{Width: 40, Height: 30})
	assert.False(t, fb.Pixel(0, 0))
	assert.True(t, fb.Pixel(43, 63))
	assert.True(t, fb.Pixel(84, 33))
	assert.False(t, fb.Pixel(63, 0), "no stream while idle")
}

func TestRenderStream(t *testing.T) {
	fb := newFramebuffer(t)

	Render(fb, Scene{Width: 40, Height: 30, Level: 3, Filling: true})
	for y := 0; y < 64; y++ {
		assert.True(t, fb.Pixel(63, y), "stream column 63 at row %d", y)
		assert.True(t, fb.Pixel(64, y), "stream column 64 at row %d", y)
	}
	assert.False(t, fb.Pixel(62, 0))
	assert.False(t, fb.Pixel(65, 0))

	// A full container stops the stream.
	Render(fb, Scene{Width: 40, Height: 30, Level: fb.MaxFill(30), Filling: true})
	assert.False(t, fb.Pixel(63, 0))
	assert.False(t, fb.Pixel(64, 0))
	assert.True(t, fb.Pixel(63, 33+oled.FillMargin))
}

func TestSizeFromJoystick(t *testing.T) {
	panel := image.Pt(128, 64)
	tests := []struct {
		name  string
		x, y  uint16
		wantW uint8
		wantH uint8
	}{
		{"centered", JoystickCenter, JoystickCenter, MinSize, MinSize},
		{"inside dead zone", JoystickCenter + 179, JoystickCenter - 179, MinSize, MinSize},
		{"edge of dead zone", JoystickCenter + 180, JoystickCenter - 180, MinSize + 180/17, MinSize + 180/39},
		{"full right, full up", 4095, 0, MinSize + 2047/17, MinSize + 2048/39},
		{"full left, full down", 0, 4095, MinSize + 2048/17, MinSize + 2047/39},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w, h := SizeFromJoystick(test.x, test.y, panel)
			assert.Equal(t, test.wantW, w, "width")
			assert.Equal(t, test.wantH, h, "height")
		})
	}
}

func TestSizeFromJoystickTinyPanel(t *testing.T) {
	// A panel smaller than the minimum size maps the whole stick travel onto one step.
	w, h := SizeFromJoystick(0, 4095, image.Pt(8, 8))
	assert.Equal(t, uint8(MinSize+1), w)
	assert.Equal(t, uint8(MinSize), h)
}
