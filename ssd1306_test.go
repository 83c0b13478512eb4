package oled

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// failingBus accepts ok writes, then fails every write after that.
type failingBus struct {
	ok     int
	writes int
}

func (b *failingBus) String() string { return "failing" }

func (b *failingBus) SetSpeed(physic.Frequency) error { return nil }

func (b *failingBus) Tx(addr uint16, w, r []byte) error {
	b.writes++
	if b.writes > b.ok {
		return errors.New("i2c: nack")
	}
	return nil
}

// commandFrames expands bytes into the 2-byte command frames the driver sends.
func commandFrames(commands ...byte) (frames [][]byte) {
	for _, command := range commands {
		frames = append(frames, []byte{0x80, command})
	}
	return
}

func recorded(t *testing.T, bus *i2ctest.Record, addr uint16) (frames [][]byte) {
	t.Helper()
	for _, op := range bus.Ops {
		require.Equal(t, addr, op.Addr)
		frames = append(frames, op.W)
	}
	return
}

func TestConfigure(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		mux     byte
		comPins byte
	}{
		{"128x64", 128, 64, 0x3f, 0x12},
		{"128x32", 128, 32, 0x1f, 0x02},
		{"96x16", 96, 16, 0x0f, 0x02},
		{"64x48", 64, 48, 0x2f, 0x12},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bus := &i2ctest.Record{}
			fb, err := New(bus, &Config{Width: test.w, Height: test.h, Addr: 0x3d})
			require.NoError(t, err)
			require.NoError(t, fb.Configure())

			want := commandFrames(
				0xAE,
				0x20, 0x01,
				0x40,
				0xA1,
				0xA8, test.mux,
				0xC8,
				0xD3, 0x00,
				0xDA, test.comPins,
				0xD5, 0x80,
				0xD9, 0xF1,
				0xDB, 0x30,
				0x81, 0xFF,
				0xA4,
				0xA6,
				0x8D, 0x14,
				0xAF,
			)
			assert.Equal(t, want, recorded(t, bus, 0x3d))
		})
	}
}

func TestConfigureTransportError(t *testing.T) {
	bus := &failingBus{ok: 3}
	fb, err := New(bus, nil)
	require.NoError(t, err)

	err = fb.Configure()
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "configure", te.Op)
	assert.Equal(t, 4, bus.writes, "configure must stop at the first failed write")
}

func TestPresent(t *testing.T) {
	bus := &i2ctest.Record{}
	fb, err := New(bus, &Config{Width: 128, Height: 64})
	require.NoError(t, err)

	fb.SetPixel(0, 0, true)
	fb.SetPixel(127, 63, true)
	require.NoError(t, fb.Present())

	frames := recorded(t, bus, 0x3c)
	require.Len(t, frames, 7)
	assert.Equal(t, commandFrames(0x21, 0, 127, 0x22, 0, 7), frames[:6])

	data := frames[6]
	require.Len(t, data, 1025)
	assert.Equal(t, byte(0x40), data[0])
	assert.Equal(t, byte(0x01), data[1])
	assert.Equal(t, byte(0x80), data[1024])
	assert.Equal(t, fb.Bytes(), data)
}

func TestPresentWindow(t *testing.T) {
	bus := &i2ctest.Record{}
	fb, err := New(bus, &Config{Width: 64, Height: 32})
	require.NoError(t, err)
	require.NoError(t, fb.Present())

	frames := recorded(t, bus, 0x3c)
	require.Len(t, frames, 7)
	assert.Equal(t, commandFrames(0x21, 0, 63, 0x22, 0, 3), frames[:6])
	assert.Len(t, frames[6], 4*64+1)
}

func TestPresentTransportError(t *testing.T) {
	for _, ok := range []int{0, 5, 6} {
		bus := &failingBus{ok: ok}
		fb, err := New(bus, nil)
		require.NoError(t, err)

		fb.DrawContainer(40, 30, 10)
		before := append([]byte(nil), fb.Bytes()...)

		err = fb.Present()
		var te *TransportError
		require.ErrorAs(t, err, &te, "failing after %d writes", ok)
		assert.Equal(t, "present", te.Op)
		assert.Equal(t, before, fb.Bytes(), "a failed present must leave the buffer unchanged")
	}
}

func TestDeviceControls(t *testing.T) {
	bus := &i2ctest.Record{}
	fb, err := New(bus, nil)
	require.NoError(t, err)

	require.NoError(t, fb.Show(false))
	require.NoError(t, fb.Show(true))
	require.NoError(t, fb.SetContrast(0x7f))
	require.NoError(t, fb.Invert(true))
	require.NoError(t, fb.Invert(false))

	assert.Equal(t, commandFrames(0xAE, 0xAF, 0x81, 0x7f, 0xA7, 0xA6), recorded(t, bus, 0x3c))
}

func TestClose(t *testing.T) {
	bus := &i2ctest.Record{}
	fb, err := New(bus, nil)
	require.NoError(t, err)

	require.NoError(t, fb.Close())
	require.NoError(t, fb.Close())
	assert.Equal(t, commandFrames(0xAE), recorded(t, bus, 0x3c))

	assert.ErrorIs(t, fb.Present(), ErrHalted)
	assert.ErrorIs(t, fb.Show(true), ErrHalted)
	assert.ErrorIs(t, fb.SetContrast(1), ErrHalted)
	assert.ErrorIs(t, fb.Invert(true), ErrHalted)

	// Drawing still works while halted; only the device is off.
	fb.Fill(true)
	assert.True(t, fb.Pixel(5, 5))

	require.NoError(t, fb.Configure())
	assert.NoError(t, fb.Present())
}
