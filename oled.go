// Package oled drives a page-addressed monochrome OLED panel (SSD1306 and compatibles) over I²C.
//
// The driver owns a single framebuffer. Drawing calls only touch memory; [Framebuffer.Present]
// is the only call that pushes pixels to the panel.
package oled

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var debug bool

func init() {
	debug = os.Getenv("OLED_DEBUG") != ""
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// Errors
var (
	ErrAllocation = errors.New("oled: framebuffer could not be allocated")
	ErrHalted     = errors.New("oled: display is halted")
)

// TransportError is returned when a write to the device fails. The framebuffer contents are
// left untouched; what the panel shows is undefined until the next successful call.
type TransportError struct {
	// Op is the driver operation that was running ("configure", "present", ...).
	Op string

	// Err is the error returned by the bus.
	Err error
}

func (e *TransportError) Error() string {
	return "oled: " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportError(op string, err error) error {
	if debug {
		log.Debug().Err(err).Str("op", op).Msg("oled: transport write failed")
	}
	return &TransportError{Op: op, Err: err}
}

// Config is the framebuffer configuration.
type Config struct {
	// Width of the panel in pixels.
	Width int

	// Height of the panel in pixels, must be a multiple of 8.
	Height int

	// Addr is the I²C device address.
	Addr uint16
}

// DefaultConfig is a 128x64 panel at the usual SSD1306 address.
var DefaultConfig = Config{
	Width:  128,
	Height: 64,
	Addr:   0x3c,
}
