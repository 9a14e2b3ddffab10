package encoders

import (
	"errors"
	"fmt"
	"image"

	"github.com/dmorales/ws-remote-screen/internal/rdisplay"
)

// ErrInvalidFrame is returned when a raw frame fails a structural
// precondition (zero dimensions, pixel buffer of the wrong length).
// No partial output is ever produced.
var ErrInvalidFrame = errors.New("invalid raw frame")

// Service creates encoder instances
type Service interface {
	NewEncoder(format PixelFormat, size image.Point) (Encoder, error)
}

// Encoder takes a raw capture frame and produces the packed byte buffer
// sent to the device. Encode is pure: a fresh buffer per call, no state
// across calls.
type Encoder interface {
	Encode(*rdisplay.Frame) ([]byte, error)
	Size() image.Point
}

//PixelFormat selects the wire encoding of a packed pixel word
type PixelFormat = int

const (
	//RGB565LE 16-bit RGB565 words, little-endian on the wire
	RGB565LE PixelFormat = iota
	//RGB565BE 16-bit RGB565 words, big-endian on the wire
	RGB565BE
)

// FormatFromName maps a configuration name ("le"/"be") to a pixel format
func FormatFromName(name string) (PixelFormat, error) {
	switch name {
	case "le":
		return RGB565LE, nil
	case "be":
		return RGB565BE, nil
	}
	return 0, fmt.Errorf("unknown byte order %q", name)
}
