package rdisplay

import (
	"errors"
	"image"
)

// ErrCaptureUnavailable is returned when the capture source can't produce a
// frame (no display, permission denied, device lost). Not retryable within
// a single call.
var ErrCaptureUnavailable = errors.New("capture source unavailable")

// ChannelOrder describes the channel layout of a raw frame's pixel buffer.
type ChannelOrder int

const (
	// OrderRGBA red, green, blue, padding
	OrderRGBA ChannelOrder = iota
	// OrderBGRA blue, green, red, padding
	OrderBGRA
)

// Frame is one raw capture, 4 bytes per pixel. The 4th channel is padding
// and carries no meaning. A Frame is produced fresh on every Grab and is
// owned by the caller until it's encoded.
type Frame struct {
	Width  int
	Height int
	Order  ChannelOrder
	Pix    []byte
}

// Screen identifies a capturable display
type Screen struct {
	Index  int
	Bounds image.Rectangle
}

// FrameGrabber captures the freshest available frame of a single screen,
// one frame per Grab call. Close releases the capture resources; Grab
// after Close fails with ErrCaptureUnavailable.
type FrameGrabber interface {
	Grab() (*Frame, error)
	Close() error
	Screen() *Screen
}

// Service enumerates displays and creates grabbers for them
type Service interface {
	CreateFrameGrabber(screen Screen) (FrameGrabber, error)
	Screens() ([]Screen, error)
}
