package rdisplay

import (
	"fmt"

	"github.com/kbinani/screenshot"
)

// VideoProvider implements the rdisplay.Service interface on top of the
// platform screenshot API
type VideoProvider struct{}

// displayGrabber captures one display, one frame per call
type displayGrabber struct {
	screen Screen
	closed bool
}

// NewVideoProvider returns a screenshot-backed video provider
func NewVideoProvider() (Service, error) {
	return &VideoProvider{}, nil
}

// Screens returns the available screens to capture
func (*VideoProvider) Screens() ([]Screen, error) {
	numScreens := screenshot.NumActiveDisplays()
	if numScreens == 0 {
		return nil, fmt.Errorf("%w: no active displays", ErrCaptureUnavailable)
	}
	screens := make([]Screen, numScreens)
	for i := 0; i < numScreens; i++ {
		screens[i] = Screen{
			Index:  i,
			Bounds: screenshot.GetDisplayBounds(i),
		}
	}
	return screens, nil
}

// CreateFrameGrabber creates a grabber bound to the given screen
func (*VideoProvider) CreateFrameGrabber(screen Screen) (FrameGrabber, error) {
	return &displayGrabber{screen: screen}, nil
}

// Grab captures the current state of the screen. The screenshot package
// delivers RGBA-ordered pixels on every platform, so no channel swizzle is
// needed here.
func (g *displayGrabber) Grab() (*Frame, error) {
	if g.closed {
		return nil, fmt.Errorf("%w: grabber is closed", ErrCaptureUnavailable)
	}
	img, err := screenshot.CaptureRect(g.screen.Bounds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	frame := &Frame{
		Width:  w,
		Height: h,
		Order:  OrderRGBA,
		Pix:    make([]byte, w*h*4),
	}
	for y := 0; y < h; y++ {
		copy(frame.Pix[y*w*4:(y+1)*w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
	}
	return frame, nil
}

func (g *displayGrabber) Close() error {
	g.closed = true
	return nil
}

// Screen returns a pointer to the screen we're capturing
func (g *displayGrabber) Screen() *Screen {
	return &g.screen
}
