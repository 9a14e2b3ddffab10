package stream

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmorales/ws-remote-screen/internal/encoders"
	"github.com/dmorales/ws-remote-screen/internal/rdisplay"
)

// ErrPeerDisconnected is returned by a session when the remote end closed
// the connection or a send failed. Expected, not an error condition.
var ErrPeerDisconnected = errors.New("peer disconnected")

// frameWriter pushes one packed frame buffer to the peer
type frameWriter interface {
	WriteFrame(payload []byte) error
}

// streamer drives one connection session: capture, encode, send, sleep.
// The sleep interval is fixed and not compensated for time spent capturing
// or encoding, so the achieved rate is at most the target rate. A stalled
// send blocks the loop indefinitely; there is no peer timeout.
type streamer struct {
	writer   frameWriter
	grabber  rdisplay.FrameGrabber
	encoder  encoders.Encoder
	interval time.Duration
}

func newStreamer(writer frameWriter, grabber rdisplay.FrameGrabber, encoder encoders.Encoder, interval time.Duration) *streamer {
	return &streamer{
		writer:   writer,
		grabber:  grabber,
		encoder:  encoder,
		interval: interval,
	}
}

// run loops until the first capture, encode or send failure and always
// releases the grabber before returning. There are no retries: any error
// ends the session.
func (s *streamer) run() error {
	defer s.grabber.Close()
	for {
		frame, err := s.grabber.Grab()
		if err != nil {
			return fmt.Errorf("capture: %w", err)
		}
		payload, err := s.encoder.Encode(frame)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if err := s.writer.WriteFrame(payload); err != nil {
			return fmt.Errorf("%w: %v", ErrPeerDisconnected, err)
		}
		time.Sleep(s.interval)
	}
}
