package encoders

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/dmorales/ws-remote-screen/internal/rdisplay"
	"github.com/nfnt/resize"
)

func solidFrame(w, h int, r, g, b byte) *rdisplay.Frame {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i] = r
		pix[i+1] = g
		pix[i+2] = b
		pix[i+3] = 0xFF
	}
	return &rdisplay.Frame{Width: w, Height: h, Order: rdisplay.OrderRGBA, Pix: pix}
}

func newTestEncoder(t *testing.T, format PixelFormat, size image.Point) Encoder {
	t.Helper()
	enc, err := NewEncoderService().NewEncoder(format, size)
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	return enc
}

func TestEncodeOutputLength(t *testing.T) {
	enc := newTestEncoder(t, RGB565LE, image.Pt(4, 4))
	for _, dims := range [][2]int{{8, 6}, {3, 5}, {1, 1}, {16, 2}} {
		frame := solidFrame(dims[0], dims[1], 10, 20, 30)
		out, err := enc.Encode(frame)
		if err != nil {
			t.Fatalf("Encode(%dx%d) failed: %v", dims[0], dims[1], err)
		}
		if len(out) != 4*4*2 {
			t.Errorf("Encode(%dx%d) produced %d bytes, want %d", dims[0], dims[1], len(out), 4*4*2)
		}
	}
}

func TestEncodeSolidColors(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b byte
		word    uint16
	}{
		{"red", 255, 0, 0, 0xF800},
		{"green", 0, 255, 0, 0x07E0},
		{"blue", 0, 0, 255, 0x001F},
		{"white", 255, 255, 255, 0xFFFF},
	}
	enc := newTestEncoder(t, RGB565LE, image.Pt(4, 4))
	for _, c := range cases {
		out, err := enc.Encode(solidFrame(8, 8, c.r, c.g, c.b))
		if err != nil {
			t.Fatalf("Encode(%s) failed: %v", c.name, err)
		}
		for i := 0; i < len(out); i += 2 {
			word := uint16(out[i]) | uint16(out[i+1])<<8
			if word != c.word {
				t.Fatalf("%s: word at %d is %#04x, want %#04x", c.name, i, word, c.word)
			}
		}
	}
}

func TestEncodeByteOrder(t *testing.T) {
	frame := solidFrame(4, 4, 255, 0, 0) // 0xF800

	le, err := newTestEncoder(t, RGB565LE, image.Pt(2, 2)).Encode(frame)
	if err != nil {
		t.Fatalf("Encode LE failed: %v", err)
	}
	if le[0] != 0x00 || le[1] != 0xF8 {
		t.Errorf("LE bytes are %#02x %#02x, want 0x00 0xf8", le[0], le[1])
	}

	be, err := newTestEncoder(t, RGB565BE, image.Pt(2, 2)).Encode(frame)
	if err != nil {
		t.Fatalf("Encode BE failed: %v", err)
	}
	if be[0] != 0xF8 || be[1] != 0x00 {
		t.Errorf("BE bytes are %#02x %#02x, want 0xf8 0x00", be[0], be[1])
	}
}

func TestRotationMovesMarker(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	marker := color.RGBA{R: 255, A: 255}
	src.SetRGBA(3, 0, marker)

	dst := rotate90(src)

	if got := dst.Bounds().Size(); got != image.Pt(2, 4) {
		t.Fatalf("rotated size is %v, want (2,4)", got)
	}
	// Counter-clockwise: the rightmost column becomes the top row.
	if got := dst.RGBAAt(0, 0); got != marker {
		t.Errorf("marker at (0,0) is %v, want %v", got, marker)
	}
	if got := dst.RGBAAt(1, 3); got == marker {
		t.Errorf("marker unexpectedly found at (1,3)")
	}
}

func TestEncodeAllocatesFreshBuffers(t *testing.T) {
	enc := newTestEncoder(t, RGB565LE, image.Pt(3, 3))
	a, err := enc.Encode(solidFrame(6, 6, 12, 34, 56))
	if err != nil {
		t.Fatalf("first Encode failed: %v", err)
	}
	b, err := enc.Encode(solidFrame(6, 6, 12, 34, 56))
	if err != nil {
		t.Fatalf("second Encode failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical frames produced different output")
	}
	if &a[0] == &b[0] {
		t.Error("Encode reused the output buffer between calls")
	}
}

func TestEncodeRejectsInvalidFrame(t *testing.T) {
	enc := newTestEncoder(t, RGB565LE, image.Pt(4, 4))
	frames := []*rdisplay.Frame{
		nil,
		{Width: 0, Height: 4, Pix: []byte{}},
		{Width: 4, Height: 0, Pix: []byte{}},
		{Width: 4, Height: 4, Pix: make([]byte, 7)}, // truncated buffer
	}
	for i, frame := range frames {
		out, err := enc.Encode(frame)
		if !errors.Is(err, ErrInvalidFrame) {
			t.Errorf("frame %d: error is %v, want ErrInvalidFrame", i, err)
		}
		if out != nil {
			t.Errorf("frame %d: got partial output of %d bytes", i, len(out))
		}
	}
}

func TestEncodeNormalizesBGRA(t *testing.T) {
	w, h := 6, 4
	rgba := &rdisplay.Frame{Width: w, Height: h, Order: rdisplay.OrderRGBA, Pix: make([]byte, w*h*4)}
	bgra := &rdisplay.Frame{Width: w, Height: h, Order: rdisplay.OrderBGRA, Pix: make([]byte, w*h*4)}
	for i := 0; i < w*h*4; i += 4 {
		r, g, b := byte(i), byte(i/2), byte(i/3)
		rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2], rgba.Pix[i+3] = r, g, b, 0xFF
		bgra.Pix[i], bgra.Pix[i+1], bgra.Pix[i+2], bgra.Pix[i+3] = b, g, r, 0xFF
	}
	enc := newTestEncoder(t, RGB565LE, image.Pt(3, 2))
	outRGBA, err := enc.Encode(rgba)
	if err != nil {
		t.Fatalf("Encode RGBA failed: %v", err)
	}
	outBGRA, err := enc.Encode(bgra)
	if err != nil {
		t.Fatalf("Encode BGRA failed: %v", err)
	}
	if !bytes.Equal(outRGBA, outBGRA) {
		t.Error("BGRA frame was not normalized to the RGBA result")
	}
}

// TestEncodeEndToEnd fixes the whole pipeline byte-for-byte: a 4x4 frame of
// known per-pixel values against an independently built reference (rotation
// by hand, the same resize filter, a separately written packer).
func TestEncodeEndToEnd(t *testing.T) {
	const w, h = 4, 4
	frame := &rdisplay.Frame{Width: w, Height: h, Order: rdisplay.OrderRGBA, Pix: make([]byte, w*h*4)}
	at := func(x, y int) color.RGBA {
		return color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: uint8((x + y) * 30), A: 0xFF}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := at(x, y)
			i := (y*w + x) * 4
			frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2], frame.Pix[i+3] = c.R, c.G, c.B, c.A
		}
	}

	// Reference: rotate counter-clockwise by hand, then resize and pack.
	rotated := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rotated.SetRGBA(y, w-1-x, at(x, y))
		}
	}
	resized := resize.Resize(2, 2, rotated, resize.Lanczos3).(*image.RGBA)
	var expected []byte
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c := resized.RGBAAt(x, y)
			word := (uint16(c.R)>>3)<<11 | (uint16(c.G)>>2)<<5 | uint16(c.B)>>3
			expected = append(expected, byte(word), byte(word>>8))
		}
	}

	got, err := newTestEncoder(t, RGB565LE, image.Pt(2, 2)).Encode(frame)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(got, expected) {
		t.Errorf("pipeline output %x, want %x", got, expected)
	}
}

func TestNewEncoderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewEncoderService().NewEncoder(PixelFormat(99), image.Pt(2, 2)); err == nil {
		t.Error("expected an error for an unregistered pixel format")
	}
}

func TestNewEncoderRejectsZeroGeometry(t *testing.T) {
	if _, err := NewEncoderService().NewEncoder(RGB565LE, image.Pt(0, 4)); err == nil {
		t.Error("expected an error for a zero-sized target")
	}
}

func TestFormatFromName(t *testing.T) {
	if f, err := FormatFromName("le"); err != nil || f != RGB565LE {
		t.Errorf("FormatFromName(le) = %v, %v", f, err)
	}
	if f, err := FormatFromName("be"); err != nil || f != RGB565BE {
		t.Errorf("FormatFromName(be) = %v, %v", f, err)
	}
	if _, err := FormatFromName("pdp11"); err == nil {
		t.Error("expected an error for an unknown byte order name")
	}
}
