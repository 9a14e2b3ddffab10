package encoders

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/dmorales/ws-remote-screen/internal/rdisplay"
	"github.com/nfnt/resize"
)

//RGB565Encoder packs frames into raw RGB565 words for the device panel.
//Every frame runs the same pure pipeline: normalize channels, rotate 90°
//counter-clockwise to match the panel mounting, resize to the panel
//geometry, pack.
type RGB565Encoder struct {
	size  image.Point
	order binary.ByteOrder
}

func newRGB565Encoder(size image.Point, order binary.ByteOrder) (Encoder, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("invalid target geometry %dx%d", size.X, size.Y)
	}
	return &RGB565Encoder{size: size, order: order}, nil
}

//Encode transforms one raw frame into a packed frame buffer of exactly
//size.X * size.Y * 2 bytes
func (e *RGB565Encoder) Encode(frame *rdisplay.Frame) ([]byte, error) {
	rgba, err := normalizeFrame(frame)
	if err != nil {
		return nil, err
	}
	rotated := rotate90(rgba)
	resized := resizeImage(rotated, e.size)
	return packRGB565(resized, e.order), nil
}

//Size returns the target panel geometry
func (e *RGB565Encoder) Size() image.Point {
	return e.size
}

// normalizeFrame validates the raw frame and reinterprets its pixel buffer
// as an RGBA image, swizzling BGRA-ordered sources.
func normalizeFrame(frame *rdisplay.Frame) (*image.RGBA, error) {
	if frame == nil || frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("%w: zero-sized frame", ErrInvalidFrame)
	}
	if len(frame.Pix) != frame.Width*frame.Height*4 {
		return nil, fmt.Errorf("%w: pixel buffer is %d bytes, want %d",
			ErrInvalidFrame, len(frame.Pix), frame.Width*frame.Height*4)
	}
	img := &image.RGBA{
		Pix:    frame.Pix,
		Stride: frame.Width * 4,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}
	if frame.Order == rdisplay.OrderBGRA {
		pix := make([]byte, len(frame.Pix))
		for i := 0; i < len(frame.Pix); i += 4 {
			pix[i] = frame.Pix[i+2]
			pix[i+1] = frame.Pix[i+1]
			pix[i+2] = frame.Pix[i]
			pix[i+3] = 0xFF
		}
		img.Pix = pix
	}
	return img, nil
}

// rotate90 rotates counter-clockwise with bounding-box expansion: a WxH
// input becomes HxW, no pixels cropped.
func rotate90(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			di := dst.PixOffset(y, w-1-x)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

func resizeImage(src *image.RGBA, target image.Point) *image.RGBA {
	return resize.Resize(uint(target.X), uint(target.Y), src, resize.Lanczos3).(*image.RGBA)
}

// packRGB565 packs 8-bit RGB into 5-6-5 words. The arithmetic widens to
// uint16 before shifting so the red component can't overflow.
func packRGB565(img *image.RGBA, order binary.ByteOrder) []byte {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]byte, w*h*2)
	i := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			word := uint16(p[0]&0xF8)<<8 | uint16(p[1]&0xFC)<<3 | uint16(p[2])>>3
			order.PutUint16(out[i:], word)
			i += 2
		}
	}
	return out
}

func init() {
	registeredEncoders[RGB565LE] = func(size image.Point) (Encoder, error) {
		return newRGB565Encoder(size, binary.LittleEndian)
	}
	registeredEncoders[RGB565BE] = func(size image.Point) (Encoder, error) {
		return newRGB565Encoder(size, binary.BigEndian)
	}
}
