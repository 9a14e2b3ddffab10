package encoders

import (
	"fmt"
	"image"
)

type encoderFactory = func(size image.Point) (Encoder, error)

// Index of supported pixel formats, each encoder should register itself
// It's implemented this way to support conditional compilation
// of each encoder.
var registeredEncoders = make(map[PixelFormat]encoderFactory, 2)

//EncoderService creates instances of encoders
type EncoderService struct {
}

//NewEncoderService creates an encoder factory
func NewEncoderService() Service {
	return &EncoderService{}
}

//NewEncoder creates an instance of an encoder of the selected pixel format
func (*EncoderService) NewEncoder(format PixelFormat, size image.Point) (Encoder, error) {
	factory, found := registeredEncoders[format]
	if !found {
		return nil, fmt.Errorf("pixel format not supported")
	}
	return factory(size)
}

//Supports returns a boolean indicating if the pixel format is supported
func (*EncoderService) Supports(format PixelFormat) bool {
	_, found := registeredEncoders[format]
	return found
}
