package main

import (
	"fmt"
	"image"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmorales/ws-remote-screen/internal/config"
	"github.com/dmorales/ws-remote-screen/internal/encoders"
	"github.com/dmorales/ws-remote-screen/internal/rdisplay"
	"github.com/dmorales/ws-remote-screen/internal/stream"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.ParseFlags()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	format, err := encoders.FormatFromName(cfg.ByteOrder)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	var video rdisplay.Service
	video, err = rdisplay.NewVideoProvider()
	if err != nil {
		logger.Fatal().Err(err).Msg("can't init video")
	}
	screens, err := video.Screens()
	if err != nil {
		logger.Fatal().Err(err).Msg("can't get screens")
	}

	logger.Info().
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("fps", cfg.FPS).
		Str("byteorder", cfg.ByteOrder).
		Int("screens", len(screens)).
		Msg("screen streamer starting")

	// Startup diagnostic only; the streaming core doesn't depend on it.
	if ip, err := localIP(); err == nil {
		logger.Info().
			Str("url", fmt.Sprintf("ws://%s:%d/stream", ip, cfg.Port)).
			Msg("point the device firmware at this address")
	}

	server := stream.NewServer(stream.Config{
		Port:    cfg.Port,
		Size:    image.Pt(cfg.Width, cfg.Height),
		Format:  format,
		FPS:     cfg.FPS,
		Display: cfg.Display,
	}, video, encoders.NewEncoderService(), logger)

	errors := make(chan error, 2)
	go func() {
		errors <- server.ListenAndServe()
	}()

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		errors <- fmt.Errorf("received %v signal", <-interrupt)
	}()

	err = <-errors
	logger.Info().Msgf("%s, exiting", err)
}

// localIP infers the routable local address by opening a throwaway UDP
// socket; no packet is actually sent.
func localIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
