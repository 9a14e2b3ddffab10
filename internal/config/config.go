package config

import (
	"flag"
	"fmt"
)

// Config holds all runtime configuration. Everything is fixed at startup;
// nothing is reconfigurable while running.
type Config struct {
	Width     int
	Height    int
	Port      int
	FPS       int
	Display   int
	ByteOrder string
}

// ParseFlags parses the streamer flags. Defaults match the 410x502 AMOLED
// panel the device firmware drives.
func ParseFlags() (*Config, error) {
	cfg := &Config{}
	flag.IntVar(&cfg.Width, "width", 410, "Target display width in pixels")
	flag.IntVar(&cfg.Height, "height", 502, "Target display height in pixels")
	flag.IntVar(&cfg.Port, "port", 81, "WebSocket listen port")
	flag.IntVar(&cfg.FPS, "fps", 20, "Target frames per second")
	flag.IntVar(&cfg.Display, "display", 0, "Display index to capture (0 = primary)")
	flag.StringVar(&cfg.ByteOrder, "byteorder", "le", "Byte order of RGB565 words: le or be")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("target geometry must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", c.Port)
	}
	if c.FPS <= 0 || c.FPS > 120 {
		return fmt.Errorf("fps must be 1-120, got %d", c.FPS)
	}
	if c.Display < 0 {
		return fmt.Errorf("display index must be >= 0, got %d", c.Display)
	}
	if c.ByteOrder != "le" && c.ByteOrder != "be" {
		return fmt.Errorf("byteorder must be le or be, got %q", c.ByteOrder)
	}
	return nil
}
