// Package config loads startup settings from YAML or TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-lightstrip/internal/pixel"
	"github.com/coreman2200/funtimes-lightstrip/internal/playlist"
)

var ErrUnknownColorOrder = pixel.ErrUnknownOrder

type Strip struct {
	Length     int    `yaml:"length" toml:"length"`
	DataPin    int    `yaml:"data_pin" toml:"data_pin"`
	ColorOrder string `yaml:"color_order" toml:"color_order"`
}

type SPI struct {
	Dev     string `yaml:"dev" toml:"dev"`           // e.g. SPI0.0, "" for the first port
	SpeedHz int    `yaml:"speed_hz" toml:"speed_hz"` // e.g. 2400000
}

type PWM struct {
	GPIO int `yaml:"gpio" toml:"gpio"`
	DMA  int `yaml:"dma" toml:"dma"`
}

type Serial struct {
	Port  string `yaml:"port" toml:"port"` // "" disables
	Baud  int    `yaml:"baud" toml:"baud"`
	Queue int    `yaml:"queue" toml:"queue"`
}

type Monitor struct {
	Addr string `yaml:"addr" toml:"addr"` // "" disables
}

type Power struct {
	BudgetMA float64 `yaml:"budget_ma" toml:"budget_ma"` // 0 disables the limiter
	ChanMA   float64 `yaml:"chan_ma" toml:"chan_ma"`
	Knee     float64 `yaml:"knee" toml:"knee"`
	WhiteCap float64 `yaml:"white_cap" toml:"white_cap"` // per-pixel r+g+b cap, 0 disables
}

type Button struct {
	Pin        string `yaml:"pin" toml:"pin"` // "" disables
	DebounceMS int    `yaml:"debounce_ms" toml:"debounce_ms"`
}

type Log struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // console | json | journal
}

type Config struct {
	Strip      Strip  `yaml:"strip" toml:"strip"`
	Brightness int    `yaml:"brightness" toml:"brightness"`
	Driver     string `yaml:"driver" toml:"driver"` // sim | spi | pwm

	// Zero intervals derive from FPS.
	FPS     int `yaml:"fps" toml:"fps"`
	FrameMS int `yaml:"frame_ms,omitempty" toml:"frame_ms,omitempty"`
	HueMS   int `yaml:"hue_ms,omitempty" toml:"hue_ms,omitempty"`
	ThetaMS int `yaml:"theta_ms,omitempty" toml:"theta_ms,omitempty"`
	PollMS  int `yaml:"poll_ms,omitempty" toml:"poll_ms,omitempty"`

	SPI      SPI              `yaml:"spi" toml:"spi"`
	PWM      PWM              `yaml:"pwm" toml:"pwm"`
	Serial   Serial           `yaml:"serial" toml:"serial"`
	Monitor  Monitor          `yaml:"monitor" toml:"monitor"`
	Power    Power            `yaml:"power" toml:"power"`
	Playlist playlist.Program `yaml:"playlist" toml:"playlist"`
	Button   Button           `yaml:"button" toml:"button"`
	Log      Log              `yaml:"log" toml:"log"`
	SelfTest string           `yaml:"selftest,omitempty" toml:"selftest,omitempty"`
}

func Default() *Config {
	return &Config{
		Strip:      Strip{Length: 300, DataPin: 23, ColorOrder: "GRB"},
		Brightness: 164,
		Driver:     "sim",
		FPS:        60,
		SPI:        SPI{SpeedHz: 2400000},
		PWM:        PWM{GPIO: 18, DMA: 10},
		Serial:     Serial{Baud: 9600, Queue: 64},
		Monitor:    Monitor{Addr: ":8080"},
		Power:      Power{ChanMA: 20, Knee: 0.9},
		Playlist:   playlist.Program{Loop: true},
		Button:     Button{DebounceMS: 50},
		Log:        Log{Level: "info", Format: "console"},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads path over the defaults; the format follows the extension.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := Default()
	if isTOML(path) {
		err = toml.Unmarshal(b, c)
	} else {
		err = yaml.Unmarshal(b, c)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	var (
		b   []byte
		err error
	)
	if isTOML(path) {
		b, err = toml.Marshal(c)
	} else {
		b, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Cadence returns the frame, hue, theta and poll intervals.
func (c *Config) Cadence() (frame, hue, theta, poll time.Duration) {
	ms := func(v, def int) time.Duration {
		if v == 0 {
			v = def
		}
		return time.Duration(v) * time.Millisecond
	}
	return ms(c.FrameMS, c.FPS/2), ms(c.HueMS, c.FPS), ms(c.ThetaMS, 300), ms(c.PollMS, 1)
}

func (c *Config) Order() (pixel.Order, error) {
	return pixel.ParseOrder(c.Strip.ColorOrder)
}

func (c *Config) Validate() error {
	if c.Strip.Length <= 0 {
		return errors.New("strip.length must be positive")
	}
	if _, err := c.Order(); err != nil {
		return fmt.Errorf("strip.color_order: %w", err)
	}
	if c.Brightness < 0 || c.Brightness > 255 {
		return fmt.Errorf("brightness %d outside 0..255", c.Brightness)
	}
	if c.FPS <= 0 {
		return errors.New("fps must be positive")
	}
	frame, hue, theta, poll := c.Cadence()
	for name, d := range map[string]time.Duration{"frame_ms": frame, "hue_ms": hue, "theta_ms": theta, "poll_ms": poll} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	switch c.Driver {
	case "sim", "spi", "pwm":
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.Serial.Baud <= 0 {
		return errors.New("serial.baud must be positive")
	}
	if c.Serial.Queue <= 0 {
		return errors.New("serial.queue must be positive")
	}
	switch c.Log.Format {
	case "console", "json", "journal":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
