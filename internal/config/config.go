package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory when no
// explicit path is given.
const FileName = "geotour"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	TourPath         string  `mapstructure:"tour"`
	ToursDir         string  `mapstructure:"toursDir"`
	MediaDir         string  `mapstructure:"mediaDir"`
	LogLevel         string  `mapstructure:"logLevel"`
	FPS              int     `mapstructure:"fps"`
	ProximityDegrees float64 `mapstructure:"proximity"`
	ShareBaseURL     string  `mapstructure:"shareBaseURL"`
	ShowStats        bool    `mapstructure:"showStats"`
	Workers          int     `mapstructure:"workers"`
	DPI              int     `mapstructure:"dpi"`
	Timing           Timing  `mapstructure:"timing"`
	BuildVersion     string  `mapstructure:"-"`
}

// Timing holds the phase durations of one waypoint cycle.
type Timing struct {
	FadeIn        time.Duration `mapstructure:"fadeIn"`
	Hold          time.Duration `mapstructure:"hold"`
	FadeOut       time.Duration `mapstructure:"fadeOut"`
	Rotation      time.Duration `mapstructure:"rotation"`
	RotationDelta float64       `mapstructure:"rotationDelta"` // Degrees, negative is counter-clockwise
	NavigateDelay time.Duration `mapstructure:"navigateDelay"`
	ReturnDelay   time.Duration `mapstructure:"returnDelay"`
	Flight        time.Duration `mapstructure:"flight"`
}

func DefaultTiming() Timing {
	return Timing{
		FadeIn:        1000 * time.Millisecond,
		Hold:          2000 * time.Millisecond,
		FadeOut:       2000 * time.Millisecond,
		Rotation:      4500 * time.Millisecond,
		RotationDelta: -150,
		NavigateDelay: 1000 * time.Millisecond,
		ReturnDelay:   1500 * time.Millisecond,
		Flight:        3000 * time.Millisecond,
	}
}

// Default returns the configuration used when no file or env override is present.
func Default() Config {
	return Config{
		ToursDir:         "tours",
		MediaDir:         ".",
		LogLevel:         "info",
		FPS:              60,
		ProximityDegrees: 0.002,
		ShareBaseURL:     "https://example.org/tour",
		Workers:          4,
		DPI:              96,
		Timing:           DefaultTiming(),
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("tour", d.TourPath)
	v.SetDefault("toursDir", d.ToursDir)
	v.SetDefault("mediaDir", d.MediaDir)
	v.SetDefault("logLevel", d.LogLevel)
	v.SetDefault("fps", d.FPS)
	v.SetDefault("proximity", d.ProximityDegrees)
	v.SetDefault("shareBaseURL", d.ShareBaseURL)
	v.SetDefault("showStats", d.ShowStats)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("dpi", d.DPI)

	v.SetDefault("timing.fadeIn", d.Timing.FadeIn)
	v.SetDefault("timing.hold", d.Timing.Hold)
	v.SetDefault("timing.fadeOut", d.Timing.FadeOut)
	v.SetDefault("timing.rotation", d.Timing.Rotation)
	v.SetDefault("timing.rotationDelta", d.Timing.RotationDelta)
	v.SetDefault("timing.navigateDelay", d.Timing.NavigateDelay)
	v.SetDefault("timing.returnDelay", d.Timing.ReturnDelay)
	v.SetDefault("timing.flight", d.Timing.Flight)
}

// New returns a viper instance with defaults and GEOTOUR_ env overrides
// (GEOTOUR_TIMING_HOLD=3s) but no config file.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GEOTOUR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path and sets default values. An empty path
// looks for geotour.yaml in the working directory and tolerates its absence.
func Load(path string) (*Config, error) {
	v := New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return Decode(v)
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	}
	if c.ProximityDegrees < 0 {
		return fmt.Errorf("%w: proximity must not be negative", ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	return c.Timing.Validate()
}

func (t Timing) Validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"fadeIn", t.FadeIn},
		{"hold", t.Hold},
		{"fadeOut", t.FadeOut},
		{"rotation", t.Rotation},
		{"navigateDelay", t.NavigateDelay},
		{"returnDelay", t.ReturnDelay},
		{"flight", t.Flight},
	}
	for _, d := range durations {
		if d.d < 0 {
			return fmt.Errorf("%w: timing.%s is negative (%s)", ErrInvalidConfig, d.name, d.d)
		}
	}
	if t.Rotation == 0 {
		return fmt.Errorf("%w: timing.rotation must be non-zero", ErrInvalidConfig)
	}
	return nil
}

// FrameInterval is the duration of one animation frame at the configured rate.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
