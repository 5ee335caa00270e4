// Package config loads and validates the YAML configuration. It is read once
// at startup and never reloaded.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/echtzeitinfo/echtzeitinfo/internal/board"
)

// ErrInvalid marks configuration that prevents startup.
var ErrInvalid = errors.New("invalid configuration")

// Drivers accepted for display.driver.
const (
	DriverSimulate = "simulate"
	DriverEPD7in5  = "epd7in5v2"
)

// Station is one configured station block.
type Station struct {
	Name string `mapstructure:"name"`
	RBLs []int  `mapstructure:"rbls"`
}

// Display selects the sink variant and its parameters.
type Display struct {
	Driver    string `mapstructure:"driver"`
	OutputDir string `mapstructure:"output_dir"`
	SPIPort   string `mapstructure:"spi_port"`
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
}

// Config is the full application configuration.
type Config struct {
	Stations         []Station `mapstructure:"stations"`
	RefreshInterval  int       `mapstructure:"refresh_interval"`
	FullRefreshEvery int       `mapstructure:"full_refresh_every"`
	Display          Display   `mapstructure:"display"`
}

// Load reads the configuration from path. Environment variables with the
// ECHTZEITINFO_ prefix override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ECHTZEITINFO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("refresh_interval", 60)
	v.SetDefault("full_refresh_every", 5)
	v.SetDefault("display.driver", DriverSimulate)
	v.SetDefault("display.output_dir", "output")
	v.SetDefault("display.spi_port", "")
	v.SetDefault("display.width", 800)
	v.SetDefault("display.height", 480)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file not found: %s", ErrInvalid, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Stations) == 0 {
		return fmt.Errorf("%w: no stations configured", ErrInvalid)
	}
	for i, st := range c.Stations {
		if st.Name == "" {
			return fmt.Errorf("%w: station %d has no name", ErrInvalid, i)
		}
		if len(st.RBLs) == 0 {
			return fmt.Errorf("%w: station %q has no RBLs", ErrInvalid, st.Name)
		}
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("%w: refresh_interval must be positive, got %d", ErrInvalid, c.RefreshInterval)
	}
	if c.FullRefreshEvery <= 0 {
		return fmt.Errorf("%w: full_refresh_every must be positive, got %d", ErrInvalid, c.FullRefreshEvery)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("%w: display size %dx%d", ErrInvalid, c.Display.Width, c.Display.Height)
	}
	switch c.Display.Driver {
	case DriverSimulate, DriverEPD7in5:
	default:
		return fmt.Errorf("%w: unknown display driver %q", ErrInvalid, c.Display.Driver)
	}
	return nil
}

// Interval returns the configured refresh interval as a duration. Clamping
// to the API polling floor happens in the scheduler.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// BoardStations converts the station blocks to the aggregation model,
// preserving configured order.
func (c *Config) BoardStations() []board.Station {
	out := make([]board.Station, 0, len(c.Stations))
	for _, st := range c.Stations {
		out = append(out, board.Station{Name: st.Name, RBLs: st.RBLs})
	}
	return out
}

// AllRBLs returns every configured stop identifier in station order.
func (c *Config) AllRBLs() []int {
	var rbls []int
	for _, st := range c.Stations {
		rbls = append(rbls, st.RBLs...)
	}
	return rbls
}
