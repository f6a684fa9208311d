package catchment

import (
	"os"

	"github.com/paulmach/orb/maptile"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config carries tunables of the catchment area pipeline
type Config struct {
	CacheDir          string  `yaml:"cache_dir"`           // on-disk partition cache location
	WalkSpeedKmh      float64 `yaml:"walk_speed_kmh"`      // pedestrian speed
	BikeSpeedKmh      float64 `yaml:"bike_speed_kmh"`      // bicycle speed
	PedelecSpeedKmh   float64 `yaml:"pedelec_speed_kmh"`   // pedelec speed
	DismountSpeedKmh  float64 `yaml:"dismount_speed_kmh"`  // cyclist walking speed on dismount classes
	CarBufferSpeedKmh float64 `yaml:"car_buffer_speed_kmh"` // conservative speed for car buffer estimation
	SnapRadiusM       float64 `yaml:"snap_radius_m"`       // max distance between origin point and the network
	DefaultSteps      int     `yaml:"default_steps"`       // isochrone threshold bands
	DefaultPercentile int     `yaml:"default_percentile"`  // contour smoothing percentile
}

// DefaultConfig returns configuration with default catchment parameters
func DefaultConfig() *Config {
	return &Config{
		CacheDir:          "network_cache",
		WalkSpeedKmh:      5.0,
		BikeSpeedKmh:      15.0,
		PedelecSpeedKmh:   23.0,
		DismountSpeedKmh:  5.0,
		CarBufferSpeedKmh: 80.0,
		SnapRadiusM:       100.0,
		DefaultSteps:      3,
		DefaultPercentile: 5,
	}
}

// LoadConfig reads configuration from YAML file applying defaults for absent fields
func LoadConfig(fname string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "Can't parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks config values are sane
func (cfg *Config) Validate() error {
	if cfg.WalkSpeedKmh <= 0 || cfg.BikeSpeedKmh <= 0 || cfg.PedelecSpeedKmh <= 0 || cfg.DismountSpeedKmh <= 0 {
		return errors.New("mode speeds must be positive")
	}
	if cfg.CarBufferSpeedKmh <= 0 {
		return errors.New("car buffer speed must be positive")
	}
	if cfg.SnapRadiusM <= 0 {
		return errors.New("snap radius must be positive")
	}
	if cfg.DefaultSteps < 1 {
		return errors.New("steps must be at least 1")
	}
	if cfg.DefaultPercentile < 0 || cfg.DefaultPercentile > 100 {
		return errors.New("percentile must be within [0, 100]")
	}
	return nil
}

// ParamsFor returns routing parameters of given mode
func (cfg *Config) ParamsFor(mode Mode) ModeParams {
	switch mode {
	case MODE_PEDESTRIAN:
		return ModeParams{SpeedKmh: cfg.WalkSpeedKmh, DismountSpeedKmh: cfg.WalkSpeedKmh, BufferSpeedKmh: cfg.WalkSpeedKmh, GridZoom: maptile.Zoom(12)}
	case MODE_BICYCLE:
		return ModeParams{SpeedKmh: cfg.BikeSpeedKmh, DismountSpeedKmh: cfg.DismountSpeedKmh, BufferSpeedKmh: cfg.BikeSpeedKmh, GridZoom: maptile.Zoom(12)}
	case MODE_PEDELEC:
		return ModeParams{SpeedKmh: cfg.PedelecSpeedKmh, DismountSpeedKmh: cfg.DismountSpeedKmh, BufferSpeedKmh: cfg.PedelecSpeedKmh, GridZoom: maptile.Zoom(12)}
	case MODE_CAR:
		return ModeParams{SpeedKmh: 0, DismountSpeedKmh: 0, BufferSpeedKmh: cfg.CarBufferSpeedKmh, GridZoom: maptile.Zoom(10)}
	}
	return ModeParams{}
}
