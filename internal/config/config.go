// Package config loads textmask settings from YAML and the environment.
//
// A configuration file looks like:
//
//	padding: 50
//	canny:
//	  low: 200
//	  high: 250
//	  blur_radius: 0
//	contour_source: tracer
//	traversal: strict
//	max_depth: 256
//	plate:
//	  erode_radius: 1
//	log:
//	  level: info
//	  format: json
//
// Keys left out keep their defaults. Environment variables named
// TEXTMASK_<KEY> (for example TEXTMASK_CANNY_LOW) override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/textmask/internal/contour"
	"github.com/ironsheep/textmask/internal/detection"
	"github.com/ironsheep/textmask/internal/imaging"
	"github.com/ironsheep/textmask/internal/logging"
	"github.com/ironsheep/textmask/internal/textmask"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "TEXTMASK_"

// Canny holds the edge detector settings.
type Canny struct {
	Low        float64 `yaml:"low"`
	High       float64 `yaml:"high"`
	BlurRadius float64 `yaml:"blur_radius"`
}

// Plate holds the plate bounds settings.
type Plate struct {
	ErodeRadius float64 `yaml:"erode_radius"`
}

// Log holds the logger settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full textmask configuration.
type Config struct {
	Padding       int    `yaml:"padding"`
	Canny         Canny  `yaml:"canny"`
	ContourSource string `yaml:"contour_source"`
	Traversal     string `yaml:"traversal"`
	MaxDepth      int    `yaml:"max_depth"`
	Plate         Plate  `yaml:"plate"`
	Log           Log    `yaml:"log"`
}

// Default returns the settings the pipeline was tuned with.
func Default() *Config {
	edges := imaging.DefaultEdgeOptions()
	return &Config{
		Padding: textmask.DefaultPadding,
		Canny: Canny{
			Low:  edges.Low,
			High: edges.High,
		},
		ContourSource: contour.DefaultSource,
		Traversal:     detection.TraversalStrict.String(),
		MaxDepth:      detection.DefaultMaxDepth,
		Plate:         Plate{ErodeRadius: detection.DefaultErodeRadius},
		Log:           Log{Level: "info", Format: string(logging.FormatJSON)},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv applies TEXTMASK_* overrides read through lookup, which is
// normally os.LookupEnv.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}

	integer("PADDING", &c.Padding)
	float("CANNY_LOW", &c.Canny.Low)
	float("CANNY_HIGH", &c.Canny.High)
	float("CANNY_BLUR_RADIUS", &c.Canny.BlurRadius)
	str("CONTOUR_SOURCE", &c.ContourSource)
	str("TRAVERSAL", &c.Traversal)
	integer("MAX_DEPTH", &c.MaxDepth)
	float("PLATE_ERODE_RADIUS", &c.Plate.ErodeRadius)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	return errors.Join(errs...)
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var errs []error

	if c.Padding < 0 {
		errs = append(errs, fmt.Errorf("padding must be >= 0, got %d", c.Padding))
	}
	if c.Canny.Low < 0 || c.Canny.High < 0 {
		errs = append(errs, fmt.Errorf("canny thresholds must be >= 0, got %v/%v", c.Canny.Low, c.Canny.High))
	}
	if c.Canny.Low > c.Canny.High {
		errs = append(errs, fmt.Errorf("canny.low (%v) must not exceed canny.high (%v)", c.Canny.Low, c.Canny.High))
	}
	if c.Canny.BlurRadius < 0 {
		errs = append(errs, fmt.Errorf("canny.blur_radius must be >= 0, got %v", c.Canny.BlurRadius))
	}
	if _, err := contour.NewSource(c.ContourSource); err != nil {
		errs = append(errs, err)
	}
	if _, err := detection.ParseTraversal(c.Traversal); err != nil {
		errs = append(errs, err)
	}
	if c.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("max_depth must be >= 1, got %d", c.MaxDepth))
	}
	if c.Plate.ErodeRadius < 0 {
		errs = append(errs, fmt.Errorf("plate.erode_radius must be >= 0, got %v", c.Plate.ErodeRadius))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch logging.Format(c.Log.Format) {
	case "", logging.FormatJSON, logging.FormatConsole:
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// TextMaskOptions converts the configuration into pipeline options.
func (c *Config) TextMaskOptions(log *zerolog.Logger) (textmask.Options, error) {
	traversal, err := detection.ParseTraversal(c.Traversal)
	if err != nil {
		return textmask.Options{}, err
	}
	source, err := contour.NewSource(c.ContourSource)
	if err != nil {
		return textmask.Options{}, err
	}

	padding := c.Padding
	if padding == 0 {
		padding = -1 // explicit zero border
	}

	return textmask.Options{
		Padding: padding,
		Edges: imaging.EdgeOptions{
			Low:        c.Canny.Low,
			High:       c.Canny.High,
			BlurRadius: c.Canny.BlurRadius,
		},
		Detection: detection.Options{
			Traversal: traversal,
			MaxDepth:  c.MaxDepth,
			Logger:    log,
		},
		Source: source,
		Logger: log,
	}, nil
}

// PlateOptions converts the plate settings.
func (c *Config) PlateOptions() detection.PlateOptions {
	radius := c.Plate.ErodeRadius
	if radius == 0 {
		radius = -1 // no erosion
	}
	return detection.PlateOptions{ErodeRadius: radius}
}

// Logger builds the logger described by the log settings, writing to stderr.
func (c *Config) Logger() (zerolog.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return logging.NewWithFormat(os.Stderr, level, logging.Format(c.Log.Format))
}
