// Package config loads settings for the line-grouping server and CLI.
//
// Sources, lowest precedence first: built-in defaults, an optional YAML file,
// then LINEGROUP_* environment variables (LINEGROUP_GROUPING_RADIUS overrides
// grouping.radius).
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/ironsheep/line-grouping-mcp/internal/logging"
	"github.com/ironsheep/line-grouping-mcp/internal/segments"
)

const envPrefix = "LINEGROUP"

// Default values.
const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultRelation       = string(segments.RelateBoth)
	DefaultRadius         = 5.0
	DefaultAngleThreshold = 30.0
	DefaultEpsilon        = segments.DefaultEpsilon
	DefaultMinCount       = 2
	DefaultMinLengthSq    = 0.0
	DefaultMaxSegments    = segments.DefaultMaxSegments
	DefaultMinLineLength  = 20
	DefaultFrameEvery     = 1
)

// Config is the full application configuration.
type Config struct {
	Log       logging.Config  `mapstructure:"log"`
	Grouping  GroupingConfig  `mapstructure:"grouping"`
	Detection DetectionConfig `mapstructure:"detection"`
	Frames    FramesConfig    `mapstructure:"frames"`
}

// GroupingConfig holds the default grouping parameters. Tool arguments
// override them per call.
type GroupingConfig struct {
	Relation       string  `mapstructure:"relation"`
	Radius         float64 `mapstructure:"radius"`
	AngleThreshold float64 `mapstructure:"angle_threshold"`
	Epsilon        float64 `mapstructure:"epsilon"`
	MinCount       int     `mapstructure:"min_count"`
	MinLengthSq    float64 `mapstructure:"min_length_sq"`
	MaxSegments    int     `mapstructure:"max_segments"`
}

// DetectionConfig configures the upstream Hough line detector.
type DetectionConfig struct {
	MinLength int `mapstructure:"min_length"`
}

// FramesConfig configures frame sampling.
type FramesConfig struct {
	Every int `mapstructure:"every"`
}

// Params converts the grouping section into pipeline parameters.
func (g GroupingConfig) Params() segments.Params {
	return segments.Params{
		Relation:       segments.RelationMode(g.Relation),
		Radius:         g.Radius,
		AngleThreshold: g.AngleThreshold,
		Epsilon:        g.Epsilon,
		MinCount:       g.MinCount,
		MinLengthSq:    g.MinLengthSq,
		MaxSegments:    g.MaxSegments,
	}
}

// Default returns the configuration used when no file or env var is set.
func Default() *Config {
	return &Config{
		Log: logging.Config{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Grouping: GroupingConfig{
			Relation:       DefaultRelation,
			Radius:         DefaultRadius,
			AngleThreshold: DefaultAngleThreshold,
			Epsilon:        DefaultEpsilon,
			MinCount:       DefaultMinCount,
			MinLengthSq:    DefaultMinLengthSq,
			MaxSegments:    DefaultMaxSegments,
		},
		Detection: DetectionConfig{MinLength: DefaultMinLineLength},
		Frames:    FramesConfig{Every: DefaultFrameEvery},
	}
}

// newViper registers every key with its default so that AutomaticEnv can
// resolve LINEGROUP_* overrides even without a config file.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("grouping.relation", d.Grouping.Relation)
	v.SetDefault("grouping.radius", d.Grouping.Radius)
	v.SetDefault("grouping.angle_threshold", d.Grouping.AngleThreshold)
	v.SetDefault("grouping.epsilon", d.Grouping.Epsilon)
	v.SetDefault("grouping.min_count", d.Grouping.MinCount)
	v.SetDefault("grouping.min_length_sq", d.Grouping.MinLengthSq)
	v.SetDefault("grouping.max_segments", d.Grouping.MaxSegments)
	v.SetDefault("detection.min_length", d.Detection.MinLength)
	v.SetDefault("frames.every", d.Frames.Every)
	return v
}

// Load reads the YAML file at path, if path is non-empty, merges env
// overrides and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := segments.ParseRelationMode(c.Grouping.Relation); err != nil {
		errs = append(errs, err)
	}
	if !finite(c.Grouping.Radius) || c.Grouping.Radius < 0 {
		errs = append(errs, fmt.Errorf("grouping.radius must be a finite value >= 0, got %v", c.Grouping.Radius))
	}
	if !finite(c.Grouping.AngleThreshold) || c.Grouping.AngleThreshold < 0 {
		errs = append(errs, fmt.Errorf("grouping.angle_threshold must be a finite value >= 0, got %v", c.Grouping.AngleThreshold))
	}
	if !finite(c.Grouping.Epsilon) {
		errs = append(errs, fmt.Errorf("grouping.epsilon must be finite, got %v", c.Grouping.Epsilon))
	}
	if c.Grouping.MinCount < 0 {
		errs = append(errs, fmt.Errorf("grouping.min_count must be >= 0, got %d", c.Grouping.MinCount))
	}
	if !finite(c.Grouping.MinLengthSq) {
		errs = append(errs, fmt.Errorf("grouping.min_length_sq must be finite, got %v", c.Grouping.MinLengthSq))
	}
	if c.Grouping.MaxSegments < 1 {
		errs = append(errs, fmt.Errorf("grouping.max_segments must be >= 1, got %d", c.Grouping.MaxSegments))
	}
	if c.Detection.MinLength < 1 {
		errs = append(errs, fmt.Errorf("detection.min_length must be >= 1, got %d", c.Detection.MinLength))
	}
	if c.Frames.Every < 1 {
		errs = append(errs, fmt.Errorf("frames.every must be >= 1, got %d", c.Frames.Every))
	}
	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
