package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/line-grouping-mcp/internal/segments"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linegroup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
grouping:
  relation: proximity
  radius: 7
  min_count: 3
detection:
  min_length: 40
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "proximity", cfg.Grouping.Relation)
	assert.Equal(t, 7.0, cfg.Grouping.Radius)
	assert.Equal(t, 3, cfg.Grouping.MinCount)
	assert.Equal(t, 40, cfg.Detection.MinLength)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultAngleThreshold, cfg.Grouping.AngleThreshold)
	assert.Equal(t, DefaultMaxSegments, cfg.Grouping.MaxSegments)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "grouping:\n  radius: 7\n")
	t.Setenv("LINEGROUP_GROUPING_RADIUS", "12.5")
	t.Setenv("LINEGROUP_FRAMES_EVERY", "4")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12.5, cfg.Grouping.Radius)
	assert.Equal(t, 4, cfg.Frames.Every)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "grouping:\n  radius: -1\n  relation: diagonal\nframes:\n  every: 0\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grouping.radius")
	assert.Contains(t, err.Error(), "diagonal")
	assert.Contains(t, err.Error(), "frames.every")
}

func TestGroupingConfig_Params(t *testing.T) {
	p := Default().Grouping.Params()
	assert.Equal(t, segments.RelateBoth, p.Relation)
	assert.Equal(t, DefaultRadius, p.Radius)
	assert.Equal(t, DefaultAngleThreshold, p.AngleThreshold)
	assert.Equal(t, DefaultMinCount, p.MinCount)
	assert.Equal(t, DefaultMaxSegments, p.MaxSegments)
}
