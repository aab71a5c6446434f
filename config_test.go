package gfx

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTOML(t *testing.T) {
	c, err := ParseTOML([]byte(`
stream_capacity = 2048
quad_capacity = 16384
log_level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, 2048, c.StreamCapacity)
	assert.Equal(t, 16384, c.QuadCapacity)
	assert.Equal(t, DefaultBloomCapacity, c.BloomCapacity, "missing field keeps default")

	lvl, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestParseYAML(t *testing.T) {
	c, err := ParseYAML([]byte("bloom_capacity: 512\nlog_level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, 512, c.BloomCapacity)
	assert.Equal(t, DefaultQuadCapacity, c.QuadCapacity)

	lvl, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestConfigRoundTrip(t *testing.T) {
	want := Config{StreamCapacity: 10, QuadCapacity: 20, BloomCapacity: 30, LogLevel: "ERROR"}

	tomlData, err := want.EncodeTOML()
	require.NoError(t, err)
	fromTOML, err := ParseTOML(tomlData)
	require.NoError(t, err)
	assert.Equal(t, want, fromTOML)

	yamlData, err := want.EncodeYAML()
	require.NoError(t, err)
	fromYAML, err := ParseYAML(yamlData)
	require.NoError(t, err)
	assert.Equal(t, want, fromYAML)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		parse func([]byte) (Config, error)
		data  string
	}{
		{"toml unknown field", ParseTOML, "quad_capacty = 5"},
		{"toml negative", ParseTOML, "quad_capacity = -1"},
		{"toml bad level", ParseTOML, `log_level = "loud"`},
		{"yaml unknown field", ParseYAML, "bloom: 3"},
		{"yaml syntax", ParseYAML, "stream_capacity: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "gfx.toml")
	yamlPath := filepath.Join(dir, "gfx.yml")
	txtPath := filepath.Join(dir, "gfx.txt")
	require.NoError(t, os.WriteFile(tomlPath, []byte("quad_capacity = 64\n"), 0o600))
	require.NoError(t, os.WriteFile(yamlPath, []byte("quad_capacity: 65\n"), 0o600))
	require.NoError(t, os.WriteFile(txtPath, []byte("quad_capacity = 66\n"), 0o600))

	c, err := LoadConfig(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 64, c.QuadCapacity)

	c, err = LoadConfig(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 65, c.QuadCapacity)

	_, err = LoadConfig(txtPath)
	assert.True(t, errors.Is(err, ErrUnknownConfigFormat), "got %v", err)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestConfigOptions(t *testing.T) {
	c := Config{StreamCapacity: 3, QuadCapacity: 40, BloomCapacity: 50}
	rig := newTestRig(t, c.Options()...)

	assert.Equal(t, 3, rig.r.opts.streamCapacity)
	assert.Equal(t, 40, NewQuadBuffer(rig.r, 0).Capacity())
	assert.Equal(t, 50, NewBloomBuffer(rig.r, 0).Capacity())
}

func TestOptionsIgnoreNonPositive(t *testing.T) {
	rig := newTestRig(t, WithStreamCapacity(0), WithQuadCapacity(-5), WithBloomCapacity(0))

	assert.Equal(t, DefaultStreamCapacity, rig.r.opts.streamCapacity)
	assert.Equal(t, DefaultQuadCapacity, NewQuadBuffer(rig.r, 0).Capacity())
	assert.Equal(t, DefaultBloomCapacity, NewBloomBuffer(rig.r, 0).Capacity())
}
