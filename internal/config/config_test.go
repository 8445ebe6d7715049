package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/printbase/pkg/foundation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, foundation.DefaultParams(), cfg.FoundationParams())
	assert.Equal(t, 0.5, cfg.RepairOptions().SmoothLambda)
	assert.Equal(t, 3, cfg.RepairOptions().SmoothIterations)
	assert.Equal(t, "assimp", cfg.Tools.Assimp)
	assert.Equal(t, "python3", cfg.Tools.Python)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "printbase.yaml", `
foundation:
  margin_ratio: 0.2
  segments: 32
tools:
  converter: native
  assimp: /opt/assimp/bin/assimp
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.Foundation.MarginRatio)
	assert.Equal(t, 32, cfg.Foundation.Segments)
	assert.Equal(t, foundation.DefaultThicknessRatio, cfg.Foundation.ThicknessRatio, "unset keys keep defaults")
	assert.Equal(t, "native", cfg.Tools.Converter)
	assert.Equal(t, "/opt/assimp/bin/assimp", cfg.Tools.Assimp)
	assert.Equal(t, "python3", cfg.Tools.Python)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"wrong extension", "config.json", "{}", "extension"},
		{"unknown key", "c.yaml", "foundation:\n  radius: 3\n", "failed to parse"},
		{"bad yaml", "c.yaml", "foundation: [", "failed to parse"},
		{"invalid params", "c.yaml", "foundation:\n  min_thickness: 0\n", "min thickness"},
		{"bad lambda", "c.yaml", "repair:\n  smooth_lambda: 2\n", "smooth_lambda"},
		{"bad backend", "c.yaml", "repair:\n  backend: meshlab\n", "repair.backend"},
		{"bad converter", "c.yaml", "tools:\n  converter: blender\n", "tools.converter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadTooLarge(t *testing.T) {
	content := "# " + strings.Repeat("x", maxFileSize) + "\n"
	_, err := Load(writeConfig(t, "big.yaml", content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}
