package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpsatlas/internal/config"
	"cpsatlas/internal/errors"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func testConfig(inputsDir, outputDir string) *config.Config {
	return &config.Config{
		Inputs: config.InputsConfig{Dir: inputsDir},
		Output: config.OutputConfig{Dir: outputDir},
	}
}

func allInputs(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "hardship_index.csv"))
	writeFile(t, filepath.Join(dir, "employee_positions.csv"))
	writeFile(t, filepath.Join(dir, "school_profiles.csv"))
	writeFile(t, filepath.Join(dir, "school_locations.geojson"))
}

func TestCheckConfig(t *testing.T) {
	root := t.TempDir()
	inputsDir := filepath.Join(root, "inputs")
	outputDir := filepath.Join(root, "outputs")
	allInputs(t, inputsDir)

	p := NewPreflight(nil)
	require.NoError(t, p.CheckConfig(testConfig(inputsDir, outputDir), false))

	// The output directory was created by the writability probe
	info, err := os.Stat(outputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// The probe file was cleaned up
	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCheckConfigMissingInput(t *testing.T) {
	root := t.TempDir()
	inputsDir := filepath.Join(root, "inputs")
	writeFile(t, filepath.Join(inputsDir, "hardship_index.csv"))
	writeFile(t, filepath.Join(inputsDir, "school_profiles.csv"))
	writeFile(t, filepath.Join(inputsDir, "school_locations.geojson"))

	p := NewPreflight(nil)
	err := p.CheckConfig(testConfig(inputsDir, filepath.Join(root, "out")), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payroll input")
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestCheckConfigSkipFetchDropsHardship(t *testing.T) {
	root := t.TempDir()
	inputsDir := filepath.Join(root, "inputs")
	// No hardship file on disk
	writeFile(t, filepath.Join(inputsDir, "employee_positions.csv"))
	writeFile(t, filepath.Join(inputsDir, "school_profiles.csv"))
	writeFile(t, filepath.Join(inputsDir, "school_locations.geojson"))

	p := NewPreflight(nil)
	cfg := testConfig(inputsDir, filepath.Join(root, "out"))

	require.NoError(t, p.CheckConfig(cfg, true))
	require.Error(t, p.CheckConfig(cfg, false))
}

func TestCheckConfigExplicitPaths(t *testing.T) {
	root := t.TempDir()
	inputsDir := filepath.Join(root, "inputs")
	require.NoError(t, os.MkdirAll(inputsDir, 0o755))

	elsewhere := filepath.Join(root, "elsewhere")
	writeFile(t, filepath.Join(elsewhere, "pay.csv"))
	writeFile(t, filepath.Join(elsewhere, "prof.csv"))
	writeFile(t, filepath.Join(elsewhere, "loc.geojson"))
	writeFile(t, filepath.Join(elsewhere, "hard.csv"))

	cfg := testConfig(inputsDir, filepath.Join(root, "out"))
	cfg.Inputs.PayrollFile = filepath.Join(elsewhere, "pay.csv")
	cfg.Inputs.ProfilesFile = filepath.Join(elsewhere, "prof.csv")
	cfg.Inputs.LocationsFile = filepath.Join(elsewhere, "loc.geojson")
	cfg.Inputs.HardshipFile = filepath.Join(elsewhere, "hard.csv")

	p := NewPreflight(nil)
	assert.NoError(t, p.CheckConfig(cfg, false))
}

func TestCheckWritableBadTarget(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	writeFile(t, blocker)

	p := NewPreflight(nil)
	err := p.checkWritable(filepath.Join(blocker, "out"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeIO))
}
