package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptveritas/reposcan/pkg/hashverify"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, hashverify.ModeStrict, cfg.Mode)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadWithNoPathAppliesOptions(t *testing.T) {
	cfg, err := Load("", WithFlat(true), WithTimeout(5*time.Second))
	require.NoError(t, err)
	assert.True(t, cfg.Flat)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, hashverify.ModeStrict, cfg.Mode)
}

func TestLoadFileLayersOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: verify_important_only\nflat: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, hashverify.ModeVerifyImportantOnly, cfg.Mode)
	assert.True(t, cfg.Flat)
	// Timeout wasn't in the file, so the default survives.
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadOptionsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flat: true\n"), 0o644))

	cfg, err := Load(path, WithFlat(false))
	require.NoError(t, err)
	assert.False(t, cfg.Flat)
}

func TestLoadRejectsInvalidMode(t *testing.T) {
	_, err := Load("", WithMode("not_a_real_mode"))
	require.Error(t, err)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
