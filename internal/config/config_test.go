package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsHaveVerboseLogging(t *testing.T) {
	proj := Defaults()
	require.Equal(t, "verbose", proj.LogLevel)
	require.Empty(t, proj.RuntimeLibPath)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	proj, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, Defaults(), proj)
}

func TestLoadOverlaysPresentFields(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
log-level = "error"
runtime-lib-path = "/opt/alan/rt.o"
`)

	proj, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "error", proj.LogLevel)
	require.Equal(t, "/opt/alan/rt.o", proj.RuntimeLibPath)
}

func TestLoadLeavesUnsetFieldsAtDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `log-level = "silent"`)

	proj, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "silent", proj.LogLevel)
	require.Empty(t, proj.RuntimeLibPath)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `log-level = "loud"`)

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `this is not = = toml`)

	_, err := Load(dir)
	require.Error(t, err)
}

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644))
}
