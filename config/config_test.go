package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReturnsEngineDefaults(t *testing.T) {
	v := New()
	require.Equal(t, 1e-3, v.DefaultQuantum)
	require.Equal(t, 1e-2, v.DefaultTimeStep)
	require.Equal(t, 1024, v.DefaultObserverCap)
	require.Empty(t, v.Sections)
}

func TestSetAndGetRoundTrip(t *testing.T) {
	v := New()
	v.Set("engine", "workers", 4)
	got, ok := v.Get("engine", "workers")
	require.True(t, ok)
	require.Equal(t, 4, got)

	_, ok = v.Get("missing-section", "x")
	require.False(t, ok)
}

func TestLoadFileClassifiesScalarsAndSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.ini")
	content := `
default_quantum = 0.5
default_time_step = 0.25
default_observer_capacity = 2048

[engine]
workers = 8
name = "kernel"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := New()
	require.NoError(t, LoadFile(v, path))

	require.Equal(t, 0.5, v.DefaultQuantum)
	require.Equal(t, 0.25, v.DefaultTimeStep)
	require.Equal(t, 2048, v.DefaultObserverCap)

	got, ok := v.Get("engine", "workers")
	require.True(t, ok)
	require.Equal(t, int64(8), got)

	got, ok = v.Get("engine", "name")
	require.True(t, ok)
	require.Equal(t, "kernel", got)
}

func TestLoadFallsBackToDefaultsWhenNothingFound(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir) // empty dir, no settings.ini anywhere in it

	v, err := Load("no-such-app-ever")
	require.NoError(t, err)
	require.Equal(t, 1e-3, v.DefaultQuantum)
}

func TestLoadFindsFileUnderXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	appDir := filepath.Join(dir, "myapp")
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "settings.ini"), []byte("default_quantum = 0.7\n"), 0o644))

	t.Setenv("XDG_CONFIG_HOME", dir)

	v, err := Load("myapp")
	require.NoError(t, err)
	require.Equal(t, 0.7, v.DefaultQuantum)
}
