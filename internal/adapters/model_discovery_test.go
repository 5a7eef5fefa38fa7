package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModelConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestModelDiscoveryPicksHighestVersion(t *testing.T) {
	dir := t.TempDir()
	writeModelConfig(t, dir, "model.config", `<model>
  <name>box</name>
  <sdf version="1.6">box_16.sdf</sdf>
  <sdf version="1.9">box_19.sdf</sdf>
</model>`)

	entry, err := NewModelDiscoveryAdapter().EntryPoint(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "box_19.sdf"), entry)
}

func TestModelDiscoveryLegacyManifest(t *testing.T) {
	dir := t.TempDir()
	writeModelConfig(t, dir, "manifest.xml", `<model>
  <name>box</name>
  <sdf version="1.6">box.sdf</sdf>
</model>`)

	entry, err := NewModelDiscoveryAdapter().EntryPoint(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "box.sdf"), entry)
}

func TestModelDiscoveryMissingConfig(t *testing.T) {
	_, err := NewModelDiscoveryAdapter().EntryPoint(t.TempDir())
	require.Error(t, err)
}

func TestModelDiscoveryEmptyConfig(t *testing.T) {
	dir := t.TempDir()
	writeModelConfig(t, dir, "model.config", `<model><name>box</name></model>`)
	_, err := NewModelDiscoveryAdapter().EntryPoint(dir)
	require.Error(t, err)
}

func TestModelDiscoveryMalformedConfig(t *testing.T) {
	dir := t.TempDir()
	writeModelConfig(t, dir, "model.config", `<model><sdf`)
	_, err := NewModelDiscoveryAdapter().EntryPoint(dir)
	require.Error(t, err)
}
