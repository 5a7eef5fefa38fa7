package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdformat/internal/element"
)

func TestSupportedVersions(t *testing.T) {
	versions := SupportedVersions()
	require.NotEmpty(t, versions)
	assert.Equal(t, CurrentVersion, versions[len(versions)-1])
	for _, v := range versions {
		assert.True(t, IsSupported(v))
	}
	assert.False(t, IsSupported("1.0"))
}

func TestLoadCurrentVersion(t *testing.T) {
	root, err := Load(CurrentVersion)
	require.NoError(t, err)
	assert.Equal(t, "sdf", root.Name())
	require.True(t, root.HasAttribute("version"))
	assert.True(t, root.GetAttribute("version").Required)
}

func TestLoadLinksIncludedDescriptions(t *testing.T) {
	root, err := Load(CurrentVersion)
	require.NoError(t, err)

	world := root.FindElement("world")
	require.NotNil(t, world)
	model := world.FindElement("model")
	require.NotNil(t, model)
	link := model.FindElement("link")
	require.NotNil(t, link)
	pose := link.FindElement("pose")
	require.NotNil(t, pose)
	assert.Equal(t, element.TypePose, pose.Value().Type)

	// The model description contains itself for nesting.
	nested := model.FindElement("model")
	require.NotNil(t, nested)
	assert.Same(t, model, nested)
}

func TestLoadIsCached(t *testing.T) {
	a, err := Load(CurrentVersion)
	require.NoError(t, err)
	b, err := Load(CurrentVersion)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestLoadUnknownVersion(t *testing.T) {
	_, err := Load("0.9")
	require.Error(t, err)
}

func TestEveryVersionLoads(t *testing.T) {
	for _, v := range SupportedVersions() {
		root, err := Load(v)
		require.NoError(t, err, v)
		assert.Equal(t, "sdf", root.Name(), v)
		assert.NotNil(t, root.FindElement("world"), v)
		assert.NotNil(t, root.FindElement("model"), v)
	}
}

func TestPluginDescriptionCopiesData(t *testing.T) {
	root, err := Load(CurrentVersion)
	require.NoError(t, err)
	model := root.FindElement("model")
	require.NotNil(t, model)
	plugin := model.FindElement("plugin")
	require.NotNil(t, plugin)
	assert.True(t, plugin.CopyData())
}
