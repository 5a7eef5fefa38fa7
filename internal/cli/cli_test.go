package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdformat"
)

const fixture = `<sdf version="1.9">
  <model name="m">
    <link name="base"/>
    <link name="arm">
      <pose>1 0 0 0 0 0</pose>
    </link>
    <joint name="j" type="revolute">
      <parent>base</parent>
      <child>arm</child>
      <axis><xyz>0 0 1</xyz></axis>
    </joint>
  </model>
</sdf>`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "m.sdf")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0644))
	return path
}

func TestRunCheckValidDocument(t *testing.T) {
	require.NoError(t, runCheck(writeFixture(t)))
}

func TestRunCheckInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sdf")
	require.NoError(t, os.WriteFile(path,
		[]byte(`<sdf version="1.9"><model name="m"><frame name="f"/></model></sdf>`), 0644))
	require.Error(t, runCheck(path))
}

func TestRunConvertUpgradesVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.sdf")
	require.NoError(t, os.WriteFile(path, []byte(
		`<sdf version="1.6"><world name="w"><model name="m"><pose frame="x">0 0 0 0 0 0</pose><link name="l"/><frame name="x"/></model></world></sdf>`), 0644))
	require.NoError(t, runConvert(path, "1.9"))
}

func TestRenderDOT(t *testing.T) {
	root, errs := sdformat.LoadString(fixture, sdformat.DefaultConfig())
	require.NotNil(t, root, errs.Error())
	g := root.Model().Graphs()
	require.NotNil(t, g)

	frameDOT := renderDOT(g, "frame")
	assert.Contains(t, frameDOT, "digraph {")
	assert.Contains(t, frameDOT, `label="__model__"`)
	assert.Contains(t, frameDOT, `label="arm"`)
	assert.Contains(t, frameDOT, "->")

	poseDOT := renderDOT(g, "pose")
	assert.Contains(t, poseDOT, "label=")
	assert.Contains(t, poseDOT, "->")
}

func TestRunGraphRejectsUnknownKind(t *testing.T) {
	require.Error(t, runGraph("bogus", writeFixture(t)))
}
