package sdformat_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdformat"
	"sdformat/internal/model"
	"sdformat/internal/pose"
	"sdformat/internal/types"
)

const tol = 1e-9

func TestLoadMinimalWorld(t *testing.T) {
	root, errs := sdformat.LoadString(`<sdf version="1.9"><world name="w"/></sdf>`, sdformat.ParserConfig{})
	require.NotNil(t, root, errs.Error())
	assert.Empty(t, errs)
	assert.Equal(t, 1, root.WorldCount())
	assert.Equal(t, "w", root.WorldByIndex(0).Name())
	assert.Equal(t, "1.9", root.OriginalVersion())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "w.sdf")
	require.NoError(t, os.WriteFile(path,
		[]byte(`<sdf version="1.9"><world name="w"/></sdf>`), 0644))

	root, errs := sdformat.Load(path, sdformat.DefaultConfig())
	require.NotNil(t, root, errs.Error())
	assert.Equal(t, 1, root.WorldCount())
}

func TestLoadFileMissing(t *testing.T) {
	root, errs := sdformat.Load(filepath.Join(t.TempDir(), "nope.sdf"), sdformat.DefaultConfig())
	assert.Nil(t, root)
	assert.True(t, errs.HasCode(types.ErrorCodeFileRead))
}

func TestRead(t *testing.T) {
	root, errs := sdformat.Read(
		strings.NewReader(`<sdf version="1.9"><world name="w"/></sdf>`), "stream.sdf",
		sdformat.ParserConfig{})
	require.NotNil(t, root, errs.Error())
	assert.Equal(t, 1, root.WorldCount())
}

func TestFailedLoadExposesNoRoot(t *testing.T) {
	root, errs := sdformat.LoadString(`<sdf version="1.9">
  <model name="m">
    <link name="L"/>
    <frame name="F1" attached_to="F2"/>
    <frame name="F2" attached_to="F1"/>
  </model>
</sdf>`, sdformat.ParserConfig{})
	assert.Nil(t, root)
	assert.True(t, errs.HasCode(types.ErrorCodeFrameAttachedToCycle))
}

func TestResolveInverseIsIdentity(t *testing.T) {
	root, errs := sdformat.LoadString(`<sdf version="1.9">
  <model name="m">
    <link name="a">
      <pose>1 2 3 0.1 0.2 0.3</pose>
    </link>
    <link name="b">
      <pose>-1 0 4 0 0.5 0</pose>
    </link>
  </model>
</sdf>`, sdformat.ParserConfig{})
	require.NotNil(t, root, errs.Error())
	m := root.Model()

	ab, e1 := m.ResolveFrame("a", "b")
	require.False(t, e1.Fatal())
	ba, e2 := m.ResolveFrame("b", "a")
	require.False(t, e2.Fatal())
	assert.True(t, ab.Mul(ba).Equal(pose.Identity(), tol))
}

func TestMergeIncludeSemantics(t *testing.T) {
	dir := t.TempDir()
	armPath := filepath.Join(dir, "arm.sdf")
	require.NoError(t, os.WriteFile(armPath, []byte(`<sdf version="1.9">
  <model name="M">
    <link name="L">
      <pose>0.5 0 0 0 0 0</pose>
    </link>
  </model>
</sdf>`), 0644))

	cfg := sdformat.ParserConfig{
		FindFile: func(uri string) string {
			if uri == "model://M" {
				return armPath
			}
			return ""
		},
	}
	root, errs := sdformat.LoadString(`<sdf version="1.9">
  <model name="parent">
    <link name="base"/>
    <include merge="true">
      <uri>model://M</uri>
      <pose>1 0 0 0 0 0</pose>
    </include>
  </model>
</sdf>`, cfg)
	require.NotNil(t, root, errs.Error())
	m := root.Model()

	// The child link is hoisted into the parent under its own name.
	require.NotNil(t, m.LinkByName("L"))
	assert.Nil(t, m.ModelByName("M"))

	proxy := m.FrameByName("_merged__M__model__")
	require.NotNil(t, proxy)
	assert.Equal(t, "L", proxy.AttachedTo())

	// L in the parent frame composes the include pose with L's pose
	// inside the merged model.
	p, rerrs := m.ResolveFrame("L", "")
	require.False(t, rerrs.Fatal(), rerrs.Error())
	assert.True(t, p.Equal(pose.New(1.5, 0, 0, 0, 0, 0), tol))
}

func TestRoundTripEquivalence(t *testing.T) {
	text := `<sdf version="1.9">
  <world name="w">
    <frame name="anchor">
      <pose>0 0 1 0 0 0</pose>
    </frame>
    <model name="m" canonical_link="L2">
      <pose relative_to="anchor">1 0 0 0 0 0</pose>
      <link name="L1">
        <pose>0 1 0 0 0 0</pose>
        <visual name="v">
          <geometry><box><size>1 1 1</size></box></geometry>
        </visual>
      </link>
      <link name="L2"/>
      <joint name="j" type="prismatic">
        <parent>L1</parent>
        <child>L2</child>
        <axis><xyz>1 0 0</xyz></axis>
      </joint>
    </model>
    <light name="sun" type="directional"/>
  </world>
</sdf>`
	first, errs := sdformat.LoadString(text, sdformat.ParserConfig{})
	require.NotNil(t, first, errs.Error())

	second, errs := sdformat.LoadString(first.ToXML(), sdformat.ParserConfig{})
	require.NotNil(t, second, errs.Error())

	if diff := cmp.Diff(summarize(first), summarize(second)); diff != "" {
		t.Fatalf("round trip changed the document (-first +second):\n%s", diff)
	}

	// Poses survive the round trip numerically.
	w1 := first.WorldByIndex(0)
	w2 := second.WorldByIndex(0)
	p1, e1 := w1.ResolveFrame("m", "")
	require.False(t, e1.Fatal())
	p2, e2 := w2.ResolveFrame("m", "")
	require.False(t, e2.Fatal())
	assert.True(t, p1.Equal(p2, tol))
}

// summary is a structural digest used for round-trip comparison.
type summary struct {
	Worlds []worldSummary
}

type worldSummary struct {
	Name   string
	Models []modelSummary
	Frames []string
	Lights []string
}

type modelSummary struct {
	Name      string
	Canonical string
	Links     []string
	Joints    []string
	Frames    []string
}

func summarize(root *model.Root) summary {
	var out summary
	for _, w := range root.Worlds() {
		ws := worldSummary{Name: w.Name()}
		for _, m := range w.Models() {
			ms := modelSummary{Name: m.Name(), Canonical: m.CanonicalLinkName()}
			for _, l := range m.Links() {
				ms.Links = append(ms.Links, l.Name())
			}
			for _, j := range m.Joints() {
				ms.Joints = append(ms.Joints, j.Name())
			}
			for _, f := range m.Frames() {
				ms.Frames = append(ms.Frames, f.Name())
			}
			ws.Models = append(ws.Models, ms)
		}
		for _, f := range w.Frames() {
			ws.Frames = append(ws.Frames, f.Name())
		}
		for _, l := range w.Lights() {
			ws.Lights = append(ws.Lights, l.Name())
		}
		out.Worlds = append(out.Worlds, ws)
	}
	return out
}
