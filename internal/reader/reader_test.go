package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdformat/internal/adapters"
	"sdformat/internal/element"
	"sdformat/internal/types"
)

func read(t *testing.T, text string, cfg types.ParserConfig) (*Document, types.Errors) {
	t.Helper()
	return ReadString(text, cfg, adapters.NewModelDiscoveryAdapter())
}

func TestReadMinimalWorld(t *testing.T) {
	doc, errs := read(t, `<sdf version="1.9"><world name="w"/></sdf>`, types.ParserConfig{})
	require.NotNil(t, doc, errs.Error())
	assert.Empty(t, errs)
	assert.Equal(t, "1.9", doc.OriginalVersion)

	world := doc.Root.FindElement("world")
	require.NotNil(t, world)
	assert.Equal(t, "w", world.GetAttribute("name").String())
	assert.Equal(t, 1, world.Line())
}

func TestReadRejectsNonSDFRoot(t *testing.T) {
	doc, errs := read(t, `<scene name="x"/>`, types.ParserConfig{})
	assert.Nil(t, doc)
	assert.True(t, errs.HasCode(types.ErrorCodeElementInvalid))
}

func TestReadRejectsMissingVersion(t *testing.T) {
	doc, errs := read(t, `<sdf><world name="w"/></sdf>`, types.ParserConfig{})
	assert.Nil(t, doc)
	assert.True(t, errs.HasCode(types.ErrorCodeAttributeMissing))
}

func TestReadRejectsUnsupportedVersion(t *testing.T) {
	doc, errs := read(t, `<sdf version="0.5"><world name="w"/></sdf>`, types.ParserConfig{})
	assert.Nil(t, doc)
	assert.True(t, errs.HasCode(types.ErrorCodeAttributeInvalid))
}

func TestReadRejectsMalformedXML(t *testing.T) {
	doc, errs := read(t, `<sdf version="1.9"><world`, types.ParserConfig{})
	assert.Nil(t, doc)
	assert.True(t, errs.HasCode(types.ErrorCodeParsing))
}

func TestReadURDFWithoutTranslator(t *testing.T) {
	doc, errs := read(t, `<robot name="r"/>`, types.ParserConfig{})
	assert.Nil(t, doc)
	assert.True(t, errs.HasCode(types.ErrorCodeParsing))
}

func TestReadURDFWithTranslator(t *testing.T) {
	cfg := types.ParserConfig{
		TranslateURDF: func(string) (string, types.Errors) {
			return `<sdf version="1.9"><model name="r"><link name="base"/></model></sdf>`, nil
		},
	}
	doc, errs := read(t, `<robot name="r"/>`, cfg)
	require.NotNil(t, doc, errs.Error())
	assert.NotNil(t, doc.Root.FindElement("model"))
}

func TestReadConvertsOldVersions(t *testing.T) {
	doc, errs := read(t, `<sdf version="1.6">
  <world name="w">
    <model name="m">
      <link name="l">
        <pose frame="other">1 0 0 0 0 0</pose>
      </link>
      <frame name="other"/>
    </model>
  </world>
</sdf>`, types.ParserConfig{})
	require.NotNil(t, doc, errs.Error())
	assert.Equal(t, "1.6", doc.OriginalVersion)

	link := doc.Root.FindElement("world").FindElement("model").FindElement("link")
	require.NotNil(t, link)
	pose := link.FindElement("pose")
	require.NotNil(t, pose)
	assert.Equal(t, "other", pose.GetAttribute("relative_to").String())
}

func TestReadKeepsOldVersionWhenConversionDisabled(t *testing.T) {
	doc, errs := read(t, `<sdf version="1.8"><world name="w"/></sdf>`,
		types.ParserConfig{DisableConversion: true})
	require.NotNil(t, doc, errs.Error())
	assert.Equal(t, "1.8", doc.Root.GetAttribute("version").String())
}

func TestTopLevelModelPoseMayNotHaveRelativeTo(t *testing.T) {
	_, errs := read(t, `<sdf version="1.9">
  <model name="m">
    <pose relative_to="x">0 0 0 0 0 0</pose>
    <link name="l"/>
  </model>
</sdf>`, types.ParserConfig{})
	assert.True(t, errs.HasCode(types.ErrorCodeElementInvalid))
}

func TestUnrecognizedElementPolicies(t *testing.T) {
	text := `<sdf version="1.9"><world name="w"><bogus/></world></sdf>`
	tests := []struct {
		name   string
		policy types.EnforcementPolicy
		fatal  bool
		warned bool
	}{
		{name: "err", policy: types.PolicyErr, fatal: true},
		{name: "warn", policy: types.PolicyWarn, warned: true},
		{name: "ignore", policy: types.PolicyIgnore},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := read(t, text, types.ParserConfig{UnrecognizedElements: tc.policy})
			assert.Equal(t, tc.fatal, errs.Fatal())
			assert.Equal(t, tc.warned, errs.HasCode(types.ErrorCodeWarning))
		})
	}
}

func TestNamespacedContentBypassesPolicies(t *testing.T) {
	doc, errs := read(t, `<sdf version="1.9">
  <world name="w" sim:flag="on">
    <sim:extra><sim:nested>v</sim:nested></sim:extra>
  </world>
</sdf>`, types.ParserConfig{})
	require.NotNil(t, doc, errs.Error())
	assert.Empty(t, errs)

	world := doc.Root.FindElement("world")
	extra := world.FindElement("sim:extra")
	require.NotNil(t, extra)
	assert.True(t, extra.IsPassthrough())
	assert.NotNil(t, extra.FindElement("sim:nested"))
	assert.Equal(t, "on", world.GetAttribute("sim:flag").String())
}

func TestDeprecatedElementPolicy(t *testing.T) {
	text := `<sdf version="1.9">
  <model name="m">
    <link name="l">
      <velocity_decay><linear>0.1</linear></velocity_decay>
    </link>
  </model>
</sdf>`
	_, errs := read(t, text, types.ParserConfig{DeprecatedElements: types.PolicyErr})
	assert.True(t, errs.HasCode(types.ErrorCodeElementDeprecated))

	_, errs = read(t, text, types.ParserConfig{DeprecatedElements: types.PolicyIgnore})
	assert.False(t, errs.HasCode(types.ErrorCodeElementDeprecated))
}

func TestReservedNames(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "reserved entity name",
			text: `<sdf version="1.9"><model name="m"><link name="__l"/></model></sdf>`,
		},
		{
			name: "world as model name",
			text: `<sdf version="1.9"><model name="world"><link name="l"/></model></sdf>`,
		},
		{
			name: "reserved attached_to",
			text: `<sdf version="1.9"><model name="m"><link name="l"/><frame name="f" attached_to="__x"/></model></sdf>`,
		},
		{
			name: "reserved relative_to",
			text: `<sdf version="1.9"><model name="m"><link name="l"><pose relative_to="__x">0 0 0 0 0 0</pose></link></model></sdf>`,
		},
		{
			name: "reserved canonical_link",
			text: `<sdf version="1.9"><model name="m" canonical_link="__l"><link name="l"/></model></sdf>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := read(t, tc.text, types.ParserConfig{})
			assert.True(t, errs.HasCode(types.ErrorCodeReservedName), errs.Error())
		})
	}
}

func TestExplicitModelFrameReferencesAreLegal(t *testing.T) {
	doc, errs := read(t, `<sdf version="1.9">
  <model name="m">
    <link name="l"><pose relative_to="__model__">0 0 0 0 0 0</pose></link>
  </model>
</sdf>`, types.ParserConfig{})
	require.NotNil(t, doc, errs.Error())
	assert.Empty(t, errs)
}

func TestNestedNameDelimiterRejectedSince18(t *testing.T) {
	_, errs := read(t, `<sdf version="1.9"><model name="a::b"><link name="l"/></model></sdf>`, types.ParserConfig{})
	assert.True(t, errs.HasCode(types.ErrorCodeAttributeInvalid))

	// 1.6 documents may still carry the legacy delimiter.
	_, errs = read(t, `<sdf version="1.6"><model name="a::b"><link name="l"/></model></sdf>`, types.ParserConfig{})
	assert.False(t, errs.HasCode(types.ErrorCodeAttributeInvalid), errs.Error())
}

func TestJointMissingChildAborted(t *testing.T) {
	doc, errs := read(t, `<sdf version="1.9">
  <model name="m">
    <link name="l"/>
    <joint name="j" type="revolute">
      <parent>l</parent>
    </joint>
  </model>
</sdf>`, types.ParserConfig{})
	assert.True(t, errs.HasCode(types.ErrorCodeElementMissing))
	if doc != nil {
		assert.Nil(t, doc.Root.FindElement("model").FindElement("joint"))
	}
}

func TestBallJointChildrenDefaulted(t *testing.T) {
	doc, errs := read(t, `<sdf version="1.9">
  <model name="m">
    <link name="l"/>
    <joint name="j" type="ball"/>
  </model>
</sdf>`, types.ParserConfig{})
	require.NotNil(t, doc, errs.Error())
	joint := doc.Root.FindElement("model").FindElement("joint")
	require.NotNil(t, joint)
	assert.True(t, joint.HasElement("parent"))
	assert.True(t, joint.HasElement("child"))
}

func TestRequiredChildrenMaterialized(t *testing.T) {
	doc, errs := read(t, `<sdf version="1.9">
  <model name="m">
    <link name="l">
      <visual name="v"><geometry><box><size>1 1 1</size></box></geometry></visual>
    </link>
  </model>
</sdf>`, types.ParserConfig{})
	require.NotNil(t, doc, errs.Error())
	visual := doc.Root.FindElement("model").FindElement("link").FindElement("visual")
	require.NotNil(t, visual)
	box := visual.FindElement("geometry").FindElement("box")
	require.NotNil(t, box)
	// size was specified; the schema default is not re-applied.
	size, explicit := box.GetString("size", "")
	assert.Equal(t, "1 1 1", size)
	assert.True(t, explicit)
}

// ---------------------------------------------------------------------------
// includes
// ---------------------------------------------------------------------------

func writeFixture(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func fixtureConfig(paths map[string]string) types.ParserConfig {
	return types.ParserConfig{
		FindFile: func(uri string) string { return paths[uri] },
	}
}

const boxModel = `<sdf version="1.9">
  <model name="box">
    <link name="body">
      <pose>0.5 0 0 0 0 0</pose>
    </link>
  </model>
</sdf>`

func TestIncludeIntoWorld(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "box.sdf", boxModel)
	cfg := fixtureConfig(map[string]string{"model://box": path})

	doc, errs := read(t, `<sdf version="1.9">
  <world name="w">
    <include>
      <uri>model://box</uri>
      <name>crate</name>
      <pose>1 2 0 0 0 0</pose>
    </include>
  </world>
</sdf>`, cfg)
	require.NotNil(t, doc, errs.Error())
	assert.Empty(t, errs)

	modelEl := doc.Root.FindElement("world").FindElement("model")
	require.NotNil(t, modelEl)
	assert.Equal(t, "crate", modelEl.GetAttribute("name").String())
	poseText, _ := modelEl.GetString("pose", "")
	assert.Equal(t, "1 2 0 0 0 0", poseText)
}

func TestIncludeUnresolvedURI(t *testing.T) {
	cfg := fixtureConfig(nil)
	_, errs := read(t, `<sdf version="1.9">
  <world name="w">
    <include><uri>model://missing</uri></include>
  </world>
</sdf>`, cfg)
	assert.True(t, errs.HasCode(types.ErrorCodeURILookup))
}

func TestIncludeRequiresURI(t *testing.T) {
	_, errs := read(t, `<sdf version="1.9">
  <world name="w"><include/></world>
</sdf>`, types.ParserConfig{})
	assert.True(t, errs.HasCode(types.ErrorCodeElementMissing))
}

func TestIncludePlacementFrameRequiresPose(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "box.sdf", boxModel)
	cfg := fixtureConfig(map[string]string{"model://box": path})

	_, errs := read(t, `<sdf version="1.9">
  <world name="w">
    <include>
      <uri>model://box</uri>
      <placement_frame>body</placement_frame>
    </include>
  </world>
</sdf>`, cfg)
	assert.True(t, errs.HasCode(types.ErrorCodeModelPlacementFrameInvalid))
}

func TestIncludeCycleDetected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "self.sdf")
	text := `<sdf version="1.9">
  <model name="self">
    <link name="l"/>
    <include><uri>model://self</uri><name>inner</name></include>
  </model>
</sdf>`
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	cfg := fixtureConfig(map[string]string{"model://self": path})

	r := newReader(cfg, adapters.NewModelDiscoveryAdapter())
	_, errs := r.readPath(path)
	assert.True(t, errs.HasCode(types.ErrorCodeElementInvalid), errs.Error())
}

func TestIncludeModelDirectory(t *testing.T) {
	dir := t.TempDir()
	modelDir := filepath.Join(dir, "box")
	require.NoError(t, os.Mkdir(modelDir, 0755))
	writeFixture(t, modelDir, "model.config", `<model>
  <name>box</name>
  <sdf version="1.9">box.sdf</sdf>
</model>`)
	writeFixture(t, modelDir, "box.sdf", boxModel)
	cfg := fixtureConfig(map[string]string{"model://box": modelDir})

	doc, errs := read(t, `<sdf version="1.9">
  <world name="w">
    <include><uri>model://box</uri></include>
  </world>
</sdf>`, cfg)
	require.NotNil(t, doc, errs.Error())
	assert.NotNil(t, doc.Root.FindElement("world").FindElement("model"))
}

func TestIncludeCustomParser(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "box.urdf", `not sdf`)
	cfg := fixtureConfig(map[string]string{"model://box": path})
	cfg.CustomParsers = []types.CustomModelParser{
		func(modelPath string) (string, types.Errors) {
			return boxModel, nil
		},
	}

	doc, errs := read(t, `<sdf version="1.9">
  <world name="w">
    <include><uri>model://box</uri></include>
  </world>
</sdf>`, cfg)
	require.NotNil(t, doc, errs.Error())
	assert.NotNil(t, doc.Root.FindElement("world").FindElement("model"))
}

// ---------------------------------------------------------------------------
// merge include
// ---------------------------------------------------------------------------

func TestMergeIncludeHoistsEntities(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "arm.sdf", `<sdf version="1.9">
  <model name="arm">
    <static>false</static>
    <link name="upper">
      <pose>0.5 0 0 0 0 0</pose>
    </link>
    <frame name="tool"/>
  </model>
</sdf>`)
	cfg := fixtureConfig(map[string]string{"model://arm": path})

	doc, errs := read(t, `<sdf version="1.9">
  <model name="robot">
    <link name="base"/>
    <include merge="true">
      <uri>model://arm</uri>
      <pose>1 0 0 0 0 0</pose>
    </include>
  </model>
</sdf>`, cfg)
	require.NotNil(t, doc, errs.Error())
	require.False(t, errs.Fatal(), errs.Error())

	modelEl := doc.Root.FindElement("model")
	require.NotNil(t, modelEl)

	// The merged model itself is gone; its link is hoisted.
	var modelChildren []string
	for _, c := range modelEl.Children() {
		modelChildren = append(modelChildren, c.Name())
	}
	assert.NotContains(t, modelChildren, "model")

	hoisted := findChildNamed(modelEl, "link", "upper")
	require.NotNil(t, hoisted)
	rel := hoisted.FindElement("pose").GetAttribute("relative_to").String()
	assert.Equal(t, "_merged__arm__model__", rel)

	// The scalar <static> was dropped, not hoisted.
	assert.Nil(t, modelEl.FindElement("static"))

	proxy := findChildNamed(modelEl, "frame", "_merged__arm__model__")
	require.NotNil(t, proxy)
	assert.Equal(t, "upper", proxy.GetAttribute("attached_to").String())
	proxyPose := proxy.FindElement("pose")
	require.NotNil(t, proxyPose)
	assert.Equal(t, "__model__", proxyPose.GetAttribute("relative_to").String())

	tool := findChildNamed(modelEl, "frame", "tool")
	require.NotNil(t, tool)
	assert.Equal(t, "_merged__arm__model__", tool.GetAttribute("attached_to").String())
}

func TestMergeIncludeIntoWorldRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "box.sdf", boxModel)
	cfg := fixtureConfig(map[string]string{"model://box": path})

	_, errs := read(t, `<sdf version="1.9">
  <world name="w">
    <include merge="true"><uri>model://box</uri></include>
  </world>
</sdf>`, cfg)
	assert.True(t, errs.HasCode(types.ErrorCodeMergeIncludeUnsupported))
}

// findChildNamed returns the parent's child of the given element kind
// whose name attribute matches.
func findChildNamed(parent *element.Element, kind, name string) *element.Element {
	for _, c := range parent.FindAll(kind) {
		if a := c.GetAttribute("name"); a != nil && a.String() == name {
			return c
		}
	}
	return nil
}
