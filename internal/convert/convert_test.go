package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdformat/internal/types"
	"sdformat/internal/xmltree"
)

func parse(t *testing.T, text string) *xmltree.Node {
	t.Helper()
	node, err := xmltree.ParseString(text)
	require.NoError(t, err)
	return node
}

func TestConvert16RenamesPoseFrame(t *testing.T) {
	node := parse(t, `<sdf version="1.6">
  <world name="w">
    <model name="m">
      <pose frame="other">1 0 0 0 0 0</pose>
      <link name="l"/>
      <joint name="j" type="revolute">
        <parent>l</parent>
        <child>l2</child>
        <axis>
          <use_parent_model_frame>true</use_parent_model_frame>
        </axis>
      </joint>
      <link name="l2"/>
    </model>
  </world>
</sdf>`)

	var errs types.Errors
	ToCurrent(node, "1.6", &errs)
	assert.False(t, errs.Fatal(), errs.Error())

	v, _ := node.Attr("version")
	assert.Equal(t, "1.9", v)

	pose := node.Child("world").Child("model").Child("pose")
	require.NotNil(t, pose)
	_, hasFrame := pose.Attr("frame")
	assert.False(t, hasFrame)
	rel, ok := pose.Attr("relative_to")
	require.True(t, ok)
	assert.Equal(t, "other", rel)

	axis := node.Child("world").Child("model").Child("joint").Child("axis")
	require.NotNil(t, axis)
	assert.Nil(t, axis.Child("use_parent_model_frame"))
}

func TestConvert18RemapsGPSSensor(t *testing.T) {
	node := parse(t, `<sdf version="1.8">
  <model name="m">
    <link name="l">
      <sensor name="s" type="gps">
        <gps/>
      </sensor>
    </link>
  </model>
</sdf>`)

	var errs types.Errors
	ToCurrent(node, "1.8", &errs)
	assert.False(t, errs.Fatal(), errs.Error())

	sensor := node.Child("model").Child("link").Child("sensor")
	require.NotNil(t, sensor)
	kind, _ := sensor.Attr("type")
	assert.Equal(t, "navsat", kind)
	assert.Nil(t, sensor.Child("gps"))
	assert.NotNil(t, sensor.Child("navsat"))
}

func TestConvertBackwardsIsRejected(t *testing.T) {
	node := parse(t, `<sdf version="1.9"><world name="w"/></sdf>`)
	var errs types.Errors
	Convert(node, "1.9", "1.7", &errs)
	assert.True(t, errs.HasCode(types.ErrorCodeConversion))
}

func TestConvertSameVersionIsNoop(t *testing.T) {
	node := parse(t, `<sdf version="1.9"><world name="w"/></sdf>`)
	var errs types.Errors
	Convert(node, "1.9", "1.9", &errs)
	assert.Empty(t, errs)
}

func TestConvertUnparseableVersion(t *testing.T) {
	node := parse(t, `<sdf version="abc"><world name="w"/></sdf>`)
	var errs types.Errors
	ToCurrent(node, "abc", &errs)
	assert.True(t, errs.HasCode(types.ErrorCodeConversion))
}

func TestOpRenameElement(t *testing.T) {
	node := parse(t, "<sdf><sensor><gps/></sensor></sdf>")
	op := Op{Kind: "rename_element", Path: "//sensor/gps", To: "navsat"}
	require.NoError(t, op.Apply(node))
	assert.NotNil(t, node.Child("sensor").Child("navsat"))
}

func TestOpInsertDefault(t *testing.T) {
	node := parse(t, "<sdf><world/></sdf>")
	op := Op{Kind: "insert_default", Path: "//world", Element: "gravity", Value: "0 0 -9.8"}
	require.NoError(t, op.Apply(node))
	g := node.Child("world").Child("gravity")
	require.NotNil(t, g)
	assert.Equal(t, "0 0 -9.8", g.Text)

	// A present element is left alone.
	require.NoError(t, op.Apply(node))
	assert.Len(t, node.Child("world").Children, 1)
}

func TestOpUnknownKind(t *testing.T) {
	node := parse(t, "<sdf/>")
	op := Op{Kind: "frobnicate"}
	require.Error(t, op.Apply(node))
}
