package element

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linkDesc builds a small description tree resembling the link schema.
func linkDesc() *Element {
	desc := New("link")
	desc.SetRequired(Requiredany)
	desc.AddAttribute("name", TypeString, "", true)

	poseDesc := New("pose")
	poseDesc.SetRequired(RequiredZero)
	poseDesc.AddValue(TypePose, "0 0 0 0 0 0", false)
	poseDesc.AddAttribute("relative_to", TypeString, "", false)
	desc.InsertElement(poseDesc, true)

	windDesc := New("enable_wind")
	windDesc.SetRequired(RequiredZero)
	windDesc.AddValue(TypeBool, "false", false)
	desc.InsertElement(windDesc, true)
	return desc
}

func TestInstantiateClonesDefaults(t *testing.T) {
	desc := linkDesc()
	inst := desc.Instantiate()

	assert.Equal(t, "link", inst.Name())
	assert.Same(t, desc, inst.Description())
	assert.Empty(t, inst.Children())
	require.True(t, inst.HasAttribute("name"))
	assert.False(t, inst.AttributeSet("name"))
}

func TestAddElementFromDescription(t *testing.T) {
	inst := linkDesc().Instantiate()

	poseEl, err := inst.AddElement("pose")
	require.NoError(t, err)
	assert.Equal(t, "pose", poseEl.Name())
	assert.Same(t, inst, poseEl.Parent())

	_, err = inst.AddElement("no_such_child")
	require.Error(t, err)
}

func TestAddElementNamespacedBypass(t *testing.T) {
	inst := linkDesc().Instantiate()
	el, err := inst.AddElement("vendor:extra")
	require.NoError(t, err)
	assert.True(t, el.IsPassthrough())
}

func TestTypedGetReturnsExplicitFlag(t *testing.T) {
	inst := linkDesc().Instantiate()

	// Not present at all: fallback, false.
	v, set := inst.GetBool("enable_wind", true)
	assert.True(t, v)
	assert.False(t, set)

	windEl, err := inst.GetElement("enable_wind")
	require.NoError(t, err)

	// Present with default value: default, not explicitly set.
	v, set = inst.GetBool("enable_wind", true)
	assert.False(t, v)
	assert.False(t, set)

	require.NoError(t, windEl.SetValue("true"))
	v, set = inst.GetBool("enable_wind", false)
	assert.True(t, v)
	assert.True(t, set)
}

func TestTypedGetSchemaMismatchIsRecoverable(t *testing.T) {
	inst := linkDesc().Instantiate()
	// Reading a pose-typed value as bool falls back without error.
	poseEl, err := inst.GetElement("pose")
	require.NoError(t, err)
	require.NoError(t, poseEl.SetValue("1 2 3 0 0 0"))
	v, set := inst.GetBool("pose", true)
	assert.True(t, v)
	assert.False(t, set)
}

func TestParamTypeValidation(t *testing.T) {
	p := NewParam("test", TypeDouble, "0", false)
	require.NoError(t, p.Set("1.25"))
	require.Error(t, p.Set("not-a-double"))

	// The failed Set leaves the previous value in place.
	f, err := p.Float()
	require.NoError(t, err)
	assert.Equal(t, 1.25, f)
}

func TestCopyIsDeep(t *testing.T) {
	inst := linkDesc().Instantiate()
	require.NoError(t, inst.SetAttribute("name", "base"))
	poseEl, err := inst.GetElement("pose")
	require.NoError(t, err)
	require.NoError(t, poseEl.SetValue("1 0 0 0 0 0"))

	cp := inst.Copy()
	require.NoError(t, cp.FindElement("pose").SetValue("2 0 0 0 0 0"))

	orig, _ := inst.GetString("pose", "")
	assert.Equal(t, "1 0 0 0 0 0", orig)
	assert.Nil(t, cp.Parent())
}

func TestRemoveChild(t *testing.T) {
	inst := linkDesc().Instantiate()
	poseEl, err := inst.GetElement("pose")
	require.NoError(t, err)
	inst.RemoveChild(poseEl)
	assert.False(t, inst.HasElement("pose"))
}

func TestToStringEmitsSetContent(t *testing.T) {
	inst := linkDesc().Instantiate()
	require.NoError(t, inst.SetAttribute("name", "base"))
	poseEl, err := inst.GetElement("pose")
	require.NoError(t, err)
	require.NoError(t, poseEl.SetValue("1 0 0 0 0 0"))

	out := inst.ToString("  ")
	assert.Contains(t, out, `<link name="base">`)
	assert.Contains(t, out, "<pose>1 0 0 0 0 0</pose>")
	// Unset optional children are not materialized in the output.
	assert.NotContains(t, out, "enable_wind")
}

func TestGetElementCreatesOnce(t *testing.T) {
	inst := linkDesc().Instantiate()
	a, err := inst.GetElement("pose")
	require.NoError(t, err)
	b, err := inst.GetElement("pose")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Len(t, inst.FindAll("pose"), 1)
}

func TestSetAttributeDeclaresUnknownAsString(t *testing.T) {
	inst := linkDesc().Instantiate()
	require.NoError(t, inst.SetAttribute("custom", "v"))
	assert.Equal(t, "v", inst.GetAttribute("custom").String())
	assert.True(t, strings.Contains(inst.ToString(""), `custom="v"`))
}
