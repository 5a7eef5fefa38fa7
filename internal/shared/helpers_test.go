package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReservedName(t *testing.T) {
	tests := []struct {
		value    string
		reserved bool
	}{
		{"world", true},
		{"__model__", true},
		{"__anything", true},
		{"base_link", false},
		{"_merged__m__model__", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.reserved, IsReservedName(tc.value), tc.value)
	}
}

func TestIsValidFrameReference(t *testing.T) {
	assert.True(t, IsValidFrameReference("world"))
	assert.True(t, IsValidFrameReference("__model__"))
	assert.True(t, IsValidFrameReference("base_link"))
	assert.False(t, IsValidFrameReference("__hidden"))
}

func TestMergedModelFrameName(t *testing.T) {
	assert.Equal(t, "_merged__arm__model__", MergedModelFrameName("arm"))
}

func TestSplitScopedName(t *testing.T) {
	scope, local := SplitScopedName("a::b::c")
	assert.Equal(t, "a::b", scope)
	assert.Equal(t, "c", local)

	scope, local = SplitScopedName("plain")
	assert.Equal(t, "", scope)
	assert.Equal(t, "plain", local)
}

func TestFirstScopeOf(t *testing.T) {
	first, rest := FirstScopeOf("a::b::c")
	assert.Equal(t, "a", first)
	assert.Equal(t, "b::c", rest)

	first, rest = FirstScopeOf("plain")
	assert.Equal(t, "", first)
	assert.Equal(t, "plain", rest)
}

func TestIsNamespacedPassthrough(t *testing.T) {
	assert.True(t, IsNamespacedPassthrough("sim:config"))
	assert.False(t, IsNamespacedPassthrough("a::b"))
	assert.False(t, IsNamespacedPassthrough("plain"))
}
