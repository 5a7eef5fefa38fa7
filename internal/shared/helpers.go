// Package shared provides small naming helpers used across the parser,
// the object model, and the frame graphs.
package shared

import "strings"

// ScopeDelimiter separates nested scope names, e.g. "nested::link".
const ScopeDelimiter = "::"

// FrameModel is the implicit frame of the enclosing model scope.
const FrameModel = "__model__"

// FrameWorld is the implicit frame of the enclosing world scope.
const FrameWorld = "world"

// MergedFramePrefix prefixes the synthetic frame inserted by a
// merge-include.
const MergedFramePrefix = "_merged__"

// IsReservedName reports whether value may not be used as a user-assigned
// entity name: "world", "__model__", and anything starting with "__".
func IsReservedName(value string) bool {
	return value == FrameWorld || strings.HasPrefix(value, "__")
}

// IsValidFrameReference reports whether value is acceptable as the value
// of a frame-reference attribute. "__model__" and "world" are legal
// references even though they are reserved as names.
func IsValidFrameReference(value string) bool {
	if value == FrameModel || value == FrameWorld {
		return true
	}
	return !strings.HasPrefix(value, "__")
}

// MergedModelFrameName returns the name of the synthetic frame inserted
// when model modelName is merge-included.
func MergedModelFrameName(modelName string) string {
	return MergedFramePrefix + modelName + FrameModel
}

// SplitScopedName splits "a::b::c" into its leading scope ("a::b") and
// local name ("c"). A name without delimiter has an empty scope.
func SplitScopedName(name string) (scope, local string) {
	idx := strings.LastIndex(name, ScopeDelimiter)
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+len(ScopeDelimiter):]
}

// FirstScopeOf splits "a::b::c" into its first scope ("a") and the
// remainder ("b::c").
func FirstScopeOf(name string) (scope, rest string) {
	idx := strings.Index(name, ScopeDelimiter)
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+len(ScopeDelimiter):]
}

// HasScopeDelimiter reports whether name contains "::".
func HasScopeDelimiter(name string) bool {
	return strings.Contains(name, ScopeDelimiter)
}

// IsNamespacedPassthrough reports whether an element or attribute name
// uses the "prefix:name" bypass for out-of-schema content.
func IsNamespacedPassthrough(name string) bool {
	return strings.Contains(name, ":") && !strings.Contains(name, ScopeDelimiter)
}
