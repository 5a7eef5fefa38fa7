package types

import (
	"fmt"
	"strings"
)

// ErrorCode identifies the category of a diagnostic produced while
// loading, converting, or resolving an SDF document.
type ErrorCode string

const (
	ErrorCodeNone                       ErrorCode = ""
	ErrorCodeFileRead                   ErrorCode = "FILE_READ"
	ErrorCodeParsing                    ErrorCode = "PARSING_ERROR"
	ErrorCodeElementMissing             ErrorCode = "ELEMENT_MISSING"
	ErrorCodeElementInvalid             ErrorCode = "ELEMENT_INVALID"
	ErrorCodeElementIncorrectType       ErrorCode = "ELEMENT_INCORRECT_TYPE"
	ErrorCodeElementDeprecated          ErrorCode = "ELEMENT_DEPRECATED"
	ErrorCodeAttributeMissing           ErrorCode = "ATTRIBUTE_MISSING"
	ErrorCodeAttributeInvalid           ErrorCode = "ATTRIBUTE_INVALID"
	ErrorCodeAttributeIncorrectType     ErrorCode = "ATTRIBUTE_INCORRECT_TYPE"
	ErrorCodeURILookup                  ErrorCode = "URI_LOOKUP"
	ErrorCodeMergeIncludeUnsupported    ErrorCode = "MERGE_INCLUDE_UNSUPPORTED"
	ErrorCodeModelPlacementFrameInvalid ErrorCode = "MODEL_PLACEMENT_FRAME_INVALID"
	ErrorCodeModelCanonicalLinkInvalid  ErrorCode = "MODEL_CANONICAL_LINK_INVALID"
	ErrorCodeLinkInertiaInvalid         ErrorCode = "LINK_INERTIA_INVALID"
	ErrorCodeJointParentLinkInvalid     ErrorCode = "JOINT_PARENT_LINK_INVALID"
	ErrorCodeJointChildLinkInvalid      ErrorCode = "JOINT_CHILD_LINK_INVALID"
	ErrorCodeJointParentSameAsChild     ErrorCode = "JOINT_PARENT_SAME_AS_CHILD"
	ErrorCodeFrameAttachedToInvalid     ErrorCode = "FRAME_ATTACHED_TO_INVALID"
	ErrorCodeFrameAttachedToCycle       ErrorCode = "FRAME_ATTACHED_TO_CYCLE"
	ErrorCodeFrameAttachedToGraph       ErrorCode = "FRAME_ATTACHED_TO_GRAPH"
	ErrorCodePoseRelativeToInvalid      ErrorCode = "POSE_RELATIVE_TO_INVALID"
	ErrorCodePoseRelativeToCycle        ErrorCode = "POSE_RELATIVE_TO_CYCLE"
	ErrorCodePoseRelativeToGraph        ErrorCode = "POSE_RELATIVE_TO_GRAPH"
	ErrorCodeFrameUnknown               ErrorCode = "FRAME_UNKNOWN"
	ErrorCodeReservedName               ErrorCode = "RESERVED_NAME"
	ErrorCodeDuplicateName              ErrorCode = "DUPLICATE_NAME"
	ErrorCodeConversion                 ErrorCode = "CONVERSION_ERROR"
	ErrorCodeWarning                    ErrorCode = "WARNING"
)

// Error is a single load-time diagnostic. Source-location fields are
// optional; they are filled in when the originating element is known.
type Error struct {
	Code    ErrorCode
	Message string

	// FilePath is the file the diagnostic refers to, when known.
	FilePath string

	// XMLPath locates the element inside the document, e.g.
	// /sdf/world[@name="w"]/model[@name="m"].
	XMLPath string

	// Line is the 1-based line number in FilePath, 0 when unknown.
	Line int
}

// NewError creates a diagnostic without source location.
func NewError(code ErrorCode, msg string) Error {
	return Error{Code: code, Message: msg}
}

func (e Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.FilePath != "" {
		fmt.Fprintf(&b, " (file %s", e.FilePath)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(")")
	}
	if e.XMLPath != "" {
		fmt.Fprintf(&b, " at %s", e.XMLPath)
	}
	return b.String()
}

// Errors accumulates diagnostics across a load. Recoverable problems are
// appended and the load continues; callers inspect the slice afterwards.
type Errors []Error

// Add appends a diagnostic.
func (e *Errors) Add(err Error) {
	*e = append(*e, err)
}

// Addf appends a diagnostic with a formatted message.
func (e *Errors) Addf(code ErrorCode, format string, args ...any) {
	*e = append(*e, Error{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Merge appends all diagnostics from other.
func (e *Errors) Merge(other Errors) {
	*e = append(*e, other...)
}

// HasCode reports whether any accumulated diagnostic carries the code.
func (e Errors) HasCode(code ErrorCode) bool {
	for _, err := range e {
		if err.Code == code {
			return true
		}
	}
	return false
}

// Fatal reports whether the accumulated diagnostics contain anything
// other than warnings. An invalid link inertia is reported but never
// aborts a load.
func (e Errors) Fatal() bool {
	for _, err := range e {
		switch err.Code {
		case ErrorCodeWarning, ErrorCodeLinkInertiaInvalid:
		default:
			return true
		}
	}
	return false
}

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}
