package ports

import "sdformat/internal/types"

// TranslatorPort converts a non-SDF robot description into SDF XML text.
// The concrete URDF translator lives outside this module; the reader only
// depends on this contract.
type TranslatorPort interface {
	// CanTranslate reports whether the root element name belongs to the
	// translator's input format ("robot" for URDF).
	CanTranslate(rootName string) bool

	// Translate returns the equivalent SDF document text.
	Translate(xml string) (string, types.Errors)
}
