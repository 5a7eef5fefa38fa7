// Package sdformat loads SDF robot-simulation world descriptions into a
// typed object model with validated frame semantics.
//
// A load runs the full pipeline: XML parsing against the embedded
// schema descriptions, version conversion of older documents, include
// expansion, domain-model construction, and the build and validation of
// the per-scope frame-attached-to and pose-relative-to graphs. The
// returned Root answers pose queries through those graphs.
package sdformat

import (
	"io"

	"sdformat/internal/adapters"
	"sdformat/internal/model"
	"sdformat/internal/reader"
	"sdformat/internal/types"
)

// Re-exported configuration types, so callers need only this package.
type (
	ParserConfig = types.ParserConfig
	Errors       = types.Errors
	Error        = types.Error
)

// DefaultConfig returns the process-wide parser configuration with the
// filesystem locator installed.
func DefaultConfig() ParserConfig {
	cfg := types.GlobalConfig()
	if cfg.FindFile == nil {
		locator := adapters.NewFileLocatorAdapter()
		cfg.FindFile = locator.Locate
	}
	return cfg
}

// Load reads and fully resolves the SDF document at path.
func Load(path string, cfg ParserConfig) (*model.Root, Errors) {
	doc, errs := reader.ReadFile(path, prepare(cfg), adapters.NewModelDiscoveryAdapter())
	return finish(doc, errs)
}

// LoadString reads and fully resolves an in-memory SDF document.
func LoadString(text string, cfg ParserConfig) (*model.Root, Errors) {
	doc, errs := reader.ReadString(text, prepare(cfg), adapters.NewModelDiscoveryAdapter())
	return finish(doc, errs)
}

// Read reads and fully resolves an SDF document from a stream.
// sourcePath is used for diagnostics only.
func Read(in io.Reader, sourcePath string, cfg ParserConfig) (*model.Root, Errors) {
	doc, errs := reader.Read(in, sourcePath, prepare(cfg), adapters.NewModelDiscoveryAdapter())
	return finish(doc, errs)
}

func prepare(cfg ParserConfig) ParserConfig {
	cfg = cfg.Default()
	if cfg.FindFile == nil {
		locator := adapters.NewFileLocatorAdapter()
		cfg.FindFile = locator.Locate
	}
	return cfg
}

// finish runs the domain load over a read element tree. A document with
// fatal diagnostics yields no Root.
func finish(doc *reader.Document, errs Errors) (*model.Root, Errors) {
	if doc == nil || errs.Fatal() {
		return nil, errs
	}
	root, loadErrs := model.LoadRoot(doc.Root, doc.OriginalVersion)
	errs.Merge(loadErrs)
	if errs.Fatal() {
		return nil, errs
	}
	return root, errs
}
