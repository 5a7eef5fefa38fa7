package types

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnforcementPolicy selects how a class of findings is reported.
type EnforcementPolicy string

const (
	PolicyIgnore EnforcementPolicy = "ignore"
	PolicyWarn   EnforcementPolicy = "warn"
	PolicyErr    EnforcementPolicy = "err"
)

// URILookup maps a resource URI to an absolute filesystem path. An empty
// return value means the URI did not resolve.
type URILookup func(uri string) string

// CustomModelParser is consulted when an <include> URI resolves to a
// model directory whose entry point is not a plain .sdf file. It returns
// the SDF document text for the model, or an empty string to pass.
type CustomModelParser func(modelPath string) (string, Errors)

// URDFTranslator converts a URDF document into SDF XML text. The concrete
// translator is injected; the parser only knows this contract.
type URDFTranslator func(xml string) (string, Errors)

// ParserConfig carries every knob honored by the reader, the include
// resolver, and the converter. A zero value is usable; Default() applies
// the process-wide defaults.
type ParserConfig struct {
	// UnrecognizedElements controls elements and attributes that are not
	// in the schema and do not use the namespaced ':' bypass.
	UnrecognizedElements EnforcementPolicy

	// DeprecatedElements controls elements marked deprecated in the schema.
	DeprecatedElements EnforcementPolicy

	// Warnings controls the severity of all other warnings.
	Warnings EnforcementPolicy

	// DisableConversion keeps older documents at their declared schema
	// version instead of converting them to the current one.
	DisableConversion bool

	// FindFile resolves include URIs. Defaults to a filesystem lookup.
	FindFile URILookup

	// CustomParsers are tried in order for non-.sdf model entry points.
	CustomParsers []CustomModelParser

	// TranslateURDF, when set, is tried on documents whose root element
	// is <robot>.
	TranslateURDF URDFTranslator

	// Logger receives debug/warn output from the parser. Defaults to the
	// global zerolog logger.
	Logger *zerolog.Logger
}

var (
	globalMu     sync.Mutex
	globalConfig *ParserConfig
)

// GlobalConfig returns the process-wide default configuration, creating
// it on first use.
func GlobalConfig() ParserConfig {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg := defaultConfig()
		globalConfig = &cfg
	}
	return *globalConfig
}

// SetGlobalConfig replaces the process-wide default configuration.
func SetGlobalConfig(cfg ParserConfig) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = &cfg
}

func defaultConfig() ParserConfig {
	return ParserConfig{
		UnrecognizedElements: PolicyErr,
		DeprecatedElements:   PolicyWarn,
		Warnings:             PolicyWarn,
		Logger:               &log.Logger,
	}
}

// Default fills unset fields with the process-wide defaults and returns
// the result.
func (c ParserConfig) Default() ParserConfig {
	def := GlobalConfig()
	if c.UnrecognizedElements == "" {
		c.UnrecognizedElements = def.UnrecognizedElements
	}
	if c.DeprecatedElements == "" {
		c.DeprecatedElements = def.DeprecatedElements
	}
	if c.Warnings == "" {
		c.Warnings = def.Warnings
	}
	if c.FindFile == nil {
		c.FindFile = def.FindFile
	}
	if c.Logger == nil {
		c.Logger = def.Logger
	}
	return c
}
