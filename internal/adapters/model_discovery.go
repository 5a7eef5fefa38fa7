package adapters

import (
	"encoding/xml"
	"os"
	"path/filepath"

	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"sdformat/internal/ports"
)

// modelConfig mirrors the model.config / manifest.xml layout: a <model>
// root with one or more versioned <sdf> entries naming the document file.
type modelConfig struct {
	XMLName xml.Name         `xml:"model"`
	Name    string           `xml:"name"`
	SDF     []modelConfigSDF `xml:"sdf"`
}

type modelConfigSDF struct {
	Version string `xml:"version,attr"`
	File    string `xml:",chardata"`
}

// ModelDiscoveryAdapter implements ModelDirectoryPort by reading the
// directory's model.config, falling back to the legacy manifest.xml.
type ModelDiscoveryAdapter struct{}

// NewModelDiscoveryAdapter returns the discovery adapter.
func NewModelDiscoveryAdapter() *ModelDiscoveryAdapter {
	return &ModelDiscoveryAdapter{}
}

// EntryPoint returns the absolute path of the highest-versioned .sdf
// entry named by the directory's config file.
func (a *ModelDiscoveryAdapter) EntryPoint(dir string) (string, error) {
	data, err := readConfig(dir)
	if err != nil {
		return "", err
	}

	var cfg modelConfig
	if err := xml.Unmarshal(data, &cfg); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse model config in " + dir).
			WithCause(err)
	}
	if len(cfg.SDF) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("model config in " + dir + " names no sdf file")
	}

	best := cfg.SDF[0]
	for _, entry := range cfg.SDF[1:] {
		if versionLess(best.Version, entry.Version) {
			best = entry
		}
	}
	if best.File == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("model config in " + dir + " has an empty sdf entry")
	}
	return filepath.Join(dir, best.File), nil
}

var _ ports.ModelDirectoryPort = (*ModelDiscoveryAdapter)(nil)

func readConfig(dir string) ([]byte, error) {
	for _, name := range []string{"model.config", "manifest.xml"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("no model.config or manifest.xml in " + dir)
}

// versionLess compares two sdf version strings, treating unparseable
// versions as lowest.
func versionLess(a, b string) bool {
	va, errA := pep440.Parse(a)
	vb, errB := pep440.Parse(b)
	if errB != nil {
		return false
	}
	if errA != nil {
		return true
	}
	return va.LessThan(vb)
}
