// Package convert rewrites an SDF document tree from an older schema
// version to the current one. Each version step is a declarative script
// of operations loaded from an embedded YAML file; steps are applied in
// ascending order and the tree is checked against the intermediate
// embedded schema between steps.
package convert

import (
	"embed"
	"fmt"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
	"gopkg.in/yaml.v3"

	"sdformat/internal/element"
	"sdformat/internal/schema"
	"sdformat/internal/types"
	"sdformat/internal/xmltree"
)

//go:embed migrations
var migrations embed.FS

// script is one version step parsed from YAML.
type script struct {
	Description string `yaml:"description"`
	Ops         []Op   `yaml:"ops"`
}

// ToCurrent rewrites root in place from fromVersion to the current
// schema version and updates //sdf/@version. Diagnostics accumulate in
// errs; a fatal problem leaves the tree at the last consistent step.
func ToCurrent(root *xmltree.Node, fromVersion string, errs *types.Errors) {
	Convert(root, fromVersion, schema.CurrentVersion, errs)
}

// Convert rewrites root in place from fromVersion to toVersion.
func Convert(root *xmltree.Node, fromVersion, toVersion string, errs *types.Errors) {
	from, err := pep440.Parse(fromVersion)
	if err != nil {
		errs.Addf(types.ErrorCodeConversion, "unparseable document version %q", fromVersion)
		return
	}
	to, err := pep440.Parse(toVersion)
	if err != nil {
		errs.Addf(types.ErrorCodeConversion, "unparseable target version %q", toVersion)
		return
	}
	if !from.LessThan(to) {
		if from.GreaterThan(to) {
			errs.Addf(types.ErrorCodeConversion,
				"cannot convert backwards from %s to %s", fromVersion, toVersion)
		}
		return
	}

	versions := schema.SupportedVersions()
	for i := 0; i+1 < len(versions); i++ {
		stepFrom, stepTo := versions[i], versions[i+1]
		sf, err := pep440.Parse(stepFrom)
		if err != nil {
			errs.Addf(types.ErrorCodeConversion, "bad step version %q", stepFrom)
			return
		}
		if sf.LessThan(from) || !sf.LessThan(to) {
			continue
		}
		if !applyStep(root, stepFrom, stepTo, errs) {
			return
		}
		root.SetAttr("version", stepTo)
		checkAgainstSchema(root, stepTo, errs)
	}
}

func applyStep(root *xmltree.Node, from, to string, errs *types.Errors) bool {
	name := fmt.Sprintf("migrations/%s_to_%s.yaml",
		strings.ReplaceAll(from, ".", "_"), strings.ReplaceAll(to, ".", "_"))
	data, err := migrations.ReadFile(name)
	if err != nil {
		errs.Addf(types.ErrorCodeConversion, "no migration from %s to %s", from, to)
		return false
	}
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		errs.Addf(types.ErrorCodeConversion, "migration %s: %v", name, err)
		return false
	}
	for _, op := range s.Ops {
		if err := op.Apply(root); err != nil {
			errs.Addf(types.ErrorCodeConversion, "migration %s: %v", name, err)
			return false
		}
	}
	return true
}

// checkAgainstSchema walks the converted tree against the schema of the
// step's target version and reports elements or attributes the schema
// does not know. Findings are warnings; conversion continues.
func checkAgainstSchema(root *xmltree.Node, version string, errs *types.Errors) {
	desc, err := schema.Load(version)
	if err != nil {
		errs.Addf(types.ErrorCodeConversion, "schema %s unavailable: %v", version, err)
		return
	}
	checkNode(root, desc, errs)
}

func checkNode(n *xmltree.Node, desc *element.Element, errs *types.Errors) {
	if desc.CopyData() {
		return
	}
	for _, a := range n.Attrs {
		if strings.Contains(a.Name, ":") {
			continue
		}
		if !desc.HasAttribute(a.Name) {
			errs.Add(types.Error{
				Code:    types.ErrorCodeWarning,
				Message: fmt.Sprintf("converted attribute %q not in schema for <%s>", a.Name, n.Name),
				Line:    n.Line,
			})
		}
	}
	for _, c := range n.Children {
		if strings.Contains(c.Name, ":") {
			continue
		}
		childDesc := desc.FindElement(c.Name)
		if childDesc == nil {
			errs.Add(types.Error{
				Code:    types.ErrorCodeWarning,
				Message: fmt.Sprintf("converted element <%s> not in schema under <%s>", c.Name, n.Name),
				Line:    c.Line,
			})
			continue
		}
		checkNode(c, childDesc, errs)
	}
}
