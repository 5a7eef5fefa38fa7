// Package reader parses raw SDF XML into a schema-validated element
// tree. It enforces required attributes and children, applies the
// configured policies for unknown and deprecated content, invokes the
// version converter on older documents, and expands <include> elements
// (see include.go) while it walks the input.
package reader

import (
	"fmt"
	"io"
	"os"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"

	"sdformat/internal/convert"
	"sdformat/internal/element"
	"sdformat/internal/ports"
	"sdformat/internal/schema"
	"sdformat/internal/shared"
	"sdformat/internal/types"
	"sdformat/internal/xmltree"
)

// Document is the result of a successful read: the <sdf> instance
// element and the version the input declared before any conversion.
type Document struct {
	Root            *element.Element
	OriginalVersion string
}

// frameReferenceAttrs enumerates the attribute positions whose value
// names a frame and therefore may not be a reserved identifier.
var frameReferenceAttrs = map[string]map[string]bool{
	"frame":      {"attached_to": true},
	"pose":       {"relative_to": true},
	"model":      {"placement_frame": true, "canonical_link": true},
	"custom_rpy": {"parent_frame": true},
}

type reader struct {
	cfg       types.ParserConfig
	discovery ports.ModelDirectoryPort

	// includeStack holds the canonical paths of files currently being
	// read, outermost first, for include-cycle detection.
	includeStack []string

	// filePath is the file the current parse reads from, "" for
	// in-memory input.
	filePath string
}

func newReader(cfg types.ParserConfig, discovery ports.ModelDirectoryPort) *reader {
	return &reader{cfg: cfg.Default(), discovery: discovery}
}

// ReadFile parses the SDF document at path.
func ReadFile(path string, cfg types.ParserConfig, discovery ports.ModelDirectoryPort) (*Document, types.Errors) {
	r := newReader(cfg, discovery)
	return r.readPath(path)
}

// ReadString parses an in-memory SDF document.
func ReadString(text string, cfg types.ParserConfig, discovery ports.ModelDirectoryPort) (*Document, types.Errors) {
	r := newReader(cfg, discovery)
	return r.readText(text, "")
}

// Read parses an SDF document from a stream. sourcePath is used for
// diagnostics only.
func Read(in io.Reader, sourcePath string, cfg types.ParserConfig, discovery ports.ModelDirectoryPort) (*Document, types.Errors) {
	data, err := io.ReadAll(in)
	if err != nil {
		var errs types.Errors
		errs.Add(types.Error{
			Code:     types.ErrorCodeFileRead,
			Message:  err.Error(),
			FilePath: sourcePath,
		})
		return nil, errs
	}
	r := newReader(cfg, discovery)
	return r.readText(string(data), sourcePath)
}

func (r *reader) readPath(path string) (*Document, types.Errors) {
	data, err := os.ReadFile(path)
	if err != nil {
		var errs types.Errors
		errs.Add(types.Error{
			Code:     types.ErrorCodeFileRead,
			Message:  err.Error(),
			FilePath: path,
		})
		return nil, errs
	}
	return r.readText(string(data), path)
}

func (r *reader) readText(text, sourcePath string) (*Document, types.Errors) {
	var errs types.Errors
	prevFile := r.filePath
	r.filePath = sourcePath
	defer func() { r.filePath = prevFile }()

	node, err := xmltree.ParseString(text)
	if err != nil {
		errs.Add(types.Error{
			Code:     types.ErrorCodeParsing,
			Message:  err.Error(),
			FilePath: sourcePath,
		})
		return nil, errs
	}

	if translator := (urdfTranslator{fn: r.cfg.TranslateURDF}); translator.CanTranslate(node.Name) {
		if r.cfg.TranslateURDF == nil {
			errs.Add(types.Error{
				Code:     types.ErrorCodeParsing,
				Message:  "input looks like URDF but no translator is configured",
				FilePath: sourcePath,
			})
			return nil, errs
		}
		translated, terrs := translator.Translate(text)
		errs.Merge(terrs)
		if terrs.Fatal() {
			return nil, errs
		}
		node, err = xmltree.ParseString(translated)
		if err != nil {
			errs.Addf(types.ErrorCodeParsing, "translated document: %v", err)
			return nil, errs
		}
	}

	if node.Name != "sdf" {
		errs.Add(types.Error{
			Code:     types.ErrorCodeElementInvalid,
			Message:  fmt.Sprintf("root element is <%s>, expected <sdf>", node.Name),
			FilePath: sourcePath,
			Line:     node.Line,
		})
		return nil, errs
	}

	version, ok := node.Attr("version")
	if !ok || version == "" {
		errs.Add(types.Error{
			Code:     types.ErrorCodeAttributeMissing,
			Message:  "<sdf> has no version attribute",
			FilePath: sourcePath,
			Line:     node.Line,
		})
		return nil, errs
	}
	original := version

	if version != schema.CurrentVersion {
		if !schema.IsSupported(version) {
			errs.Add(types.Error{
				Code:     types.ErrorCodeAttributeInvalid,
				Message:  fmt.Sprintf("unsupported SDF version %q", version),
				FilePath: sourcePath,
				Line:     node.Line,
			})
			return nil, errs
		}
		if !r.cfg.DisableConversion {
			r.cfg.Logger.Debug().
				Str("from", version).Str("to", schema.CurrentVersion).
				Msg("converting document version")
			convert.ToCurrent(node, version, &errs)
			if errs.Fatal() {
				return nil, errs
			}
			version = schema.CurrentVersion
			node.SetAttr("version", version)
		}
	}

	r.preValidate(node, &errs)

	desc, err := schema.Load(version)
	if err != nil {
		errs.Addf(types.ErrorCodeParsing, "schema %s: %v", version, err)
		return nil, errs
	}

	inst := r.buildElement(node, desc, "", &errs)
	if inst == nil {
		return nil, errs
	}

	r.checkNestedNameDelimiters(node, original, sourcePath, &errs)

	if errs.Fatal() {
		return nil, errs
	}
	return &Document{Root: inst, OriginalVersion: original}, errs
}

// preValidate enforces document-level constraints on the raw tree before
// the schema walk: a top-level model may not express its pose relative
// to another frame, there being no enclosing scope to name.
func (r *reader) preValidate(root *xmltree.Node, errs *types.Errors) {
	for _, child := range root.Children {
		if child.Name != "model" {
			continue
		}
		pose := child.Child("pose")
		if pose == nil {
			continue
		}
		if rel, ok := pose.Attr("relative_to"); ok && rel != "" {
			errs.Add(types.Error{
				Code:     types.ErrorCodeElementInvalid,
				Message:  "a top-level <model> pose may not have relative_to",
				FilePath: r.filePath,
				Line:     pose.Line,
			})
		}
	}
}

// checkNestedNameDelimiters rejects "::" inside name attributes. The
// delimiter was a legal nesting shorthand before 1.8 and is reserved for
// scoped references since.
func (r *reader) checkNestedNameDelimiters(root *xmltree.Node, originalVersion, sourcePath string, errs *types.Errors) {
	orig, err := pep440.Parse(originalVersion)
	if err != nil {
		return
	}
	boundary, err := pep440.Parse("1.8")
	if err != nil || orig.LessThan(boundary) {
		return
	}
	root.Walk(func(n *xmltree.Node) {
		if name, ok := n.Attr("name"); ok && strings.Contains(name, shared.ScopeDelimiter) {
			errs.Add(types.Error{
				Code:     types.ErrorCodeAttributeInvalid,
				Message:  fmt.Sprintf("name %q may not contain %q", name, shared.ScopeDelimiter),
				FilePath: sourcePath,
				Line:     n.Line,
			})
		}
	})
}

// buildElement matches one raw node against its schema description and
// returns the populated instance, or nil when this branch must be
// abandoned.
func (r *reader) buildElement(node *xmltree.Node, desc *element.Element, parentPath string, errs *types.Errors) *element.Element {
	inst := desc.Instantiate()
	xmlPath := childPath(parentPath, node)
	inst.SetSourceLocation(r.filePath, xmlPath, node.Line)

	r.readAttributes(node, inst, xmlPath, errs)

	if inst.Value() != nil && node.Text != "" {
		if err := inst.Value().Set(node.Text); err != nil {
			errs.Add(types.Error{
				Code:     types.ErrorCodeElementIncorrectType,
				Message:  fmt.Sprintf("value of <%s>: %v", node.Name, err),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
		}
	}

	if desc.CopyData() {
		for _, child := range node.Children {
			inst.InsertElement(rawToPassthrough(child), true)
		}
		return inst
	}

	for _, child := range node.Children {
		if child.Name == "include" {
			r.expandInclude(child, inst, xmlPath, errs)
			continue
		}
		childDesc := desc.FindElement(child.Name)
		if childDesc == nil {
			if shared.IsNamespacedPassthrough(child.Name) {
				inst.InsertElement(rawToPassthrough(child), true)
				continue
			}
			r.report(errs, r.cfg.UnrecognizedElements, types.Error{
				Code:     types.ErrorCodeElementInvalid,
				Message:  fmt.Sprintf("element <%s> is not defined under <%s>", child.Name, node.Name),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     child.Line,
			})
			continue
		}
		if childDesc.IsDeprecated() {
			r.report(errs, r.cfg.DeprecatedElements, types.Error{
				Code:     types.ErrorCodeElementDeprecated,
				Message:  fmt.Sprintf("element <%s> is deprecated", child.Name),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     child.Line,
			})
		}
		if built := r.buildElement(child, childDesc, xmlPath, errs); built != nil {
			inst.InsertElement(built, true)
		}
	}

	if !r.addRequiredChildren(node, desc, inst, xmlPath, errs) {
		return nil
	}
	return inst
}

// readAttributes assigns raw attributes to the instance params, checks
// the frame-reference and reserved-name rules, and reports anything the
// schema does not know.
func (r *reader) readAttributes(node *xmltree.Node, inst *element.Element, xmlPath string, errs *types.Errors) {
	for _, a := range node.Attrs {
		p := inst.GetAttribute(a.Name)
		if p == nil {
			if strings.Contains(a.Name, ":") {
				inst.AddAttribute(a.Name, element.TypeString, "", false)
				_ = inst.GetAttribute(a.Name).Set(a.Value)
				continue
			}
			r.report(errs, r.cfg.UnrecognizedElements, types.Error{
				Code:     types.ErrorCodeAttributeInvalid,
				Message:  fmt.Sprintf("attribute %q is not defined on <%s>", a.Name, node.Name),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
			continue
		}
		if err := p.Set(a.Value); err != nil {
			errs.Add(types.Error{
				Code:     types.ErrorCodeAttributeIncorrectType,
				Message:  err.Error(),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
			continue
		}
		if refs, ok := frameReferenceAttrs[node.Name]; ok && refs[a.Name] &&
			a.Value != "" && !shared.IsValidFrameReference(a.Value) {
			errs.Add(types.Error{
				Code:     types.ErrorCodeReservedName,
				Message:  fmt.Sprintf("%q is reserved and may not be the value of %s", a.Value, a.Name),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
		}
		if a.Name == "name" && shared.IsReservedName(a.Value) {
			errs.Add(types.Error{
				Code:     types.ErrorCodeReservedName,
				Message:  fmt.Sprintf("%q is reserved and may not be used as a name", a.Value),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
		}
	}

	for _, p := range inst.Attributes() {
		if p.Required && !p.WasSet() {
			errs.Add(types.Error{
				Code:     types.ErrorCodeAttributeMissing,
				Message:  fmt.Sprintf("required attribute %q missing on <%s>", p.Key, node.Name),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
		}
	}
}

// addRequiredChildren materializes schema defaults for required children
// the document omitted. A joint missing its parent or child cannot be
// defaulted (except for ball joints) and aborts the branch.
func (r *reader) addRequiredChildren(node *xmltree.Node, desc *element.Element, inst *element.Element, xmlPath string, errs *types.Errors) bool {
	jointType := ""
	if inst.Name() == "joint" {
		if p := inst.GetAttribute("type"); p != nil {
			jointType = p.String()
		}
	}
	for _, childDesc := range desc.Children() {
		req := childDesc.Required()
		if req != element.RequiredOne && req != element.RequiredOneOrMore {
			continue
		}
		if inst.FindElement(childDesc.Name()) != nil {
			continue
		}
		if inst.Name() == "joint" &&
			(childDesc.Name() == "parent" || childDesc.Name() == "child") &&
			jointType != string(types.JointTypeBall) {
			errs.Add(types.Error{
				Code:     types.ErrorCodeElementMissing,
				Message:  fmt.Sprintf("joint requires a <%s> element", childDesc.Name()),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
			return false
		}
		if _, err := inst.AddElement(childDesc.Name()); err != nil {
			errs.Addf(types.ErrorCodeElementMissing,
				"cannot materialize required <%s> under <%s>", childDesc.Name(), node.Name)
		}
	}
	return true
}

// report routes a finding through an enforcement policy. Warnings are
// escalated or dropped according to the global warnings policy.
func (r *reader) report(errs *types.Errors, policy types.EnforcementPolicy, err types.Error) {
	switch policy {
	case types.PolicyIgnore:
		return
	case types.PolicyWarn:
		if r.cfg.Warnings == types.PolicyErr {
			errs.Add(err)
			return
		}
		if r.cfg.Warnings == types.PolicyIgnore {
			return
		}
		r.cfg.Logger.Warn().Str("code", string(err.Code)).Msg(err.Message)
		err.Code = types.ErrorCodeWarning
		errs.Add(err)
	default:
		errs.Add(err)
	}
}

// urdfTranslator adapts the configured translation callback to the
// translator port the reader consumes.
type urdfTranslator struct {
	fn types.URDFTranslator
}

var _ ports.TranslatorPort = urdfTranslator{}

// CanTranslate accepts URDF robot documents.
func (t urdfTranslator) CanTranslate(rootName string) bool {
	return rootName == "robot"
}

// Translate forwards to the configured callback.
func (t urdfTranslator) Translate(xml string) (string, types.Errors) {
	return t.fn(xml)
}

// rawToPassthrough copies a raw subtree verbatim into passthrough
// elements. Used for namespaced unknown content and plugin bodies.
func rawToPassthrough(node *xmltree.Node) *element.Element {
	el := element.NewPassthrough(node.Name)
	for _, a := range node.Attrs {
		el.AddAttribute(a.Name, element.TypeString, "", false)
		_ = el.GetAttribute(a.Name).Set(a.Value)
	}
	if node.Text != "" {
		_ = el.SetValue(node.Text)
	}
	for _, c := range node.Children {
		el.InsertElement(rawToPassthrough(c), true)
	}
	return el
}

// childPath extends an XML path with one segment, qualifying it with the
// name attribute when present.
func childPath(parent string, node *xmltree.Node) string {
	seg := node.Name
	if name, ok := node.Attr("name"); ok && name != "" {
		seg = fmt.Sprintf("%s[@name=%q]", node.Name, name)
	}
	return parent + "/" + seg
}
