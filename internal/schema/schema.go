// Package schema loads the embedded SDF schema descriptions. Each
// supported version has its own directory of .sdf description files;
// files reference each other with <include filename="..."/> directives,
// which are linked into a shared description graph (a model description
// contains the model description itself, so the result is a cyclic
// graph by design and instances are cloned lazily).
package schema

import (
	"embed"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"sdformat/internal/element"
)

//go:embed sdf
var descriptions embed.FS

// CurrentVersion is the schema version documents are converted to.
const CurrentVersion = "1.9"

var supportedVersions = []string{"1.6", "1.7", "1.8", "1.9"}

// SupportedVersions lists the embedded schema versions in ascending
// order.
func SupportedVersions() []string {
	out := make([]string, len(supportedVersions))
	copy(out, supportedVersions)
	return out
}

// IsSupported reports whether the version has an embedded schema.
func IsSupported(version string) bool {
	for _, v := range supportedVersions {
		if v == version {
			return true
		}
	}
	return false
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*element.Element{}
)

// Load returns the root description ("sdf") for the version. The result
// is shared and must not be mutated; instances clone from it.
func Load(version string) (*element.Element, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if root, ok := cache[version]; ok {
		return root, nil
	}
	if !IsSupported(version) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("no embedded schema for version %q", version))
	}
	root, err := loadVersion(version)
	if err != nil {
		return nil, err
	}
	cache[version] = root
	return root, nil
}

// includeSite is a pending <include filename=...> directive recorded
// during parsing, resolved once every file of the version is loaded.
type includeSite struct {
	parent   *element.Element
	index    int
	filename string
	required string
}

func loadVersion(version string) (*element.Element, error) {
	dir := path.Join("sdf", version)
	entries, err := descriptions.ReadDir(dir)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("embedded schema directory %s: %v", dir, err))
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	descs := map[string]*element.Element{}
	var sites []includeSite
	for _, name := range names {
		data, err := descriptions.ReadFile(path.Join(dir, name))
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("embedded schema file %s: %v", name, err))
		}
		desc, fileSites, err := parseDescription(data)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("schema file %s/%s: %v", dir, name, err))
		}
		descs[name] = desc
		sites = append(sites, fileSites...)
	}

	for _, site := range sites {
		target, ok := descs[site.filename]
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("schema include %q not found in version %s", site.filename, version))
		}
		if site.required != target.Required() {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("schema include %q cardinality %q disagrees with file root %q",
					site.filename, site.required, target.Required()))
		}
		site.parent.ReplaceChildAt(site.index, target)
	}

	root, ok := descs["root.sdf"]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("schema version %s has no root.sdf", version))
	}
	return root, nil
}

// parseDescription reads one description file into an element tree,
// returning the unresolved include sites.
func parseDescription(data []byte) (*element.Element, []includeSite, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	var stack []*element.Element
	var root *element.Element
	var sites []includeSite

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "element":
				el := element.New(attrValue(t, "name"))
				el.SetRequired(attrValue(t, "required"))
				if typ := attrValue(t, "type"); typ != "" {
					el.AddValue(element.ValueType(typ), attrValue(t, "default"), false)
				}
				if attrValue(t, "copy_data") == "true" {
					el.SetCopyData(true)
				}
				if len(stack) == 0 {
					root = el
				} else {
					stack[len(stack)-1].InsertElement(el, true)
				}
				stack = append(stack, el)
			case "attribute":
				if len(stack) == 0 {
					return nil, nil, fmt.Errorf("attribute outside element")
				}
				parent := stack[len(stack)-1]
				parent.AddAttribute(
					attrValue(t, "name"),
					element.ValueType(attrValue(t, "type")),
					attrValue(t, "default"),
					attrValue(t, "required") == "1",
				)
				if err := dec.Skip(); err != nil {
					return nil, nil, err
				}
			case "include":
				if len(stack) == 0 {
					return nil, nil, fmt.Errorf("include outside element")
				}
				parent := stack[len(stack)-1]
				placeholder := element.New("__include__")
				parent.InsertElement(placeholder, true)
				sites = append(sites, includeSite{
					parent:   parent,
					index:    len(parent.Children()) - 1,
					filename: attrValue(t, "filename"),
					required: attrValue(t, "required"),
				})
				if err := dec.Skip(); err != nil {
					return nil, nil, err
				}
			case "description":
				if err := dec.Skip(); err != nil {
					return nil, nil, err
				}
			default:
				return nil, nil, fmt.Errorf("unexpected description tag <%s>", t.Name.Local)
			}
		case xml.EndElement:
			if t.Name.Local == "element" && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if root == nil {
		return nil, nil, fmt.Errorf("no root <element>")
	}
	return root, sites, nil
}

func attrValue(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
