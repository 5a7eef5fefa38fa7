package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sdformat/internal/element"
	"sdformat/internal/model"
	"sdformat/internal/shared"
	"sdformat/internal/types"
	"sdformat/internal/xmltree"
)

// hoistKinds are the named-entity children a merge-include lifts into
// the parent model. Scalar model properties are dropped.
var hoistKinds = map[string]bool{
	"link":    true,
	"model":   true,
	"joint":   true,
	"frame":   true,
	"gripper": true,
	"plugin":  true,
}

// includeSpec is the parsed content of one raw <include> element.
type includeSpec struct {
	uri            string
	name           string
	nameSet        bool
	static         bool
	staticSet      bool
	placementFrame string
	pose           *xmltree.Node
	plugins        []*xmltree.Node
	merge          bool
}

// expandInclude resolves one <include> and splices the result into the
// enclosing instance element.
func (r *reader) expandInclude(node *xmltree.Node, parent *element.Element, xmlPath string, errs *types.Errors) {
	spec, ok := r.parseIncludeSpec(node, xmlPath, errs)
	if !ok {
		return
	}

	entity := r.loadIncludedEntity(spec, node, xmlPath, errs)
	if entity == nil {
		return
	}

	r.applyIncludeOverrides(entity, spec, node, xmlPath, errs)

	if !spec.merge {
		parent.InsertElement(entity, true)
		return
	}

	if entity.Name() != "model" || parent.Name() != "model" {
		errs.Add(types.Error{
			Code:     types.ErrorCodeMergeIncludeUnsupported,
			Message:  "merge include requires a model included into a model",
			FilePath: r.filePath,
			XMLPath:  xmlPath,
			Line:     node.Line,
		})
		return
	}
	r.mergeInclude(entity, spec, parent, node, xmlPath, errs)
}

func (r *reader) parseIncludeSpec(node *xmltree.Node, xmlPath string, errs *types.Errors) (includeSpec, bool) {
	var spec includeSpec
	if v, ok := node.Attr("merge"); ok {
		spec.merge = v == "true" || v == "1"
	}
	for _, c := range node.Children {
		switch c.Name {
		case "uri":
			spec.uri = c.Text
		case "name":
			spec.name = c.Text
			spec.nameSet = true
		case "static":
			spec.static = c.Text == "true" || c.Text == "1"
			spec.staticSet = true
		case "placement_frame":
			spec.placementFrame = c.Text
		case "pose":
			spec.pose = c
		case "plugin":
			spec.plugins = append(spec.plugins, c)
		}
	}
	if spec.uri == "" {
		errs.Add(types.Error{
			Code:     types.ErrorCodeElementMissing,
			Message:  "<include> requires a <uri>",
			FilePath: r.filePath,
			XMLPath:  xmlPath,
			Line:     node.Line,
		})
		return spec, false
	}
	if spec.placementFrame != "" && spec.pose == nil {
		errs.Add(types.Error{
			Code:     types.ErrorCodeModelPlacementFrameInvalid,
			Message:  "<include> with <placement_frame> requires a <pose>",
			FilePath: r.filePath,
			XMLPath:  xmlPath,
			Line:     node.Line,
		})
		return spec, false
	}
	return spec, true
}

// loadIncludedEntity resolves the URI, reads the referenced document
// (recursively through this reader) and returns a copy of its single
// top-level entity.
func (r *reader) loadIncludedEntity(spec includeSpec, node *xmltree.Node, xmlPath string, errs *types.Errors) *element.Element {
	path := r.cfg.FindFile(spec.uri)
	if path == "" {
		errs.Add(types.Error{
			Code:     types.ErrorCodeURILookup,
			Message:  fmt.Sprintf("unable to resolve uri %q", spec.uri),
			FilePath: r.filePath,
			XMLPath:  xmlPath,
			Line:     node.Line,
		})
		return nil
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		entry, err := r.discovery.EntryPoint(path)
		if err != nil {
			if text := r.tryCustomParsers(path, errs); text != "" {
				return r.entityFromText(text, path, node, xmlPath, errs)
			}
			errs.Add(types.Error{
				Code:     types.ErrorCodeURILookup,
				Message:  fmt.Sprintf("model directory %q: %v", path, err),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
			return nil
		}
		path = entry
	}

	if !strings.HasSuffix(path, ".sdf") {
		if text := r.tryCustomParsers(path, errs); text != "" {
			return r.entityFromText(text, path, node, xmlPath, errs)
		}
		errs.Add(types.Error{
			Code:     types.ErrorCodeURILookup,
			Message:  fmt.Sprintf("%q is not an SDF file and no custom parser accepted it", path),
			FilePath: r.filePath,
			XMLPath:  xmlPath,
			Line:     node.Line,
		})
		return nil
	}

	canonical := filepath.Clean(path)
	for _, active := range r.includeStack {
		if active == canonical {
			errs.Add(types.Error{
				Code:     types.ErrorCodeElementInvalid,
				Message:  fmt.Sprintf("include cycle through %q", canonical),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
			return nil
		}
	}
	r.includeStack = append(r.includeStack, canonical)
	doc, nested := r.readPath(path)
	r.includeStack = r.includeStack[:len(r.includeStack)-1]
	errs.Merge(nested)
	if doc == nil {
		return nil
	}
	return r.selectTopEntity(doc.Root, node, xmlPath, errs)
}

func (r *reader) tryCustomParsers(path string, errs *types.Errors) string {
	for _, parse := range r.cfg.CustomParsers {
		text, perrs := parse(path)
		errs.Merge(perrs)
		if text != "" {
			return text
		}
	}
	return ""
}

func (r *reader) entityFromText(text, path string, node *xmltree.Node, xmlPath string, errs *types.Errors) *element.Element {
	sub := newReader(r.cfg, r.discovery)
	sub.includeStack = r.includeStack
	doc, nested := sub.readText(text, path)
	errs.Merge(nested)
	if doc == nil {
		return nil
	}
	return r.selectTopEntity(doc.Root, node, xmlPath, errs)
}

// selectTopEntity picks the included document's top-level entity with
// the preference model > actor > light.
func (r *reader) selectTopEntity(root *element.Element, node *xmltree.Node, xmlPath string, errs *types.Errors) *element.Element {
	for _, kind := range []string{"model", "actor", "light"} {
		found := root.FindAll(kind)
		if len(found) == 0 {
			continue
		}
		if len(found) > 1 {
			errs.Add(types.Error{
				Code:     types.ErrorCodeElementInvalid,
				Message:  fmt.Sprintf("included document has %d top-level <%s> elements, expected one", len(found), kind),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
			return nil
		}
		return found[0].Copy()
	}
	errs.Add(types.Error{
		Code:     types.ErrorCodeElementMissing,
		Message:  "included document has no model, actor or light",
		FilePath: r.filePath,
		XMLPath:  xmlPath,
		Line:     node.Line,
	})
	return nil
}

// applyIncludeOverrides rewrites the included entity with the <include>
// child overrides: name, static, pose, placement_frame and plugins.
func (r *reader) applyIncludeOverrides(entity *element.Element, spec includeSpec, node *xmltree.Node, xmlPath string, errs *types.Errors) {
	if spec.nameSet {
		if shared.IsReservedName(spec.name) {
			errs.Add(types.Error{
				Code:     types.ErrorCodeReservedName,
				Message:  fmt.Sprintf("%q is reserved and may not be used as a name", spec.name),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
		} else if err := entity.SetAttribute("name", spec.name); err != nil {
			errs.Addf(types.ErrorCodeAttributeInvalid, "include name override: %v", err)
		}
	}
	if spec.staticSet {
		val := "false"
		if spec.static {
			val = "true"
		}
		if err := entity.SetChildValue("static", val); err != nil {
			errs.Addf(types.ErrorCodeElementInvalid, "include static override: %v", err)
		}
	}
	if spec.pose != nil {
		poseEl, err := entity.GetElement("pose")
		if err == nil {
			if spec.pose.Text != "" {
				if serr := poseEl.SetValue(spec.pose.Text); serr != nil {
					errs.Add(types.Error{
						Code:     types.ErrorCodeElementIncorrectType,
						Message:  fmt.Sprintf("include pose override: %v", serr),
						FilePath: r.filePath,
						XMLPath:  xmlPath,
						Line:     spec.pose.Line,
					})
				}
			}
			for _, attr := range []string{"relative_to", "degrees", "rotation_format"} {
				if v, ok := spec.pose.Attr(attr); ok {
					_ = poseEl.SetAttribute(attr, v)
				}
			}
		}
	}
	if spec.placementFrame != "" {
		if !shared.IsValidFrameReference(spec.placementFrame) {
			errs.Add(types.Error{
				Code:     types.ErrorCodeReservedName,
				Message:  fmt.Sprintf("%q is reserved and may not be a placement frame", spec.placementFrame),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
		} else {
			_ = entity.SetAttribute("placement_frame", spec.placementFrame)
		}
	}
	for _, plugin := range spec.plugins {
		desc := entity.Description()
		if desc == nil {
			break
		}
		pluginDesc := desc.FindElement("plugin")
		if pluginDesc == nil {
			break
		}
		if built := r.buildElement(plugin, pluginDesc, xmlPath, errs); built != nil {
			entity.InsertElement(built, true)
		}
	}
}

// mergeInclude hoists the included model's named entities into the
// parent model behind a synthetic frame that stands in for the merged
// model's own frame.
func (r *reader) mergeInclude(entity *element.Element, spec includeSpec, parent *element.Element, node *xmltree.Node, xmlPath string, errs *types.Errors) {
	merged, loadErrs := model.LoadModel(entity)
	errs.Merge(loadErrs)
	if merged == nil {
		return
	}
	graphs, graphErrs := model.BuildModelGraphs(merged)
	errs.Merge(graphErrs)
	if graphs == nil {
		return
	}

	canonical := merged.CanonicalLinkName()
	if canonical == "" {
		errs.Add(types.Error{
			Code:     types.ErrorCodeModelCanonicalLinkInvalid,
			Message:  fmt.Sprintf("merged model %q has no canonical link", merged.Name()),
			FilePath: r.filePath,
			XMLPath:  xmlPath,
			Line:     node.Line,
		})
		return
	}

	resolved := merged.RawPose()
	if pf := merged.PlacementFrame(); pf != "" {
		pfPose, pfErrs := graphs.Resolve(pf, "")
		if pfErrs.Fatal() {
			errs.Add(types.Error{
				Code:     types.ErrorCodeModelPlacementFrameInvalid,
				Message:  fmt.Sprintf("placement frame %q of merged model %q does not resolve", pf, merged.Name()),
				FilePath: r.filePath,
				XMLPath:  xmlPath,
				Line:     node.Line,
			})
			return
		}
		resolved = resolved.Mul(pfPose.Inverse())
	}

	relativeTo := shared.FrameModel
	if spec.pose != nil {
		if v, ok := spec.pose.Attr("relative_to"); ok && v != "" {
			relativeTo = v
		}
	}

	proxy := shared.MergedModelFrameName(merged.Name())
	frameEl, err := parent.AddElement("frame")
	if err != nil {
		errs.Addf(types.ErrorCodeElementInvalid, "merge include: %v", err)
		return
	}
	_ = frameEl.SetAttribute("name", proxy)
	_ = frameEl.SetAttribute("attached_to", canonical)
	if poseEl, perr := frameEl.GetElement("pose"); perr == nil {
		_ = poseEl.SetValue(resolved.String())
		_ = poseEl.SetAttribute("relative_to", relativeTo)
	}

	for _, child := range entity.Children() {
		if !hoistKinds[child.Name()] && !shared.IsNamespacedPassthrough(child.Name()) {
			continue
		}
		hoisted := child.Copy()
		rewriteMergedReferences(hoisted, proxy)
		parent.InsertElement(hoisted, true)
	}
}

// rewriteMergedReferences redirects a hoisted entity's references to the
// merged model's implicit frame onto the synthetic proxy frame.
func rewriteMergedReferences(el *element.Element, proxy string) {
	switch el.Name() {
	case "link", "model":
		rewritePoseRelativeTo(el, proxy, true)
	case "frame":
		attached := el.GetAttribute("attached_to")
		if attached == nil || attached.String() == "" || attached.String() == shared.FrameModel {
			_ = el.SetAttribute("attached_to", proxy)
		}
		rewritePoseRelativeTo(el, proxy, false)
	case "joint":
		for _, name := range []string{"parent", "child"} {
			if c := el.FindElement(name); c != nil && c.Value() != nil &&
				c.Value().String() == shared.FrameModel {
				_ = c.SetValue(proxy)
			}
		}
		if p := el.FindElement("pose"); p != nil {
			if rel := p.GetAttribute("relative_to"); rel != nil && rel.String() == shared.FrameModel {
				_ = p.SetAttribute("relative_to", proxy)
			}
		}
		for _, axisName := range []string{"axis", "axis2"} {
			axis := el.FindElement(axisName)
			if axis == nil {
				continue
			}
			if xyz := axis.FindElement("xyz"); xyz != nil {
				if exp := xyz.GetAttribute("expressed_in"); exp != nil &&
					exp.String() == shared.FrameModel {
					_ = xyz.SetAttribute("expressed_in", proxy)
				}
			}
		}
	}
}

// rewritePoseRelativeTo redirects a pose's relative_to from the merged
// model frame (or, when whenEmpty, from the implicit default) onto the
// proxy frame. The pose is materialized when the rewrite applies to
// implicit defaults, so the hoisted entity keeps its old frame.
func rewritePoseRelativeTo(el *element.Element, proxy string, whenEmpty bool) {
	poseEl := el.FindElement("pose")
	if poseEl == nil {
		if !whenEmpty {
			return
		}
		created, err := el.GetElement("pose")
		if err != nil {
			return
		}
		poseEl = created
	}
	rel := poseEl.GetAttribute("relative_to")
	current := ""
	if rel != nil {
		current = rel.String()
	}
	if current == shared.FrameModel || (whenEmpty && current == "") {
		_ = poseEl.SetAttribute("relative_to", proxy)
	}
}
