package model

import (
	"sdformat/internal/element"
	"sdformat/internal/frames"
	"sdformat/internal/pose"
	"sdformat/internal/shared"
	"sdformat/internal/types"
)

// Model is a rigid-body model: links, joints, frames and nested models.
// Its implicit __model__ frame is attached to the canonical link.
type Model struct {
	name             string
	canonicalLink    string
	placementFrame   string
	static           bool
	selfCollide      bool
	enableWind       bool
	allowAutoDisable bool
	rawPose          pose.Pose3
	relativeTo       string

	links  []*Link
	joints []*Joint
	frames []*Frame
	models []*Model

	// plugins are kept as element subtrees; the object model does not
	// interpret plugin payloads.
	plugins []*element.Element

	elem *element.Element

	// scope holds this model's own graphs once built; parentHandle is
	// this model's vertex in the enclosing scope, if any.
	scope        *frames.ScopeGraphs
	parentHandle graphHandle
}

// LoadModel reads a <model> element and its whole subtree.
func LoadModel(el *element.Element) (*Model, types.Errors) {
	var errs types.Errors
	m := &Model{elem: el, allowAutoDisable: true}
	m.name = nameAttr(el)
	if m.name == "" {
		errs.Add(errAt(el, types.ErrorCodeAttributeMissing, "model requires a name"))
	}
	if a := el.GetAttribute("canonical_link"); a != nil {
		m.canonicalLink = a.String()
	}
	if a := el.GetAttribute("placement_frame"); a != nil {
		m.placementFrame = a.String()
	}
	m.static, _ = el.GetBool("static", false)
	m.selfCollide, _ = el.GetBool("self_collide", false)
	m.enableWind, _ = el.GetBool("enable_wind", false)
	m.allowAutoDisable, _ = el.GetBool("allow_auto_disable", true)
	m.rawPose, m.relativeTo = loadPose(el, &errs)

	for _, c := range el.FindAll("link") {
		l, lerrs := LoadLink(c)
		errs.Merge(lerrs)
		m.links = append(m.links, l)
	}
	for _, c := range el.FindAll("joint") {
		j, jerrs := LoadJoint(c)
		errs.Merge(jerrs)
		m.joints = append(m.joints, j)
	}
	for _, c := range el.FindAll("frame") {
		f, ferrs := LoadFrame(c)
		errs.Merge(ferrs)
		m.frames = append(m.frames, f)
	}
	for _, c := range el.FindAll("model") {
		nested, nerrs := LoadModel(c)
		errs.Merge(nerrs)
		m.models = append(m.models, nested)
	}
	for _, c := range el.FindAll("plugin") {
		m.plugins = append(m.plugins, c.Copy())
	}

	if !m.static && m.CanonicalLinkName() == "" {
		errs.Add(errAt(el, types.ErrorCodeModelCanonicalLinkInvalid,
			"non-static model %q needs at least one link", m.name))
	}
	return m, errs
}

func (m *Model) Name() string                 { return m.name }
func (m *Model) Static() bool                 { return m.static }
func (m *Model) SelfCollide() bool            { return m.selfCollide }
func (m *Model) EnableWind() bool             { return m.enableWind }
func (m *Model) AllowAutoDisable() bool       { return m.allowAutoDisable }
func (m *Model) RawPose() pose.Pose3          { return m.rawPose }
func (m *Model) PoseRelativeTo() string       { return m.relativeTo }
func (m *Model) PlacementFrame() string       { return m.placementFrame }
func (m *Model) Links() []*Link               { return m.links }
func (m *Model) Joints() []*Joint             { return m.joints }
func (m *Model) Frames() []*Frame             { return m.frames }
func (m *Model) Models() []*Model             { return m.models }
func (m *Model) Plugins() []*element.Element  { return m.plugins }
func (m *Model) Element() *element.Element    { return m.elem }

func (m *Model) SetName(name string)            { m.name = name }
func (m *Model) SetStatic(v bool)               { m.static = v }
func (m *Model) SetRawPose(p pose.Pose3)        { m.rawPose = p }
func (m *Model) SetPoseRelativeTo(ref string)   { m.relativeTo = ref }
func (m *Model) SetPlacementFrame(name string)  { m.placementFrame = name }
func (m *Model) SetCanonicalLink(name string)   { m.canonicalLink = name }

// CanonicalLinkName returns the declared canonical link, or the first
// link in document order, descending into nested models when the model
// itself has none. Empty when no link is reachable.
func (m *Model) CanonicalLinkName() string {
	if m.canonicalLink != "" {
		return m.canonicalLink
	}
	if len(m.links) > 0 {
		return m.links[0].Name()
	}
	for _, nested := range m.models {
		if sub := nested.CanonicalLinkName(); sub != "" {
			return nested.Name() + shared.ScopeDelimiter + sub
		}
	}
	return ""
}

// CanonicalLink resolves CanonicalLinkName to a Link, or nil.
func (m *Model) CanonicalLink() *Link {
	return m.LinkByName(m.CanonicalLinkName())
}

// LinkByName returns the named link, descending through "::" scoped
// names into nested models.
func (m *Model) LinkByName(name string) *Link {
	if name == "" {
		return nil
	}
	if shared.HasScopeDelimiter(name) {
		first, rest := shared.FirstScopeOf(name)
		nested := m.ModelByName(first)
		if nested == nil {
			return nil
		}
		return nested.LinkByName(rest)
	}
	for _, l := range m.links {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// ModelByName returns the named nested model, descending through "::"
// scoped names.
func (m *Model) ModelByName(name string) *Model {
	if name == "" {
		return nil
	}
	first, rest := shared.FirstScopeOf(name)
	if first == "" {
		for _, nested := range m.models {
			if nested.Name() == name {
				return nested
			}
		}
		return nil
	}
	for _, nested := range m.models {
		if nested.Name() == first {
			return nested.ModelByName(rest)
		}
	}
	return nil
}

// JointByName returns the named joint, or nil.
func (m *Model) JointByName(name string) *Joint {
	for _, j := range m.joints {
		if j.Name() == name {
			return j
		}
	}
	return nil
}

// FrameByName returns the named explicit frame, or nil.
func (m *Model) FrameByName(name string) *Frame {
	for _, f := range m.frames {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// Graphs returns this model's own scope graphs, nil before they are
// built.
func (m *Model) Graphs() *frames.ScopeGraphs { return m.scope }

// ResolveFrame computes the pose of source expressed in target inside
// this model's scope. Empty target means the model frame.
func (m *Model) ResolveFrame(source, target string) (pose.Pose3, types.Errors) {
	var errs types.Errors
	if m.scope == nil {
		errs.Addf(types.ErrorCodePoseRelativeToGraph,
			"model %q graphs not built", m.name)
		return pose.Identity(), errs
	}
	return m.scope.Resolve(source, target)
}

// SemanticPose resolves the model frame's pose in the enclosing scope.
// Only models owned by a world or another model carry a parent handle.
func (m *Model) SemanticPose(relativeTo string) (pose.Pose3, types.Errors) {
	return m.parentHandle.resolve(relativeTo)
}

// ToElement reconstructs a schema-conforming <model> element.
func (m *Model) ToElement() *element.Element {
	inst := newInstance("model")
	_ = inst.SetAttribute("name", m.name)
	if m.canonicalLink != "" {
		_ = inst.SetAttribute("canonical_link", m.canonicalLink)
	}
	if m.placementFrame != "" {
		_ = inst.SetAttribute("placement_frame", m.placementFrame)
	}
	if m.static {
		_ = inst.SetChildValue("static", "true")
	}
	if m.selfCollide {
		_ = inst.SetChildValue("self_collide", "true")
	}
	if m.enableWind {
		_ = inst.SetChildValue("enable_wind", "true")
	}
	if !m.allowAutoDisable {
		_ = inst.SetChildValue("allow_auto_disable", "false")
	}
	writePose(inst, m.rawPose, m.relativeTo)
	for _, l := range m.links {
		inst.InsertElement(l.ToElement(), true)
	}
	for _, j := range m.joints {
		inst.InsertElement(j.ToElement(), true)
	}
	for _, f := range m.frames {
		inst.InsertElement(f.ToElement(), true)
	}
	for _, nested := range m.models {
		inst.InsertElement(nested.ToElement(), true)
	}
	for _, p := range m.plugins {
		inst.InsertElement(p.Copy(), true)
	}
	return inst
}
