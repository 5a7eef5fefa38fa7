package model

import (
	"context"

	"sdformat/internal/frames"
	"sdformat/internal/pose"
	"sdformat/internal/shared"
	"sdformat/internal/types"
)

// BuildModelGraphs constructs, validates and installs the two scope
// graphs of a model: the frame-attached-to graph and the
// pose-relative-to graph. Nested models are built first so that
// placement-frame composition can resolve against their scopes.
func BuildModelGraphs(m *Model) (*frames.ScopeGraphs, types.Errors) {
	var errs types.Errors
	g := frames.NewScope(shared.FrameModel)

	for _, l := range m.links {
		if _, err := g.AddVertex(l.Name(), frames.KindLink); err != nil {
			errs.Add(errAt(l.elem, types.ErrorCodeDuplicateName, "%v", err))
		}
	}
	for _, j := range m.joints {
		if _, err := g.AddVertex(j.Name(), frames.KindJoint); err != nil {
			errs.Add(errAt(j.elem, types.ErrorCodeDuplicateName, "%v", err))
		}
	}
	for _, f := range m.frames {
		if _, err := g.AddVertex(f.Name(), frames.KindFrame); err != nil {
			errs.Add(errAt(f.elem, types.ErrorCodeDuplicateName, "%v", err))
		}
	}
	for _, nested := range m.models {
		if _, err := g.AddVertex(nested.Name(), frames.KindModel); err != nil {
			errs.Add(errAt(nested.elem, types.ErrorCodeDuplicateName, "%v", err))
		}
		_, nerrs := BuildModelGraphs(nested)
		errs.Merge(nerrs)
	}

	// resolveRef maps a frame reference onto a vertex of this scope. A
	// scoped name like "sub::link" resolves to the nested-model vertex;
	// the remainder is the nested scope's concern.
	resolveRef := func(name string) (frames.Vertex, bool) {
		if shared.HasScopeDelimiter(name) {
			first, _ := shared.FirstScopeOf(name)
			return g.VertexByName(first)
		}
		return g.VertexByName(name)
	}

	// Attachment edges. Links are their own sinks; nested models sink
	// into their own scopes.
	for _, f := range m.frames {
		fv, _ := g.VertexByName(f.Name())
		if f.AttachedTo() == "" {
			g.SetAttachedTo(fv.ID, g.RootID())
			continue
		}
		target, ok := resolveRef(f.AttachedTo())
		if !ok {
			errs.Add(errAt(f.elem, types.ErrorCodeFrameAttachedToInvalid,
				"frame %q is attached to unknown entity %q", f.Name(), f.AttachedTo()))
			continue
		}
		g.SetAttachedTo(fv.ID, target.ID)
	}
	for _, j := range m.joints {
		jv, _ := g.VertexByName(j.Name())
		child, childOK := resolveRef(j.ChildName())
		if !childOK {
			errs.Add(errAt(j.elem, types.ErrorCodeJointChildLinkInvalid,
				"joint %q child %q not found in model %q", j.Name(), j.ChildName(), m.name))
		} else {
			g.SetAttachedTo(jv.ID, child.ID)
		}
		if j.ParentName() != shared.FrameWorld {
			parent, parentOK := resolveRef(j.ParentName())
			if !parentOK {
				errs.Add(errAt(j.elem, types.ErrorCodeJointParentLinkInvalid,
					"joint %q parent %q not found in model %q", j.Name(), j.ParentName(), m.name))
			} else if childOK && parent.ID == child.ID {
				errs.Add(errAt(j.elem, types.ErrorCodeJointParentSameAsChild,
					"joint %q parent and child resolve to the same entity", j.Name()))
			}
		}
	}
	if canonical := m.CanonicalLinkName(); canonical != "" {
		if m.LinkByName(canonical) == nil {
			errs.Add(errAt(m.elem, types.ErrorCodeModelCanonicalLinkInvalid,
				"canonical link %q not found in model %q", canonical, m.name))
		} else if v, ok := resolveRef(canonical); ok {
			g.SetAttachedTo(g.RootID(), v.ID)
		}
	}

	// Pose edges.
	for _, l := range m.links {
		lv, _ := g.VertexByName(l.Name())
		m.installEdge(g, &errs, lv.ID, l.rawPose, l.relativeTo, g.RootID(),
			errAt(l.elem, types.ErrorCodePoseRelativeToInvalid,
				"link %q pose is relative to unknown frame %q", l.Name(), l.relativeTo))
	}
	for _, f := range m.frames {
		fv, _ := g.VertexByName(f.Name())
		m.installEdge(g, &errs, fv.ID, f.rawPose, f.relativeTo, g.RootID(),
			errAt(f.elem, types.ErrorCodePoseRelativeToInvalid,
				"frame %q pose is relative to unknown frame %q", f.Name(), f.relativeTo))
	}
	for _, j := range m.joints {
		jv, _ := g.VertexByName(j.Name())
		fallback := g.RootID()
		if child, ok := resolveRef(j.ChildName()); ok {
			// Joint poses default to the child link frame.
			fallback = child.ID
		}
		m.installEdge(g, &errs, jv.ID, j.rawPose, j.relativeTo, fallback,
			errAt(j.elem, types.ErrorCodePoseRelativeToInvalid,
				"joint %q pose is relative to unknown frame %q", j.Name(), j.relativeTo))
	}
	for _, nested := range m.models {
		nv, _ := g.VertexByName(nested.Name())
		edgePose, ok := placementAdjustedPose(nested, &errs)
		if !ok {
			continue
		}
		m.installEdge(g, &errs, nv.ID, edgePose, nested.relativeTo, g.RootID(),
			errAt(nested.elem, types.ErrorCodePoseRelativeToInvalid,
				"model %q pose is relative to unknown frame %q", nested.Name(), nested.relativeTo))
	}

	errs.Merge(g.ValidateAttachedTo())
	errs.Merge(g.ValidatePoseGraph())
	if !errs.Fatal() {
		g.AssertValidated(context.Background())
	}

	m.scope = g
	for _, l := range m.links {
		l.handle = graphHandle{graphs: g, vertex: l.Name()}
	}
	for _, j := range m.joints {
		j.handle = graphHandle{graphs: g, vertex: j.Name()}
	}
	for _, f := range m.frames {
		f.handle = graphHandle{graphs: g, vertex: f.Name()}
	}
	for _, nested := range m.models {
		nested.parentHandle = graphHandle{graphs: g, vertex: nested.Name()}
	}
	return g, errs
}

// installEdge resolves the relative_to reference and installs the pose
// edge, reporting notFound when the reference names nothing.
func (m *Model) installEdge(g *frames.ScopeGraphs, errs *types.Errors, from int, raw pose.Pose3, relativeTo string, fallback int, notFound types.Error) {
	if relativeTo == "" {
		g.SetPoseEdge(from, fallback, raw)
		return
	}
	target, ok := resolveScoped(g, relativeTo)
	if !ok {
		errs.Add(notFound)
		return
	}
	g.SetPoseEdge(from, target.ID, raw)
}

func resolveScoped(g *frames.ScopeGraphs, name string) (frames.Vertex, bool) {
	if shared.HasScopeDelimiter(name) {
		first, _ := shared.FirstScopeOf(name)
		return g.VertexByName(first)
	}
	return g.VertexByName(name)
}

// placementAdjustedPose returns the pose edge value for a model vertex
// in its enclosing scope. With a placement frame set, the raw pose is
// the placement frame expressed in relative_to, so the model frame pose
// is derived by composing with the placement frame's pose inside the
// model. The model's own graphs must already be built.
func placementAdjustedPose(m *Model, errs *types.Errors) (pose.Pose3, bool) {
	if m.placementFrame == "" {
		return m.rawPose, true
	}
	if m.scope == nil {
		errs.Add(errAt(m.elem, types.ErrorCodeModelPlacementFrameInvalid,
			"model %q placement frame cannot be resolved before its graphs are built", m.name))
		return pose.Identity(), false
	}
	pf, pfErrs := m.scope.Resolve(m.placementFrame, "")
	if pfErrs.Fatal() {
		errs.Add(errAt(m.elem, types.ErrorCodeModelPlacementFrameInvalid,
			"placement frame %q not found in model %q", m.placementFrame, m.name))
		return pose.Identity(), false
	}
	return m.rawPose.Mul(pf.Inverse()), true
}

// BuildWorldGraphs constructs, validates and installs the scope graphs
// of a world. Each world-level model's own graphs are built first.
func BuildWorldGraphs(w *World) (*frames.ScopeGraphs, types.Errors) {
	var errs types.Errors
	g := frames.NewScope(shared.FrameWorld)

	for _, m := range w.models {
		if _, err := g.AddVertex(m.Name(), frames.KindModel); err != nil {
			errs.Add(errAt(m.elem, types.ErrorCodeDuplicateName, "%v", err))
		}
		_, merrs := BuildModelGraphs(m)
		errs.Merge(merrs)
	}
	for _, f := range w.frames {
		if _, err := g.AddVertex(f.Name(), frames.KindFrame); err != nil {
			errs.Add(errAt(f.elem, types.ErrorCodeDuplicateName, "%v", err))
		}
	}
	for _, l := range w.lights {
		if _, err := g.AddVertex(l.Name(), frames.KindLight); err != nil {
			errs.Add(errAt(l.elem, types.ErrorCodeDuplicateName, "%v", err))
		}
	}

	for _, f := range w.frames {
		fv, _ := g.VertexByName(f.Name())
		if f.AttachedTo() == "" {
			g.SetAttachedTo(fv.ID, g.RootID())
			continue
		}
		target, ok := resolveScoped(g, f.AttachedTo())
		if !ok {
			errs.Add(errAt(f.elem, types.ErrorCodeFrameAttachedToInvalid,
				"frame %q is attached to unknown entity %q", f.Name(), f.AttachedTo()))
			continue
		}
		g.SetAttachedTo(fv.ID, target.ID)
	}

	for _, m := range w.models {
		mv, _ := g.VertexByName(m.Name())
		edgePose, ok := placementAdjustedPose(m, &errs)
		if !ok {
			continue
		}
		if m.relativeTo == "" {
			g.SetPoseEdge(mv.ID, g.RootID(), edgePose)
		} else if target, found := resolveScoped(g, m.relativeTo); found {
			g.SetPoseEdge(mv.ID, target.ID, edgePose)
		} else {
			errs.Add(errAt(m.elem, types.ErrorCodePoseRelativeToInvalid,
				"model %q pose is relative to unknown frame %q", m.Name(), m.relativeTo))
		}
	}
	for _, f := range w.frames {
		fv, _ := g.VertexByName(f.Name())
		if f.relativeTo == "" {
			g.SetPoseEdge(fv.ID, g.RootID(), f.rawPose)
		} else if target, found := resolveScoped(g, f.relativeTo); found {
			g.SetPoseEdge(fv.ID, target.ID, f.rawPose)
		} else {
			errs.Add(errAt(f.elem, types.ErrorCodePoseRelativeToInvalid,
				"frame %q pose is relative to unknown frame %q", f.Name(), f.relativeTo))
		}
	}
	for _, l := range w.lights {
		lv, _ := g.VertexByName(l.Name())
		if l.relativeTo == "" {
			g.SetPoseEdge(lv.ID, g.RootID(), l.rawPose)
		} else if target, found := resolveScoped(g, l.relativeTo); found {
			g.SetPoseEdge(lv.ID, target.ID, l.rawPose)
		} else {
			errs.Add(errAt(l.elem, types.ErrorCodePoseRelativeToInvalid,
				"light %q pose is relative to unknown frame %q", l.Name(), l.relativeTo))
		}
	}

	errs.Merge(g.ValidateAttachedTo())
	errs.Merge(g.ValidatePoseGraph())
	if !errs.Fatal() {
		g.AssertValidated(context.Background())
	}

	w.scope = g
	for _, f := range w.frames {
		f.handle = graphHandle{graphs: g, vertex: f.Name()}
	}
	for _, l := range w.lights {
		l.handle = graphHandle{graphs: g, vertex: l.Name()}
	}
	for _, m := range w.models {
		m.parentHandle = graphHandle{graphs: g, vertex: m.Name()}
	}
	return g, errs
}
