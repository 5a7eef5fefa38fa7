package frames

import (
	"sdformat/internal/types"
)

// ValidateAttachedTo checks the frame-attached-to graph: every walk
// must terminate, without revisiting a vertex, at a sink the scope
// accepts (a link or nested model in a model scope; the root, a model
// or a light in a world scope).
func (g *ScopeGraphs) ValidateAttachedTo() types.Errors {
	var errs types.Errors
	for _, v := range g.arena.verts {
		seen := map[int]bool{}
		cur := v.ID
		for {
			if seen[cur] {
				errs.Addf(types.ErrorCodeFrameAttachedToCycle,
					"attached_to cycle detected starting from %q in scope %q",
					v.Name, g.scopeName)
				break
			}
			seen[cur] = true
			next, ok := g.attachedTo[cur]
			if !ok {
				if !g.isAttachmentSink(cur) {
					errs.Addf(types.ErrorCodeFrameAttachedToGraph,
						"walk from %q ends at %q, which cannot carry an attachment in scope %q",
						v.Name, g.name(cur), g.scopeName)
				}
				break
			}
			cur = next
		}
	}
	return errs
}

// isAttachmentSink reports whether a vertex without an outgoing
// attachment edge is a legal terminal.
func (g *ScopeGraphs) isAttachmentSink(id int) bool {
	v := g.arena.verts[id]
	if g.scopeName == "world" {
		// Worlds terminate at the world root, at models (which resolve
		// internally) and at lights.
		return v.Kind == KindScopeRoot || v.Kind == KindModel || v.Kind == KindLight
	}
	// Model scopes terminate at links and at nested models. The root
	// itself is a legal terminal only when no canonical-link edge was
	// installed (a static model without links).
	return v.Kind == KindLink || v.Kind == KindModel || v.Kind == KindScopeRoot
}

// ValidatePoseGraph checks the pose-relative-to graph: acyclic, and
// every vertex transitively reaches the scope root.
func (g *ScopeGraphs) ValidatePoseGraph() types.Errors {
	var errs types.Errors
	for _, v := range g.arena.verts {
		if v.ID == g.rootID {
			continue
		}
		seen := map[int]bool{}
		cur := v.ID
		for cur != g.rootID {
			if seen[cur] {
				errs.Addf(types.ErrorCodePoseRelativeToCycle,
					"relative_to cycle detected starting from %q in scope %q",
					v.Name, g.scopeName)
				break
			}
			seen[cur] = true
			e, ok := g.relTo[cur]
			if !ok {
				errs.Addf(types.ErrorCodePoseRelativeToGraph,
					"%q does not reach the scope root %q", v.Name, g.scopeName)
				break
			}
			cur = e.to
		}
	}
	return errs
}
