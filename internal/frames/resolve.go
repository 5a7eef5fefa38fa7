package frames

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"

	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// ResolveAttachedTo walks the attachment graph from the named entity
// and returns the name of the sink it terminates at.
func (g *ScopeGraphs) ResolveAttachedTo(name string) (string, types.Errors) {
	var errs types.Errors
	v, ok := g.VertexByName(name)
	if !ok {
		errs.Addf(types.ErrorCodeFrameUnknown,
			"no entity named %q in scope %q", name, g.scopeName)
		return "", errs
	}
	seen := map[int]bool{}
	cur := v.ID
	for {
		if seen[cur] {
			errs.Addf(types.ErrorCodeFrameAttachedToCycle,
				"attached_to cycle while resolving %q", name)
			return "", errs
		}
		seen[cur] = true
		next, ok := g.attachedTo[cur]
		if !ok {
			return g.name(cur), nil
		}
		cur = next
	}
}

// Resolve computes the pose of source expressed in target by walking
// the validated pose graph. An empty target means the scope root.
func (g *ScopeGraphs) Resolve(source, target string) (pose.Pose3, types.Errors) {
	var errs types.Errors
	src, ok := g.VertexByName(source)
	if !ok {
		errs.Addf(types.ErrorCodeFrameUnknown,
			"no entity named %q in scope %q", source, g.scopeName)
		return pose.Identity(), errs
	}
	if target == "" {
		target = g.scopeName
	}
	tgt, ok := g.VertexByName(target)
	if !ok {
		errs.Addf(types.ErrorCodeFrameUnknown,
			"no entity named %q in scope %q", target, g.scopeName)
		return pose.Identity(), errs
	}
	if src.ID == tgt.ID {
		return pose.Identity(), nil
	}

	srcToRoot, srcErrs := g.poseToRoot(src.ID)
	errs.Merge(srcErrs)
	tgtToRoot, tgtErrs := g.poseToRoot(tgt.ID)
	errs.Merge(tgtErrs)
	if errs.Fatal() {
		return pose.Identity(), errs
	}
	return tgtToRoot.Inverse().Mul(srcToRoot), errs
}

// poseToRoot composes the pose of a vertex expressed in the scope root.
func (g *ScopeGraphs) poseToRoot(id int) (pose.Pose3, types.Errors) {
	var errs types.Errors
	acc := pose.Identity()
	seen := map[int]bool{}
	cur := id
	for cur != g.rootID {
		if seen[cur] {
			errs.Addf(types.ErrorCodePoseRelativeToCycle,
				"relative_to cycle while resolving %q", g.name(id))
			return pose.Identity(), errs
		}
		seen[cur] = true
		e, ok := g.relTo[cur]
		if !ok {
			errs.Addf(types.ErrorCodePoseRelativeToGraph,
				"%q does not reach the scope root", g.name(id))
			return pose.Identity(), errs
		}
		acc = e.pose.Mul(acc)
		cur = e.to
	}
	return acc, nil
}

// AssertValidated panics (via assert-lib) when called on graphs that do
// not satisfy the post-validation invariants. Callers run it after
// Validate* before handing graphs to entities.
func (g *ScopeGraphs) AssertValidated(ctx context.Context) {
	assert.NotEmpty(ctx, g.scopeName, "scope name must be set")
	for _, v := range g.arena.verts {
		if v.ID == g.rootID {
			continue
		}
		_, _, ok := g.PoseEdge(v.ID)
		assert.Assert(ctx, ok || v.Kind == KindScopeRoot,
			"validated vertex must carry a pose edge")
	}
}
