// Package model is the typed domain object model loaded from the
// element tree: Root, World, Model, Link, Joint, Frame and the leaf
// entities they own. Entities keep a back-reference to their source
// element for diagnostics and, once the scope graphs are built, a
// handle they use to answer pose queries.
package model

import (
	"fmt"
	"strconv"

	"sdformat/internal/element"
	"sdformat/internal/frames"
	"sdformat/internal/pose"
	"sdformat/internal/schema"
	"sdformat/internal/types"
)

// descriptor walks the current schema description along the named child
// chain, starting below the <sdf> root.
func descriptor(path ...string) *element.Element {
	cur, err := schema.Load(schema.CurrentVersion)
	if err != nil {
		return nil
	}
	for _, name := range path {
		cur = cur.FindElement(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// newInstance clones a fresh instance of the named description. The
// embedded schema is assumed loadable; a broken path degrades to a bare
// element so ToElement never returns nil.
func newInstance(path ...string) *element.Element {
	desc := descriptor(path...)
	if desc == nil {
		name := "sdf"
		if len(path) > 0 {
			name = path[len(path)-1]
		}
		return element.New(name)
	}
	return desc.Instantiate()
}

// errAt builds a diagnostic located at the element's source position.
func errAt(el *element.Element, code types.ErrorCode, format string, args ...any) types.Error {
	err := types.Error{Code: code, Message: fmt.Sprintf(format, args...)}
	if el != nil {
		err.FilePath = el.FilePath()
		err.XMLPath = el.XMLPath()
		err.Line = el.Line()
	}
	return err
}

// loadPose reads the entity's <pose> child: the raw pose honoring the
// degrees and rotation_format attributes, plus the relative_to frame.
func loadPose(el *element.Element, errs *types.Errors) (pose.Pose3, string) {
	poseEl := el.FindElement("pose")
	if poseEl == nil {
		return pose.Identity(), ""
	}
	relativeTo := ""
	if a := poseEl.GetAttribute("relative_to"); a != nil {
		relativeTo = a.String()
	}
	degrees := false
	if a := poseEl.GetAttribute("degrees"); a != nil {
		degrees, _ = a.Bool()
	}
	format := ""
	if a := poseEl.GetAttribute("rotation_format"); a != nil && a.WasSet() {
		format = a.String()
	}
	text := ""
	if poseEl.Value() != nil {
		text = poseEl.Value().String()
	}
	raw, err := pose.ParsePoseText(text, degrees, format)
	if err != nil {
		errs.Add(errAt(poseEl, types.ErrorCodeElementIncorrectType, "pose value: %v", err))
		return pose.Identity(), relativeTo
	}
	return raw, relativeTo
}

// writePose adds a <pose> child to inst when the pose carries
// information worth serializing.
func writePose(inst *element.Element, raw pose.Pose3, relativeTo string) {
	if relativeTo == "" && raw.Equal(pose.Identity(), 1e-12) {
		return
	}
	poseEl, err := inst.GetElement("pose")
	if err != nil {
		return
	}
	_ = poseEl.SetValue(raw.String())
	if relativeTo != "" {
		_ = poseEl.SetAttribute("relative_to", relativeTo)
	}
}

// graphHandle is the scope-graph reference held by pose-bearing
// entities: the shared graphs of the enclosing scope plus the entity's
// vertex name. It is installed by the containing entity's loader after
// the graphs are built, never during the entity's own load.
type graphHandle struct {
	graphs *frames.ScopeGraphs
	vertex string
}

func (h graphHandle) resolve(relativeTo string) (pose.Pose3, types.Errors) {
	var errs types.Errors
	if h.graphs == nil {
		errs.Addf(types.ErrorCodePoseRelativeToGraph,
			"entity %q has no scope graph; load the enclosing model or world first", h.vertex)
		return pose.Identity(), errs
	}
	return h.graphs.Resolve(h.vertex, relativeTo)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func boolText(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// nameAttr reads the element's name attribute.
func nameAttr(el *element.Element) string {
	if a := el.GetAttribute("name"); a != nil {
		return a.String()
	}
	return ""
}
