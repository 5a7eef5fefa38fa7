package model

import (
	"sdformat/internal/element"
	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// Frame is an explicit named coordinate frame. An empty attached_to
// means the frame is attached to its enclosing scope.
type Frame struct {
	name       string
	attachedTo string
	rawPose    pose.Pose3
	relativeTo string

	elem   *element.Element
	handle graphHandle
}

// LoadFrame reads a <frame> element.
func LoadFrame(el *element.Element) (*Frame, types.Errors) {
	var errs types.Errors
	f := &Frame{elem: el}
	f.name = nameAttr(el)
	if f.name == "" {
		errs.Add(errAt(el, types.ErrorCodeAttributeMissing, "frame requires a name"))
	}
	if a := el.GetAttribute("attached_to"); a != nil {
		f.attachedTo = a.String()
	}
	f.rawPose, f.relativeTo = loadPose(el, &errs)
	return f, errs
}

func (f *Frame) Name() string              { return f.name }
func (f *Frame) AttachedTo() string        { return f.attachedTo }
func (f *Frame) RawPose() pose.Pose3       { return f.rawPose }
func (f *Frame) PoseRelativeTo() string    { return f.relativeTo }
func (f *Frame) Element() *element.Element { return f.elem }

func (f *Frame) SetName(name string)          { f.name = name }
func (f *Frame) SetAttachedTo(target string)  { f.attachedTo = target }
func (f *Frame) SetRawPose(p pose.Pose3)      { f.rawPose = p }
func (f *Frame) SetPoseRelativeTo(ref string) { f.relativeTo = ref }

// ResolveAttachedTo walks the attachment graph and returns the body
// this frame is ultimately attached to.
func (f *Frame) ResolveAttachedTo() (string, types.Errors) {
	var errs types.Errors
	if f.handle.graphs == nil {
		errs.Addf(types.ErrorCodeFrameAttachedToGraph,
			"frame %q has no scope graph; load the enclosing model or world first", f.name)
		return "", errs
	}
	return f.handle.graphs.ResolveAttachedTo(f.name)
}

// SemanticPose resolves this frame's pose in the target frame through
// the enclosing scope graph.
func (f *Frame) SemanticPose(relativeTo string) (pose.Pose3, types.Errors) {
	return f.handle.resolve(relativeTo)
}

// ToElement reconstructs a schema-conforming <frame> element.
func (f *Frame) ToElement() *element.Element {
	inst := newInstance("model", "frame")
	_ = inst.SetAttribute("name", f.name)
	if f.attachedTo != "" {
		_ = inst.SetAttribute("attached_to", f.attachedTo)
	}
	writePose(inst, f.rawPose, f.relativeTo)
	return inst
}
