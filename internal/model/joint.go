package model

import (
	"gonum.org/v1/gonum/spatial/r3"

	"sdformat/internal/element"
	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// JointAxis describes one axis of motion: a direction, the frame the
// direction is expressed in, and limits.
type JointAxis struct {
	XYZ         r3.Vec
	ExpressedIn string
	Lower       float64
	Upper       float64
	Effort      float64
	Velocity    float64
	Damping     float64
	Friction    float64
}

// Joint is a kinematic constraint between a parent and a child frame.
type Joint struct {
	name       string
	kind       types.JointType
	parentName string
	childName  string
	rawPose    pose.Pose3
	relativeTo string
	axis       *JointAxis
	axis2      *JointAxis

	elem   *element.Element
	handle graphHandle
}

// LoadJoint reads a <joint> element. Parent and child names are taken
// verbatim here; resolving them against the scope happens when the
// graphs are built.
func LoadJoint(el *element.Element) (*Joint, types.Errors) {
	var errs types.Errors
	j := &Joint{elem: el}
	j.name = nameAttr(el)
	if j.name == "" {
		errs.Add(errAt(el, types.ErrorCodeAttributeMissing, "joint requires a name"))
	}
	if a := el.GetAttribute("type"); a != nil {
		kind, ok := types.ParseJointType(a.String())
		if !ok {
			errs.Add(errAt(el, types.ErrorCodeAttributeInvalid,
				"joint %q has unknown type %q", j.name, a.String()))
		}
		j.kind = kind
	}
	j.parentName, _ = el.GetString("parent", "")
	j.childName, _ = el.GetString("child", "")
	if j.parentName != "" && j.parentName == j.childName {
		errs.Add(errAt(el, types.ErrorCodeJointParentSameAsChild,
			"joint %q has %q as both parent and child", j.name, j.parentName))
	}
	j.rawPose, j.relativeTo = loadPose(el, &errs)
	j.axis = loadAxis(el.FindElement("axis"))
	j.axis2 = loadAxis(el.FindElement("axis2"))
	return j, errs
}

func loadAxis(el *element.Element) *JointAxis {
	if el == nil {
		return nil
	}
	axis := &JointAxis{XYZ: r3.Vec{Z: 1}}
	if xyz := el.FindElement("xyz"); xyz != nil {
		if v, err := xyz.Value().Vector3(); err == nil {
			axis.XYZ = v
		}
		if a := xyz.GetAttribute("expressed_in"); a != nil {
			axis.ExpressedIn = a.String()
		}
	}
	if limit := el.FindElement("limit"); limit != nil {
		axis.Lower, _ = limit.GetFloat("lower", axis.Lower)
		axis.Upper, _ = limit.GetFloat("upper", axis.Upper)
		axis.Effort, _ = limit.GetFloat("effort", axis.Effort)
		axis.Velocity, _ = limit.GetFloat("velocity", axis.Velocity)
	}
	if dyn := el.FindElement("dynamics"); dyn != nil {
		axis.Damping, _ = dyn.GetFloat("damping", 0)
		axis.Friction, _ = dyn.GetFloat("friction", 0)
	}
	return axis
}

func (j *Joint) Name() string              { return j.name }
func (j *Joint) Type() types.JointType     { return j.kind }
func (j *Joint) ParentName() string        { return j.parentName }
func (j *Joint) ChildName() string         { return j.childName }
func (j *Joint) RawPose() pose.Pose3       { return j.rawPose }
func (j *Joint) PoseRelativeTo() string    { return j.relativeTo }
func (j *Joint) Axis() *JointAxis          { return j.axis }
func (j *Joint) Axis2() *JointAxis         { return j.axis2 }
func (j *Joint) Element() *element.Element { return j.elem }

func (j *Joint) SetName(name string)          { j.name = name }
func (j *Joint) SetType(kind types.JointType) { j.kind = kind }
func (j *Joint) SetParentName(name string)    { j.parentName = name }
func (j *Joint) SetChildName(name string)     { j.childName = name }
func (j *Joint) SetRawPose(p pose.Pose3)      { j.rawPose = p }
func (j *Joint) SetPoseRelativeTo(ref string) { j.relativeTo = ref }

// SemanticPose resolves this joint's pose in the target frame through
// the enclosing scope graph.
func (j *Joint) SemanticPose(relativeTo string) (pose.Pose3, types.Errors) {
	return j.handle.resolve(relativeTo)
}

// ToElement reconstructs a schema-conforming <joint> element.
func (j *Joint) ToElement() *element.Element {
	inst := newInstance("model", "joint")
	_ = inst.SetAttribute("name", j.name)
	_ = inst.SetAttribute("type", string(j.kind))
	_ = inst.SetChildValue("parent", j.parentName)
	_ = inst.SetChildValue("child", j.childName)
	writePose(inst, j.rawPose, j.relativeTo)
	writeAxis(inst, "axis", j.axis)
	writeAxis(inst, "axis2", j.axis2)
	return inst
}

func writeAxis(inst *element.Element, name string, axis *JointAxis) {
	if axis == nil {
		return
	}
	el, err := inst.GetElement(name)
	if err != nil {
		return
	}
	if xyz, xerr := el.GetElement("xyz"); xerr == nil {
		_ = xyz.SetValue(pose.FormatVector3(axis.XYZ))
		if axis.ExpressedIn != "" {
			_ = xyz.SetAttribute("expressed_in", axis.ExpressedIn)
		}
	}
	if axis.Lower != 0 || axis.Upper != 0 {
		if limit, lerr := el.GetElement("limit"); lerr == nil {
			_ = limit.SetChildValue("lower", formatFloat(axis.Lower))
			_ = limit.SetChildValue("upper", formatFloat(axis.Upper))
		}
	}
}
