package model

import (
	"sdformat/internal/element"
	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// Visual is one piece of render geometry owned by a link.
type Visual struct {
	name         string
	castShadows  bool
	transparency float64
	rawPose      pose.Pose3
	relativeTo   string
	material     *Material

	// geometry is kept as an element subtree; the object model does not
	// interpret shapes.
	geometry *element.Element

	elem   *element.Element
	handle graphHandle
}

// LoadVisual reads a <visual> element.
func LoadVisual(el *element.Element) (*Visual, types.Errors) {
	var errs types.Errors
	v := &Visual{elem: el, castShadows: true}
	v.name = nameAttr(el)
	if v.name == "" {
		errs.Add(errAt(el, types.ErrorCodeAttributeMissing, "visual requires a name"))
	}
	v.castShadows, _ = el.GetBool("cast_shadows", true)
	v.transparency, _ = el.GetFloat("transparency", 0)
	v.rawPose, v.relativeTo = loadPose(el, &errs)
	if g := el.FindElement("geometry"); g != nil {
		v.geometry = g.Copy()
	}
	if m := el.FindElement("material"); m != nil {
		mat, merrs := LoadMaterial(m)
		errs.Merge(merrs)
		v.material = mat
	}
	return v, errs
}

func (v *Visual) Name() string              { return v.name }
func (v *Visual) CastShadows() bool         { return v.castShadows }
func (v *Visual) Transparency() float64     { return v.transparency }
func (v *Visual) RawPose() pose.Pose3       { return v.rawPose }
func (v *Visual) PoseRelativeTo() string    { return v.relativeTo }
func (v *Visual) Material() *Material       { return v.material }
func (v *Visual) Geometry() *element.Element { return v.geometry }
func (v *Visual) Element() *element.Element { return v.elem }

func (v *Visual) SetName(name string)          { v.name = name }
func (v *Visual) SetRawPose(p pose.Pose3)      { v.rawPose = p }
func (v *Visual) SetPoseRelativeTo(ref string) { v.relativeTo = ref }

// ToElement reconstructs a schema-conforming <visual> element.
func (v *Visual) ToElement() *element.Element {
	inst := newInstance("model", "link", "visual")
	_ = inst.SetAttribute("name", v.name)
	if !v.castShadows {
		_ = inst.SetChildValue("cast_shadows", "false")
	}
	if v.transparency != 0 {
		_ = inst.SetChildValue("transparency", formatFloat(v.transparency))
	}
	writePose(inst, v.rawPose, v.relativeTo)
	if v.geometry != nil {
		inst.InsertElement(v.geometry.Copy(), true)
	} else if g, err := inst.GetElement("geometry"); err == nil {
		_, _ = g.AddElement("empty")
	}
	if v.material != nil {
		inst.InsertElement(v.material.ToElement(), true)
	}
	return inst
}
