package model

import (
	"sdformat/internal/element"
	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// Collision is one piece of contact geometry owned by a link.
type Collision struct {
	name       string
	laserRetro float64
	rawPose    pose.Pose3
	relativeTo string
	geometry   *element.Element

	elem   *element.Element
	handle graphHandle
}

// LoadCollision reads a <collision> element.
func LoadCollision(el *element.Element) (*Collision, types.Errors) {
	var errs types.Errors
	c := &Collision{elem: el}
	c.name = nameAttr(el)
	if c.name == "" {
		errs.Add(errAt(el, types.ErrorCodeAttributeMissing, "collision requires a name"))
	}
	c.laserRetro, _ = el.GetFloat("laser_retro", 0)
	c.rawPose, c.relativeTo = loadPose(el, &errs)
	if g := el.FindElement("geometry"); g != nil {
		c.geometry = g.Copy()
	}
	return c, errs
}

func (c *Collision) Name() string               { return c.name }
func (c *Collision) LaserRetro() float64        { return c.laserRetro }
func (c *Collision) RawPose() pose.Pose3        { return c.rawPose }
func (c *Collision) PoseRelativeTo() string     { return c.relativeTo }
func (c *Collision) Geometry() *element.Element { return c.geometry }
func (c *Collision) Element() *element.Element  { return c.elem }

func (c *Collision) SetName(name string)          { c.name = name }
func (c *Collision) SetRawPose(p pose.Pose3)      { c.rawPose = p }
func (c *Collision) SetPoseRelativeTo(ref string) { c.relativeTo = ref }

// ToElement reconstructs a schema-conforming <collision> element.
func (c *Collision) ToElement() *element.Element {
	inst := newInstance("model", "link", "collision")
	_ = inst.SetAttribute("name", c.name)
	if c.laserRetro != 0 {
		_ = inst.SetChildValue("laser_retro", formatFloat(c.laserRetro))
	}
	writePose(inst, c.rawPose, c.relativeTo)
	if c.geometry != nil {
		inst.InsertElement(c.geometry.Copy(), true)
	} else if g, err := inst.GetElement("geometry"); err == nil {
		_, _ = g.AddElement("empty")
	}
	return inst
}
