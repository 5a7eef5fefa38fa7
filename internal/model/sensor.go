package model

import (
	"sdformat/internal/element"
	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// Sensor is a sensor attached to a link or joint. The object model
// carries the common sensor header; sensor-kind payloads stay in the
// element tree.
type Sensor struct {
	name       string
	kind       types.SensorType
	alwaysOn   bool
	updateRate float64
	visualize  bool
	topic      string
	rawPose    pose.Pose3
	relativeTo string

	elem   *element.Element
	handle graphHandle
}

// LoadSensor reads a <sensor> element.
func LoadSensor(el *element.Element) (*Sensor, types.Errors) {
	var errs types.Errors
	s := &Sensor{elem: el}
	s.name = nameAttr(el)
	if s.name == "" {
		errs.Add(errAt(el, types.ErrorCodeAttributeMissing, "sensor requires a name"))
	}
	if a := el.GetAttribute("type"); a != nil {
		s.kind = types.SensorType(a.String())
	}
	s.alwaysOn, _ = el.GetBool("always_on", false)
	s.updateRate, _ = el.GetFloat("update_rate", 0)
	s.visualize, _ = el.GetBool("visualize", false)
	s.topic, _ = el.GetString("topic", "")
	s.rawPose, s.relativeTo = loadPose(el, &errs)
	return s, errs
}

func (s *Sensor) Name() string              { return s.name }
func (s *Sensor) Type() types.SensorType    { return s.kind }
func (s *Sensor) AlwaysOn() bool            { return s.alwaysOn }
func (s *Sensor) UpdateRate() float64       { return s.updateRate }
func (s *Sensor) Visualize() bool           { return s.visualize }
func (s *Sensor) Topic() string             { return s.topic }
func (s *Sensor) RawPose() pose.Pose3       { return s.rawPose }
func (s *Sensor) PoseRelativeTo() string    { return s.relativeTo }
func (s *Sensor) Element() *element.Element { return s.elem }

func (s *Sensor) SetName(name string)           { s.name = name }
func (s *Sensor) SetType(kind types.SensorType) { s.kind = kind }
func (s *Sensor) SetUpdateRate(rate float64)    { s.updateRate = rate }
func (s *Sensor) SetTopic(topic string)         { s.topic = topic }

// ToElement reconstructs a schema-conforming <sensor> element.
func (s *Sensor) ToElement() *element.Element {
	inst := newInstance("model", "link", "sensor")
	_ = inst.SetAttribute("name", s.name)
	_ = inst.SetAttribute("type", string(s.kind))
	if s.alwaysOn {
		_ = inst.SetChildValue("always_on", "true")
	}
	if s.updateRate != 0 {
		_ = inst.SetChildValue("update_rate", formatFloat(s.updateRate))
	}
	if s.visualize {
		_ = inst.SetChildValue("visualize", "true")
	}
	if s.topic != "" {
		_ = inst.SetChildValue("topic", s.topic)
	}
	writePose(inst, s.rawPose, s.relativeTo)
	return inst
}
