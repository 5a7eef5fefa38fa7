package model

import (
	"gonum.org/v1/gonum/spatial/r3"

	"sdformat/internal/element"
	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// Light is a light source owned by a link, a model-free world, or the
// document root.
type Light struct {
	name        string
	kind        types.LightType
	castShadows bool
	intensity   float64
	visualize   bool
	diffuse     types.Color
	specular    types.Color
	direction   r3.Vec
	rawPose     pose.Pose3
	relativeTo  string

	// Attenuation parameters.
	attenuationRange     float64
	attenuationConstant  float64
	attenuationLinear    float64
	attenuationQuadratic float64

	// Spot parameters, meaningful when kind is spot.
	spotInnerAngle float64
	spotOuterAngle float64
	spotFalloff    float64

	elem   *element.Element
	handle graphHandle
}

// LoadLight reads a <light> element.
func LoadLight(el *element.Element) (*Light, types.Errors) {
	var errs types.Errors
	l := &Light{elem: el, kind: types.LightTypePoint}
	l.name = nameAttr(el)
	if l.name == "" {
		errs.Add(errAt(el, types.ErrorCodeAttributeMissing, "light requires a name"))
	}
	if a := el.GetAttribute("type"); a != nil && a.String() != "" {
		l.kind = types.LightType(a.String())
	}
	l.castShadows, _ = el.GetBool("cast_shadows", false)
	l.intensity, _ = el.GetFloat("intensity", 1)
	l.visualize, _ = el.GetBool("visualize", true)
	l.diffuse, _ = el.GetColor("diffuse", types.Color{R: 1, G: 1, B: 1, A: 1})
	l.specular, _ = el.GetColor("specular", types.Color{R: 0.1, G: 0.1, B: 0.1, A: 1})
	l.direction, _ = el.GetVector3("direction", r3.Vec{Z: -1})
	l.rawPose, l.relativeTo = loadPose(el, &errs)

	l.attenuationRange = 10
	l.attenuationConstant = 1
	l.attenuationLinear = 1
	if att := el.FindElement("attenuation"); att != nil {
		l.attenuationRange, _ = att.GetFloat("range", 10)
		l.attenuationConstant, _ = att.GetFloat("constant", 1)
		l.attenuationLinear, _ = att.GetFloat("linear", 1)
		l.attenuationQuadratic, _ = att.GetFloat("quadratic", 0)
	}
	if spot := el.FindElement("spot"); spot != nil {
		l.spotInnerAngle, _ = spot.GetFloat("inner_angle", 0)
		l.spotOuterAngle, _ = spot.GetFloat("outer_angle", 0)
		l.spotFalloff, _ = spot.GetFloat("falloff", 0)
	}
	return l, errs
}

func (l *Light) Name() string                  { return l.name }
func (l *Light) Type() types.LightType         { return l.kind }
func (l *Light) CastShadows() bool             { return l.castShadows }
func (l *Light) Intensity() float64            { return l.intensity }
func (l *Light) Visualize() bool               { return l.visualize }
func (l *Light) Diffuse() types.Color          { return l.diffuse }
func (l *Light) Specular() types.Color         { return l.specular }
func (l *Light) Direction() r3.Vec             { return l.direction }
func (l *Light) RawPose() pose.Pose3           { return l.rawPose }
func (l *Light) PoseRelativeTo() string        { return l.relativeTo }
func (l *Light) AttenuationRange() float64     { return l.attenuationRange }
func (l *Light) AttenuationConstant() float64  { return l.attenuationConstant }
func (l *Light) AttenuationLinear() float64    { return l.attenuationLinear }
func (l *Light) AttenuationQuadratic() float64 { return l.attenuationQuadratic }
func (l *Light) SpotInnerAngle() float64       { return l.spotInnerAngle }
func (l *Light) SpotOuterAngle() float64       { return l.spotOuterAngle }
func (l *Light) SpotFalloff() float64          { return l.spotFalloff }
func (l *Light) Element() *element.Element     { return l.elem }

func (l *Light) SetName(name string)          { l.name = name }
func (l *Light) SetType(kind types.LightType) { l.kind = kind }
func (l *Light) SetIntensity(v float64)       { l.intensity = v }
func (l *Light) SetRawPose(p pose.Pose3)      { l.rawPose = p }
func (l *Light) SetPoseRelativeTo(ref string) { l.relativeTo = ref }

// SemanticPose resolves this light's pose in the target frame through
// the scope graph. Only lights owned by a world carry a graph handle.
func (l *Light) SemanticPose(relativeTo string) (pose.Pose3, types.Errors) {
	return l.handle.resolve(relativeTo)
}

// ToElement reconstructs a schema-conforming <light> element.
func (l *Light) ToElement() *element.Element {
	inst := newInstance("light")
	_ = inst.SetAttribute("name", l.name)
	_ = inst.SetAttribute("type", string(l.kind))
	if l.castShadows {
		_ = inst.SetChildValue("cast_shadows", "true")
	}
	if l.intensity != 1 {
		_ = inst.SetChildValue("intensity", formatFloat(l.intensity))
	}
	_ = inst.SetChildValue("diffuse", l.diffuse.String())
	_ = inst.SetChildValue("specular", l.specular.String())
	_ = inst.SetChildValue("direction", pose.FormatVector3(l.direction))
	writePose(inst, l.rawPose, l.relativeTo)
	if att, err := inst.GetElement("attenuation"); err == nil {
		_ = att.SetChildValue("range", formatFloat(l.attenuationRange))
		_ = att.SetChildValue("constant", formatFloat(l.attenuationConstant))
		_ = att.SetChildValue("linear", formatFloat(l.attenuationLinear))
		_ = att.SetChildValue("quadratic", formatFloat(l.attenuationQuadratic))
	}
	if l.kind == types.LightTypeSpot {
		if spot, err := inst.GetElement("spot"); err == nil {
			_ = spot.SetChildValue("inner_angle", formatFloat(l.spotInnerAngle))
			_ = spot.SetChildValue("outer_angle", formatFloat(l.spotOuterAngle))
			_ = spot.SetChildValue("falloff", formatFloat(l.spotFalloff))
		}
	}
	return inst
}
