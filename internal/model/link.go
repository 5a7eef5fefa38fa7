package model

import (
	"sdformat/internal/element"
	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// Inertial is the mass distribution of a link. The inertial pose is
// treated as link-local; a relative_to on <inertial>/<pose> is read but
// not resolved through the frame graph.
type Inertial struct {
	MassMatrix pose.MassMatrix3
	Pose       pose.Pose3
}

// Link is a physical body owned by a model.
type Link struct {
	name        string
	gravity     bool
	enableWind  bool
	selfCollide bool
	kinematic   bool
	rawPose     pose.Pose3
	relativeTo  string
	inertial    Inertial

	visuals    []*Visual
	collisions []*Collision
	sensors    []*Sensor
	lights     []*Light
	emitters   []*ParticleEmitter

	elem   *element.Element
	handle graphHandle
}

// LoadLink reads a <link> element. An invalid inertia is reported and
// the load continues; every other child problem accumulates the same
// way.
func LoadLink(el *element.Element) (*Link, types.Errors) {
	var errs types.Errors
	l := &Link{elem: el, gravity: true}
	l.name = nameAttr(el)
	if l.name == "" {
		errs.Add(errAt(el, types.ErrorCodeAttributeMissing, "link requires a name"))
	}
	l.gravity, _ = el.GetBool("gravity", true)
	l.enableWind, _ = el.GetBool("enable_wind", false)
	l.selfCollide, _ = el.GetBool("self_collide", false)
	l.kinematic, _ = el.GetBool("kinematic", false)
	l.rawPose, l.relativeTo = loadPose(el, &errs)
	l.inertial = loadInertial(el, l.name, &errs)

	for _, c := range el.FindAll("visual") {
		v, verrs := LoadVisual(c)
		errs.Merge(verrs)
		l.visuals = append(l.visuals, v)
	}
	for _, c := range el.FindAll("collision") {
		col, cerrs := LoadCollision(c)
		errs.Merge(cerrs)
		l.collisions = append(l.collisions, col)
	}
	for _, c := range el.FindAll("sensor") {
		s, serrs := LoadSensor(c)
		errs.Merge(serrs)
		l.sensors = append(l.sensors, s)
	}
	for _, c := range el.FindAll("light") {
		lt, lerrs := LoadLight(c)
		errs.Merge(lerrs)
		l.lights = append(l.lights, lt)
	}
	for _, c := range el.FindAll("particle_emitter") {
		p, perrs := LoadParticleEmitter(c)
		errs.Merge(perrs)
		l.emitters = append(l.emitters, p)
	}
	return l, errs
}

func loadInertial(el *element.Element, linkName string, errs *types.Errors) Inertial {
	out := Inertial{MassMatrix: pose.DefaultMassMatrix(), Pose: pose.Identity()}
	in := el.FindElement("inertial")
	if in == nil {
		return out
	}
	out.MassMatrix.Mass, _ = in.GetFloat("mass", 1)
	if inertia := in.FindElement("inertia"); inertia != nil {
		out.MassMatrix.Ixx, _ = inertia.GetFloat("ixx", 1)
		out.MassMatrix.Ixy, _ = inertia.GetFloat("ixy", 0)
		out.MassMatrix.Ixz, _ = inertia.GetFloat("ixz", 0)
		out.MassMatrix.Iyy, _ = inertia.GetFloat("iyy", 1)
		out.MassMatrix.Iyz, _ = inertia.GetFloat("iyz", 0)
		out.MassMatrix.Izz, _ = inertia.GetFloat("izz", 1)
	}
	out.Pose, _ = loadPose(in, errs)
	if !out.MassMatrix.IsValid() {
		errs.Add(errAt(in, types.ErrorCodeLinkInertiaInvalid,
			"link %q has a non-positive-definite inertia", linkName))
	}
	return out
}

func (l *Link) Name() string                  { return l.name }
func (l *Link) Gravity() bool                 { return l.gravity }
func (l *Link) EnableWind() bool              { return l.enableWind }
func (l *Link) SelfCollide() bool             { return l.selfCollide }
func (l *Link) Kinematic() bool               { return l.kinematic }
func (l *Link) RawPose() pose.Pose3           { return l.rawPose }
func (l *Link) PoseRelativeTo() string        { return l.relativeTo }
func (l *Link) Inertial() Inertial            { return l.inertial }
func (l *Link) Visuals() []*Visual            { return l.visuals }
func (l *Link) Collisions() []*Collision      { return l.collisions }
func (l *Link) Sensors() []*Sensor            { return l.sensors }
func (l *Link) Lights() []*Light              { return l.lights }
func (l *Link) Emitters() []*ParticleEmitter  { return l.emitters }
func (l *Link) Element() *element.Element     { return l.elem }

func (l *Link) SetName(name string)          { l.name = name }
func (l *Link) SetEnableWind(v bool)         { l.enableWind = v }
func (l *Link) SetRawPose(p pose.Pose3)      { l.rawPose = p }
func (l *Link) SetPoseRelativeTo(ref string) { l.relativeTo = ref }
func (l *Link) SetInertial(in Inertial)      { l.inertial = in }

// VisualByName returns the named visual, or nil.
func (l *Link) VisualByName(name string) *Visual {
	for _, v := range l.visuals {
		if v.Name() == name {
			return v
		}
	}
	return nil
}

// CollisionByName returns the named collision, or nil.
func (l *Link) CollisionByName(name string) *Collision {
	for _, c := range l.collisions {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// SemanticPose resolves this link's pose in the target frame through
// the enclosing scope graph.
func (l *Link) SemanticPose(relativeTo string) (pose.Pose3, types.Errors) {
	return l.handle.resolve(relativeTo)
}

// ToElement reconstructs a schema-conforming <link> element.
func (l *Link) ToElement() *element.Element {
	inst := newInstance("model", "link")
	_ = inst.SetAttribute("name", l.name)
	if !l.gravity {
		_ = inst.SetChildValue("gravity", "false")
	}
	if l.enableWind {
		_ = inst.SetChildValue("enable_wind", "true")
	}
	if l.selfCollide {
		_ = inst.SetChildValue("self_collide", "true")
	}
	if l.kinematic {
		_ = inst.SetChildValue("kinematic", "true")
	}
	writePose(inst, l.rawPose, l.relativeTo)
	if in, err := inst.GetElement("inertial"); err == nil {
		_ = in.SetChildValue("mass", formatFloat(l.inertial.MassMatrix.Mass))
		if inertia, ierr := in.GetElement("inertia"); ierr == nil {
			mm := l.inertial.MassMatrix
			_ = inertia.SetChildValue("ixx", formatFloat(mm.Ixx))
			_ = inertia.SetChildValue("ixy", formatFloat(mm.Ixy))
			_ = inertia.SetChildValue("ixz", formatFloat(mm.Ixz))
			_ = inertia.SetChildValue("iyy", formatFloat(mm.Iyy))
			_ = inertia.SetChildValue("iyz", formatFloat(mm.Iyz))
			_ = inertia.SetChildValue("izz", formatFloat(mm.Izz))
		}
		writePose(in, l.inertial.Pose, "")
	}
	for _, v := range l.visuals {
		inst.InsertElement(v.ToElement(), true)
	}
	for _, c := range l.collisions {
		inst.InsertElement(c.ToElement(), true)
	}
	for _, s := range l.sensors {
		inst.InsertElement(s.ToElement(), true)
	}
	for _, lt := range l.lights {
		inst.InsertElement(lt.ToElement(), true)
	}
	for _, p := range l.emitters {
		inst.InsertElement(p.ToElement(), true)
	}
	return inst
}
