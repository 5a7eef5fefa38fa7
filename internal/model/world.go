package model

import (
	"gonum.org/v1/gonum/spatial/r3"

	"sdformat/internal/element"
	"sdformat/internal/frames"
	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// World is a simulation world: models, explicit frames and lights in a
// single naming scope rooted at the implicit world frame.
type World struct {
	name          string
	gravity       r3.Vec
	magneticField r3.Vec
	windVelocity  r3.Vec

	models []*Model
	frames []*Frame
	lights []*Light

	elem  *element.Element
	scope *frames.ScopeGraphs
}

// LoadWorld reads a <world> element and its whole subtree.
func LoadWorld(el *element.Element) (*World, types.Errors) {
	var errs types.Errors
	w := &World{elem: el}
	w.name = nameAttr(el)
	if w.name == "" {
		errs.Add(errAt(el, types.ErrorCodeAttributeMissing, "world requires a name"))
	}
	w.gravity, _ = el.GetVector3("gravity", r3.Vec{Z: -9.8})
	w.magneticField, _ = el.GetVector3("magnetic_field",
		r3.Vec{X: 5.5645e-6, Y: 22.8758e-6, Z: -42.3884e-6})
	if wind := el.FindElement("wind"); wind != nil {
		w.windVelocity, _ = wind.GetVector3("linear_velocity", r3.Vec{})
	}

	for _, c := range el.FindAll("model") {
		m, merrs := LoadModel(c)
		errs.Merge(merrs)
		w.models = append(w.models, m)
	}
	for _, c := range el.FindAll("frame") {
		f, ferrs := LoadFrame(c)
		errs.Merge(ferrs)
		w.frames = append(w.frames, f)
	}
	for _, c := range el.FindAll("light") {
		l, lerrs := LoadLight(c)
		errs.Merge(lerrs)
		w.lights = append(w.lights, l)
	}
	return w, errs
}

func (w *World) Name() string              { return w.name }
func (w *World) Gravity() r3.Vec           { return w.gravity }
func (w *World) MagneticField() r3.Vec     { return w.magneticField }
func (w *World) WindVelocity() r3.Vec      { return w.windVelocity }
func (w *World) Models() []*Model          { return w.models }
func (w *World) Frames() []*Frame          { return w.frames }
func (w *World) Lights() []*Light          { return w.lights }
func (w *World) Element() *element.Element { return w.elem }

func (w *World) SetName(name string)   { w.name = name }
func (w *World) SetGravity(g r3.Vec)   { w.gravity = g }

// ModelByName returns the named world-level model, or nil.
func (w *World) ModelByName(name string) *Model {
	for _, m := range w.models {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// FrameByName returns the named world-level frame, or nil.
func (w *World) FrameByName(name string) *Frame {
	for _, f := range w.frames {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// LightByName returns the named world-level light, or nil.
func (w *World) LightByName(name string) *Light {
	for _, l := range w.lights {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// Graphs returns this world's scope graphs, nil before they are built.
func (w *World) Graphs() *frames.ScopeGraphs { return w.scope }

// ResolveFrame computes the pose of source expressed in target inside
// the world scope. Empty target means the world frame.
func (w *World) ResolveFrame(source, target string) (pose.Pose3, types.Errors) {
	var errs types.Errors
	if w.scope == nil {
		errs.Addf(types.ErrorCodePoseRelativeToGraph,
			"world %q graphs not built", w.name)
		return pose.Identity(), errs
	}
	return w.scope.Resolve(source, target)
}

// ToElement reconstructs a schema-conforming <world> element.
func (w *World) ToElement() *element.Element {
	inst := newInstance("world")
	_ = inst.SetAttribute("name", w.name)
	_ = inst.SetChildValue("gravity", pose.FormatVector3(w.gravity))
	for _, m := range w.models {
		inst.InsertElement(m.ToElement(), true)
	}
	for _, f := range w.frames {
		inst.InsertElement(f.ToElement(), true)
	}
	for _, l := range w.lights {
		inst.InsertElement(l.ToElement(), true)
	}
	return inst
}
