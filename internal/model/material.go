package model

import (
	"sdformat/internal/element"
	"sdformat/internal/types"
)

// Material is the surface appearance of a visual.
type Material struct {
	ambient    types.Color
	diffuse    types.Color
	specular   types.Color
	emissive   types.Color
	lighting   bool
	shininess  float64
	doubleSided bool
	renderOrder float64

	elem *element.Element
}

// LoadMaterial reads a <material> element.
func LoadMaterial(el *element.Element) (*Material, types.Errors) {
	var errs types.Errors
	m := &Material{elem: el, lighting: true}
	m.ambient, _ = el.GetColor("ambient", types.Color{A: 1})
	m.diffuse, _ = el.GetColor("diffuse", types.Color{A: 1})
	m.specular, _ = el.GetColor("specular", types.Color{A: 1})
	m.emissive, _ = el.GetColor("emissive", types.Color{A: 1})
	m.lighting, _ = el.GetBool("lighting", true)
	m.shininess, _ = el.GetFloat("shininess", 0)
	m.doubleSided, _ = el.GetBool("double_sided", false)
	m.renderOrder, _ = el.GetFloat("render_order", 0)
	return m, errs
}

func (m *Material) Ambient() types.Color  { return m.ambient }
func (m *Material) Diffuse() types.Color  { return m.diffuse }
func (m *Material) Specular() types.Color { return m.specular }
func (m *Material) Emissive() types.Color { return m.emissive }
func (m *Material) Lighting() bool        { return m.lighting }
func (m *Material) Shininess() float64    { return m.shininess }
func (m *Material) DoubleSided() bool     { return m.doubleSided }
func (m *Material) RenderOrder() float64  { return m.renderOrder }

func (m *Material) SetDiffuse(c types.Color)  { m.diffuse = c }
func (m *Material) SetAmbient(c types.Color)  { m.ambient = c }
func (m *Material) SetSpecular(c types.Color) { m.specular = c }
func (m *Material) SetEmissive(c types.Color) { m.emissive = c }

// Element returns the source element this material was loaded from.
func (m *Material) Element() *element.Element { return m.elem }

// ToElement reconstructs a schema-conforming <material> element.
func (m *Material) ToElement() *element.Element {
	inst := newInstance("model", "link", "visual", "material")
	_ = inst.SetChildValue("ambient", m.ambient.String())
	_ = inst.SetChildValue("diffuse", m.diffuse.String())
	_ = inst.SetChildValue("specular", m.specular.String())
	_ = inst.SetChildValue("emissive", m.emissive.String())
	if !m.lighting {
		_ = inst.SetChildValue("lighting", "false")
	}
	if m.shininess != 0 {
		_ = inst.SetChildValue("shininess", formatFloat(m.shininess))
	}
	if m.doubleSided {
		_ = inst.SetChildValue("double_sided", "true")
	}
	return inst
}
