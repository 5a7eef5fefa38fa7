package model

import (
	"sdformat/internal/element"
	"sdformat/internal/schema"
	"sdformat/internal/types"
)

// Root is the top of the domain object model: at most one model, or a
// set of worlds. It owns the element tree it was loaded from; entity
// back-references stay valid for the life of the Root.
type Root struct {
	originalVersion string
	model           *Model
	worlds          []*World
	lights          []*Light

	elem *element.Element
}

// LoadRoot builds the domain tree from a read <sdf> element and builds
// and validates the scope graphs of every model and world in it. The
// reader accepts any mix of top-level entities; this validator is
// stricter and reports documents carrying more than one top-level
// category.
func LoadRoot(el *element.Element, originalVersion string) (*Root, types.Errors) {
	var errs types.Errors
	r := &Root{elem: el, originalVersion: originalVersion}

	modelEls := el.FindAll("model")
	if len(modelEls) > 1 {
		errs.Add(errAt(el, types.ErrorCodeElementInvalid,
			"a document may carry at most one top-level model, found %d", len(modelEls)))
	}
	if len(modelEls) > 0 {
		m, merrs := LoadModel(modelEls[0])
		errs.Merge(merrs)
		r.model = m
		_, gerrs := BuildModelGraphs(m)
		errs.Merge(gerrs)
	}

	seen := map[string]bool{}
	for _, c := range el.FindAll("world") {
		w, werrs := LoadWorld(c)
		errs.Merge(werrs)
		if seen[w.Name()] {
			errs.Add(errAt(c, types.ErrorCodeDuplicateName,
				"world name %q is used more than once", w.Name()))
		}
		seen[w.Name()] = true
		r.worlds = append(r.worlds, w)
		_, gerrs := BuildWorldGraphs(w)
		errs.Merge(gerrs)
	}

	for _, c := range el.FindAll("light") {
		l, lerrs := LoadLight(c)
		errs.Merge(lerrs)
		r.lights = append(r.lights, l)
	}

	if r.model != nil && len(r.worlds) > 0 {
		errs.Add(errAt(el, types.ErrorCodeElementInvalid,
			"a document may carry a top-level model or worlds, not both"))
	}
	return r, errs
}

// OriginalVersion returns the version the document declared before any
// conversion.
func (r *Root) OriginalVersion() string { return r.originalVersion }

// Model returns the top-level model, or nil.
func (r *Root) Model() *Model { return r.model }

// Worlds returns the worlds in document order.
func (r *Root) Worlds() []*World { return r.worlds }

// WorldCount returns the number of worlds.
func (r *Root) WorldCount() int { return len(r.worlds) }

// WorldByIndex returns the i-th world, or nil when out of range.
func (r *Root) WorldByIndex(i int) *World {
	if i < 0 || i >= len(r.worlds) {
		return nil
	}
	return r.worlds[i]
}

// WorldByName returns the named world, or nil.
func (r *Root) WorldByName(name string) *World {
	for _, w := range r.worlds {
		if w.Name() == name {
			return w
		}
	}
	return nil
}

// Lights returns the top-level lights in document order.
func (r *Root) Lights() []*Light { return r.lights }

// Element returns the source element tree the Root owns.
func (r *Root) Element() *element.Element { return r.elem }

// ToElement reconstructs a schema-conforming <sdf> element at the
// current schema version.
func (r *Root) ToElement() *element.Element {
	inst := newInstance()
	_ = inst.SetAttribute("version", schema.CurrentVersion)
	if r.model != nil {
		inst.InsertElement(r.model.ToElement(), true)
	}
	for _, w := range r.worlds {
		inst.InsertElement(w.ToElement(), true)
	}
	for _, l := range r.lights {
		inst.InsertElement(l.ToElement(), true)
	}
	return inst
}

// ToXML serializes the reconstructed document as indented XML text.
func (r *Root) ToXML() string {
	return r.ToElement().ToString("  ")
}
