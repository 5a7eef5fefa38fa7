package element

import (
	"gonum.org/v1/gonum/spatial/r3"

	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// The typed getters below read the text value of the named child (or of
// the element itself when name is ""). They return the fallback and
// false on any schema mismatch; a missing or malformed value is
// recoverable by contract.

func (e *Element) valueFor(name string) *Param {
	if name == "" {
		return e.value
	}
	c := e.FindElement(name)
	if c == nil {
		return nil
	}
	return c.value
}

// GetString returns the string value of the named child.
func (e *Element) GetString(name, fallback string) (string, bool) {
	p := e.valueFor(name)
	if p == nil {
		return fallback, false
	}
	return p.String(), p.WasSet()
}

// GetBool returns the boolean value of the named child.
func (e *Element) GetBool(name string, fallback bool) (bool, bool) {
	p := e.valueFor(name)
	if p == nil {
		return fallback, false
	}
	v, err := p.Bool()
	if err != nil {
		return fallback, false
	}
	return v, p.WasSet()
}

// GetFloat returns the double value of the named child.
func (e *Element) GetFloat(name string, fallback float64) (float64, bool) {
	p := e.valueFor(name)
	if p == nil {
		return fallback, false
	}
	v, err := p.Float()
	if err != nil {
		return fallback, false
	}
	return v, p.WasSet()
}

// GetUint64 returns the unsigned value of the named child.
func (e *Element) GetUint64(name string, fallback uint64) (uint64, bool) {
	p := e.valueFor(name)
	if p == nil {
		return fallback, false
	}
	v, err := p.Uint64()
	if err != nil {
		return fallback, false
	}
	return v, p.WasSet()
}

// GetPose returns the pose value of the named child.
func (e *Element) GetPose(name string, fallback pose.Pose3) (pose.Pose3, bool) {
	p := e.valueFor(name)
	if p == nil {
		return fallback, false
	}
	v, err := p.Pose()
	if err != nil {
		return fallback, false
	}
	return v, p.WasSet()
}

// GetVector3 returns the vector3 value of the named child.
func (e *Element) GetVector3(name string, fallback r3.Vec) (r3.Vec, bool) {
	p := e.valueFor(name)
	if p == nil {
		return fallback, false
	}
	v, err := p.Vector3()
	if err != nil {
		return fallback, false
	}
	return v, p.WasSet()
}

// GetColor returns the color value of the named child.
func (e *Element) GetColor(name string, fallback types.Color) (types.Color, bool) {
	p := e.valueFor(name)
	if p == nil {
		return fallback, false
	}
	v, err := p.Color()
	if err != nil {
		return fallback, false
	}
	return v, p.WasSet()
}

// SetValue assigns the element's own text value.
func (e *Element) SetValue(text string) error {
	if e.value == nil {
		e.value = NewParam(e.name, TypeString, "", false)
	}
	return e.value.Set(text)
}

// SetChildValue assigns the text value of the named child, creating it
// when necessary.
func (e *Element) SetChildValue(name, text string) error {
	c, err := e.GetElement(name)
	if err != nil {
		return err
	}
	return c.SetValue(text)
}

// SetAttribute assigns the named attribute, declaring it as a
// passthrough string attribute when the schema does not know it.
func (e *Element) SetAttribute(key, text string) error {
	a := e.GetAttribute(key)
	if a == nil {
		e.AddAttribute(key, TypeString, "", false)
		a = e.attrs[len(e.attrs)-1]
	}
	return a.Set(text)
}
