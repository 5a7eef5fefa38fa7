package element

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"sdformat/internal/pose"
	"sdformat/internal/types"
)

// ValueType names the typed-value domains a schema description can
// declare for attributes and element text.
type ValueType string

const (
	TypeNone     ValueType = ""
	TypeString   ValueType = "string"
	TypeBool     ValueType = "bool"
	TypeInt      ValueType = "int"
	TypeUnsigned ValueType = "unsigned int"
	TypeDouble   ValueType = "double"
	TypeVector3  ValueType = "vector3"
	TypePose     ValueType = "pose"
	TypeColor    ValueType = "color"
)

// Param is a typed slot: an attribute or an element's text value. It
// remembers its schema default and whether a document explicitly set it.
type Param struct {
	Key      string
	Type     ValueType
	Default  string
	Required bool

	raw string
	set bool
}

// NewParam builds a param initialized to its default.
func NewParam(key string, t ValueType, def string, required bool) *Param {
	return &Param{Key: key, Type: t, Default: def, Required: required, raw: def}
}

// Set parses and stores text, validating it against the param type.
func (p *Param) Set(text string) error {
	if err := validate(p.Type, text); err != nil {
		return fmt.Errorf("attribute %q: %w", p.Key, err)
	}
	p.raw = text
	p.set = true
	return nil
}

// SetDefault overwrites the stored value without marking it explicitly
// set. Used when materializing required children.
func (p *Param) SetDefault(text string) {
	p.raw = text
	p.set = false
}

// Reset restores the schema default.
func (p *Param) Reset() {
	p.raw = p.Default
	p.set = false
}

// WasSet reports whether a document explicitly assigned this param.
func (p *Param) WasSet() bool { return p.set }

// String returns the raw text form of the current value.
func (p *Param) String() string { return p.raw }

// Bool interprets the value as a boolean.
func (p *Param) Bool() (bool, error) {
	switch p.raw {
	case "true", "1":
		return true, nil
	case "false", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("attribute %q: invalid bool %q", p.Key, p.raw)
}

// Float interprets the value as a double.
func (p *Param) Float() (float64, error) {
	if p.raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(p.raw, 64)
}

// Int interprets the value as a signed integer.
func (p *Param) Int() (int, error) {
	if p.raw == "" {
		return 0, nil
	}
	return strconv.Atoi(p.raw)
}

// Uint64 interprets the value as an unsigned integer.
func (p *Param) Uint64() (uint64, error) {
	if p.raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(p.raw, 10, 64)
}

// Pose interprets the value as an SDF pose.
func (p *Param) Pose() (pose.Pose3, error) {
	return pose.ParsePose(p.raw)
}

// Vector3 interprets the value as an SDF vector3.
func (p *Param) Vector3() (r3.Vec, error) {
	return pose.ParseVector3(p.raw)
}

// Color interprets the value as an SDF color.
func (p *Param) Color() (types.Color, error) {
	return types.ParseColor(p.raw)
}

// Clone returns an independent copy.
func (p *Param) Clone() *Param {
	cp := *p
	return &cp
}

func validate(t ValueType, text string) error {
	switch t {
	case TypeNone, TypeString:
		return nil
	case TypeBool:
		switch text {
		case "true", "false", "1", "0", "":
			return nil
		}
		return fmt.Errorf("invalid bool %q", text)
	case TypeInt:
		if text == "" {
			return nil
		}
		_, err := strconv.Atoi(text)
		return err
	case TypeUnsigned:
		if text == "" {
			return nil
		}
		_, err := strconv.ParseUint(text, 10, 64)
		return err
	case TypeDouble:
		if text == "" {
			return nil
		}
		_, err := strconv.ParseFloat(text, 64)
		return err
	case TypeVector3:
		if text == "" {
			return nil
		}
		_, err := pose.ParseVector3(text)
		return err
	case TypePose:
		_, err := pose.ParsePose(text)
		if err != nil {
			// Seven values are a quat_xyzw pose; the rotation_format
			// attribute is checked when the pose is interpreted.
			if _, qerr := pose.ParsePoseText(text, false, "quat_xyzw"); qerr == nil {
				return nil
			}
		}
		return err
	case TypeColor:
		if text == "" {
			return nil
		}
		_, err := types.ParseColor(text)
		return err
	}
	return fmt.Errorf("unknown value type %q", t)
}
