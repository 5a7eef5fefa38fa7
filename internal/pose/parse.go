package pose

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ParsePose reads the SDF text form "x y z roll pitch yaw". An empty
// string yields the identity pose.
func ParsePose(text string) (Pose3, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Identity(), nil
	}
	if len(fields) != 6 {
		return Identity(), fmt.Errorf("pose needs 6 values, got %d", len(fields))
	}
	vals, err := parseFloats(fields)
	if err != nil {
		return Identity(), err
	}
	return New(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]), nil
}

// ParsePoseText reads a pose value honoring the <pose> element's
// degrees and rotation_format attributes. The quat_xyzw format takes
// seven values; the default euler_rpy format takes six.
func ParsePoseText(text string, degrees bool, rotationFormat string) (Pose3, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Identity(), nil
	}
	if rotationFormat == "quat_xyzw" {
		if len(fields) != 7 {
			return Identity(), fmt.Errorf("quat_xyzw pose needs 7 values, got %d", len(fields))
		}
		vals, err := parseFloats(fields)
		if err != nil {
			return Identity(), err
		}
		return Pose3{
			Pos: r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]},
			Rot: quat.Number{Imag: vals[3], Jmag: vals[4], Kmag: vals[5], Real: vals[6]},
		}, nil
	}
	if len(fields) != 6 {
		return Identity(), fmt.Errorf("pose needs 6 values, got %d", len(fields))
	}
	vals, err := parseFloats(fields)
	if err != nil {
		return Identity(), err
	}
	if degrees {
		for i := 3; i < 6; i++ {
			vals[i] *= math.Pi / 180
		}
	}
	return New(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]), nil
}

// ParseVector3 reads the SDF text form "x y z".
func ParseVector3(text string) (r3.Vec, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return r3.Vec{}, fmt.Errorf("vector3 needs 3 values, got %d", len(fields))
	}
	vals, err := parseFloats(fields)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// FormatVector3 renders a vector in SDF text form.
func FormatVector3(v r3.Vec) string {
	return fmt.Sprintf("%.17g %.17g %.17g", v.X, v.Y, v.Z)
}

func parseFloats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		vals[i] = v
	}
	return vals, nil
}
