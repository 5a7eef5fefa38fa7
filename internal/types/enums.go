package types

// JointType enumerates the joint kinds of the schema.
type JointType string

const (
	JointTypeInvalid    JointType = ""
	JointTypeBall       JointType = "ball"
	JointTypeContinuous JointType = "continuous"
	JointTypeFixed      JointType = "fixed"
	JointTypeGearbox    JointType = "gearbox"
	JointTypePrismatic  JointType = "prismatic"
	JointTypeRevolute   JointType = "revolute"
	JointTypeRevolute2  JointType = "revolute2"
	JointTypeScrew      JointType = "screw"
	JointTypeUniversal  JointType = "universal"
)

// ParseJointType maps the schema string to a JointType.
func ParseJointType(value string) (JointType, bool) {
	switch JointType(value) {
	case JointTypeBall, JointTypeContinuous, JointTypeFixed, JointTypeGearbox,
		JointTypePrismatic, JointTypeRevolute, JointTypeRevolute2,
		JointTypeScrew, JointTypeUniversal:
		return JointType(value), true
	}
	return JointTypeInvalid, false
}

// LightType enumerates the light kinds of the schema.
type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeSpot        LightType = "spot"
	LightTypeDirectional LightType = "directional"
)

// SensorType enumerates the sensor kinds carried by the object model.
type SensorType string

const (
	SensorTypeNone         SensorType = "none"
	SensorTypeAltimeter    SensorType = "altimeter"
	SensorTypeCamera       SensorType = "camera"
	SensorTypeContact      SensorType = "contact"
	SensorTypeGPS          SensorType = "gps"
	SensorTypeIMU          SensorType = "imu"
	SensorTypeLidar        SensorType = "lidar"
	SensorTypeMagnetometer SensorType = "magnetometer"
	SensorTypeRay          SensorType = "ray"
)

// ParticleEmitterType enumerates emitter shapes.
type ParticleEmitterType string

const (
	ParticleEmitterTypePoint     ParticleEmitterType = "point"
	ParticleEmitterTypeBox       ParticleEmitterType = "box"
	ParticleEmitterTypeCylinder  ParticleEmitterType = "cylinder"
	ParticleEmitterTypeEllipsoid ParticleEmitterType = "ellipsoid"
)
