package spatialmath

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/frametree/utils"
)

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	NoOrientationType      = OrientationType("")
	QuaternionType         = OrientationType("quaternion")
	AxisAnglesType         = OrientationType("axis_angles")
	EulerAnglesType        = OrientationType("euler_angles")
	EulerAnglesDegreesType = OrientationType("euler_angles_degrees")
	RotationMatrixType     = OrientationType("rotation_matrix")
)

// TranslationConfig is the config representation of a translation.
type TranslationConfig struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// NewTranslationConfig creates a TranslationConfig from a vector.
func NewTranslationConfig(v r3.Vector) *TranslationConfig {
	return &TranslationConfig{X: v.X, Y: v.Y, Z: v.Z}
}

// ParseConfig converts the config to a vector.
func (tc *TranslationConfig) ParseConfig() r3.Vector {
	return r3.Vector{X: tc.X, Y: tc.Y, Z: tc.Z}
}

// OrientationConfig holds the underlying type of orientation, and the value.
type OrientationConfig struct {
	Type  OrientationType        `json:"type" yaml:"type"`
	Value map[string]interface{} `json:"value,omitempty" yaml:"value,omitempty"`
}

type quaternionConfig struct {
	W float64 `mapstructure:"w"`
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
	Z float64 `mapstructure:"z"`
}

type axisAnglesConfig struct {
	Theta float64 `mapstructure:"th"`
	X     float64 `mapstructure:"x"`
	Y     float64 `mapstructure:"y"`
	Z     float64 `mapstructure:"z"`
}

type eulerConfig struct {
	Roll  float64 `mapstructure:"roll"`
	Pitch float64 `mapstructure:"pitch"`
	Yaw   float64 `mapstructure:"yaw"`
}

type rotationMatrixConfig struct {
	Mat []float64 `mapstructure:"mat"`
}

// NewOrientationConfig encodes an orientation interface into a config.
func NewOrientationConfig(o Orientation) (*OrientationConfig, error) {
	switch v := o.(type) {
	case nil:
		return &OrientationConfig{}, nil
	case *Quaternion:
		return &OrientationConfig{Type: QuaternionType, Value: map[string]interface{}{
			"w": v.Real, "x": v.Imag, "y": v.Jmag, "z": v.Kmag,
		}}, nil
	case *R4AA:
		return &OrientationConfig{Type: AxisAnglesType, Value: map[string]interface{}{
			"th": v.Theta, "x": v.RX, "y": v.RY, "z": v.RZ,
		}}, nil
	case *EulerAngles:
		return &OrientationConfig{Type: EulerAnglesType, Value: map[string]interface{}{
			"roll": v.Roll, "pitch": v.Pitch, "yaw": v.Yaw,
		}}, nil
	case *RotationMatrix:
		return &OrientationConfig{Type: RotationMatrixType, Value: map[string]interface{}{
			"mat": v.Slice(),
		}}, nil
	default:
		return nil, errors.Errorf("do not know how to map Orientation type %T to config fields", o)
	}
}

func decodeOrientationValue(value map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(value)
}

// ParseConfig will use the Type in OrientationConfig and convert into the correct struct that implements Orientation.
// An empty config yields the zero orientation.
func (config *OrientationConfig) ParseConfig() (Orientation, error) {
	switch config.Type {
	case NoOrientationType:
		return NewZeroOrientation(), nil
	case QuaternionType:
		var c quaternionConfig
		if err := decodeOrientationValue(config.Value, &c); err != nil {
			return nil, errors.Wrapf(err, "bad %s orientation", config.Type)
		}
		q := Quaternion(Normalize(quat.Number{Real: c.W, Imag: c.X, Jmag: c.Y, Kmag: c.Z}))
		return &q, nil
	case AxisAnglesType:
		var c axisAnglesConfig
		if err := decodeOrientationValue(config.Value, &c); err != nil {
			return nil, errors.Wrapf(err, "bad %s orientation", config.Type)
		}
		aa := &R4AA{Theta: c.Theta, RX: c.X, RY: c.Y, RZ: c.Z}
		aa.Normalize()
		return aa, nil
	case EulerAnglesType, EulerAnglesDegreesType:
		var c eulerConfig
		if err := decodeOrientationValue(config.Value, &c); err != nil {
			return nil, errors.Wrapf(err, "bad %s orientation", config.Type)
		}
		if config.Type == EulerAnglesDegreesType {
			c.Roll, c.Pitch, c.Yaw = utils.DegToRad(c.Roll), utils.DegToRad(c.Pitch), utils.DegToRad(c.Yaw)
		}
		return &EulerAngles{Roll: c.Roll, Pitch: c.Pitch, Yaw: c.Yaw}, nil
	case RotationMatrixType:
		var c rotationMatrixConfig
		if err := decodeOrientationValue(config.Value, &c); err != nil {
			return nil, errors.Wrapf(err, "bad %s orientation", config.Type)
		}
		return NewRotationMatrix(c.Mat)
	default:
		return nil, newOrientationTypeError(config.Type)
	}
}

func newOrientationTypeError(t OrientationType) error {
	return errors.Errorf("orientation type %s not recognized", t)
}
