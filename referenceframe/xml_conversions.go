package referenceframe

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/frametree/spatialmath"
)

type frame struct {
	Link string `xml:"link,attr"`
}

type pose struct {
	XMLName xml.Name `xml:"origin"`
	RPY     string   `xml:"rpy,attr"` // Fixed frame angle "r p y" format, in radians
	XYZ     string   `xml:"xyz,attr"` // "x y z" format
}

func newPose(t *spatialmath.RigidTransform) *pose {
	pt := t.Translation()
	o := t.EulerAngles()
	return &pose{
		XYZ: fmt.Sprintf("%g %g %g", pt.X, pt.Y, pt.Z),
		RPY: fmt.Sprintf("%g %g %g", o.Roll, o.Pitch, o.Yaw),
	}
}

// Parse returns the translation and fixed-angle orientation of the origin. Missing attributes
// read as zero.
func (p *pose) Parse() (*spatialmath.TranslationConfig, *spatialmath.OrientationConfig, error) {
	xyz, err := parseTriple(p.XYZ)
	if err != nil {
		return nil, nil, errors.Wrap(err, "bad xyz")
	}
	rpy, err := parseTriple(p.RPY)
	if err != nil {
		return nil, nil, errors.Wrap(err, "bad rpy")
	}
	orientation, err := spatialmath.NewOrientationConfig(&spatialmath.EulerAngles{Roll: rpy[0], Pitch: rpy[1], Yaw: rpy[2]})
	if err != nil {
		return nil, nil, err
	}
	return &spatialmath.TranslationConfig{X: xyz[0], Y: xyz[1], Z: xyz[2]}, orientation, nil
}

func parseTriple(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return []float64{0, 0, 0}, nil
	}
	values := spaceDelimitedStringToFloatSlice(s)
	if len(values) != 3 {
		return nil, errors.Errorf("need 3 values, got %d in %q", len(values), s)
	}
	for _, v := range values {
		if math.IsNaN(v) {
			return nil, errors.Errorf("%q is not a list of numbers", s)
		}
	}
	return values, nil
}

// spaceDelimitedStringToFloatSlice is a helper method to split up space-delimited fields in a string and converts them to floats.
func spaceDelimitedStringToFloatSlice(s string) []float64 {
	var converted []float64
	slice := strings.Fields(s)
	for _, value := range slice {
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			value = math.NaN()
		}
		converted = append(converted, value)
	}
	return converted
}
