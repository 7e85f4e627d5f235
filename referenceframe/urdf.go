package referenceframe

import (
	"encoding/xml"
	"os"

	"github.com/pkg/errors"
)

// ErrNoTreeInformation is returned when URDF data holds nothing to build frames from.
var ErrNoTreeInformation = errors.New("no frame information")

// URDFConfig represents the fields of a Universal Robot Description Format (URDF) file that
// describe a frame tree.
type URDFConfig struct {
	XMLName xml.Name    `xml:"robot"`
	Name    string      `xml:"name,attr"`
	Links   []URDFLink  `xml:"link"`
	Joints  []URDFJoint `xml:"joint"`
}

// URDFLink is a struct which details the XML used in a URDF link element.
type URDFLink struct {
	XMLName xml.Name `xml:"link"`
	Name    string   `xml:"name,attr"`
}

// URDFJoint is a struct which details the XML used in a URDF joint element.
type URDFJoint struct {
	XMLName xml.Name `xml:"joint"`
	Name    string   `xml:"name,attr"`
	Type    string   `xml:"type,attr"`
	Parent  frame    `xml:"parent"`
	Child   frame    `xml:"child"`
	Origin  *pose    `xml:"origin,omitempty"`
}

// ParseURDFFile will read a given file and build the tree its links describe.
func ParseURDFFile(filename string, opts ...TreeOption) (*Tree, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read URDF file")
	}

	cfg, err := ConvertURDFToConfig(xmlData)
	if err != nil {
		return nil, err
	}
	return NewTreeFromConfig(cfg, opts...)
}

// ConvertURDFToConfig will transfer the given URDF XML data into an equivalent TreeConfig. Every
// link becomes a frame. The joint naming a link as its child supplies the link's parent and its
// transform to that parent, with the joint at its zero position. Links that are no joint's child
// hang from the world frame, as do the children of a link named "world". Lengths are copied
// as-is, without unit conversion.
func ConvertURDFToConfig(xmlData []byte) (*TreeConfig, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, ErrNoTreeInformation
	}

	urdf := &URDFConfig{}
	if err := xml.Unmarshal(xmlData, urdf); err != nil {
		return nil, errors.Wrap(err, "Failed to convert URDF data to equivalent URDFConfig struct")
	}
	if len(urdf.Links) == 0 {
		return nil, ErrNoTreeInformation
	}

	links := make(map[string]bool, len(urdf.Links))
	for _, link := range urdf.Links {
		links[link.Name] = true
	}
	jointByChild := make(map[string]URDFJoint, len(urdf.Joints))
	for _, joint := range urdf.Joints {
		if !links[joint.Child.Link] {
			return nil, errors.Errorf("joint %q has unknown child link %q", joint.Name, joint.Child.Link)
		}
		if !links[joint.Parent.Link] {
			return nil, errors.Errorf("joint %q has unknown parent link %q", joint.Name, joint.Parent.Link)
		}
		if _, ok := jointByChild[joint.Child.Link]; ok {
			return nil, errors.Errorf("link %q is the child of more than one joint", joint.Child.Link)
		}
		jointByChild[joint.Child.Link] = joint
	}

	cfg := &TreeConfig{Name: urdf.Name}
	for _, link := range urdf.Links {
		if link.Name == World {
			// a link named world is the tree's own world frame
			continue
		}
		lc := LinkConfig{ID: link.Name, Parent: World}
		if joint, ok := jointByChild[link.Name]; ok {
			lc.Parent = joint.Parent.Link
			if joint.Origin != nil {
				translation, orientation, err := joint.Origin.Parse()
				if err != nil {
					return nil, errors.Wrapf(err, "joint %q origin", joint.Name)
				}
				lc.Translation = *translation
				lc.Orientation = orientation
			}
		}
		cfg.Frames = append(cfg.Frames, lc)
	}
	return cfg, nil
}

// NewURDFConfig describes a tree as URDF: every frame becomes a link, including a "world" link,
// and every non-world frame gets a fixed joint to its parent. Links are keyed by name, so frame
// names must be unique; additional roots are not representable.
func NewURDFConfig(tree *Tree) (*URDFConfig, error) {
	urdf := &URDFConfig{Name: tree.Name()}
	seen := map[string]bool{}
	for _, f := range tree.Frames() {
		if f.IsWorldFrame() {
			urdf.Links = append(urdf.Links, URDFLink{Name: World})
			continue
		}
		if f.IsRoot() {
			return nil, errors.Errorf("frame %q is an additional root, which URDF cannot express", f.Name())
		}
		if err := claimName(seen, f); err != nil {
			return nil, err
		}
		urdf.Links = append(urdf.Links, URDFLink{Name: f.Name()})
		parent := f.Parent()
		urdf.Joints = append(urdf.Joints, URDFJoint{
			Name:   parent.Name() + "_to_" + f.Name(),
			Type:   "fixed",
			Parent: frame{Link: parent.Name()},
			Child:  frame{Link: f.Name()},
			Origin: newPose(f.TransformToParent()),
		})
	}
	return urdf, nil
}
