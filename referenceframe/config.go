package referenceframe

import (
	"github.com/a8m/envsubst"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"go.viam.com/frametree/spatialmath"
)

// LinkConfig describes one frame of a tree: its pose relative to its parent.
type LinkConfig struct {
	ID           string                         `json:"id" yaml:"id"`
	Parent       string                         `json:"parent,omitempty" yaml:"parent,omitempty"`
	Translation  spatialmath.TranslationConfig  `json:"translation" yaml:"translation"`
	Orientation  *spatialmath.OrientationConfig `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	BodyCentered bool                           `json:"body_centered,omitempty" yaml:"body_centered,omitempty"`
	// Root makes the frame an additional root instead of hanging it from a parent. A root's
	// translation and orientation are ignored.
	Root bool `json:"root,omitempty" yaml:"root,omitempty"`
}

// TreeConfig describes a whole tree. Frames may be listed in any order; a parent of "world" or
// an empty parent means the tree's world frame.
type TreeConfig struct {
	Name   string       `json:"name" yaml:"name"`
	Frames []LinkConfig `json:"frames" yaml:"frames"`
}

// TreeConfigSchema returns the JSON schema of a tree config file.
func TreeConfigSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&TreeConfig{})
}

// ParseTreeConfig decodes a tree config from YAML. JSON is valid YAML and is accepted too.
func ParseTreeConfig(data []byte) (*TreeConfig, error) {
	cfg := &TreeConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse tree config")
	}
	return cfg, nil
}

// ReadTreeConfigFile reads and decodes a tree config file. References to environment variables
// such as ${CAMERA_HEIGHT} are expanded before decoding.
func ReadTreeConfigFile(filename string) (*TreeConfig, error) {
	data, err := envsubst.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tree config file")
	}
	return ParseTreeConfig(data)
}

func isWorldParent(parent string) bool {
	return parent == "" || parent == World
}

// Validate reports every problem with the config at once.
func (cfg *TreeConfig) Validate() error {
	var errs error
	byID := make(map[string]*LinkConfig, len(cfg.Frames))
	for i := range cfg.Frames {
		link := &cfg.Frames[i]
		switch {
		case link.ID == "":
			errs = multierr.Append(errs, errors.Errorf("frame %d has no id", i))
			continue
		case link.ID == World:
			errs = multierr.Append(errs, errors.Errorf("frame %d may not be named %q", i, World))
			continue
		}
		if _, ok := byID[link.ID]; ok {
			errs = multierr.Append(errs, errors.Errorf("duplicate frame id %q", link.ID))
			continue
		}
		byID[link.ID] = link
		if link.Root && !isWorldParent(link.Parent) {
			errs = multierr.Append(errs, errors.Errorf("root frame %q may not have parent %q", link.ID, link.Parent))
		}
		if link.Orientation != nil {
			if _, err := link.Orientation.ParseConfig(); err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "frame %q", link.ID))
			}
		}
	}

	for _, link := range byID {
		if link.Root || isWorldParent(link.Parent) {
			continue
		}
		if _, ok := byID[link.Parent]; !ok {
			errs = multierr.Append(errs, errors.Errorf("frame %q has unknown parent %q", link.ID, link.Parent))
		}
	}
	if errs != nil {
		return errs
	}

	// Every parent is known, so a walk that never reaches a root is a cycle.
	for _, link := range byID {
		seen := map[string]bool{}
		for cur := link; !cur.Root && !isWorldParent(cur.Parent); cur = byID[cur.Parent] {
			if seen[cur.ID] {
				errs = multierr.Append(errs, errors.Errorf("frame %q has a parent cycle", link.ID))
				break
			}
			seen[cur.ID] = true
		}
	}
	return errs
}

func (link *LinkConfig) transform() (*spatialmath.RigidTransform, error) {
	var o spatialmath.Orientation = spatialmath.NewZeroOrientation()
	if link.Orientation != nil {
		var err error
		if o, err = link.Orientation.ParseConfig(); err != nil {
			return nil, err
		}
	}
	return spatialmath.NewRigidTransformFromOrientation(o, link.Translation.ParseConfig()), nil
}

// NewTreeFromConfig validates cfg and builds the tree it describes. Parents are created before
// their children regardless of the order of the frames in cfg.
func NewTreeFromConfig(cfg *TreeConfig, opts ...TreeOption) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid tree config")
	}
	tree := NewTree(cfg.Name, opts...)
	created := map[string]*ReferenceFrame{World: tree.World()}

	pending := cfg.Frames
	for len(pending) > 0 {
		var next []LinkConfig
		for _, link := range pending {
			if link.Root {
				created[link.ID] = tree.NewRootFrame(link.ID)
				continue
			}
			parentName := link.Parent
			if isWorldParent(parentName) {
				parentName = World
			}
			parent, ok := created[parentName]
			if !ok {
				next = append(next, link)
				continue
			}
			toParent, err := link.transform()
			if err != nil {
				return nil, err
			}
			var frameOpts []FrameOption
			if link.BodyCentered {
				frameOpts = append(frameOpts, WithBodyCentered())
			}
			f, err := tree.NewFrame(link.ID, parent, toParent, frameOpts...)
			if err != nil {
				return nil, err
			}
			created[link.ID] = f
		}
		if len(next) == len(pending) {
			// unreachable after Validate
			return nil, errors.New("tree config has unresolvable parents")
		}
		pending = next
	}
	return tree, nil
}

// claimName records the name of a non-world frame for an export keyed by frame name.
func claimName(seen map[string]bool, f *ReferenceFrame) error {
	if seen[f.Name()] || f.Name() == World {
		return errors.Errorf("frame name %q is not unique", f.Name())
	}
	seen[f.Name()] = true
	return nil
}

// NewTreeConfig describes an existing tree. Frame names must be unique.
func NewTreeConfig(tree *Tree) (*TreeConfig, error) {
	cfg := &TreeConfig{Name: tree.Name()}
	seen := map[string]bool{}
	for _, f := range tree.Frames() {
		if f.IsWorldFrame() {
			continue
		}
		if err := claimName(seen, f); err != nil {
			return nil, err
		}

		toParent := f.TransformToParent()
		q := spatialmath.Quaternion(toParent.Quaternion())
		orientation, err := spatialmath.NewOrientationConfig(&q)
		if err != nil {
			return nil, err
		}
		link := LinkConfig{
			ID:           f.Name(),
			Translation:  *spatialmath.NewTranslationConfig(toParent.Translation()),
			Orientation:  orientation,
			BodyCentered: f.IsBodyCenteredFrame(),
			Root:         f.IsRoot(),
		}
		if parent := f.Parent(); parent != nil {
			link.Parent = parent.Name()
		}
		cfg.Frames = append(cfg.Frames, link)
	}
	return cfg, nil
}
