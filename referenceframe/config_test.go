package referenceframe

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"
	"gopkg.in/yaml.v3"

	"go.viam.com/frametree/logging"
	"go.viam.com/frametree/spatialmath"
)

// abcConfig lists the frames children first so that creation has to wait for the parents.
const abcConfig = `
name: abc
frames:
  - id: C
    parent: B
    translation: {x: 5, y: 0, z: 0}
    orientation:
      type: euler_angles_degrees
      value: {roll: 0, pitch: 0, yaw: 90}
  - id: B
    parent: A
    translation: {x: 5, y: 0, z: 0}
    orientation:
      type: axis_angles
      value: {th: 1.5707963267948966, x: 0, y: 2, z: 0}
  - id: A
    parent: R
    translation: {x: 5, y: 0, z: 0}
    orientation:
      type: euler_angles
      value: {roll: 1.5707963267948966, pitch: 0, yaw: 0}
  - id: R
    root: true
  - id: camera
    translation: {x: 0, y: 0, z: 1}
    body_centered: true
`

func TestTreeFromConfig(t *testing.T) {
	cfg, err := ParseTreeConfig([]byte(abcConfig))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Name, test.ShouldEqual, "abc")
	test.That(t, cfg.Frames, test.ShouldHaveLength, 5)

	tree, err := NewTreeFromConfig(cfg, WithLogger(logging.NewTestLogger(t)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tree.Name(), test.ShouldEqual, "abc")
	test.That(t, tree.Roots(), test.ShouldHaveLength, 2)

	camera := tree.Frame("camera")
	test.That(t, camera, test.ShouldNotBeNil)
	test.That(t, camera.Parent(), test.ShouldEqual, tree.World())
	test.That(t, camera.IsBodyCenteredFrame(), test.ShouldBeTrue)
	test.That(t, camera.TransformToRoot().Translation(), test.ShouldResemble, r3.Vector{Z: 1})

	r := tree.Frame("R")
	test.That(t, r.IsRoot(), test.ShouldBeTrue)
	a, b, c := tree.Frame("A"), tree.Frame("B"), tree.Frame("C")
	test.That(t, c.Parent(), test.ShouldEqual, b)
	test.That(t, b.Parent(), test.ShouldEqual, a)
	test.That(t, a.Parent(), test.ShouldEqual, r)

	v := NewFrameVector("v", c, 3, 1, -9)
	test.That(t, v.ChangeFrame(a), test.ShouldBeNil)
	test.That(t, v.X(), test.ShouldAlmostEqual, -9, 1e-12)
	test.That(t, v.Y(), test.ShouldAlmostEqual, 3, 1e-12)
	test.That(t, v.Z(), test.ShouldAlmostEqual, 1, 1e-12)

	p := NewFramePoint("p", c, 3, 1, -9)
	test.That(t, p.ChangeFrame(a), test.ShouldBeNil)
	test.That(t, p.X(), test.ShouldAlmostEqual, -4, 1e-12)
	test.That(t, p.Y(), test.ShouldAlmostEqual, 3, 1e-12)
	test.That(t, p.Z(), test.ShouldAlmostEqual, -4, 1e-12)

	test.That(t, p.ChangeFrame(camera), test.ShouldNotBeNil)
}

func TestReadTreeConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "tree.yaml")
	test.That(t, os.WriteFile(filename, []byte(abcConfig), 0o600), test.ShouldBeNil)
	cfg, err := ReadTreeConfigFile(filename)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Frames, test.ShouldHaveLength, 5)

	_, err = ReadTreeConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to read tree config file")

	_, err = ParseTreeConfig([]byte("frames: [oops"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadTreeConfigFileEnv(t *testing.T) {
	t.Setenv("CAMERA_HEIGHT", "2.5")
	filename := filepath.Join(t.TempDir(), "tree.yaml")
	config := "frames:\n  - id: camera\n    translation: {x: 0, y: 0, z: ${CAMERA_HEIGHT}}\n"
	test.That(t, os.WriteFile(filename, []byte(config), 0o600), test.ShouldBeNil)

	cfg, err := ReadTreeConfigFile(filename)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Frames, test.ShouldHaveLength, 1)
	test.That(t, cfg.Frames[0].Translation.Z, test.ShouldEqual, 2.5)
}

func TestValidateTreeConfig(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg, err := ParseTreeConfig([]byte(abcConfig))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg.Validate(), test.ShouldBeNil)
	})

	for _, tc := range []struct {
		name   string
		frames []LinkConfig
		errMsg string
	}{
		{"missing id", []LinkConfig{{Parent: World}}, "frame 0 has no id"},
		{"world id", []LinkConfig{{ID: World}}, `may not be named "world"`},
		{"duplicate", []LinkConfig{{ID: "a"}, {ID: "a"}}, `duplicate frame id "a"`},
		{"root with parent", []LinkConfig{{ID: "a"}, {ID: "b", Parent: "a", Root: true}}, `root frame "b" may not have parent "a"`},
		{"unknown parent", []LinkConfig{{ID: "a", Parent: "ghost"}}, `frame "a" has unknown parent "ghost"`},
		{"cycle", []LinkConfig{{ID: "a", Parent: "b"}, {ID: "b", Parent: "a"}}, "has a parent cycle"},
		{
			"bad orientation",
			[]LinkConfig{{ID: "a", Orientation: &spatialmath.OrientationConfig{Type: "spin"}}},
			"orientation type spin not recognized",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &TreeConfig{Name: "bad", Frames: tc.frames}
			err := cfg.Validate()
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errMsg)

			_, err = NewTreeFromConfig(cfg)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, "invalid tree config")
		})
	}

	t.Run("every problem is reported", func(t *testing.T) {
		cfg := &TreeConfig{Frames: []LinkConfig{{}, {ID: "a"}, {ID: "a"}, {ID: World}}}
		err := cfg.Validate()
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "frame 0 has no id")
		test.That(t, err.Error(), test.ShouldContainSubstring, "duplicate frame id")
		test.That(t, err.Error(), test.ShouldContainSubstring, "may not be named")
	})
}

func TestTreeConfigSchema(t *testing.T) {
	schema := TreeConfigSchema()
	test.That(t, schema.Definitions, test.ShouldContainKey, "TreeConfig")
	test.That(t, schema.Definitions, test.ShouldContainKey, "LinkConfig")
	link := schema.Definitions["LinkConfig"]
	test.That(t, link.Required, test.ShouldContain, "id")
	test.That(t, link.Required, test.ShouldNotContain, "parent")
}

func TestTreeConfigRoundTrip(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(11))
	tree := NewTree("roundtrip")
	frames := []*ReferenceFrame{tree.World(), tree.NewRootFrame("floating")}
	for i := 0; i < 20; i++ {
		parent := frames[rng.Intn(len(frames))]
		var opts []FrameOption
		if i%4 == 0 {
			opts = append(opts, WithBodyCentered())
		}
		f, err := tree.NewFrame(fmt.Sprintf("frame%d", i), parent, spatialmath.RandomRigidTransform(rng), opts...)
		test.That(t, err, test.ShouldBeNil)
		frames = append(frames, f)
	}

	cfg, err := NewTreeConfig(tree)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Frames, test.ShouldHaveLength, 21)

	out, err := yaml.Marshal(cfg)
	test.That(t, err, test.ShouldBeNil)
	parsed, err := ParseTreeConfig(out)
	test.That(t, err, test.ShouldBeNil)

	rebuilt, err := NewTreeFromConfig(parsed)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rebuilt.Name(), test.ShouldEqual, "roundtrip")
	test.That(t, rebuilt.Roots(), test.ShouldHaveLength, 2)
	test.That(t, cmp.Diff(tree.FrameNames(), rebuilt.FrameNames()), test.ShouldBeEmpty)
	for _, f := range frames[1:] {
		g := rebuilt.Frame(f.Name())
		test.That(t, g, test.ShouldNotBeNil)
		test.That(t, g.IsRoot(), test.ShouldEqual, f.IsRoot())
		test.That(t, g.IsBodyCenteredFrame(), test.ShouldEqual, f.IsBodyCenteredFrame())
		test.That(t, g.RootFrame().Name(), test.ShouldEqual, f.RootFrame().Name())
		test.That(t, g.TransformToRoot().EpsilonEquals(f.TransformToRoot(), 1e-9), test.ShouldBeTrue)
	}

	dup := NewTree("dup")
	_, err = dup.NewFrame("a", dup.World(), nil)
	test.That(t, err, test.ShouldBeNil)
	_, err = dup.NewFrame("a", dup.World(), nil)
	test.That(t, err, test.ShouldBeNil)
	_, err = NewTreeConfig(dup)
	test.That(t, err, test.ShouldNotBeNil)
}
