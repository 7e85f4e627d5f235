package cli

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go.viam.com/frametree/logging"
	"go.viam.com/frametree/referenceframe"
	"go.viam.com/frametree/utils"
)

func printf(w io.Writer, format string, a ...interface{}) {
	if _, err := fmt.Fprintf(w, format+"\n", a...); err != nil {
		logging.Global().Errorw("failed to write output", "error", err)
	}
}

const (
	loggerKey  = "logger"
	logFileKey = "log-file"
)

// setupLogging builds the logger for the command. Log lines go to the error writer so they never
// mix with command output.
func setupLogging(c *cli.Context) error {
	logger := logging.NewBlankLogger(defaultName)
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(logging.WARN)
	if c.Bool(debugFlag) {
		logger.SetLevel(logging.DEBUG)
		logging.GlobalLogLevel.SetLevel(zap.DebugLevel)
	}
	if filename := c.String(logFileFlag); filename != "" {
		file := logging.NewFileAppender(filename, 10, 3)
		logger.AddAppender(file)
		c.App.Metadata[logFileKey] = file
	}
	c.App.Metadata[loggerKey] = logger
	return nil
}

func closeLogFile(c *cli.Context) error {
	if file, ok := c.App.Metadata[logFileKey].(*logging.FileAppender); ok {
		return file.Close()
	}
	return nil
}

func appLogger(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerKey].(logging.Logger); ok {
		return logger
	}
	return logging.Global()
}

func loadTree(c *cli.Context) (*referenceframe.Tree, error) {
	logger := appLogger(c)
	opts := []referenceframe.TreeOption{referenceframe.WithLogger(logger.Sublogger("tree"))}
	if tol := c.Float64(checkFlag); tol > 0 {
		opts = append(opts, referenceframe.WithOrthonormalityCheck(tol))
	}

	configFile, urdfFile := c.String(configFlag), c.String(urdfFlag)
	switch {
	case configFile != "" && urdfFile != "":
		return nil, errors.Errorf("only one of --%s and --%s may be given", configFlag, urdfFlag)
	case configFile != "":
		logger.Debugw("loading tree config", "file", configFile)
		cfg, err := referenceframe.ReadTreeConfigFile(configFile)
		if err != nil {
			return nil, err
		}
		return referenceframe.NewTreeFromConfig(cfg, opts...)
	case urdfFile != "":
		logger.Debugw("loading URDF", "file", urdfFile)
		return referenceframe.ParseURDFFile(urdfFile, opts...)
	default:
		return nil, errors.Errorf("one of --%s or --%s is required", configFlag, urdfFlag)
	}
}

func findFrame(tree *referenceframe.Tree, name string) (*referenceframe.ReferenceFrame, error) {
	f := tree.Frame(name)
	if f == nil {
		return nil, referenceframe.NewFrameNotInTreeError(name)
	}
	return f, nil
}

// FramesAction prints a table of every frame in the tree, with its pose relative to its root.
func FramesAction(c *cli.Context) error {
	tree, err := loadTree(c)
	if err != nil {
		return err
	}
	if err := tree.UpdateAll(); err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Parent", "Root", "Translation", "Orientation"})
	for i, f := range tree.Frames() {
		parent := ""
		if p := f.Parent(); p != nil {
			parent = p.Name()
		}
		toRoot := f.TransformToRoot()
		tra := toRoot.Translation()
		ori := toRoot.EulerAngles()
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", i),
			f.Name(),
			parent,
			f.RootFrame().Name(),
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf(
				"Roll:%.2f, Pitch:%.2f, Yaw:%.2f",
				utils.RadToDeg(ori.Roll),
				utils.RadToDeg(ori.Pitch),
				utils.RadToDeg(ori.Yaw),
			),
		})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// TransformAction re-expresses a point, or a vector with --vector, in another frame.
func TransformAction(c *cli.Context) error {
	tree, err := loadTree(c)
	if err != nil {
		return err
	}
	from, err := findFrame(tree, c.String(fromFlag))
	if err != nil {
		return err
	}
	to, err := findFrame(tree, c.String(toFlag))
	if err != nil {
		return err
	}

	xyz := [3]float64{c.Float64(xFlag), c.Float64(yFlag), c.Float64(zFlag)}
	var tuple interface {
		ChangeFrame(*referenceframe.ReferenceFrame) error
		String() string
	}
	if c.Bool(vectorFlag) {
		tuple = referenceframe.NewFrameVectorFromArray("vector", from, xyz)
	} else {
		tuple = referenceframe.NewFramePointFromArray("point", from, xyz)
	}
	if err := tuple.ChangeFrame(to); err != nil {
		return err
	}
	printf(c.App.Writer, "%s", tuple.String())
	return nil
}

// ConvertAction prints the loaded tree as YAML, JSON or URDF.
func ConvertAction(c *cli.Context) error {
	tree, err := loadTree(c)
	if err != nil {
		return err
	}

	var out []byte
	switch format := c.String(formatFlag); format {
	case formatYAML, formatJSON:
		cfg, err := referenceframe.NewTreeConfig(tree)
		if err != nil {
			return err
		}
		if format == formatYAML {
			out, err = yaml.Marshal(cfg)
		} else {
			out, err = json.MarshalIndent(cfg, "", "  ")
		}
		if err != nil {
			return errors.Wrapf(err, "failed to encode tree as %s", format)
		}
	case formatURDF:
		urdf, err := referenceframe.NewURDFConfig(tree)
		if err != nil {
			return err
		}
		if out, err = xml.MarshalIndent(urdf, "", "  "); err != nil {
			return errors.Wrap(err, "failed to encode tree as urdf")
		}
	default:
		return errors.Errorf("unknown format %q", format)
	}
	printf(c.App.Writer, "%s", out)
	return nil
}

// SchemaAction prints the JSON schema of tree config files.
func SchemaAction(c *cli.Context) error {
	out, err := json.MarshalIndent(referenceframe.TreeConfigSchema(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode schema")
	}
	printf(c.App.Writer, "%s", out)
	return nil
}

// VersionAction prints the version of the frametree binary.
func VersionAction(c *cli.Context) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("error reading build info")
	}
	if c.Bool(debugFlag) {
		printf(c.App.Writer, "%s", info.String())
	}
	settings := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		settings[setting.Key] = setting.Value
	}
	version := "?"
	if rev, ok := settings["vcs.revision"]; ok && len(rev) >= 8 {
		version = rev[:8]
		if settings["vcs.modified"] == "true" {
			version += "+"
		}
	}
	printf(c.App.Writer, "Version %s Git=%s", info.Main.Version, version)
	return nil
}
