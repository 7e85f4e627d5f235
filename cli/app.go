// Package cli contains the frametree command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/frametree/referenceframe"
)

const (
	// Flags.
	configFlag  = "config"
	urdfFlag    = "urdf"
	debugFlag   = "debug"
	logFileFlag = "log-file"
	fromFlag    = "from"
	toFlag      = "to"
	xFlag       = "x"
	yFlag       = "y"
	zFlag       = "z"
	vectorFlag  = "vector"
	formatFlag  = "format"
	checkFlag   = "orthonormality-tolerance"
	formatYAML  = "yaml"
	formatJSON  = "json"
	formatURDF  = "urdf"
	defaultName = "frametree"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            defaultName,
		Usage:           "inspect reference frame trees and move points between frames",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "load the tree from a YAML or JSON `FILE`",
			},
			&cli.StringFlag{
				Name:  urdfFlag,
				Usage: "load the tree from a URDF `FILE`",
			},
			&cli.Float64Flag{
				Name:  checkFlag,
				Usage: "warn about frame transforms that are not orthonormal within this tolerance",
			},
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  logFileFlag,
				Usage: "also write log lines to `FILE`, rotated at 10MB",
			},
		},
		Metadata: map[string]interface{}{},
		Before:   setupLogging,
		After:    closeLogFile,
		Commands: []*cli.Command{
			{
				Name:   "frames",
				Usage:  "print every frame of the tree with its pose relative to its root",
				Action: FramesAction,
			},
			{
				Name:      "transform",
				Usage:     "express a point or vector given in one frame in another frame",
				UsageText: "frametree --config <file> transform --from <frame> --to <frame> --x 1 --y 2 --z 3",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  fromFlag,
						Value: referenceframe.World,
						Usage: "frame the coordinates are given in",
					},
					&cli.StringFlag{
						Name:  toFlag,
						Value: referenceframe.World,
						Usage: "frame to express the coordinates in",
					},
					&cli.Float64Flag{Name: xFlag},
					&cli.Float64Flag{Name: yFlag},
					&cli.Float64Flag{Name: zFlag},
					&cli.BoolFlag{
						Name:  vectorFlag,
						Usage: "treat the coordinates as a direction, ignoring translations",
					},
				},
				Action: TransformAction,
			},
			{
				Name:  "convert",
				Usage: "print the tree in another format",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  formatFlag,
						Value: formatYAML,
						Usage: "output format, one of yaml, json or urdf",
					},
				},
				Action: ConvertAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of tree config files",
				Action: SchemaAction,
			},
			{
				Name:   "version",
				Usage:  "print version info for this program",
				Action: VersionAction,
			},
		},
	}
}
