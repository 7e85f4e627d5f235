// Package main is the frametree command itself.
package main

import (
	"log"
	"os"

	"go.viam.com/frametree/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
