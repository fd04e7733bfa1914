package main

import (
	"os"

	"github.com/proj-blank/lightrain-options/cmd/thetabot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
