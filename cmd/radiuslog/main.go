package main

import (
	"os"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
