package main

import (
	"log/slog"
	"os"

	"github.com/aryankumar/multikube/internal/cli"
	"github.com/aryankumar/multikube/internal/util"
)

func main() {
	// Cancel in-flight cluster commands on SIGINT/SIGTERM
	ctx := util.SetupSignalHandler()

	if err := cli.Execute(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
