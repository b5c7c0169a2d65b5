package main

import (
	"fmt"
	"inventory/internal/cli"
	"inventory/pkg/logger"
	"os"
)

func main() {
	log := logger.Init()
	defer log.Sync()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
