package main

import (
	"flag"
	"os"

	"github.com/louisbranch/groundbreak/internal/platform/config"
	"github.com/louisbranch/groundbreak/internal/tools/boardcheck"
)

func main() {
	cfg, err := boardcheck.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := boardcheck.Run(cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
