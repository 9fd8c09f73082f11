package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"MarketDigest/internal/logger"
)

var configPath = flag.String("config", "configs/config.yaml", "path to the YAML config file")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	status := commander.Execute(context.Background())
	logger.Sync()
	os.Exit(int(status))
}
