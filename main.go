package main

import (
	"flag"
	"log"

	"ptd/internal/di"
	"ptd/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to configuration file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug logging to console")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		log.Fatalf("ptd: %s", err)
	}
}
