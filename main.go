// Package main is a nostr relay and event store. Configuration is via
// environment variables or an optional .env file.
package main

import (
	"fmt"
	"os"

	"lantern.dev/pkg/app/config"
	"lantern.dev/pkg/app/relay"
	"lantern.dev/pkg/database"
	"lantern.dev/pkg/utils/chk"
	"lantern.dev/pkg/utils/context"
	"lantern.dev/pkg/utils/interrupt"
	"lantern.dev/pkg/utils/log"
	"lantern.dev/pkg/utils/lol"
	"lantern.dev/pkg/version"
)

func main() {
	var err error
	var cfg *config.C
	if cfg, err = config.New(); chk.T(err) {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n\n", err)
		config.PrintHelp(cfg, os.Stderr)
		os.Exit(1)
	}
	if config.GetEnv() {
		config.PrintEnv(cfg, os.Stdout)
		os.Exit(0)
	}
	if config.HelpRequested() {
		config.PrintHelp(cfg, os.Stderr)
		os.Exit(0)
	}
	lol.SetLogLevel(cfg.LogLevel)
	log.I.F("starting %s %s", cfg.AppName, version.V)
	c, cancel := context.Cancel(context.Bg())
	var storage *database.D
	if storage, err = database.New(
		c, cancel, cfg.DataDir, cfg.DbLogLevel,
	); chk.E(err) {
		os.Exit(1)
	}
	server := relay.NewServer(c, cancel, cfg, storage)
	interrupt.AddHandler(func() { server.Shutdown() })
	if err = server.Start(cfg.Listen, cfg.Port); chk.E(err) {
		log.F.F("server terminated: %v", err)
	}
}
