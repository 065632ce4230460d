package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/cmd/loomd/app"
	"github.com/tradeloom/loom/commands/server"
)

const usage = `loomd: two party escrow node

Usage:

	loomd [-home DIR] <command> [arguments]

Commands:

	init      write the app_state of a development chain into the genesis file
	start     run the ABCI server
	validate  check the app_state of the given genesis files
	version   print the version
	help      print this message

`

type command func(logger log.Logger, home string, args []string) error

var commands = map[string]command{
	"init": func(logger log.Logger, home string, args []string) error {
		return server.InitCmd(app.GenInitOptions, logger, home, args)
	},
	"start": func(logger log.Logger, home string, args []string) error {
		return server.StartCmd(app.GenerateApp, logger, home, args)
	},
	"validate": func(_ log.Logger, _ string, args []string) error {
		return server.ValidateGenesis(app.Initializers(), args)
	},
	"version": func(log.Logger, string, []string) error {
		fmt.Println(loom.Version())
		return nil
	},
	"help": func(log.Logger, string, []string) error {
		fmt.Print(usage)
		return nil
	},
}

func main() {
	home := flag.String("home", filepath.Join(os.Getenv("HOME"), ".loomd"), "node home directory")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	run, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	conf, err := server.LoadConfig(*home)
	if err != nil {
		fatal(err)
	}
	logger, err := server.NewLogger(conf.Log, os.Stdout)
	if err != nil {
		fatal(err)
	}
	if err := run(logger.With("module", "loomd"), *home, flag.Args()[1:]); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
	os.Exit(1)
}
