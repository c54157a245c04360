package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" help:"Path to HCL config file" type:"path"`
	Debug   bool             `help:"Enable debug logging"`

	Play     PlayCmd     `cmd:"" default:"1" help:"Play blackjack in the terminal"`
	Simulate SimulateCmd `cmd:"" help:"Autoplay rounds with basic strategy and report statistics"`
	Serve    ServeCmd    `cmd:"" help:"Autoplay a paced table observers can watch over websocket"`
	Stats    StatsCmd    `cmd:"" help:"Print persisted balance and statistics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack: shoe, splits, insurance, surrender, and a persistent bankroll"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

// newLogger builds the CLI logger: warn level by default so game output stays
// clean, debug when asked.
func newLogger(debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}
