package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/taskdeck/taskdeck/internal/cli"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/ui"
	"github.com/taskdeck/taskdeck/internal/view"
)

func main() {
	conf := config.Load()

	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group output by pending/done")
	filterName := flag.String("filter", conf.Filter, "display filter: all, pending or completed")
	themeName := flag.String("theme", conf.Theme, "color theme: classic, mono or neon")
	dataFile := flag.String("file", "", "data file path (default ~/.taskdeck/tasks.json)")
	assumeYes := flag.Bool("yes", false, "answer yes to confirmation prompts")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	ui.SetColorForcing(false, *noColor)
	if *themeName != "" && ui.ValidTheme(*themeName) {
		ui.SetTheme(*themeName)
	}

	filter, ok := view.ParseFilter(*filterName)
	if !ok {
		fmt.Fprintln(os.Stderr, "unknown filter:", *filterName)
		os.Exit(2)
	}

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Group:     *groupPending,
		Filter:    filter,
		File:      *dataFile,
		AssumeYes: *assumeYes,
	})
	os.Exit(code)
}
