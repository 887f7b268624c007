package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AtRiskMedia/quartzgo/internal/application/startup"
	"github.com/AtRiskMedia/quartzgo/pkg/config"
)

const usage = `usage: quartzgo <command> [flags]

commands:
  build   build the site once into the output directory
  serve   build, serve with live reload and rebuild on changes
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cmd := args[0]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.StringVar(&config.ContentDir, "content", config.ContentDir, "content directory")
	fs.StringVar(&config.OutputDir, "output", config.OutputDir, "output directory")
	fs.StringVar(&config.SiteConfigPath, "config", config.SiteConfigPath, "site config file (quartz.json or quartz.toml)")
	fs.IntVar(&config.BuildConcurrency, "concurrency", config.BuildConcurrency, "pages rendered in parallel")
	if cmd == "serve" {
		fs.StringVar(&config.Port, "port", config.Port, "preview server port")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var runner func(context.Context) error
	switch cmd {
	case "build":
		runner = startup.Build
	case "serve":
		runner = startup.Serve
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "quartzgo: unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if err := runner(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "quartzgo: %v\n", err)
		return 1
	}
	return 0
}
