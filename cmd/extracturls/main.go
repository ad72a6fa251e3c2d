package main

import (
	"fmt"
	"os"
	"time"

	"rss-urls/pkg/config"
	"rss-urls/pkg/loader"
	"rss-urls/pkg/pipeline"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "extracturls",
		Usage: "Extract article URLs from local RSS/Atom feed files",
		Description: "Reads every feed file in the input directory, takes the link of " +
			"each RSS item (or, failing that, the alternate link of each Atom entry), " +
			"applies the per-feed filter rules and writes one <feed>.txt per feed " +
			"into the output directory.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Value:   config.DefaultInputDir,
				Usage:   "Directory containing feed files",
				EnvVars: []string{"RSSURLS_INPUT"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   config.DefaultOutputDir,
				Usage:   "Directory receiving the URL lists",
				EnvVars: []string{"RSSURLS_OUTPUT"},
			},
			&cli.StringFlag{
				Name:    "ext",
				Value:   loader.DefaultExtension,
				Usage:   "Feed file extension",
				EnvVars: []string{"RSSURLS_EXT"},
			},
			&cli.StringFlag{
				Name:    "rules",
				Aliases: []string{"r"},
				Usage:   "Optional TOML file with additional per-feed filter rules",
				EnvVars: []string{"RSSURLS_RULES"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"RSSURLS_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "Log format (text, json)",
				EnvVars: []string{"RSSURLS_LOG_FORMAT"},
			},
		},
		Action: run,
	}
}

func run(ctx *cli.Context) error {
	if err := setupLogging(ctx.String("log-level"), ctx.String("log-format")); err != nil {
		return cli.Exit(err, 2)
	}

	rules, err := config.LoadRules(ctx.String("rules"))
	if err != nil {
		return cli.Exit(err, 2)
	}

	p := pipeline.NewPipeline(pipeline.Config{
		InputDir:  ctx.String("input"),
		OutputDir: ctx.String("output"),
		Extension: ctx.String("ext"),
		Rules:     rules,
	})

	start := time.Now()
	log.WithFields(log.Fields{
		"input":  ctx.String("input"),
		"output": ctx.String("output"),
		"rules":  rules.Feeds(),
	}).Info("Extracting URLs from feeds")

	summary, err := p.Run(ctx.Context)
	if err != nil {
		return cli.Exit(err, 1)
	}

	log.WithFields(log.Fields{
		"feeds":    len(summary.Results),
		"failed":   len(summary.Failed()),
		"duration": time.Since(start).String(),
	}).Debug("Run finished")
	return nil
}

func setupLogging(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(lvl)

	switch format {
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}
