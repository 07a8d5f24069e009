package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/JonMunkholm/jobclean/internal/config"
	"github.com/JonMunkholm/jobclean/internal/core"
	"github.com/JonMunkholm/jobclean/internal/logging"
)

const defaultConfigFile = "jobclean.env"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "jobclean",
		Usage: "deduplicate, impute and type-normalize a job postings CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: defaultConfigFile,
				Usage: "KEY=value config file (optional unless set explicitly)",
			},
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "raw CSV to clean (default: data/ai_job_dataset.csv)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "where to write the cleaned CSV (default: data/ai_job_dataset_clean.csv)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "write the run report as a Prometheus textfile",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
			},
			&cli.BoolFlag{
				Name:  "no-dates",
				Usage: "leave date-named columns as text",
			},
			&cli.BoolFlag{
				Name:  "keep-duplicates",
				Usage: "skip duplicate row removal",
			},
		},
		Action: run,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		slog.Error("run failed", "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		if !core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	_, err = core.Run(ctx, core.RunConfig{
		Input:       cfg.Paths.Input,
		Output:      cfg.Paths.Output,
		MetricsFile: cfg.Paths.MetricsFile,
		Clean: core.CleanOptions{
			Dedup:             cfg.Pipeline.Dedup,
			ImputeNumeric:     cfg.Pipeline.ImputeNumeric,
			ImputeCategorical: cfg.Pipeline.ImputeCategorical,
			Categorize:        cfg.Pipeline.Categorize,
			ParseDates:        cfg.Pipeline.ParseDates,
			DateMarker:        cfg.Pipeline.DateMarker,
		},
		Out: os.Stdout,
	})
	return err
}

// loadConfig layers flags over the config file over built-in defaults.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	overrides := make(map[string]string)
	for flag, key := range map[string]string{
		"input":        "INPUT_PATH",
		"output":       "OUTPUT_PATH",
		"metrics-file": "METRICS_FILE",
		"log-level":    "LOG_LEVEL",
		"log-format":   "LOG_FORMAT",
	} {
		if cmd.IsSet(flag) {
			overrides[key] = cmd.String(flag)
		}
	}
	if cmd.Bool("no-dates") {
		overrides["PIPELINE_PARSE_DATES"] = "false"
	}
	if cmd.Bool("keep-duplicates") {
		overrides["PIPELINE_DEDUP"] = "false"
	}

	file, err := config.FromFile(cmd.String("config"), !cmd.IsSet("config"))
	if err != nil {
		return nil, err
	}

	return config.Load(config.Chain(config.FromMap(overrides), file))
}
