// Copyright 2023 Canonical Ltd.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/canonical/build-web-env/builder"
	"github.com/canonical/build-web-env/config"
)

const appName = "build-web-env"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	target := config.DefaultTarget

	app := &cli.App{
		Name:      appName,
		Usage:     "fill {{KEY}} placeholders in the web environment script from a .env file",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file (default: " + config.Location(appName) + " if present)",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "project directory that relative paths are resolved against",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "KEY=VALUE file providing the placeholder values",
				Value: config.DefaultEnvFile,
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "file holding the placeholders (default: the target, rewritten in place)",
			},
			&cli.StringFlag{
				Name:  "target",
				Usage: "file the rendered output is written to",
				Value: config.DefaultTarget,
			},
			&cli.BoolFlag{
				Name:  "atomic",
				Usage: "write the target through a temporary file and rename it into place",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "minimum log level: debug, info, warn or error",
				Value: config.DefaultLogLevel,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			target = cfg.Target

			logger, err := newLogger(cfg.LogLevel, c.App.ErrWriter)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := builder.New(*cfg, logger).Build(*cfg); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "%s built successfully\n", cfg.Target)
			return nil
		},
	}

	if err := app.Run(args); err != nil {
		fmt.Fprintf(stderr, "error building %s: %v\n", target, err)
		return 1
	}
	return 0
}

// loadConfig merges the defaults, the config file and the flags explicitly
// set on the command line, in increasing order of precedence.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	path := c.String("config")
	if path == "" {
		if p := config.Location(appName); fileExists(p) {
			path = p
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if c.IsSet("root") {
		cfg.Root = c.String("root")
	}
	if c.IsSet("env-file") {
		cfg.EnvFile = c.String("env-file")
	}
	if c.IsSet("template") {
		cfg.Template = c.String("template")
	}
	if c.IsSet("target") {
		cfg.Target = c.String("target")
	}
	if c.IsSet("atomic") {
		cfg.Atomic = c.Bool("atomic")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	return &cfg, nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
