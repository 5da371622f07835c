package main

import (
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/caff2jpg/internal/convert"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool

	caffMode bool
	ciffMode bool
	quality  int64
	strict   bool
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default $" + envConfig + " or the user config dir)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, plain, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func conversionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "quality",
			Aliases:     []string{"q"},
			Usage:       "JPEG quality (1-100)",
			Value:       convert.DefaultQuality,
			Destination: &quality,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "reject padding and trailing bytes the format tolerates",
			Destination: &strict,
		},
	}
}
