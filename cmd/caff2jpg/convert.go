package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/caff2jpg/internal/convert"
	"github.com/samcharles93/caff2jpg/internal/logger"
	"github.com/samcharles93/caff2jpg/pkg/caff"
)

func convertCmd() *cli.Command {
	var outPath string

	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a .caff or .ciff file to JPEG",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path (default: input with a .jpg extension)",
				Destination: &outPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return cli.Exit("error: expected exactly one input path", 1)
			}
			ctx, cfg, err := prepare(ctx, cmd)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			applyConversionConfig(cmd, cfg)

			input := cmd.Args().First()
			mode, err := convert.ModeFromPath(input)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return runConvert(ctx, convert.Request{
				Input:   input,
				Output:  outPath,
				Mode:    mode,
				Quality: int(quality),
				Options: caff.Options{Strict: strict},
			})
		},
	}
}

func runConvert(ctx context.Context, req convert.Request) error {
	if quality < 1 || quality > 100 {
		return cli.Exit(fmt.Sprintf("error: --quality must be between 1 and 100, got %d", quality), 1)
	}
	res, err := convert.Convert(ctx, req)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	logger.FromContext(ctx).Info("converted",
		"input", res.Input,
		"output", res.Output,
		"width", res.Width,
		"height", res.Height,
		"frames", res.Frames,
		"bytes", res.Bytes,
		"duration", res.Duration.String(),
	)
	return nil
}
