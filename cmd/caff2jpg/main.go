package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/caff2jpg/internal/convert"
	"github.com/samcharles93/caff2jpg/pkg/caff"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "caff2jpg",
		Usage:     "Convert CAFF and CIFF images to JPEG",
		UsageText: "caff2jpg -caff path.caff | caff2jpg -ciff path.ciff | caff2jpg <command> [options]",
		Flags: append(append(globalFlags(), conversionFlags()...),
			&cli.BoolFlag{
				Name:        "caff",
				Usage:       "convert a .caff animation; the extension is matched case-insensitively (legacy form)",
				Local:       true,
				Destination: &caffMode,
			},
			&cli.BoolFlag{
				Name:        "ciff",
				Usage:       "convert a .ciff image; the extension is matched case-insensitively (legacy form)",
				Local:       true,
				Destination: &ciffMode,
			},
		),
		Action: legacyAction,
		Commands: []*cli.Command{
			convertCmd(),
			inspectCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}

// legacyAction handles `caff2jpg -caff file` and `caff2jpg -ciff file`.
func legacyAction(ctx context.Context, cmd *cli.Command) error {
	if !caffMode && !ciffMode && cmd.NArg() == 0 {
		return cli.ShowAppHelp(cmd)
	}
	if caffMode == ciffMode {
		return cli.Exit("error: exactly one of -caff or -ciff is required", 1)
	}
	if cmd.NArg() != 1 {
		return cli.Exit("error: expected exactly one input path", 1)
	}

	ctx, cfg, err := prepare(ctx, cmd)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	applyConversionConfig(cmd, cfg)

	mode := convert.ModeCIFF
	if caffMode {
		mode = convert.ModeCAFF
	}
	return runConvert(ctx, convert.Request{
		Input:   cmd.Args().First(),
		Mode:    mode,
		Quality: int(quality),
		Options: caff.Options{Strict: strict},
	})
}
