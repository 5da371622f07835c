package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/caff2jpg/internal/convert"
	"github.com/samcharles93/caff2jpg/pkg/caff"
)

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the structure of a .caff or .ciff file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the summary as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return cli.Exit("error: expected exactly one input path", 1)
			}
			_, cfg, err := prepare(ctx, cmd)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			applyConversionConfig(cmd, cfg)

			input := cmd.Args().First()
			summary, err := inspectFile(input)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			w := outWriter(cmd)
			if asJSON {
				b, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: encode summary: %v", err), 1)
				}
				_, err = fmt.Fprintln(w, string(b))
				return err
			}
			return printSummary(w, input, summary)
		},
	}
}

func inspectFile(path string) (*convert.Summary, error) {
	mode, err := convert.ModeFromPath(path)
	if err != nil {
		return nil, err
	}
	src, err := caff.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	summary, err := convert.Inspect(src.Data, mode, caff.Options{Strict: strict})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return summary, nil
}

func printSummary(w io.Writer, path string, s *convert.Summary) error {
	fmt.Fprintf(w, "file:     %s\n", path)
	fmt.Fprintf(w, "type:     %s\n", s.Mode)
	if s.Mode == convert.ModeCAFF {
		fmt.Fprintf(w, "frames:   %d\n", s.NumAnim)
		fmt.Fprintf(w, "duration: %d ms\n", s.TotalDurationMS)
		if s.Credits != nil {
			fmt.Fprintf(w, "created:  %s\n", s.Credits.Created.Format(time.DateTime))
			fmt.Fprintf(w, "creator:  %q\n", s.Credits.Creator)
		} else {
			fmt.Fprintln(w, "credits:  none")
		}
	}
	if len(s.Frames) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tduration_ms\twidth\theight\theader\tcontent\t")
	for _, f := range s.Frames {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t\n",
			f.Index, f.DurationMS, f.Width, f.Height, f.HeaderSize, f.ContentSize)
	}
	return tw.Flush()
}
