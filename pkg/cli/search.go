package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var (
		cfg       config
		limit     int64
		threshold float64
		date      string
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of results",
			Value:       memory.DefaultLimit,
			Destination: &limit,
		},
		&cli.FloatFlag{
			Name:        "threshold",
			Aliases:     []string{"t"},
			Usage:       "Minimum similarity score",
			Value:       memory.DefaultThreshold,
			Destination: &threshold,
		},
		&cli.StringFlag{
			Name:        "date",
			Usage:       "Only match memories created on this day (YYYY-MM-DD)",
			Destination: &date,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "search",
		Usage:     "Search memories by semantic similarity",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return goerr.New("query is required")
			}
			query := c.Args().First()

			ctx, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}

			uc, closer, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closer()

			// The flag always carries a value (its default matches the
			// engine default), so an explicit -t 0 reaches the engine
			// verbatim.
			out, err := uc.Retrieve(ctx, memory.RetrieveOptions{
				Query:     query,
				Limit:     int(limit),
				Threshold: &threshold,
				Mode:      model.ModeSemantic,
				Date:      date,
			})
			if err != nil {
				return err
			}

			if len(out.Memories) == 0 {
				fmt.Fprintln(c.Root().Writer, "No memories found")
				return nil
			}
			for _, m := range out.Memories {
				printMemory(c.Root().Writer, m, true)
			}
			return nil
		},
	}
}
