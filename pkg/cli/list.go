package cli

import (
	"context"
	"fmt"

	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg   config
		limit int64
		date  string
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of results",
			Value:       memory.DefaultLimit,
			Destination: &limit,
		},
		&cli.StringFlag{
			Name:        "date",
			Usage:       "Only list memories created on this day (YYYY-MM-DD)",
			Destination: &date,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List memories, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}

			uc, closer, err := cfg.newStoreUseCase(ctx)
			if err != nil {
				return err
			}
			defer closer()

			out, err := uc.Retrieve(ctx, memory.RetrieveOptions{
				Limit: int(limit),
				Mode:  model.ModeRecent,
				Date:  date,
			})
			if err != nil {
				return err
			}

			if len(out.Memories) == 0 {
				fmt.Fprintln(c.Root().Writer, "No memories found")
				return nil
			}
			for _, m := range out.Memories {
				printMemory(c.Root().Writer, m, false)
			}
			return nil
		},
	}
}
