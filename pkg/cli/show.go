package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "show",
		Usage:     "Show the full content of a memory",
		ArgsUsage: "<memory-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return goerr.New("memory ID is required")
			}
			id := model.MemoryID(c.Args().First())

			ctx, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}

			uc, closer, err := cfg.newStoreUseCase(ctx)
			if err != nil {
				return err
			}
			defer closer()

			mem, tags, err := uc.Get(ctx, id)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "ID:      %s\n", mem.ID)
			fmt.Fprintf(w, "Created: %s\n", mem.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(w, "Heading: %s\n", mem.Heading)
			if len(tags) > 0 {
				fmt.Fprintf(w, "Tags:    %s\n", strings.Join(tags, ", "))
			}
			fmt.Fprintf(w, "\n%s\n", mem.Summary)
			return nil
		},
	}
}
