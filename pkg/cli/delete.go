package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/urfave/cli/v3"
)

func deleteCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a memory and its tags and metadata",
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

			deleted, err := uc.Delete(ctx, id)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintf(c.Root().Writer, "Memory %s not found\n", id)
				return nil
			}
			fmt.Fprintf(c.Root().Writer, "Deleted memory %s\n", id)
			return nil
		},
	}
}
