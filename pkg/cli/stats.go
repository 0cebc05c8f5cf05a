package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"
)

func statsCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "stats",
		Usage: "Show memory store statistics",
		Flags: globalFlags(&cfg),
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

			stats, err := uc.Stats(ctx)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "Total memories: %d\n", stats.TotalMemories)
			if len(stats.RecentActivity) > 0 {
				fmt.Fprintln(w, "Recent activity:")
				days := make([]string, 0, len(stats.RecentActivity))
				for day := range stats.RecentActivity {
					days = append(days, day)
				}
				sort.Sort(sort.Reverse(sort.StringSlice(days)))
				for _, day := range days {
					fmt.Fprintf(w, "  %s: %d\n", day, stats.RecentActivity[day])
				}
			}
			return nil
		},
	}
}
