package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "recall",
		Usage: "Conversational memory store for coding agents",
		Commands: []*cli.Command{
			serveCommand(),
			ingestCommand(),
			rememberCommand(),
			searchCommand(),
			listCommand(),
			showCommand(),
			deleteCommand(),
			statsCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
