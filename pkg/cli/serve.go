package cli

import (
	"context"

	mcpserver "github.com/syntaxrag/recall/pkg/service/mcp"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg      config
		httpAddr string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "http",
			Usage:       "Serve MCP over HTTP on this address instead of stdio (e.g. :8000)",
			Sources:     cli.EnvVars("RECALL_HTTP_ADDR"),
			Destination: &httpAddr,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve memory tools over MCP",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}

			uc, closer, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closer()

			srv := mcpserver.New(uc)
			if httpAddr != "" {
				return srv.RunHTTP(ctx, httpAddr)
			}
			return srv.RunStdio(ctx)
		},
	}
}
