package cli

import (
	"context"

	"github.com/syntaxrag/recall/pkg/model"
	"github.com/urfave/cli/v3"
)

// ingestFile is the JSON document accepted by `recall ingest`.
type ingestFile struct {
	ChatLog  []string          `json:"chat_log"`
	Context  string            `json:"context,omitempty"`
	Tags     []string          `json:"tags,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func ingestCommand() *cli.Command {
	var (
		cfg      config
		filePath string
		tags     []string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "JSON file with the chat log (default: stdin)",
			Destination: &filePath,
		},
		&cli.StringSliceFlag{
			Name:        "tag",
			Usage:       "Tag to attach to the stored memory (repeatable)",
			Destination: &tags,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Summarize a chat log and store it as a memory",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}

			doc, err := readChatLog(filePath)
			if err != nil {
				return err
			}

			uc, closer, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closer()

			result, err := uc.Ingest(ctx, &model.IngestInput{
				ChatLog:  doc.ChatLog,
				Context:  doc.Context,
				Tags:     append(doc.Tags, tags...),
				Metadata: doc.Metadata,
			})
			if result != nil {
				printPipeline(c.Root().Writer, result)
			}
			return err
		},
	}
}
