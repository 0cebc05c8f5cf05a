package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func rememberCommand() *cli.Command {
	var (
		cfg      config
		filePath string
		tags     []string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "JSON file with the chat log",
			Required:    true,
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
		Name:  "remember",
		Usage: "Interactively review and store a chat log as a memory",
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
			if len(doc.ChatLog) == 0 {
				return goerr.New("chat_log is required and cannot be empty")
			}

			uc, closer, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closer()

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to open terminal")
			}
			defer rl.Close()

			w := c.Root().Writer

			// Probe for memories that likely cover the same conversation
			// before spending a summarization call.
			similar, err := uc.FindSimilar(ctx, doc.ChatLog)
			if err != nil {
				return err
			}
			if len(similar) > 0 {
				fmt.Fprintf(w, "Found %d similar memories:\n", len(similar))
				for _, m := range similar {
					printMemory(w, m, true)
				}
				ok, err := confirm(rl, "Store anyway?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(w, "Aborted")
					return nil
				}
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " Summarizing..."
			sp.Start()
			preview, err := uc.Preview(ctx, doc.ChatLog, doc.Context)
			sp.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "\nHeading: %s\n\n%s\n\n", preview.Heading, preview.Summary)

			heading := preview.Heading
			summary := preview.Summary
			for {
				ok, err := confirm(rl, "Store this memory?")
				if err != nil {
					return err
				}
				if ok {
					break
				}

				edit, err := confirm(rl, "Edit heading and summary?")
				if err != nil {
					return err
				}
				if !edit {
					fmt.Fprintln(w, "Aborted")
					return nil
				}

				if heading, err = editLine(rl, "Heading", heading); err != nil {
					return err
				}
				if summary, err = editLine(rl, "Summary", summary); err != nil {
					return err
				}
				fmt.Fprintf(w, "\nHeading: %s\n\n%s\n\n", heading, summary)
			}

			sp.Suffix = " Storing..."
			sp.Start()
			result, err := uc.Commit(ctx, heading, summary, append(doc.Tags, tags...), doc.Metadata)
			sp.Stop()
			if result != nil {
				printPipeline(w, result)
			}
			return err
		},
	}
}

func readChatLog(filePath string) (*ingestFile, error) {
	var (
		data []byte
		err  error
	)
	if filePath != "" {
		data, err = os.ReadFile(filePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read input file", goerr.V("path", filePath))
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read stdin")
		}
	}

	var doc ingestFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to parse input as JSON")
	}
	return &doc, nil
}

func confirm(rl *readline.Instance, prompt string) (bool, error) {
	rl.SetPrompt(prompt + " [y/N] ")
	defer rl.SetPrompt("> ")

	line, err := rl.Readline()
	if err != nil {
		return false, goerr.Wrap(err, "failed to read input")
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}

func editLine(rl *readline.Instance, label, current string) (string, error) {
	rl.SetPrompt(label + ": ")
	defer rl.SetPrompt("> ")

	line, err := rl.ReadlineWithDefault(current)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read input")
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}
