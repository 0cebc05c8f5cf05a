package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recall.yml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

// runSetup parses args through the real flag set and runs the config
// file merge, returning the resolved config.
func runSetup(t *testing.T, args ...string) *config {
	t.Helper()

	var cfg config
	cmd := &cli.Command{
		Name:  "recall",
		Flags: append(globalFlags(&cfg), llmFlags(&cfg)...),
		Action: func(ctx context.Context, c *cli.Command) error {
			_, err := cfg.setup(ctx, c)
			return err
		},
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"recall"}, args...)))
	return &cfg
}

func TestConfigFileFillsUnsetValues(t *testing.T) {
	path := writeConfigFile(t, `
log_level: debug
database:
  dsn: postgres://file-host/recall
  dimension: 768
gemini:
  project: file-project
  location: europe-west1
`)

	cfg := runSetup(t, "-c", path)
	gt.Equal(t, cfg.logLevel, "debug")
	gt.Equal(t, cfg.dbDSN, "postgres://file-host/recall")
	gt.Equal(t, cfg.dimension, int64(768))
	gt.Equal(t, cfg.geminiProject, "file-project")
	gt.Equal(t, cfg.geminiLocation, "europe-west1")
}

func TestExplicitFlagBeatsConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
log_level: debug
database:
  dimension: 768
gemini:
  location: europe-west1
`)

	// Passing a flag explicitly wins even when its value equals the
	// built-in default.
	cfg := runSetup(t, "-c", path,
		"--dimension", "1536",
		"--gemini-location", "us-central1",
		"--log-level", "info",
	)
	gt.Equal(t, cfg.dimension, int64(1536))
	gt.Equal(t, cfg.geminiLocation, "us-central1")
	gt.Equal(t, cfg.logLevel, "info")
}

func TestNoConfigFileKeepsDefaults(t *testing.T) {
	cfg := runSetup(t)
	gt.Equal(t, cfg.dimension, int64(1536))
	gt.Equal(t, cfg.geminiLocation, "us-central1")
	gt.Equal(t, cfg.logLevel, "info")
}
