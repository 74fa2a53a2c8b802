package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestDataFlags(t *testing.T) {
	t.Run("data flag has default directory", func(t *testing.T) {
		var dataFlag *cli.StringFlag
		for _, flag := range dataFlags() {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "data" {
				dataFlag = f
				break
			}
		}
		require.NotNil(t, dataFlag)
		assert.Equal(t, "./ticketgraph_data", dataFlag.Value)
	})

	t.Run("ai-token reads from the environment", func(t *testing.T) {
		var tokenFlag *cli.StringFlag
		for _, flag := range dataFlags() {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "ai-token" {
				tokenFlag = f
				break
			}
		}
		require.NotNil(t, tokenFlag)
		assert.Equal(t, []string{"TICKETGRAPH_AI_TOKEN"}, tokenFlag.EnvVars)
	})
}

func TestLoadServeConfig(t *testing.T) {
	t.Run("empty path yields zero config", func(t *testing.T) {
		cfg, err := loadServeConfig("")
		require.NoError(t, err)
		assert.Empty(t, cfg.Host)
		assert.Zero(t, cfg.Port)
	})

	t.Run("parses a full config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "server.yaml")
		content := `host: 0.0.0.0
port: 9090
key: secret
system: HR Suite
domain_keywords:
  - payroll
  - vacation
pool_size: 4
ai:
  host: http://ollama:11434/v1
  classifier_model: qwen2.5:7b
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := loadServeConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0", cfg.Host)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "secret", cfg.Key)
		assert.Equal(t, "HR Suite", cfg.System)
		assert.Equal(t, []string{"payroll", "vacation"}, cfg.DomainKeywords)
		assert.Equal(t, 4, cfg.PoolSize)
		assert.Equal(t, "http://ollama:11434/v1", cfg.AI.Host)
		assert.Equal(t, "qwen2.5:7b", cfg.AI.ClassifierModel)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := loadServeConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("host: [unclosed"), 0644))

		_, err := loadServeConfig(path)
		assert.Error(t, err)
	})
}

func TestAIConfigFromFlags(t *testing.T) {
	app := &cli.App{
		Flags: dataFlags(),
		Action: func(c *cli.Context) error {
			cfg := aiConfigFromFlags(c)
			assert.Equal(t, "http://example:8000/v1", cfg.Host)
			assert.Equal(t, "gpt-4o-mini", cfg.ClassifierModel)
			// Unset flags keep the defaults
			assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
			return nil
		},
	}

	err := app.Run([]string{
		"ticketgraphd",
		"--ai-host", "http://example:8000/v1",
		"--classifier-model", "gpt-4o-mini",
	})
	require.NoError(t, err)
}

func TestSetupLogger(t *testing.T) {
	t.Run("rejects unknown level", func(t *testing.T) {
		app := &cli.App{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(*cli.Context) error { return nil },
		}

		err := app.Run([]string{"ticketgraphd", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("accepts each level case-insensitively", func(t *testing.T) {
		defer slog.SetDefault(slog.Default())

		for _, level := range []string{"debug", "Info", "WARN", "error"} {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level", Value: "info"},
				},
				Before: setupLogger,
				Action: func(*cli.Context) error { return nil },
			}
			assert.NoError(t, app.Run([]string{"ticketgraphd", "--log-level", level}))
		}
	})
}
