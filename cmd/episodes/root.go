package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/JonMunkholm/episodes/internal/app"
	"github.com/JonMunkholm/episodes/internal/config"
	"github.com/JonMunkholm/episodes/internal/logging"
	"github.com/JonMunkholm/episodes/internal/source"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "episodes",
		Short:         "Browse, check, and export Doctor Who episode lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.envFile, "env-file", ".env", "dotenv file to load before reading the environment (empty to skip)")
	flags.StringSliceVarP(&ctx.sourceFlags, "source", "s", nil, "episode source location; repeatable, overrides EPISODE_SOURCES")
	flags.StringVar(&ctx.manifestFlag, "sources-file", "", "YAML source manifest, overrides SOURCES_FILE")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newTUICommand(ctx))

	return rootCmd
}

// commandContext loads configuration once per invocation and applies the
// persistent flag overrides.
type commandContext struct {
	envFile      string
	sourceFlags  []string
	manifestFlag string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if path := strings.TrimSpace(c.envFile); path != "" {
			if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				c.configErr = fmt.Errorf("load %s: %w", path, err)
				return
			}
		}

		cfg, err := config.FromEnv()
		if err != nil {
			c.configErr = err
			return
		}

		if len(c.sourceFlags) > 0 {
			cfg.Sources.Locations = c.sourceFlags
			cfg.Sources.File = ""
		}
		if c.manifestFlag != "" {
			cfg.Sources.File = c.manifestFlag
			cfg.Sources.Locations = nil
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = fmt.Errorf("config validation: %w", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// setupLogging sends logs to w, or to LOG_FILE when one is configured. The
// returned function closes the log file.
func (c *commandContext) setupLogging(cfg *config.Config, w io.Writer) (func(), error) {
	if cfg.Logging.File == "" {
		logging.SetupWriter(w, cfg.Logging.Level, cfg.Logging.Format)
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logging.SetupWriter(f, cfg.Logging.Level, cfg.Logging.Format)
	return func() { f.Close() }, nil
}

// withRuntime runs fn with the loader stack built from configuration. Logs
// go to logs unless LOG_FILE is set.
func (c *commandContext) withRuntime(cmd *cobra.Command, logs io.Writer, fn func(*config.Config, *app.Runtime) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	closeLog, err := c.setupLogging(cfg, logs)
	if err != nil {
		return err
	}
	defer closeLog()

	rt, err := app.Open(cmd.Context(), *cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	return fn(cfg, rt)
}

// load fetches every source. Fatal errors are reported the way the web and
// terminal explorers show them.
func load(ctx context.Context, rt *app.Runtime) (*source.Result, error) {
	res, err := rt.Loader.Load(ctx, rt.Sources)
	if err != nil {
		msg := app.MapError(err)
		return nil, fmt.Errorf("%s\n  detail: %s", msg.String(), msg.Detail)
	}
	return res, nil
}
