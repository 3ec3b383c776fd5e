package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	imgbed "github.com/TyrEamon/CloudFlare-ImgBed"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

// cli carries the persistent flags and the state shared by all commands.
type cli struct {
	store      string
	configPath string
	envFile    string
	verbose    bool
	logJSON    bool
	logFile    string

	cfg     fileConfig
	logger  *slog.Logger
	logSink io.Closer
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "imgbed-kv",
		Short: "Inspect and edit the image bed's file-backed key-value store",
		Long: `imgbed-kv operates on the JSON document that replaces the cloud key-value
store in self-hosted deployments. Keys are routed to the files, settings
(manage@sysConfig@) or index operation (manage@index@operation_) namespace.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logSink != nil {
				_ = c.logSink.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.store, "store", "s", "", "Store path or file:// URI (env "+envStorePath+")")
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&c.envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&c.logJSON, "log-json", false, "Log as JSON")
	flags.StringVar(&c.logFile, "log-file", "", "Also log to this file, rotated by size")

	rootCmd.AddCommand(
		newGetCmd(c),
		newPutCmd(c),
		newDeleteCmd(c),
		newListCmd(c),
		newOpsCmd(c),
		newWatchCmd(c),
		newStateCmd(c),
		newVersionCmd(),
	)
	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command) error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := slog.LevelInfo
	if c.verbose || cfg.Log.Verbose {
		level = slog.LevelDebug
	}

	var out io.Writer = cmd.ErrOrStderr()
	logFile := c.logFile
	if logFile == "" {
		logFile = cfg.Log.File
	}
	if logFile != "" {
		sink := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		}
		c.logSink = sink
		out = io.MultiWriter(out, sink)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	var handler slog.Handler
	if c.logJSON || cfg.Log.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	c.logger = slog.New(handler)
	slog.SetDefault(c.logger)
	return nil
}

// open builds the store service from the resolved location.
func (c *cli) open() (*core.Service, error) {
	location := storeLocation(c.store, c.cfg)
	c.logger.Debug("opening store", "location", location)

	return imgbed.New(location,
		imgbed.WithLogger(c.logger),
		imgbed.WithEventBuffer(c.cfg.EventBuffer),
		imgbed.WithWatcherErrorHandler(func(err error) {
			c.logger.Warn("watcher stopped", "error", err)
		}),
	)
}
