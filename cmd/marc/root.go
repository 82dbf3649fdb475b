package main

import (
	"fmt"
	"io"

	"github.com/davidvella/marc"
	"github.com/davidvella/marc/decode"
	"github.com/davidvella/marc/internal/config"
	"github.com/davidvella/marc/source"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries the settings shared by every subcommand.
type app struct {
	configPath   string
	handling     string
	hideWarnings bool
	logLevel     string

	cfg    config.Config
	logger *logrus.Logger
}

// NewRootCmd creates the root command for marc.
func NewRootCmd() *cobra.Command {
	a := &app{logger: logrus.New()}

	rootCmd := &cobra.Command{
		Use:          "marc",
		Short:        "Read, inspect and catalogue MARC21 transmission files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&a.handling, "utf8-handling", "", "UTF-8 decode mode: strict, replace, xmlcharrefreplace or ignore")
	flags.BoolVar(&a.hideWarnings, "hide-utf8-warnings", false, "do not log records that fail to decode")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (panic, fatal, error, warn, info, debug, trace)")

	rootCmd.AddCommand(newDumpCmd(a))
	rootCmd.AddCommand(newCountCmd(a))
	rootCmd.AddCommand(newLoadCmd(a))
	rootCmd.AddCommand(newGetCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// setup loads the config file and applies any flags given on the command
// line over it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("utf8-handling") {
		h, err := decode.ParseHandling(a.handling)
		if err != nil {
			return err
		}
		cfg.UTF8Handling = h
	}
	if flags.Changed("hide-utf8-warnings") {
		cfg.HideUTF8Warnings = a.hideWarnings
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	a.logger.SetLevel(level)
	a.logger.SetOutput(cmd.ErrOrStderr())

	a.cfg = cfg
	return nil
}

func (a *app) readerOptions() []marc.Option {
	return a.cfg.ReaderOptions(a.logger)
}

// inputs maps file arguments to reader inputs. "-" reads standard input,
// which is left open when the reader is released.
func (a *app) inputs(cmd *cobra.Command, args []string) []source.Input {
	inputs := make([]source.Input, 0, len(args))
	for _, arg := range args {
		if arg == "-" {
			inputs = append(inputs, source.Stream(io.NopCloser(cmd.InOrStdin())))
			continue
		}
		inputs = append(inputs, source.Path(arg))
	}
	return inputs
}
