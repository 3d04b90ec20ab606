package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/funvibe/adaptive/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

// app carries state shared by all commands once the root pre-run has
// loaded the configuration.
type app struct {
	cfg        *config.Config
	configPath string
	verbose    bool
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}
	root := &cobra.Command{
		Use:           "adaptive",
		Short:         "Run bundled programs through the adaptive specialization engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to adaptive.yaml (default: search from the working directory up)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log speculation events")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newListCmd(), newShowCmd(a), newRunCmd(a), newHistoryCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if path, err = config.FindConfig(wd); err != nil {
			return err
		}
	}
	if path != "" {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	level := a.cfg.LogLevel()
	if a.verbose {
		level = zerolog.DebugLevel
	}
	setupLogging(cmd.ErrOrStderr(), level)

	if a.noColor {
		color.NoColor = true
	}
	return nil
}
