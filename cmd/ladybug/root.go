package main

import (
	"os"
	"time"

	"github.com/plus3/ladybug/components"
	"github.com/plus3/ladybug/ecs"
	"github.com/plus3/ladybug/ecs/debugui"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v   *viper.Viper
	cfg Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "ladybug",
		Short:         "Run, inspect and stress test ladybug entity systems",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return eris.Wrap(err, "bind flags")
			}
			cfg, err := LoadConfig(a.v, configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return eris.Wrapf(err, "log level %q", cfg.LogLevel)
			}
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).
				With().Timestamp().Logger()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./ladybug.yaml)")
	rootCmd.PersistentFlags().String("log_level", "info", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(
		newRunCmd(a),
		newInspectCmd(a),
		newStressCmd(a),
	)
	return rootCmd
}

// newRegistry registers every component the command line tools can load.
func newRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	components.Register(registry)
	debugui.Register(registry)
	return registry
}
