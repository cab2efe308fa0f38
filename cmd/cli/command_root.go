package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool

	// childExitCode is what the run command propagates to the caller.
	childExitCode int

	logger = zerolog.Nop()
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sxc",
		Short:         "Unbuffered child-process execution CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if flagVerbose {
				level = zerolog.DebugLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to TOML config file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newDevicesCmd())

	return root
}
