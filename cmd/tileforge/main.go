// Command tileforge is a quad-tile level editor.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Faultbox/tileforge/internal/config"
	"github.com/Faultbox/tileforge/internal/logger"
)

func init() {
	// SDL must be driven from the main thread.
	runtime.LockOSThread()
}

var cfg *config.Config

func main() {
	root := &cobra.Command{
		Use:           "tileforge",
		Short:         "Quad-tile level editor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newRunCmd(), newReplayCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tileforge: %v\n", err)
		os.Exit(1)
	}
}
