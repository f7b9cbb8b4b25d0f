package cli

import (
	"os"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	jsonhandler "github.com/apex/log/handlers/json"
	"github.com/spf13/cobra"

	"salary-band/config"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:          "salary-band",
		Short:        "Salary band penetration rate and projection",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose log output")

	cmd.AddCommand(serveCmd(&verbose))
	cmd.AddCommand(analyzeCmd(&verbose))
	return cmd
}

// setupLogging installs the handler and level from cfg. verbose forces debug.
func setupLogging(cfg config.Config, verbose bool) {
	switch cfg.LogFormat {
	case "json":
		log.SetHandler(jsonhandler.New(os.Stderr))
	default:
		log.SetHandler(clihandler.New(os.Stderr))
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}
