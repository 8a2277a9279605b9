// Command sitegen renders the property site to static HTML and checks data
// documents before they are published.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sinbibook/yeoyoochae/internal/observability"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	data       string
	templates  string
	locales    string
	lang       string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "sitegen",
		Short: "Render and validate yeoyoochae property sites",
		Long: `Sitegen maps a property data document onto the page templates without a server.

Examples:
  sitegen build -o dist
  sitegen build --data https://api.example.com/property.json -o dist
  sitegen validate --data testdata/standard-template-data.json`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVarP(&g.data, "data", "d", "", "data document path or URL (default from config)")
	root.PersistentFlags().StringVar(&g.templates, "templates", "", "templates directory (default from config)")
	root.PersistentFlags().StringVar(&g.locales, "locales", "", "locales directory (default from config)")
	root.PersistentFlags().StringVar(&g.lang, "lang", "", "page language (default from config)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log every rendered file")

	root.AddCommand(newBuildCmd(g))
	root.AddCommand(newValidateCmd(g))
	return root
}

func (g *globalFlags) logger() *zap.Logger {
	level := "warn"
	if g.verbose {
		level = "info"
	}
	logger, err := observability.NewLoggerAt(level)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
