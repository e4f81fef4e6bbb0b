// Command sasmctl is a CLI front end over the SASM translator: it
// assembles source files, reports variable layouts, and demonstrates
// the restore-variables round trip.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy-sasm/sasm32/config"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sasmctl",
		Short: "Translate SASM source into flat IA-32 machine code",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config.toml (defaults to the platform config dir)")

	root.AddCommand(newAssembleCmd())
	root.AddCommand(newVarsCmd())
	root.AddCommand(newRestoreDemoCmd())

	return root
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
