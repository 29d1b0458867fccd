// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ik5/melfeat/internal/config"
)

func newRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:           "melfeat",
		Short:         "Log-mel feature extraction for labeled audio corpora",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.String("log-file", "", "also write logs to this file, rotated")
	pf.Bool("log-json", false, "log as JSON")

	bind(v, root, map[string]string{
		config.KeyLogLevel: "log-level",
		config.KeyLogFile:  "log-file",
		config.KeyLogJSON:  "log-json",
	}, true)

	root.AddCommand(newExtractCmd(v), newInspectCmd())

	return root
}

// bind maps viper keys to flags so a flag set on the command line wins over
// the environment and the config file.
func bind(v *viper.Viper, cmd *cobra.Command, keys map[string]string, persistent bool) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}

	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}
