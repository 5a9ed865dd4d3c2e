// Command tokenlined hosts a tokenline.Engine over a real terminal: run
// drives it directly against stdin/stdout, record captures a pty session
// for later replay, and replay steps back through a captured session one
// write at a time.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenlined",
		Short: "Host a byte-streamed command line editor",
		Long:  `tokenlined drives a tokenline.Engine session: interactively, recorded to a transcript, or replayed from one.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.tokenlined.yaml)")
	cmd.PersistentFlags().String("grammar", "", "directory of grammar YAML fragments (default: built-in demo grammar)")
	cmd.PersistentFlags().String("prompt", "> ", "prompt string")
	cmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("grammar", cmd.PersistentFlags().Lookup("grammar"))
	_ = viper.BindPFlag("prompt", cmd.PersistentFlags().Lookup("prompt"))
	_ = viper.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newRecordCmd())
	cmd.AddCommand(newReplayCmd())
	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".tokenlined")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("TOKENLINED")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintln(os.Stderr, "tokenlined: reading config:", err)
		}
	}
}

func main() {
	cobra.OnInitialize(initConfig)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
