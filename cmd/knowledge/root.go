package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "knowledge",
		Short: "Extract exact Othello search results from an Edax knowledge archive",
		Long: `knowledge walks a compressed tar archive of knowledge_<board>.csv files,
validates every record and writes the exact ones (depth 36, strength 100)
as packed 18-byte records. Diagnostics and progress go to stderr so the
binary output can be redirected on its own.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (KNOWLEDGE_* env vars and flags override it)")
	root.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newExtractCmd(v, &cfgFile))
	root.AddCommand(newDumpCmd())
	return root
}
