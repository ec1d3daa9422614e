package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CameronXie/gts-marketplace-api/internal/version"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("version", version.Version),
	)

	if err := newRootCommand(viper.New(), logger).Execute(); err != nil {
		logger.Error("api_exit", "error", err)
		os.Exit(1)
	}
}

// newRootCommand builds the gts-api command tree around a shared viper instance.
func newRootCommand(v *viper.Viper, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "gts-api",
		Short:         "HTTP API for the GTS marketplace product catalogue and orders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(v, logger), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		},
	}
}
