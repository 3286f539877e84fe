package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/totoro/internal/app"
	"github.com/MrSnakeDoc/totoro/internal/config"
	"github.com/MrSnakeDoc/totoro/internal/version"
)

func main() {
	if err := NewTotoroCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ totoro failed: %v\n", err)
		os.Exit(1)
	}
}

func NewTotoroCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "totoro [command]",
		Short:         "Versioned API route server",
		Long:          "Serves the endpoints of a versioned API file, inheriting endpoints from one version to the next",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewRoutesCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func NewServeCommand() *cobra.Command {
	var apiFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API file over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if apiFile != "" {
				cfg.APIFile = apiFile
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}

	cmd.Flags().StringVar(&apiFile, "api-file", "", "path to the API file (overrides TOTORO_API_FILE)")
	return cmd
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
