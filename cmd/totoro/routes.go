package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/totoro/internal/app"
	"github.com/MrSnakeDoc/totoro/internal/config"
	"github.com/MrSnakeDoc/totoro/internal/domain"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/mw"
	"github.com/MrSnakeDoc/totoro/internal/httpserver/routes"
	"github.com/MrSnakeDoc/totoro/internal/logger"
	"github.com/MrSnakeDoc/totoro/internal/sources/apiconfig"
)

func NewRoutesCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "routes <file>",
		Short: "Print the routes an API file registers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Nop()
			if debug {
				log = logger.Console()
			}
			opts := mw.CatalogOptions{RateLimit: config.DefaultRateLimit, Logger: log}
			reg, err := registerFile(args[0], opts, log)
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), reg)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "log resolution and registration")
	return cmd
}

// registerFile runs the full pipeline against a throwaway chi router, so
// patterns the server would refuse are reported as rejected here too.
func registerFile(path string, opts mw.CatalogOptions, log logger.Logger) (domain.Registration, error) {
	file, err := apiconfig.NewLoader(path).Load()
	if err != nil {
		return domain.Registration{}, fmt.Errorf("failed to load API file: %w", err)
	}

	apiCfg, err := app.NewMapper(opts).Map(file)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("failed to map API file: %w", err)
	}

	table := domain.NewResolver(log).Resolve(apiCfg)
	sink := routes.NewChiSink(chi.NewRouter(), nil)
	return domain.NewRegistrar(log).Register(table, sink), nil
}

func printRoutes(out io.Writer, reg domain.Registration) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tMETHOD\tPATH\tDEPRECATED")
	for _, r := range reg.Routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Version, r.Method, r.Path, strconv.FormatBool(r.Deprecated))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range reg.Rejected {
		fmt.Fprintf(out, "rejected: %s %s (%s)\n", r.Method, r.Path, r.Version)
	}
	return nil
}
