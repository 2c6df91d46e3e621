package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/fabianMendez/duffel"
	"github.com/fabianMendez/duffel/pkg/config"
	"github.com/spf13/cobra"
)

var (
	logger = log.Default()

	cfgFile string
	verbose bool
	cfg     config.Config
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "duffel",
		Short:         "Search, book and manage flights with the Duffel API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./duffel.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every request sent")

	cmd.AddCommand(newReferenceCmd("airports", "List airports", func(c *duffel.Client) lister {
		return listAirports(c)
	}))
	cmd.AddCommand(newReferenceCmd("airlines", "List airlines", func(c *duffel.Client) lister {
		return listAirlines(c)
	}))
	cmd.AddCommand(newReferenceCmd("aircraft", "List aircraft", func(c *duffel.Client) lister {
		return listAircraft(c)
	}))
	cmd.AddCommand(newOffersCmd())
	cmd.AddCommand(newOrdersCmd())
	cmd.AddCommand(newWebhooksCmd())
	cmd.AddCommand(newSessionsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "duffel_api_go/%s (Duffel-Version %s)\n", duffel.Version, duffel.DefaultVersion)
		},
	}
}

func newClient() (*duffel.Client, error) {
	var l *log.Logger
	if verbose {
		l = logger
	}
	return duffel.NewClient(cfg.ClientOptions(l)...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
