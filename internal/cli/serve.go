package cli

import (
	"github.com/spf13/cobra"

	"github.com/menta2k/sidebyside/internal/server"
)

func newServeCmd(root *rootOpts) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the composition HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			setString(cmd.Flags(), "addr", addr, &cfg.Server.Addr)
			if err := cfg.Validate(); err != nil {
				return err
			}

			srv, err := server.New(cfg, loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
