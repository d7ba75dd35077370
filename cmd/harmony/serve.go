package main

import (
	"github.com/spf13/cobra"

	"commute-harmony/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recommendation page over HTTP",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			srv := web.New(web.Options{
				Fetcher:      a.recommender,
				DefaultTheme: a.cfg.Recommend.DefaultTheme,
				Skin:         a.skin,
				RateLimit:    a.cfg.Server.RateLimit,
			})
			return srv.Run(cmd.Context(), a.cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (overrides HARMONY_ADDR)")
	return cmd
}
