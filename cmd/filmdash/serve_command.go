package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"filmdash/internal/api"
	"filmdash/internal/session"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard session as a JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return ctx.withRuntime(cmd, func(rt *session.Runtime) error {
				if id := ctx.profile(); id != "" {
					ok, err := rt.Session.SelectProfile(signalCtx, id)
					if err != nil {
						return fmt.Errorf("load profile %s: %w", id, err)
					}
					if !ok {
						return fmt.Errorf("unknown profile %q", id)
					}
				}

				address := bind
				if address == "" {
					address = rt.Config.API.Bind
				}
				logger, err := ctx.logger(cmd)
				if err != nil {
					return err
				}
				server := api.NewServer(address, rt.Config.API.Token, rt.Session, logger)
				if err := server.Start(signalCtx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", server.Addr())

				<-signalCtx.Done()
				server.Stop()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to api.bind)")
	return cmd
}
