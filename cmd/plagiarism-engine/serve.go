// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/plagiarism-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis HTTP API",
	Long: `Serve starts the HTTP API. POST /api/analyze runs local analysis and
POST /api/analyze/external runs the Crossref lookup. The Crossref result
cache lives for the lifetime of the process. SIGINT or SIGTERM shuts the
server down gracefully.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := a.seedIfEnabled(ctx, cmd.ErrOrStderr()); err != nil {
			return err
		}

		a.log.Info("corpus ready", slog.String("path", a.store.Path()))
		srv := server.New(a.svc, a.store, a.cfg.Server, buildVersion(), a.log)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

