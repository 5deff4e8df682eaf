// Command signaling-server runs the WebRTC signaling broker described in
// spec §6: it accepts WebSocket connections on /one-to-one, /one-to-many,
// /many-to-many, and /health, and forwards offer/answer/ICE messages
// between session members.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/1ureka/rendezvous/internal/config"
	"github.com/1ureka/rendezvous/internal/server"
	"github.com/1ureka/rendezvous/internal/util"
)

var version = "dev"

var configPath string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signaling-server [bind-address]",
		Short: "WebRTC signaling and session-coordination server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if len(args) == 1 {
				cfg.BindAddress = args[0]
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file overriding defaults")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	srv := server.New(cfg)

	pterm.Info.Printfln("signaling-server v%s", version)
	util.LogInfo("listening on %s", cfg.BindAddress)
	util.StartStatsReporter(ctx)

	httpSrv := &http.Server{
		Addr:    cfg.BindAddress,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			util.LogError("server failed to bind: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
		util.LogInfo("shutting down")
		return httpSrv.Shutdown(context.Background())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}
}
