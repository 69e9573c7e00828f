package cli

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tileboard/internal/server"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the canvas over HTTP",
		Long:  `Serve exposes the canvas as a JSON API with SVG and JSON snapshots at /canvas.svg and /canvas.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			if addr == "" {
				addr = ws.cfg.Server.Addr
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			printSuccess("Serving canvas on http://%s", ln.Addr())
			printDetail("Press Ctrl+C to stop")
			return c.serve(ctx, ws, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// serve runs the API on ln and shuts it down gracefully once ctx is done.
func (c *CLI) serve(ctx context.Context, ws *workspace, ln net.Listener) error {
	api := server.New(ws.canvas,
		server.WithBounds(ws.bounds()),
		server.WithLogger(c.Logger),
	)
	srv := &http.Server{
		Handler:      api.Handler(),
		ReadTimeout:  ws.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: ws.cfg.Server.WriteTimeout.Duration,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		c.Logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), ws.cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
