package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/spf13/cobra"

	"github.com/hugr-lab/listing/filter"
	"github.com/hugr-lab/listing/rest"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <table>...",
		Short: "Serve table listings over HTTP",
		Long: `Serve table listings over HTTP.

Every table is listed at /<table>, e.g.

  GET /people?page=2&limit=20&sort=-age&filter-city=Berlin&terms-city=10`,
		Args: cobra.MinimumNArgs(1),
		RunE: runServe,
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Bool("gzip", true, "compress responses for clients accepting gzip")
	return cmd
}

func runServe(cmd *cobra.Command, tables []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnv(ctx, cmd, tables)
	if err != nil {
		return err
	}
	defer e.Close()

	codec, err := filter.NewCodec()
	if err != nil {
		return err
	}
	defer codec.Close()

	compress, _ := cmd.Flags().GetBool("gzip")
	mux := http.NewServeMux()
	for _, t := range tables {
		h, err := rest.NewHandler(rest.HandlerConfig[sq.Sqlizer]{
			Service: e.service,
			Store:   e.stores[t],
			Entity:  t,
			Codec:   codec,
			Logger:  e.logger.With("table", t),
		})
		if err != nil {
			return err
		}
		var handler http.Handler = h
		if compress {
			handler = rest.Compress(h)
		}
		mux.Handle("/"+t, handler)
	}

	addr, _ := cmd.Flags().GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("Listing server started", "addr", addr, "tables", tables)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.logger.Info("Shutting down listing server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
