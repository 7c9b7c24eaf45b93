package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-school-admin/internal/config"
	"github.com/jrsteele09/go-school-admin/server"
	"github.com/jrsteele09/go-school-admin/sessions"
	"github.com/jrsteele09/go-school-admin/users"
	fakeuserrepo "github.com/jrsteele09/go-school-admin/users/repofake"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := config.New()
			handler, err := buildHandler(c)
			if err != nil {
				return err
			}

			displayAppname(c.GetAppName())
			srv := &http.Server{
				Addr:              c.GetPort(),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			if err := runServer(cmd.Context(), srv); err != nil {
				return err
			}
			log.Info().Msg("Server stopped")
			return nil
		},
	}
}

// buildHandler wires the session registry, account directory and HTTP server.
// A missing session secret aborts startup.
func buildHandler(c config.Config) (http.Handler, error) {
	registry, err := sessions.NewRegistry(c)
	if err != nil {
		return nil, errors.Wrap(err, "session configuration")
	}

	directory := users.NewDirectory(fakeuserrepo.NewFakeUserRepo())
	if raw := c.GetSeedAccounts(); raw != "" {
		if !c.IsDevelopment() {
			log.Warn().Str("env", c.GetEnv()).Msg("SEED_ACCOUNTS ignored outside development")
		} else {
			accounts, err := users.ParseSeedAccounts(raw)
			if err != nil {
				return nil, errors.Wrap(err, "SEED_ACCOUNTS")
			}
			if err := directory.Seed(accounts); err != nil {
				return nil, errors.Wrap(err, "seeding accounts")
			}
		}
	}

	return server.New(c, registry, directory), nil
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server.ListenAndServe")
	}
	return nil
}

// runServer serves until ctx is cancelled or the process is signalled, then
// shuts down gracefully. A listener failure is returned immediately.
func runServer(ctx context.Context, srv *http.Server) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return shutdown(srv)
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
