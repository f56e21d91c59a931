package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/switchboard/internal/config"
	httpAdapter "github.com/aretw0/switchboard/pkg/adapters/http"
	"github.com/aretw0/switchboard/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// Serve runs one operation service per domain until ctx is done or a service
// fails. A failing service stops the others.
func Serve(ctx context.Context, cfg config.Config, domains []domain.Domain, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, d := range domains {
		table, err := ServiceTable(cfg, d, logger)
		if err != nil {
			return err
		}
		log := logger.With("service", d.String())
		handler := httpAdapter.NewHandler(table,
			httpAdapter.WithLogger(log),
			httpAdapter.WithMetrics(httpAdapter.NewMetrics()),
			httpAdapter.WithMaxBodyBytes(cfg.Service.MaxBodyBytes),
			httpAdapter.WithMaxConcurrent(cfg.Service.MaxConcurrent),
		)
		srv := httpAdapter.NewServer(cfg.Addr(d), handler, log)
		g.Go(func() error {
			return srv.ListenAndServe(ctx)
		})
	}
	return g.Wait()
}
