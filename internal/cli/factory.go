package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/switchboard/internal/config"
	"github.com/aretw0/switchboard/pkg/adapters/memory"
	"github.com/aretw0/switchboard/pkg/adapters/redis"
	"github.com/aretw0/switchboard/pkg/agent"
	"github.com/aretw0/switchboard/pkg/coordinator"
	"github.com/aretw0/switchboard/pkg/dataset"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/llm"
	"github.com/aretw0/switchboard/pkg/ops"
	"github.com/aretw0/switchboard/pkg/ports"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewCache builds the result cache named by cfg. The none backend returns a nil cache.
func NewCache(cfg config.CacheConfig) (ports.ResultCache, io.Closer, error) {
	switch cfg.Backend {
	case "", config.CacheNone:
		return nil, nopCloser{}, nil
	case config.CacheMemory:
		c, err := memory.NewCache(cfg.Size, cfg.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating memory cache: %w", err)
		}
		return c, nopCloser{}, nil
	case config.CacheRedis:
		c := redis.New(cfg.Redis.Addr, redis.WithPrefix(cfg.Redis.Prefix), redis.WithTTL(cfg.TTL))
		return c, c, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// NewAgents builds one agent per domain with the standard per-domain behaviour.
// The tabular agent computes over the configured dataset.
func NewAgents(cfg config.Config, cache ports.ResultCache, logger *slog.Logger) map[domain.Domain]*agent.Agent {
	ds := dataset.Load(cfg.Dataset.Path, logger)
	agents := make(map[domain.Domain]*agent.Agent, 3)
	for _, d := range domain.Domains() {
		data := domain.EmptyDataset()
		if d == domain.Tabular {
			data = ds
		}
		opts := append(agent.Defaults(d, data),
			agent.WithBaseURL(cfg.BaseURL(d)),
			agent.WithTimeout(cfg.Agent.Timeout),
			agent.WithLogger(logger.With("agent", d.String())),
		)
		if cache != nil {
			opts = append(opts, agent.WithCache(cache))
		}
		agents[d] = agent.New(d, opts...)
	}
	return agents
}

// NewCoordinator connects the agents to the configured language model.
func NewCoordinator(cfg config.Config, agents map[domain.Domain]*agent.Agent, logger *slog.Logger) (*coordinator.Coordinator, error) {
	completer, err := llm.New(cfg.LLMSettings())
	if err != nil {
		return nil, fmt.Errorf("error creating language model client: %w", err)
	}
	dispatchers := make(map[domain.Domain]coordinator.Dispatcher, len(agents))
	for d, a := range agents {
		dispatchers[d] = a
	}
	return coordinator.New(completer, dispatchers,
		coordinator.WithModel(cfg.LLM.Model),
		coordinator.WithLogger(logger),
	), nil
}

// ServiceTable builds the operation table a service for d exposes. Only the
// tabular service reads the dataset.
func ServiceTable(cfg config.Config, d domain.Domain, logger *slog.Logger) (*ops.Table, error) {
	ds := domain.EmptyDataset()
	if d == domain.Tabular {
		ds = dataset.Load(cfg.Dataset.Path, logger)
	}
	return ops.ForDomain(d, ds)
}
