package agent

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ops"
	"github.com/aretw0/switchboard/pkg/ports"
)

// Strategy selects which path is tried first.
type Strategy int

const (
	RemoteFirst Strategy = iota
	LocalFirst
)

func (s Strategy) String() string {
	if s == LocalFirst {
		return "local-first"
	}
	return "remote-first"
}

// HealthPolicy selects how Healthy is decided.
type HealthPolicy int

const (
	// HealthProbe asks the service.
	HealthProbe HealthPolicy = iota
	// HealthDataset is healthy while the local dataset has records, and probes otherwise.
	HealthDataset
	// HealthAlways is healthy unconditionally.
	HealthAlways
)

// DefaultTimeout bounds each remote call and health probe.
const DefaultTimeout = 5 * time.Second

// DefaultPorts are the loopback ports of the three services.
var DefaultPorts = map[domain.Domain]int{
	domain.Numeric: 8000,
	domain.Tabular: 8001,
	domain.Textual: 8002,
}

// Option configures an Agent.
type Option func(*Agent)

// WithStrategy sets the dispatch order.
func WithStrategy(s Strategy) Option {
	return func(a *Agent) { a.strategy = s }
}

// WithBaseURL sets the service address, e.g. http://localhost:8000.
func WithBaseURL(url string) Option {
	return func(a *Agent) { a.baseURL = url }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Agent) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLocal sets the in-process table. Nil disables local execution.
func WithLocal(t *ops.Table) Option {
	return func(a *Agent) { a.local = t }
}

// WithCache caches successful remote results.
func WithCache(c ports.ResultCache) Option {
	return func(a *Agent) { a.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// WithHTTPClient replaces the HTTP client used for remote calls.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Agent) { a.client = c }
}

// WithHealthPolicy sets how Healthy decides.
func WithHealthPolicy(p HealthPolicy) Option {
	return func(a *Agent) { a.health = p }
}

// WithDataset records the size of the dataset backing the local table.
func WithDataset(ds domain.Dataset) Option {
	return func(a *Agent) { a.datasetSize = ds.Len() }
}
