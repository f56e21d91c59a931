package agent

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ops"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/value"
)

// maxResponseBytes bounds how much of a service reply is read.
const maxResponseBytes = 4 << 20

// Agent routes operations of one domain to local computation or its service.
// It holds no per-call state and is safe for concurrent use.
type Agent struct {
	domain       domain.Domain
	strategy     Strategy
	baseURL      string
	timeout      time.Duration
	local        *ops.Table
	cache        ports.ResultCache
	logger       *slog.Logger
	client       *http.Client
	health       HealthPolicy
	datasetSize  int
	capabilities []string
}

// New creates an agent for d. Without options it is remote-only, remote-first,
// probes for health and talks to the domain's default loopback port.
func New(d domain.Domain, opts ...Option) *Agent {
	a := &Agent{
		domain:   d,
		strategy: RemoteFirst,
		baseURL:  fmt.Sprintf("http://localhost:%d", DefaultPorts[d]),
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
		client:   &http.Client{},
		health:   HealthProbe,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.baseURL = strings.TrimRight(a.baseURL, "/")
	if full, err := ops.ForDomain(d, domain.EmptyDataset()); err == nil {
		a.capabilities = full.Names()
	}
	return a
}

// Domain is the domain the agent serves.
func (a *Agent) Domain() domain.Domain { return a.domain }

// Strategy is the configured dispatch order.
func (a *Agent) Strategy() Strategy { return a.strategy }

// BaseURL is the service address.
func (a *Agent) BaseURL() string { return a.baseURL }

// Capabilities lists the domain's operations. It is informational only.
func (a *Agent) Capabilities() []string { return append([]string(nil), a.capabilities...) }

// Process runs operation and always returns a Result. Aliases are resolved and
// numeric arguments reshaped before either path sees them.
func (a *Agent) Process(ctx context.Context, operation string, args []value.Value, kwargs map[string]value.Value) domain.Result {
	operation = ops.Canonical(a.domain, operation)
	if a.domain == domain.Numeric {
		args = ReshapeNumeric(operation, args)
	}
	req := domain.NewRequest(operation, args, kwargs)

	a.logger.Info("tool call", "domain", a.domain, "operation", operation,
		"strategy", a.strategy, "args", len(req.Args), "kwargs", len(req.Kwargs))

	if a.strategy == LocalFirst {
		if res, ok := a.computeLocal(ctx, req); ok {
			return res
		}
		return a.callRemote(ctx, req)
	}

	remote := a.callRemote(ctx, req)
	if remote.OK() {
		return remote
	}
	if res, ok := a.computeLocal(ctx, req); ok {
		return res
	}
	return remote
}

// computeLocal reports ok only for a local success. Absent operations and local
// errors both decline.
func (a *Agent) computeLocal(ctx context.Context, req domain.Request) (domain.Result, bool) {
	if a.local == nil || !a.local.Has(req.Operation) {
		return domain.Result{}, false
	}
	out, err := a.local.Execute(ctx, req)
	if err != nil {
		a.logger.Debug("local computation declined", "domain", a.domain, "operation", req.Operation, "error", err)
		return domain.Result{}, false
	}
	a.logger.Debug("computed locally", "domain", a.domain, "operation", req.Operation)
	return domain.Success(req.Operation, out), true
}

func (a *Agent) callRemote(ctx context.Context, req domain.Request) domain.Result {
	key, keyErr := cacheKey(a.domain, req)
	if a.cache != nil && keyErr == nil {
		if v, ok, err := a.cache.Get(ctx, key); err != nil {
			a.logger.Warn("result cache read failed", "domain", a.domain, "error", err)
		} else if ok {
			a.logger.Debug("result cache hit", "domain", a.domain, "operation", req.Operation)
			return domain.Success(req.Operation, v)
		}
	}

	out, err := a.post(ctx, req)
	if err != nil {
		a.logger.Warn("remote call failed", "domain", a.domain, "operation", req.Operation, "error", err)
		return domain.Failure(req.Operation, err)
	}

	if a.cache != nil && keyErr == nil {
		if err := a.cache.Set(ctx, key, out); err != nil {
			a.logger.Warn("result cache write failed", "domain", a.domain, "error", err)
		}
	}
	return domain.Success(req.Operation, out)
}

func (a *Agent) post(ctx context.Context, req domain.Request) (value.Value, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return value.Null(), fmt.Errorf("%w: encode request: %v", domain.ErrInvalidArgument, err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/operate", bytes.NewReader(payload))
	if err != nil {
		return value.Null(), fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(RequestIDHeader, RequestID(ctx))

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return value.Null(), fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return value.Null(), fmt.Errorf("%w: read response: %v", domain.ErrConnectivity, err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &failure) == nil && failure.Error != "" {
			return value.Null(), fmt.Errorf("%w: %s", domain.ErrUpstream, failure.Error)
		}
		return value.Null(), fmt.Errorf("%w: service returned status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var res domain.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return value.Null(), fmt.Errorf("%w: malformed response: %v", domain.ErrUpstream, err)
	}
	if !res.OK() {
		return value.Null(), fmt.Errorf("%w: %s", domain.ErrUpstream, res.Message())
	}
	return res.Value(), nil
}

// Probe asks the service for its health within the agent timeout.
func (a *Agent) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	return resp.StatusCode == http.StatusOK
}

// Healthy applies the agent's health policy.
func (a *Agent) Healthy(ctx context.Context) bool {
	switch a.health {
	case HealthAlways:
		return true
	case HealthDataset:
		if a.datasetSize > 0 {
			return true
		}
	}
	return a.Probe(ctx)
}

// cacheKey is stable for equal requests because value maps marshal with sorted keys.
func cacheKey(d domain.Domain, req domain.Request) (string, error) {
	data, err := json.Marshal(struct {
		Args   []value.Value          `json:"args"`
		Kwargs map[string]value.Value `json:"kwargs"`
	}{req.Args, req.Kwargs})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s:%s", d, req.Operation, hex.EncodeToString(sum[:])), nil
}
