// Package coordinator drives one natural-language query end to end: it asks a
// language model which domain and operation the query wants, dispatches to that
// domain's agent, and asks the model again to phrase the structured result.
//
// Every model failure degrades to a default instead of propagating, so Process
// always produces an answer.
package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/switchboard/pkg/agent"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/llm"
	"github.com/aretw0/switchboard/pkg/value"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// UnknownOperation is the operation used when extraction fails.
const UnknownOperation = "unknown"

// DefaultDomain is used when classification fails or is ambiguous.
const DefaultDomain = domain.Numeric

// Dispatcher is the part of a domain agent the coordinator uses.
type Dispatcher interface {
	Process(ctx context.Context, operation string, args []value.Value, kwargs map[string]value.Value) domain.Result
	Healthy(ctx context.Context) bool
	Probe(ctx context.Context) bool
}

// Extraction is the operation and parameters pulled out of a query.
type Extraction struct {
	Operation   string
	Parameters  []value.Value
	Description string
}

// Outcome is everything known about one processed query.
type Outcome struct {
	RequestID  string
	Query      string
	Domain     domain.Domain
	Extraction Extraction
	Result     domain.Result
	Answer     string
}

// Coordinator is safe for concurrent use; each query is processed independently.
type Coordinator struct {
	completer llm.Completer
	agents    map[domain.Domain]Dispatcher
	model     string
	logger    *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithModel sets the model identifier sent with every completion.
func WithModel(model string) Option {
	return func(c *Coordinator) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// New creates a coordinator over one agent per domain.
func New(completer llm.Completer, agents map[domain.Domain]Dispatcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		completer: completer,
		agents:    agents,
		model:     llm.DefaultModel,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Process classifies, extracts, dispatches and composes. Agent failures are not
// errors here: they flow into composition so the model can explain them.
func (c *Coordinator) Process(ctx context.Context, query string) Outcome {
	id := uuid.NewString()
	ctx = agent.WithRequestID(ctx, id)
	log := c.logger.With("request_id", id)

	out := Outcome{RequestID: id, Query: query}
	log.Info("query received", "query", truncate(query, 80))

	out.Domain = c.classify(ctx, log, query)
	out.Extraction = c.extract(ctx, log, query)
	log.Info("query routed", "domain", out.Domain, "operation", out.Extraction.Operation,
		"parameters", len(out.Extraction.Parameters))

	out.Result = c.dispatch(ctx, log, out.Domain, query, out.Extraction)
	out.Answer = c.compose(ctx, log, query, out.Domain, out.Extraction.Operation, out.Result)
	return out
}

func (c *Coordinator) classify(ctx context.Context, log *slog.Logger, query string) domain.Domain {
	text, err := c.complete(ctx, classifyPrompt(query), classifyCall)
	if err != nil {
		log.Warn("classification failed", "error", err)
		return DefaultDomain
	}
	var parsed struct {
		Agent string `json:"agent"`
	}
	if err := decodeFirstObject(text, &parsed); err != nil {
		log.Warn("classification unparseable", "error", err)
		return DefaultDomain
	}
	d, err := domain.ParseDomain(parsed.Agent)
	if err != nil {
		log.Debug("classification ambiguous", "agent", parsed.Agent)
		return DefaultDomain
	}
	return d
}

func (c *Coordinator) extract(ctx context.Context, log *slog.Logger, query string) Extraction {
	fallback := Extraction{Operation: UnknownOperation, Parameters: []value.Value{}}

	text, err := c.complete(ctx, extractPrompt(query), extractCall)
	if err != nil {
		log.Warn("extraction failed", "error", err)
		return fallback
	}
	var parsed struct {
		Operation   string          `json:"operation"`
		Parameters  json.RawMessage `json:"parameters"`
		Description string          `json:"description"`
	}
	if err := decodeFirstObject(text, &parsed); err != nil {
		log.Warn("extraction unparseable", "error", err)
		return fallback
	}

	ext := Extraction{
		Operation:   strings.TrimSpace(parsed.Operation),
		Parameters:  []value.Value{},
		Description: parsed.Description,
	}
	if ext.Operation == "" {
		ext.Operation = UnknownOperation
	}
	// Anything other than a JSON array of values is treated as no parameters.
	var params []value.Value
	if len(parsed.Parameters) > 0 && json.Unmarshal(parsed.Parameters, &params) == nil && params != nil {
		ext.Parameters = params
	}
	return ext
}

// dispatch passes parameters the way each domain expects: numeric takes the
// extracted parameters, or the query when there are none; tabular takes nothing
// because the operation carries the intent; textual takes the query followed by
// the parameters.
func (c *Coordinator) dispatch(ctx context.Context, log *slog.Logger, d domain.Domain, query string, ext Extraction) domain.Result {
	a, ok := c.agents[d]
	if !ok {
		return domain.Failure(ext.Operation, fmt.Errorf("%w: no %s agent configured", domain.ErrUnavailable, d))
	}
	if !a.Healthy(ctx) {
		log.Warn("agent unhealthy, skipping", "domain", d)
		return domain.Failure(ext.Operation, fmt.Errorf("%w: %s agent unavailable", domain.ErrUnavailable, d))
	}

	var args []value.Value
	switch d {
	case domain.Numeric:
		if len(ext.Parameters) > 0 {
			args = ext.Parameters
		} else {
			args = []value.Value{value.String(query)}
		}
	case domain.Tabular:
	case domain.Textual:
		args = append([]value.Value{value.String(query)}, ext.Parameters...)
	}

	res := a.Process(ctx, ext.Operation, args, nil)
	if res.OK() {
		log.Info("agent succeeded", "domain", d, "operation", res.Operation())
	} else {
		log.Warn("agent failed", "domain", d, "operation", res.Operation(), "kind", res.Kind(), "error", res.Message())
	}
	return res
}

func (c *Coordinator) compose(ctx context.Context, log *slog.Logger, query string, d domain.Domain, operation string, res domain.Result) string {
	summary, err := json.MarshalIndent(map[string]domain.Result{d.String(): res}, "", "  ")
	if err != nil {
		summary = []byte(fmt.Sprintf("%q", res.Message()))
	}
	answer, err := c.complete(ctx, composePrompt(query, operation, string(summary)), composeCall)
	if err != nil {
		log.Warn("composition failed", "error", err)
		return fmt.Sprintf("Unable to generate response: %v", err)
	}
	return answer
}

func (c *Coordinator) complete(ctx context.Context, prompt string, s callSettings) (string, error) {
	return c.completer.Complete(ctx, llm.Request{
		Prompt:      prompt,
		Model:       c.model,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	})
}

// CheckServices probes every agent's service once, concurrently. The error is
// non-nil when any service is unreachable.
func (c *Coordinator) CheckServices(ctx context.Context) (map[domain.Domain]bool, error) {
	status := make(map[domain.Domain]bool, len(c.agents))
	var mu sync.Mutex
	var g errgroup.Group
	for d, a := range c.agents {
		g.Go(func() error {
			ok := a.Probe(ctx)
			mu.Lock()
			status[d] = ok
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	var down []string
	for _, d := range domain.Domains() {
		if ok, present := status[d]; present && !ok {
			down = append(down, d.String())
		}
	}
	if len(down) > 0 {
		return status, fmt.Errorf("%w: %s", domain.ErrUnavailable, strings.Join(down, ", "))
	}
	return status, nil
}
