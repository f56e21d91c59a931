package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/aretw0/switchboard/internal/config"
	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/adapters/memory"
	"github.com/aretw0/switchboard/pkg/adapters/redis"
	"github.com/aretw0/switchboard/pkg/agent"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = "../../data/sample_dataset.json"

func TestNewCache(t *testing.T) {
	cache, closer, err := NewCache(config.CacheConfig{Backend: config.CacheNone})
	require.NoError(t, err)
	assert.Nil(t, cache)
	assert.NoError(t, closer.Close())

	cache, _, err = NewCache(config.CacheConfig{Backend: config.CacheMemory, Size: 4})
	require.NoError(t, err)
	assert.IsType(t, &memory.Cache{}, cache)

	cache, closer, err = NewCache(config.CacheConfig{Backend: config.CacheRedis, Redis: config.RedisConfig{Addr: "localhost:1"}})
	require.NoError(t, err)
	assert.IsType(t, &redis.Cache{}, cache)
	assert.NoError(t, closer.Close())

	_, _, err = NewCache(config.CacheConfig{Backend: "memcached"})
	assert.Error(t, err)
}

func TestNewAgents(t *testing.T) {
	cfg := config.Default()
	cfg.Dataset.Path = sampleDataset

	agents := NewAgents(cfg, nil, logging.NewNop())
	require.Len(t, agents, 3)

	assert.Equal(t, agent.RemoteFirst, agents[domain.Numeric].Strategy())
	assert.Equal(t, agent.LocalFirst, agents[domain.Tabular].Strategy())
	assert.Equal(t, "http://localhost:8001", agents[domain.Tabular].BaseURL())

	res := agents[domain.Tabular].Process(context.Background(), "filter_records", nil, map[string]value.Value{
		"field": value.String("department"),
		"value": value.String("Engineering"),
	})
	require.True(t, res.OK(), res.Message())
	assert.Equal(t, 3, res.Value().Len())
	assert.True(t, agents[domain.Tabular].Healthy(context.Background()))
}

func TestNewCoordinator_NeedsKey(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = ""
	_, err := NewCoordinator(cfg, nil, logging.NewNop())
	assert.Error(t, err)

	cfg.LLM.APIKey = "k"
	c, err := NewCoordinator(cfg, nil, logging.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestServe(t *testing.T) {
	cfg := config.Default()
	cfg.Services.Host = "127.0.0.1"
	cfg.Dataset.Path = sampleDataset
	for _, d := range domain.Domains() {
		cfg.Services.Ports[d.String()] = freePort(t)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg, domain.Domains(), logging.NewNop()) }()

	for _, d := range domain.Domains() {
		url := fmt.Sprintf("%s/health", cfg.BaseURL(d))
		require.Eventually(t, func() bool {
			resp, err := http.Get(url)
			if err != nil {
				return false
			}
			resp.Body.Close()
			return resp.StatusCode == http.StatusOK
		}, 5*time.Second, 20*time.Millisecond, d.String())
	}

	agents := NewAgents(cfg, nil, logging.NewNop())
	res := agents[domain.Numeric].Process(context.Background(), "add", []value.Value{value.Int(50), value.Int(75)}, nil)
	require.True(t, res.OK(), res.Message())
	assert.True(t, value.Equal(value.Int(125), res.Value()))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("services did not stop")
	}
}
