// Package config loads the switchboard configuration file.
//
// The file is YAML. Environment references (${VAR} or $VAR) are expanded before
// parsing, every key has a default, and a missing file yields the defaults. The
// result is built once at startup and passed to the components that need it.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/llm"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks when --config is not given.
const DefaultPath = "switchboard.yaml"

const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Services ServicesConfig `yaml:"services"`
	Agent    AgentConfig    `yaml:"agent"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Cache    CacheConfig    `yaml:"cache"`
	Service  ServiceConfig  `yaml:"service"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ServicesConfig locates the three operation services.
type ServicesConfig struct {
	Host  string         `yaml:"host"`
	Ports map[string]int `yaml:"ports"`
}

type AgentConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type DatasetConfig struct {
	Path string `yaml:"path"`
}

type CacheConfig struct {
	Backend string        `yaml:"backend"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// ServiceConfig bounds each operation service.
type ServiceConfig struct {
	MaxBodyBytes  int64 `yaml:"max_body_bytes"`
	MaxConcurrent int   `yaml:"max_concurrent"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider: llm.ProviderOpenAI,
			Model:    llm.DefaultModel,
			BaseURL:  llm.DefaultBaseURL,
			Timeout:  llm.DefaultTimeout,
		},
		Services: ServicesConfig{
			Host: "localhost",
			Ports: map[string]int{
				domain.Numeric.String(): 8000,
				domain.Tabular.String(): 8001,
				domain.Textual.String(): 8002,
			},
		},
		Agent:   AgentConfig{Timeout: 5 * time.Second},
		Dataset: DatasetConfig{Path: "data/sample_dataset.json"},
		Cache: CacheConfig{
			Backend: CacheNone,
			Size:    256,
			TTL:     10 * time.Minute,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "switchboard:result:"},
		},
		Service: ServiceConfig{MaxBodyBytes: 1 << 20, MaxConcurrent: 64},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.fillFromEnv()
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse expands environment references in data and decodes it over the defaults.
// Port entries merge with the default ports.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	defaults := cfg.Services.Ports
	cfg.Services.Ports = nil
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	ports, err := canonicalPorts(cfg.Services.Ports, defaults)
	if err != nil {
		return cfg, err
	}
	cfg.Services.Ports = ports
	// The default base URL belongs to the openai provider.
	if strings.EqualFold(cfg.LLM.Provider, llm.ProviderAnthropic) && cfg.LLM.BaseURL == llm.DefaultBaseURL {
		cfg.LLM.BaseURL = ""
	}
	cfg.fillFromEnv()
	return cfg, cfg.Validate()
}

// canonicalPorts rekeys ports by wire label, so "numeric" and "math" name the same
// service, and fills unset domains from defaults. Unknown keys are kept for Validate.
func canonicalPorts(ports, defaults map[string]int) (map[string]int, error) {
	out := make(map[string]int, len(defaults))
	for label, port := range ports {
		d, err := domain.ParseDomain(label)
		if err != nil {
			out[label] = port
			continue
		}
		if _, dup := out[d.String()]; dup {
			return nil, fmt.Errorf("services.ports: %s is set more than once", d)
		}
		out[d.String()] = port
	}
	for label, port := range defaults {
		if _, ok := out[label]; !ok {
			out[label] = port
		}
	}
	return out, nil
}

// fillFromEnv supplies the API key from the provider's conventional variable when
// the file leaves it empty.
func (c *Config) fillFromEnv() {
	if c.LLM.APIKey != "" {
		return
	}
	vars := []string{"GROQ_API_KEY", "OPENAI_API_KEY"}
	if strings.EqualFold(c.LLM.Provider, llm.ProviderAnthropic) {
		vars = []string{"ANTHROPIC_API_KEY"}
	}
	for _, v := range vars {
		if key := os.Getenv(v); key != "" {
			c.LLM.APIKey = key
			return
		}
	}
}

// Validate reports the first invalid setting. A missing API key is not checked
// here because only the commands that talk to the model need one.
func (c Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "", llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if c.Agent.Timeout <= 0 {
		return errors.New("agent.timeout must be positive")
	}

	seen := map[int]string{}
	for label, port := range c.Services.Ports {
		if _, err := domain.ParseDomain(label); err != nil {
			return fmt.Errorf("services.ports: %w", err)
		}
		if port <= 0 || port > 65535 {
			return fmt.Errorf("services.ports.%s: port %d out of range", label, port)
		}
		if other, dup := seen[port]; dup {
			return fmt.Errorf("services.ports: %s and %s share port %d", other, label, port)
		}
		seen[port] = label
	}

	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New("cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}

	if c.Service.MaxBodyBytes <= 0 {
		return errors.New("service.max_body_bytes must be positive")
	}
	if c.Service.MaxConcurrent <= 0 {
		return errors.New("service.max_concurrent must be positive")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Port is the configured port for d.
func (c Config) Port(d domain.Domain) int {
	return c.Services.Ports[d.String()]
}

// Addr is the host:port a service for d listens on.
func (c Config) Addr(d domain.Domain) string {
	return net.JoinHostPort(c.Services.Host, strconv.Itoa(c.Port(d)))
}

// BaseURL is the address agents use to reach the service for d.
func (c Config) BaseURL(d domain.Domain) string {
	return "http://" + c.Addr(d)
}

// LLMSettings converts the llm section for llm.New.
func (c Config) LLMSettings() llm.Config {
	return llm.Config{
		Provider: c.LLM.Provider,
		APIKey:   c.LLM.APIKey,
		BaseURL:  c.LLM.BaseURL,
		Timeout:  c.LLM.Timeout,
	}
}
