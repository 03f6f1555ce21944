package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultAddr          = ":5000"
	DefaultLogLevel      = "info"
	DefaultCORSOrigin    = "http://localhost:3000"
	DefaultMaxBodyBytes  = 1 << 20
	DefaultBackend       = "openai"
	DefaultModel         = "jost/mistral7b_plantuml"
	DefaultMaxTokens     = 500
	DefaultOpenAIBaseURL = "http://127.0.0.1:8081/v1/"
	DefaultModelsDir     = "~/models/llm"
	DefaultRenderer      = "plantuml"
	DefaultFormat        = "png"
	DefaultSessionStore  = "memory"
	DefaultRenderTimeout = 60 * time.Second
)

// Environment variables consulted by ApplyEnv.
const (
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvReplicateToken = "REPLICATE_API_TOKEN"
	EnvRedisURL       = "DIAGRAMD_REDIS_URL"
	EnvNatsURL        = "DIAGRAMD_NATS_URL"
)

var (
	backends      = []string{"openai", "replicate", "llama", "none"}
	renderers     = []string{"plantuml", "kroki"}
	sessionStores = []string{"memory", "redis"}
)

// Defaults returns a Config with every default filled in.
func Defaults() Config {
	var c Config
	ApplyDefaults(&c)
	return c
}

// ApplyDefaults fills unset fields of c.
func ApplyDefaults(c *Config) {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{DefaultCORSOrigin}
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = DefaultOpenAIBaseURL
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.Renderer == "" {
		c.Renderer = DefaultRenderer
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.SessionStore == "" {
		c.SessionStore = DefaultSessionStore
	}
	// An explicit 0 disables the render timeout.
	if !c.RenderTimeout.IsSet() {
		c.RenderTimeout = NewDuration(DefaultRenderTimeout)
	}
}

// ApplyEnv reads secrets and connection URLs from the environment. Secrets
// are never read from config files.
func ApplyEnv(c *Config) {
	c.OpenAIAPIKey = os.Getenv(EnvOpenAIKey)
	c.ReplicateToken = os.Getenv(EnvReplicateToken)
	if v := os.Getenv(EnvRedisURL); v != "" && c.RedisURL == "" {
		c.RedisURL = v
	}
	if v := os.Getenv(EnvNatsURL); v != "" && c.NatsURL == "" {
		c.NatsURL = v
	}
}

// Validate checks enumerated fields after defaults were applied.
func (c Config) Validate() error {
	if err := oneOf("backend", c.Backend, backends); err != nil {
		return err
	}
	if err := oneOf("renderer", c.Renderer, renderers); err != nil {
		return err
	}
	if err := oneOf("session_store", c.SessionStore, sessionStores); err != nil {
		return err
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must be >= 0, got %v", c.RateLimit)
	}
	return nil
}

func oneOf(field, v string, allowed []string) error {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q (want one of %s)", field, v, strings.Join(allowed, ", "))
}
