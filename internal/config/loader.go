package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr         string   `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel     string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	MaxBodyBytes int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`

	// Generation
	Backend         string   `json:"backend" yaml:"backend" toml:"backend"`
	Model           string   `json:"model" yaml:"model" toml:"model"`
	MaxTokens       int      `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
	Temperature     float32  `json:"temperature" yaml:"temperature" toml:"temperature"`
	OpenAIBaseURL   string   `json:"openai_base_url" yaml:"openai_base_url" toml:"openai_base_url"`
	OpenAIAPIKey    string   `json:"-" yaml:"-" toml:"-"`
	ReplicateURL    string   `json:"replicate_base_url" yaml:"replicate_base_url" toml:"replicate_base_url"`
	ReplicateToken  string   `json:"-" yaml:"-" toml:"-"`
	ModelsDir       string   `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	LlamaCtx        int      `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads    int      `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`
	LlamaGPULayers  int      `json:"llama_gpu_layers" yaml:"llama_gpu_layers" toml:"llama_gpu_layers"`
	RateLimit       float64  `json:"rate_limit" yaml:"rate_limit" toml:"rate_limit"`
	GenerateTimeout Duration `json:"generate_timeout" yaml:"generate_timeout" toml:"generate_timeout"`

	// Rendering
	Renderer      string   `json:"renderer" yaml:"renderer" toml:"renderer"`
	RenderURL     string   `json:"render_url" yaml:"render_url" toml:"render_url"`
	Format        string   `json:"format" yaml:"format" toml:"format"`
	WorkDir       string   `json:"work_dir" yaml:"work_dir" toml:"work_dir"`
	RenderTimeout Duration `json:"render_timeout" yaml:"render_timeout" toml:"render_timeout"`

	// Sessions and events
	SessionStore string   `json:"session_store" yaml:"session_store" toml:"session_store"`
	RedisURL     string   `json:"redis_url" yaml:"redis_url" toml:"redis_url"`
	SessionTTL   Duration `json:"session_ttl" yaml:"session_ttl" toml:"session_ttl"`
	NatsURL      string   `json:"nats_url" yaml:"nats_url" toml:"nats_url"`
	NatsSubject  string   `json:"nats_subject_prefix" yaml:"nats_subject_prefix" toml:"nats_subject_prefix"`
}

// Duration is a time.Duration written as "30s" in config files. It remembers
// whether a value was given so that an explicit 0 survives ApplyDefaults.
type Duration struct {
	time.Duration
	set bool
}

// NewDuration returns an explicitly set Duration.
func NewDuration(v time.Duration) Duration { return Duration{Duration: v, set: true} }

// IsSet reports whether the value came from a file, a flag or NewDuration.
func (d Duration) IsSet() bool { return d.set || d.Duration != 0 }

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = Duration{}
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = NewDuration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.Duration.String()), nil }

// Load reads a configuration file; the format follows the extension
// (.yaml/.yml, .json, .toml). Errors name the file.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var unmarshal func([]byte, any) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json":
		unmarshal = json.Unmarshal
	case ".toml":
		unmarshal = toml.Unmarshal
	default:
		return cfg, fmt.Errorf("unsupported config extension %q in %s", ext, path)
	}
	if err := unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
