package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"diagramd/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "diagramd:", err)
		os.Exit(1)
	}
}

// cli holds state shared by all subcommands.
type cli struct {
	configPath string
	logFormat  string
	corsCSV    string
	// flags collects flag values; only flags the user set override cfg.
	flags config.Config
	cfg   config.Config
	log   zerolog.Logger
}

func newRootCmd() *cobra.Command { return newRootCmdWith(&cli{}) }

// newRootCmdWith builds the command tree around c so callers can inspect the
// merged configuration.
func newRootCmdWith(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "diagramd",
		Short:         "Generate PlantUML diagrams from prompts and render them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", os.Getenv("DIAGRAMD_CONFIG"), "Config file (.yaml, .yml, .json, .toml)")
	pf.StringVar(&c.flags.LogLevel, "log-level", config.DefaultLogLevel, "Log level: debug|info|warn|error|off")
	pf.StringVar(&c.logFormat, "log-format", "console", "Log output: console|json")
	bindGenerationFlags(root, &c.flags)
	bindRenderFlags(root, &c.flags)

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.load(cmd)
	}
	root.AddCommand(c.serveCmd(), c.generateCmd(), c.renderCmd(), c.modelsCmd())
	return root
}

func bindGenerationFlags(cmd *cobra.Command, f *config.Config) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.Backend, "backend", config.DefaultBackend, "Model backend: openai|replicate|llama|none")
	pf.StringVar(&f.Model, "model", config.DefaultModel, "Model name passed to the backend")
	pf.IntVar(&f.MaxTokens, "max-tokens", config.DefaultMaxTokens, "Maximum new tokens per generation")
	pf.Float32Var(&f.Temperature, "temperature", 0, "Sampling temperature (0 = backend default)")
	pf.StringVar(&f.OpenAIBaseURL, "openai-base-url", config.DefaultOpenAIBaseURL, "OpenAI-compatible completions server (TGI, vLLM, llama.cpp server)")
	pf.StringVar(&f.ReplicateURL, "replicate-base-url", "", "Replicate API base URL override")
	pf.StringVar(&f.ModelsDir, "models-dir", config.DefaultModelsDir, "Directory to scan for *.gguf model files (llama backend)")
	pf.IntVar(&f.LlamaCtx, "llama-ctx", 0, "llama context size (0 = library default)")
	pf.IntVar(&f.LlamaThreads, "llama-threads", 0, "llama threads (0 = library default)")
	pf.IntVar(&f.LlamaGPULayers, "llama-gpu-layers", 0, "Layers to offload to the GPU")
	pf.Float64Var(&f.RateLimit, "rate-limit", 0, "Backend calls per second (0 = unlimited)")
	pf.DurationVar(&f.GenerateTimeout.Duration, "generate-timeout", 0, "Timeout for one generation (0 = none)")
}

func bindRenderFlags(cmd *cobra.Command, f *config.Config) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.Renderer, "renderer", config.DefaultRenderer, "Renderer: plantuml|kroki")
	pf.StringVar(&f.RenderURL, "render-url", "", "Rendering server URL (defaults per renderer)")
	pf.StringVar(&f.Format, "format", config.DefaultFormat, "Default output format: png|img|svg|txt")
	pf.StringVar(&f.WorkDir, "work-dir", "", "Directory for temporary markup and image files (default OS temp dir)")
	pf.DurationVar(&f.RenderTimeout.Duration, "render-timeout", config.DefaultRenderTimeout, "Timeout for one render (0 = none)")
}

// load merges defaults, the config file, the environment and set flags.
func (c *cli) load(cmd *cobra.Command) error {
	var cfg config.Config
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w", c.configPath, err)
		}
		cfg = loaded
	}
	config.ApplyEnv(&cfg)
	c.flags.CORSOrigins = splitCSV(c.corsCSV)
	overlayFlags(cmd, &cfg, c.flags)
	config.ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.log = newLogger(cfg.LogLevel, c.logFormat)
	return nil
}

// overlayFlags copies explicitly set flags from src into dst.
func overlayFlags(cmd *cobra.Command, dst *config.Config, src config.Config) {
	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("log-level", func() { dst.LogLevel = src.LogLevel })
	set("addr", func() { dst.Addr = src.Addr })
	set("cors-origins", func() { dst.CORSOrigins = src.CORSOrigins })
	set("max-body-bytes", func() { dst.MaxBodyBytes = src.MaxBodyBytes })
	set("backend", func() { dst.Backend = src.Backend })
	set("model", func() { dst.Model = src.Model })
	set("max-tokens", func() { dst.MaxTokens = src.MaxTokens })
	set("temperature", func() { dst.Temperature = src.Temperature })
	set("openai-base-url", func() { dst.OpenAIBaseURL = src.OpenAIBaseURL })
	set("replicate-base-url", func() { dst.ReplicateURL = src.ReplicateURL })
	set("models-dir", func() { dst.ModelsDir = src.ModelsDir })
	set("llama-ctx", func() { dst.LlamaCtx = src.LlamaCtx })
	set("llama-threads", func() { dst.LlamaThreads = src.LlamaThreads })
	set("llama-gpu-layers", func() { dst.LlamaGPULayers = src.LlamaGPULayers })
	set("rate-limit", func() { dst.RateLimit = src.RateLimit })
	set("generate-timeout", func() { dst.GenerateTimeout = config.NewDuration(src.GenerateTimeout.Duration) })
	set("renderer", func() { dst.Renderer = src.Renderer })
	set("render-url", func() { dst.RenderURL = src.RenderURL })
	set("format", func() { dst.Format = src.Format })
	set("work-dir", func() { dst.WorkDir = src.WorkDir })
	set("render-timeout", func() { dst.RenderTimeout = config.NewDuration(src.RenderTimeout.Duration) })
	set("session-store", func() { dst.SessionStore = src.SessionStore })
	set("redis-url", func() { dst.RedisURL = src.RedisURL })
	set("session-ttl", func() { dst.SessionTTL = config.NewDuration(src.SessionTTL.Duration) })
	set("nats-url", func() { dst.NatsURL = src.NatsURL })
	set("nats-subject-prefix", func() { dst.NatsSubject = src.NatsSubject })
}

func newLogger(level, format string) zerolog.Logger {
	var w io.Writer = os.Stderr
	if !strings.EqualFold(format, "json") {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	lvl := zerolog.InfoLevel
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "off":
		lvl = zerolog.Disabled
	case "":
	default:
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// splitCSV splits a comma-separated list, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
