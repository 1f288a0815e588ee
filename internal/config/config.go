package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultEndpoint  = "https://query.wikidata.org/sparql"
	DefaultWikiRoot  = "https://www.wikidata.org/"
	DefaultUserAgent = "wikigraph/1.0 (https://github.com/agenthands/wikigraph)"
)

// Duration lets TOML files spell timeouts as "30s" or "2m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type RetryConfig struct {
	MaxAttempts     int      `toml:"max_attempts"`
	InitialInterval Duration `toml:"initial_interval"`
	MaxInterval     Duration `toml:"max_interval"`
}

type SPARQLConfig struct {
	Endpoint  string      `toml:"endpoint"`
	WikiRoot  string      `toml:"wiki_root"`
	UserAgent string      `toml:"user_agent"`
	Timeout   Duration    `toml:"timeout"`
	Retry     RetryConfig `toml:"retry"`
}

type LabelsConfig struct {
	// Strict makes a seed without an English label abort the run.
	Strict bool `toml:"strict"`
}

type ConcurrencyConfig struct {
	Workers         int  `toml:"workers"`
	ContinueOnError bool `toml:"continue_on_error"`
}

type RenderConfig struct {
	Format        string `toml:"format"`
	DotBinary     string `toml:"dot_binary"`
	Clusters      bool   `toml:"clusters"`
	ClusterMethod string `toml:"cluster_method"`
	RankDir       string `toml:"rankdir"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type SummaryPrompts struct {
	Connections string `toml:"connections"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type Config struct {
	SPARQL      SPARQLConfig      `toml:"sparql"`
	Labels      LabelsConfig      `toml:"labels"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Render      RenderConfig      `toml:"render"`
	Log         LogConfig         `toml:"log"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	LLM         LLMConfig         `toml:"llm"`
	Summary     SummaryPrompts    `toml:"summary"`
	Server      ServerConfig      `toml:"server"`
}

// Default returns a configuration that talks to the public Wikidata endpoint
// and renders PDF output through the dot binary on PATH.
func Default() *Config {
	return &Config{
		SPARQL: SPARQLConfig{
			Endpoint:  DefaultEndpoint,
			WikiRoot:  DefaultWikiRoot,
			UserAgent: DefaultUserAgent,
			Timeout:   Duration{60 * time.Second},
			Retry: RetryConfig{
				MaxAttempts:     1,
				InitialInterval: Duration{500 * time.Millisecond},
				MaxInterval:     Duration{10 * time.Second},
			},
		},
		Labels:      LabelsConfig{Strict: true},
		Concurrency: ConcurrencyConfig{Workers: 4},
		Render: RenderConfig{
			Format:        "pdf",
			DotBinary:     "dot",
			ClusterMethod: "lpa",
			RankDir:       "TB",
		},
		Log:      LogConfig{Level: "info"},
		Memgraph: MemgraphConfig{URI: "bolt://localhost:7687"},
		LLM:      LLMConfig{Provider: "ollama", Model: "gpt-oss:latest", BaseURL: "http://localhost:11434"},
		Server:   ServerConfig{Port: "8080"},
	}
}

// Load reads a TOML file on top of Default, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides file values with environment variables when they are set.
func (c *Config) ApplyEnv() {
	setString(&c.SPARQL.Endpoint, "WIKIGRAPH_ENDPOINT")
	setString(&c.SPARQL.UserAgent, "WIKIGRAPH_USER_AGENT")
	setString(&c.Memgraph.URI, "MEMGRAPH_URI")
	setString(&c.Memgraph.User, "MEMGRAPH_USER")
	setString(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.Server.Port, "PORT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

var validFormats = map[string]bool{
	"dot": true, "pdf": true, "svg": true, "png": true, "jpg": true, "json": true,
}

func (c *Config) Validate() error {
	if c.SPARQL.Endpoint == "" {
		return errors.New("sparql.endpoint must not be empty")
	}
	if c.SPARQL.WikiRoot == "" {
		return errors.New("sparql.wiki_root must not be empty")
	}
	if c.SPARQL.Retry.MaxAttempts < 1 {
		return fmt.Errorf("sparql.retry.max_attempts must be at least 1, got %d", c.SPARQL.Retry.MaxAttempts)
	}
	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("concurrency.workers must be at least 1, got %d", c.Concurrency.Workers)
	}
	if !validFormats[c.Render.Format] {
		return fmt.Errorf("unsupported render.format: %s", c.Render.Format)
	}
	return nil
}
