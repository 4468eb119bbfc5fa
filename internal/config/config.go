// Package config loads application settings from YAML with environment
// overrides. Missing or broken config files fall back to defaults so the
// service always starts.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "LEARNPATH_CONFIG"

	serverAddrEnv       = "SERVER_ADDR"
	ollamaBaseURLEnv    = "OLLAMA_BASE_URL"
	ollamaModelEnv      = "OLLAMA_MODEL"
	searchTimeoutEnv    = "SEARCH_TIMEOUT"
	searchMaxResultsEnv = "SEARCH_MAX_RESULTS"
	searchUserAgentEnv  = "SEARCH_USER_AGENT"
	redisAddrEnv        = "REDIS_ADDR"
	logLevelEnv         = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Ollama  OllamaConfig  `yaml:"ollama"`
	Search  SearchConfig  `yaml:"search"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// OllamaConfig defines how to contact the language model endpoint.
type OllamaConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// SearchConfig holds the outbound scraping settings.
type SearchConfig struct {
	BaseURL    string        `yaml:"baseUrl"`
	UserAgent  string        `yaml:"userAgent"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxResults int           `yaml:"maxResults"`
	MinDelay   time.Duration `yaml:"minDelay"`
	MaxDelay   time.Duration `yaml:"maxDelay"`
}

// CacheConfig describes the optional Redis result cache. An empty Addr
// disables caching.
type CacheConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads .env (best effort), then YAML configuration (if present), and
// applies environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(ollamaBaseURLEnv); v != "" {
		c.Ollama.BaseURL = v
	}
	if v := os.Getenv(ollamaModelEnv); v != "" {
		c.Ollama.Model = v
	}

	if v := os.Getenv(searchTimeoutEnv); v != "" {
		if d, err := time.ParseDuration(v); err != nil {
			log.Printf("config: invalid %s %q: %v", searchTimeoutEnv, v, err)
		} else {
			c.Search.Timeout = d
		}
	}
	if v := os.Getenv(searchMaxResultsEnv); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n <= 0 {
			log.Printf("config: invalid %s %q", searchMaxResultsEnv, v)
		} else {
			c.Search.MaxResults = n
		}
	}
	if v := os.Getenv(searchUserAgentEnv); v != "" {
		c.Search.UserAgent = v
	}

	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Cache.Addr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.Ollama.BaseURL != "" {
		base.Ollama.BaseURL = override.Ollama.BaseURL
	}
	if override.Ollama.Model != "" {
		base.Ollama.Model = override.Ollama.Model
	}
	if override.Ollama.Timeout > 0 {
		base.Ollama.Timeout = override.Ollama.Timeout
	}

	if override.Search.BaseURL != "" {
		base.Search.BaseURL = override.Search.BaseURL
	}
	if override.Search.UserAgent != "" {
		base.Search.UserAgent = override.Search.UserAgent
	}
	if override.Search.Timeout > 0 {
		base.Search.Timeout = override.Search.Timeout
	}
	if override.Search.MaxResults > 0 {
		base.Search.MaxResults = override.Search.MaxResults
	}
	if override.Search.MinDelay > 0 {
		base.Search.MinDelay = override.Search.MinDelay
	}
	if override.Search.MaxDelay > 0 {
		base.Search.MaxDelay = override.Search.MaxDelay
	}

	if override.Cache.Addr != "" {
		base.Cache.Addr = override.Cache.Addr
	}
	if override.Cache.Password != "" {
		base.Cache.Password = override.Cache.Password
	}
	if override.Cache.DB != 0 {
		base.Cache.DB = override.Cache.DB
	}
	if override.Cache.TTL > 0 {
		base.Cache.TTL = override.Cache.TTL
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
			Model:   "llama3.1",
			Timeout: 120 * time.Second,
		},
		Search: SearchConfig{
			BaseURL:    "https://html.duckduckgo.com/html/",
			UserAgent:  "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0",
			Timeout:    15 * time.Second,
			MaxResults: 10,
			MinDelay:   500 * time.Millisecond,
			MaxDelay:   1500 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL: 15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
