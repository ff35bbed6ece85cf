package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrMissingAPIKey = errors.New("itjobs api key is not configured")

type API struct {
	BaseURL   string            `yaml:"base_url"`
	Key       string            `yaml:"key"`
	UserAgent string            `yaml:"user_agent"`
	Timeout   time.Duration     `yaml:"timeout"`
	Endpoints map[string]string `yaml:"endpoints"`
	// RequestsPerSecond <= 0 disables client-side throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type Teamlyzer struct {
	BaseURL           string        `yaml:"base_url"`
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout"`
	FallbackPages     int           `yaml:"fallback_pages"`
	TopBenefits       int           `yaml:"top_benefits"`
	RespectRobots     bool          `yaml:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

type Store struct {
	// DSN selects the backend: postgres:// URLs use lib/pq, anything else is a SQLite path.
	// Empty disables caching.
	DSN string        `yaml:"dsn"`
	TTL time.Duration `yaml:"ttl"`
}

type Server struct {
	Port          int           `yaml:"port"`
	PruneInterval time.Duration `yaml:"prune_interval"`
	// MaxPages and MaxLimit cap the pages and limit query parameters.
	MaxPages int `yaml:"max_pages"`
	MaxLimit int `yaml:"max_limit"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is built once at startup and passed by value to the components that need it.
type Config struct {
	API       API       `yaml:"api"`
	Teamlyzer Teamlyzer `yaml:"teamlyzer"`
	Skills    []string  `yaml:"skills"`
	Store     Store     `yaml:"store"`
	Server    Server    `yaml:"server"`
	Log       Log       `yaml:"log"`
}

func Default() Config {
	return Config{
		API: API{
			BaseURL:   "https://api.itjobs.pt/job/",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:115.0) Gecko/20100101 Firefox/115.0",
			Timeout:   20 * time.Second,
			Endpoints: map[string]string{
				"get":    "get.json",
				"list":   "list.json",
				"search": "search.json",
				"status": "status.json",
			},
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Teamlyzer: Teamlyzer{
			BaseURL:           "https://pt.teamlyzer.com",
			UserAgent:         "Mozilla/5.0 (compatible; TeamlyzerScraper/1.0)",
			Timeout:           20 * time.Second,
			FallbackPages:     3,
			TopBenefits:       5,
			RespectRobots:     true,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Skills: []string{
			"python", "java", "javascript", "c#", "php", "sql",
			"aws", "docker", "kubernetes", "react", "angular",
		},
		Store: Store{
			TTL: 7 * 24 * time.Hour,
		},
		Server: Server{
			Port:          8080,
			PruneInterval: 24 * time.Hour,
			MaxPages:      10,
			MaxLimit:      1000,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load layers defaults, the optional YAML file at path, an optional .env file and
// environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Missing .env is the normal case.
	_ = godotenv.Load()

	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg.clone(), nil
}

func applyEnv(cfg *Config) {
	cfg.API.Key = getEnv("ITJOBS_API_KEY", cfg.API.Key)
	cfg.API.BaseURL = getEnv("ITJOBS_BASE_URL", cfg.API.BaseURL)
	cfg.Teamlyzer.BaseURL = getEnv("TEAMLYZER_BASE_URL", cfg.Teamlyzer.BaseURL)
	cfg.Teamlyzer.FallbackPages = getEnvAsInt("TEAMLYZER_FALLBACK_PAGES", cfg.Teamlyzer.FallbackPages)
	cfg.Store.DSN = getEnv("JOBSCOUT_STORE_DSN", cfg.Store.DSN)
	cfg.Log.Level = getEnv("JOBSCOUT_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("JOBSCOUT_LOG_FORMAT", cfg.Log.Format)
	cfg.Server.Port = getEnvAsInt("PORT", cfg.Server.Port)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func Validate(cfg Config) error {
	var errs []string

	checkURL := func(name, raw string) {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("%s must be an absolute url", name))
		}
	}
	checkURL("api.base_url", cfg.API.BaseURL)
	checkURL("teamlyzer.base_url", cfg.Teamlyzer.BaseURL)

	for _, name := range []string{"get", "list", "search"} {
		if strings.TrimSpace(cfg.API.Endpoints[name]) == "" {
			errs = append(errs, fmt.Sprintf("api.endpoints.%s is required", name))
		}
	}
	if cfg.API.Timeout <= 0 {
		errs = append(errs, "api.timeout must be > 0")
	}
	if cfg.Teamlyzer.Timeout <= 0 {
		errs = append(errs, "teamlyzer.timeout must be > 0")
	}
	if cfg.Teamlyzer.FallbackPages < 0 {
		errs = append(errs, "teamlyzer.fallback_pages must be >= 0")
	}
	if cfg.Teamlyzer.TopBenefits <= 0 {
		errs = append(errs, "teamlyzer.top_benefits must be > 0")
	}
	if len(cfg.Skills) == 0 {
		errs = append(errs, "skills must not be empty")
	}
	if cfg.Server.MaxPages <= 0 {
		errs = append(errs, "server.max_pages must be > 0")
	}
	if cfg.Server.MaxLimit <= 0 {
		errs = append(errs, "server.max_limit must be > 0")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be 1..65535")
	}

	if len(errs) > 0 {
		return errors.New("invalid config:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

// WithAPIKey returns a copy of cfg using key.
func (c Config) WithAPIKey(key string) Config {
	out := c.clone()
	out.API.Key = strings.TrimSpace(key)
	return out
}

// EndpointURL resolves a named endpoint against the API base url.
func (c Config) EndpointURL(name string) (string, error) {
	path, ok := c.API.Endpoints[name]
	if !ok || path == "" {
		return "", fmt.Errorf("unknown api endpoint %q", name)
	}
	base, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", name, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (c Config) clone() Config {
	out := c
	out.API.Endpoints = make(map[string]string, len(c.API.Endpoints))
	for k, v := range c.API.Endpoints {
		out.API.Endpoints[k] = v
	}
	out.Skills = slices.Clone(c.Skills)
	return out
}
