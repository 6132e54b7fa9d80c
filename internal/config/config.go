package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "MOVIESCOUT_CONFIG"
	omdbKeyEnv    = "OMDB_API_KEY"
	tmdbTokenEnv  = "TMDB_API_TOKEN"
	imdbAPIKeyEnv = "IMDBAPI_API_KEY"
	outputDirEnv  = "MOVIESCOUT_OUTPUT_DIR"
)

// Known source names, in default merge-priority order.
const (
	SourceOMDB    = "omdb"
	SourceTMDB    = "tmdb"
	SourceIMDbAPI = "imdbapi"
)

// Config holds all settings required across the application.
type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourcesConfig selects and parameterizes the external APIs. The order of
// Enabled decides merge priority: earlier sources win field conflicts.
type SourcesConfig struct {
	Enabled []string     `yaml:"enabled"`
	OMDB    SourceConfig `yaml:"omdb"`
	TMDB    SourceConfig `yaml:"tmdb"`
	IMDbAPI SourceConfig `yaml:"imdbapi"`
}

// SourceConfig parameterizes one external API adapter.
type SourceConfig struct {
	APIKey            string  `yaml:"apiKey"`
	BaseURL           string  `yaml:"baseUrl"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
}

// FetchConfig tunes orchestration pacing and discovery bounds.
type FetchConfig struct {
	TitleDelayMS int `yaml:"titleDelayMs"`
	MaxPages     int `yaml:"maxPages"`
}

// OutputConfig describes where and in which formats results are written.
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. An explicit path wins over the MOVIESCOUT_CONFIG variable.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
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

// ValidationError is the only fatal error class: a misconfiguration detected
// before any workflow runs.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks that at least one source is enabled and that every enabled
// key-required source has a key.
func (c Config) Validate() error {
	var problems []string

	if len(c.Sources.Enabled) == 0 {
		problems = append(problems, "no sources enabled")
	}
	for _, name := range c.Sources.Enabled {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case SourceOMDB:
			if c.Sources.OMDB.APIKey == "" {
				problems = append(problems, "omdb is enabled but OMDB_API_KEY is not set")
			}
		case SourceTMDB:
			if c.Sources.TMDB.APIKey == "" {
				problems = append(problems, "tmdb is enabled but TMDB_API_TOKEN is not set")
			}
		case SourceIMDbAPI:
			// key is optional
		default:
			problems = append(problems, fmt.Sprintf("unknown source %q", name))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(omdbKeyEnv); v != "" {
		c.Sources.OMDB.APIKey = v
	}
	if v := os.Getenv(tmdbTokenEnv); v != "" {
		c.Sources.TMDB.APIKey = v
	}
	if v := os.Getenv(imdbAPIKeyEnv); v != "" {
		c.Sources.IMDbAPI.APIKey = v
	}
	if v := os.Getenv(outputDirEnv); v != "" {
		c.Output.Dir = v
	}
}

func mergeConfig(base, override Config) Config {
	if len(override.Sources.Enabled) > 0 {
		base.Sources.Enabled = override.Sources.Enabled
	}
	base.Sources.OMDB = mergeSource(base.Sources.OMDB, override.Sources.OMDB)
	base.Sources.TMDB = mergeSource(base.Sources.TMDB, override.Sources.TMDB)
	base.Sources.IMDbAPI = mergeSource(base.Sources.IMDbAPI, override.Sources.IMDbAPI)

	if override.Fetch.TitleDelayMS > 0 {
		base.Fetch.TitleDelayMS = override.Fetch.TitleDelayMS
	}
	if override.Fetch.MaxPages > 0 {
		base.Fetch.MaxPages = override.Fetch.MaxPages
	}

	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}
	if len(override.Output.Formats) > 0 {
		base.Output.Formats = override.Output.Formats
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func mergeSource(base, override SourceConfig) SourceConfig {
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.BaseURL != "" {
		base.BaseURL = override.BaseURL
	}
	if override.RequestsPerSecond > 0 {
		base.RequestsPerSecond = override.RequestsPerSecond
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Sources: SourcesConfig{
			Enabled: []string{SourceOMDB, SourceTMDB, SourceIMDbAPI},
			OMDB: SourceConfig{
				BaseURL:           "https://www.omdbapi.com/",
				RequestsPerSecond: 10,
			},
			TMDB: SourceConfig{
				BaseURL: "https://api.themoviedb.org/3",
				// 40 requests per 10 seconds, i.e. one call every 250ms.
				RequestsPerSecond: 4,
			},
			IMDbAPI: SourceConfig{
				BaseURL:           "https://api.imdbapi.dev",
				RequestsPerSecond: 5,
			},
		},
		Fetch: FetchConfig{
			TitleDelayMS: 500,
			MaxPages:     10,
		},
		Output: OutputConfig{
			Dir:     "out",
			Formats: []string{"text", "csv"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
