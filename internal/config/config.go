package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultEnvFile       = ".env"
	defaultPort          = "8080"
	defaultTemplatesDir  = "templates"
	defaultPublicDir     = "public"
	defaultLocalesDir    = "locales"
	defaultContentDir    = "content"
	defaultDataSource    = "testdata/standard-template-data.json"
	defaultLang          = "ko"
	defaultReadTimeout   = 15 * time.Second
	// zero keeps preview websockets open; socket writes set their own deadline
	defaultWriteTimeout  = 0
	defaultIdleTimeout   = 60 * time.Second
	defaultDataCacheTTL  = 5 * time.Minute
	defaultFallbackDelay = 2 * time.Second
	defaultPreviewRate   = 20
	defaultPreviewBurst  = 40
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Site    SiteConfig    `yaml:"site"`
	Data    DataConfig    `yaml:"data"`
	Preview PreviewConfig `yaml:"preview"`
	Cookie  CookieConfig  `yaml:"cookie"`
	Dev     bool          `yaml:"dev"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// Addr returns the listen address for Port.
func (s ServerConfig) Addr() string { return ":" + s.Port }

// SiteConfig points at the page assets on disk.
type SiteConfig struct {
	TemplatesDir string   `yaml:"templates"`
	PublicDir    string   `yaml:"public"`
	LocalesDir   string   `yaml:"locales"`
	ContentDir   string   `yaml:"content"`
	Lang         string   `yaml:"lang"`
	Languages    []string `yaml:"languages"`
	BaseURL      string   `yaml:"baseURL"`
}

// DataConfig locates the property document.
type DataConfig struct {
	Source   string        `yaml:"source"`   // file path or http(s) URL
	Fallback string        `yaml:"fallback"` // sample document used when Source fails
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// PreviewConfig configures the live preview bridge.
type PreviewConfig struct {
	Origins       []string      `yaml:"origins"`
	FallbackDelay time.Duration `yaml:"fallbackDelay"`
	RatePerSecond float64       `yaml:"ratePerSecond"`
	Burst         int           `yaml:"burst"`
}

// CookieConfig signs visitor cookies such as popup dismissals.
type CookieConfig struct {
	Secret string `yaml:"secret"`
	Secure bool   `yaml:"secure"`
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
	configFile   string
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// WithConfigFile reads a YAML file before applying the environment. It wins
// over YEOYOOCHAE_CONFIG.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = path
	}
}

// Load assembles the configuration from defaults, an optional YAML file,
// .env overrides and environment variables, in increasing precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := defaults()
	file := options.configFile
	if file == "" {
		file = stringWithDefault(lookup, "YEOYOOCHAE_CONFIG", "")
	}
	if file != "" {
		if err := loadYAML(file, &cfg); err != nil {
			return Config{}, err
		}
	}

	port := stringWithDefault(lookup, "YEOYOOCHAE_WEB_PORT", "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", cfg.Server.Port)
	}
	cfg.Server.Port = port
	cfg.Server.ReadTimeout = durationWithDefault(lookup, "YEOYOOCHAE_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = durationWithDefault(lookup, "YEOYOOCHAE_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = durationWithDefault(lookup, "YEOYOOCHAE_IDLE_TIMEOUT", cfg.Server.IdleTimeout)

	cfg.Site.TemplatesDir = stringWithDefault(lookup, "YEOYOOCHAE_TEMPLATES", cfg.Site.TemplatesDir)
	cfg.Site.PublicDir = stringWithDefault(lookup, "YEOYOOCHAE_PUBLIC", cfg.Site.PublicDir)
	cfg.Site.LocalesDir = stringWithDefault(lookup, "YEOYOOCHAE_LOCALES", cfg.Site.LocalesDir)
	cfg.Site.ContentDir = stringWithDefault(lookup, "YEOYOOCHAE_CONTENT", cfg.Site.ContentDir)
	cfg.Site.Lang = strings.ToLower(stringWithDefault(lookup, "YEOYOOCHAE_LANG", cfg.Site.Lang))
	cfg.Site.BaseURL = strings.TrimRight(stringWithDefault(lookup, "YEOYOOCHAE_BASE_URL", cfg.Site.BaseURL), "/")

	cfg.Data.Source = stringWithDefault(lookup, "YEOYOOCHAE_DATA", cfg.Data.Source)
	cfg.Data.Fallback = stringWithDefault(lookup, "YEOYOOCHAE_DATA_FALLBACK", cfg.Data.Fallback)
	cfg.Data.CacheTTL = durationWithDefault(lookup, "YEOYOOCHAE_DATA_TTL", cfg.Data.CacheTTL)

	if origins := listFromEnv(lookup, "YEOYOOCHAE_PREVIEW_ORIGINS"); origins != nil {
		cfg.Preview.Origins = origins
	}
	cfg.Preview.FallbackDelay = durationWithDefault(lookup, "YEOYOOCHAE_PREVIEW_FALLBACK", cfg.Preview.FallbackDelay)

	cfg.Cookie.Secret = stringWithDefault(lookup, "YEOYOOCHAE_COOKIE_SECRET", cfg.Cookie.Secret)
	cfg.Cookie.Secure = boolWithDefault(lookup, "YEOYOOCHAE_COOKIE_SECURE", cfg.Cookie.Secure)

	// Dev mode: prefer YEOYOOCHAE_DEV, fallback to DEV
	cfg.Dev = boolWithDefault(lookup, "YEOYOOCHAE_DEV", boolWithDefault(lookup, "DEV", cfg.Dev))

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         defaultPort,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		Site: SiteConfig{
			TemplatesDir: defaultTemplatesDir,
			PublicDir:    defaultPublicDir,
			LocalesDir:   defaultLocalesDir,
			ContentDir:   defaultContentDir,
			Lang:         defaultLang,
			Languages:    []string{"ko", "en"},
		},
		Data: DataConfig{
			Source:   defaultDataSource,
			Fallback: defaultDataSource,
			CacheTTL: defaultDataCacheTTL,
		},
		Preview: PreviewConfig{
			FallbackDelay: defaultFallbackDelay,
			RatePerSecond: defaultPreviewRate,
			Burst:         defaultPreviewBurst,
		},
	}
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: failed parsing %s: %w", path, err)
	}
	return nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		missing = append(missing, "Server.Port")
	}
	if strings.TrimSpace(cfg.Site.TemplatesDir) == "" {
		missing = append(missing, "Site.TemplatesDir")
	}
	if strings.TrimSpace(cfg.Site.LocalesDir) == "" {
		missing = append(missing, "Site.LocalesDir")
	}
	if strings.TrimSpace(cfg.Data.Source) == "" {
		missing = append(missing, "Data.Source")
	}
	if cfg.Data.CacheTTL < 0 {
		missing = append(missing, "Data.CacheTTL")
	}
	if cfg.Preview.RatePerSecond < 0 {
		missing = append(missing, "Preview.RatePerSecond")
	}
	if !cfg.Dev && cfg.Cookie.Secure && cfg.Cookie.Secret == "" {
		missing = append(missing, "Cookie.Secret")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}

// listFromEnv splits a comma separated value. An unset key yields nil.
func listFromEnv(lookup func(string) (string, bool), key string) []string {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
