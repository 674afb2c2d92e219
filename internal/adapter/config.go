package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSeedIDs is the fixed bootstrap list used when no snapshot exists.
var DefaultSeedIDs = []string{
	"tt1375666",  // Inception
	"tt0468569",  // The Dark Knight
	"tt0816692",  // Interstellar
	"tt0167260",  // The Return of the King
	"tt0111161",  // The Shawshank Redemption
	"tt1300854",  // Iron Man 3
	"tt10872600", // Spider-Man: No Way Home
	"tt2015381",  // Guardians of the Galaxy
	"tt1160419",  // Dune
}

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Storage StorageConfig `mapstructure:"storage"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Notices NoticesConfig `mapstructure:"notices"`
	Player  PlayerConfig  `mapstructure:"player"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// APIConfig holds metadata API configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Key     string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"` // Extra attempts after the first
	Backoff time.Duration `mapstructure:"backoff"` // Initial backoff, doubled per attempt
}

// CatalogConfig holds ingestion policy
type CatalogConfig struct {
	SeedIDs           []string `mapstructure:"seed_ids"`
	SearchLimit       int      `mapstructure:"search_limit"`        // Max stubs detail-fetched per search
	TrailerSearchURL  string   `mapstructure:"trailer_search_url"`  // Prefix for the derived video reference
	DownloadURL       string   `mapstructure:"download_url"`        // Placeholder download reference
	DownloadMinRating float64  `mapstructure:"download_min_rating"` // Rating must exceed this
}

// StorageConfig holds local persistence configuration
type StorageConfig struct {
	Path string `mapstructure:"path"` // Empty means memory only
}

// SyncConfig holds the simulated remote sync settings
type SyncConfig struct {
	Delay      time.Duration `mapstructure:"delay"`
	Credential string        `mapstructure:"credential"` // Displayed in the admin panel, never sent anywhere
}

// NoticesConfig holds toast settings
type NoticesConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// PlayerConfig holds the external opener used for trailers
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // Empty for the system default opener
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme string `mapstructure:"theme"` // Initial theme when none is stored
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// MetricsConfig holds the Prometheus exposition address
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // Empty disables the endpoint
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://www.omdbapi.com/",
			Key:     "50341562",
			Timeout: 15 * time.Second,
			Retries: 3,
			Backoff: 500 * time.Millisecond,
		},
		Catalog: CatalogConfig{
			SeedIDs:           append([]string(nil), DefaultSeedIDs...),
			SearchLimit:       10,
			TrailerSearchURL:  "https://www.youtube.com/embed?listType=search&list=",
			DownloadURL:       "https://archive.org/details/example_movie",
			DownloadMinRating: 8.0,
		},
		Storage: StorageConfig{
			Path: filepath.Join(defaultDataPath(), "cinepedia.db"),
		},
		Sync: SyncConfig{
			Delay:      2 * time.Second,
			Credential: "752f7f23-a301-4875-a20f-ce44f2f21254",
		},
		Notices: NoticesConfig{
			TTL: 4 * time.Second,
		},
		Player: PlayerConfig{
			Args: []string{},
		},
		UI: UIConfig{
			Theme: "default",
		},
		Logging: LoggingConfig{
			File:       filepath.Join(defaultDataPath(), "cinepedia.log"),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// configKeys lists every key so AutomaticEnv can see overrides for keys that
// never appear in a config file.
var configKeys = []string{
	"api.base_url", "api.api_key", "api.timeout", "api.retries", "api.backoff",
	"catalog.seed_ids", "catalog.search_limit", "catalog.trailer_search_url",
	"catalog.download_url", "catalog.download_min_rating",
	"storage.path",
	"sync.delay", "sync.credential",
	"notices.ttl",
	"player.command", "player.args",
	"ui.theme",
	"logging.file", "logging.level", "logging.max_size_mb", "logging.max_backups", "logging.max_age_days",
	"metrics.addr",
}

func bindEnvKeys(v *viper.Viper) {
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "cinepedia")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinepedia")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cinepedia")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cinepedia")
	}
}

// LoadConfig loads configuration from file and environment.
// An explicit file path takes precedence over the search paths.
func LoadConfig(file string) (*Config, error) {
	return loadConfig(viper.New(), file)
}

func loadConfig(v *viper.Viper, file string) (*Config, error) {
	cfg := DefaultConfig()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (CINEPEDIA_API_API_KEY, ...)
	v.SetEnvPrefix("CINEPEDIA")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline can't run with
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must be set")
	}
	if c.API.Retries < 0 {
		return fmt.Errorf("api.retries must be >= 0, got %d", c.API.Retries)
	}
	if c.API.Backoff < 0 {
		return fmt.Errorf("api.backoff must be >= 0, got %s", c.API.Backoff)
	}
	if c.Catalog.SearchLimit <= 0 {
		return fmt.Errorf("catalog.search_limit must be > 0, got %d", c.Catalog.SearchLimit)
	}
	return nil
}

// SaveConfig writes the current configuration to the default config file
func SaveConfig(cfg *Config) (string, error) {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.api_key", cfg.API.Key)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.retries", cfg.API.Retries)
	v.Set("api.backoff", cfg.API.Backoff.String())

	v.Set("catalog.seed_ids", cfg.Catalog.SeedIDs)
	v.Set("catalog.search_limit", cfg.Catalog.SearchLimit)
	v.Set("catalog.trailer_search_url", cfg.Catalog.TrailerSearchURL)
	v.Set("catalog.download_url", cfg.Catalog.DownloadURL)
	v.Set("catalog.download_min_rating", cfg.Catalog.DownloadMinRating)

	v.Set("storage.path", cfg.Storage.Path)
	v.Set("sync.delay", cfg.Sync.Delay.String())
	v.Set("notices.ttl", cfg.Notices.TTL.String())

	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)

	v.Set("ui.theme", cfg.UI.Theme)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.Set("logging.max_backups", cfg.Logging.MaxBackups)
	v.Set("logging.max_age_days", cfg.Logging.MaxAgeDays)

	v.Set("metrics.addr", cfg.Metrics.Addr)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}

// RemoveData deletes the local store file
func RemoveData(cfg *Config) error {
	if cfg.Storage.Path == "" {
		return nil
	}
	if err := os.Remove(cfg.Storage.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove local data: %w", err)
	}
	return nil
}
