package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"sales-console/log"
)

const (
	ConfigFileName = "config.json"
	EnvPrefix      = "SALES_CONSOLE"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// RedisConfig configures the redis store backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Config represents the application configuration
type Config struct {
	// Store selects where filter preferences persist: file, redis or memory.
	Store    string      `mapstructure:"store"`
	StateDir string      `mapstructure:"state_dir"`
	Redis    RedisConfig `mapstructure:"redis"`
	// DataFile is a JSON array of leads. Empty uses the bundled dataset.
	DataFile string `mapstructure:"data_file"`

	SearchDebounce   time.Duration `mapstructure:"search_debounce"`
	LoadMoreDelay    time.Duration `mapstructure:"load_more_delay"`
	InitialLoadDelay time.Duration `mapstructure:"initial_load_delay"`
	SaveDelay        time.Duration `mapstructure:"save_delay"`

	LogsEnabled bool   `mapstructure:"logs_enabled"`
	LogsDir     string `mapstructure:"logs_dir"`
	LogMaxSize  int    `mapstructure:"log_max_size"`
	LogMaxFiles int    `mapstructure:"log_max_files"`
	LogMaxAge   int    `mapstructure:"log_max_age"`
	LogCompress bool   `mapstructure:"log_compress"`
}

// GetConfigDir returns the path to the application's configuration directory
func GetConfigDir() (string, error) {
	return log.AppDir()
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	stateDir, err := GetConfigDir()
	if err != nil {
		stateDir = filepath.Join(os.TempDir(), ".sales-console")
	}
	return &Config{
		Store:    StoreFile,
		StateDir: stateDir,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "sales-console:",
		},
		SearchDebounce:   500 * time.Millisecond,
		LoadMoreDelay:    300 * time.Millisecond,
		InitialLoadDelay: 800 * time.Millisecond,
		SaveDelay:        500 * time.Millisecond,
		LogsEnabled:      true,
		LogMaxSize:       10,
		LogMaxFiles:      5,
		LogMaxAge:        30,
		LogCompress:      true,
	}
}

func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("store", def.Store)
	v.SetDefault("state_dir", def.StateDir)
	v.SetDefault("data_file", def.DataFile)
	v.SetDefault("redis.addr", def.Redis.Addr)
	v.SetDefault("redis.password", def.Redis.Password)
	v.SetDefault("redis.db", def.Redis.DB)
	v.SetDefault("redis.prefix", def.Redis.Prefix)
	v.SetDefault("search_debounce", def.SearchDebounce)
	v.SetDefault("load_more_delay", def.LoadMoreDelay)
	v.SetDefault("initial_load_delay", def.InitialLoadDelay)
	v.SetDefault("save_delay", def.SaveDelay)
	v.SetDefault("logs_enabled", def.LogsEnabled)
	v.SetDefault("logs_dir", def.LogsDir)
	v.SetDefault("log_max_size", def.LogMaxSize)
	v.SetDefault("log_max_files", def.LogMaxFiles)
	v.SetDefault("log_max_age", def.LogMaxAge)
	v.SetDefault("log_compress", def.LogCompress)
}

// LoadConfig reads configuration from path, or from config.json in the config
// directory when path is empty. Environment variables prefixed SALES_CONSOLE_
// (also read from a .env file) override file values. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WarningLog.Printf("failed to load .env: %v", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		if dir, err := GetConfigDir(); err == nil {
			path = filepath.Join(dir, ConfigFileName)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration, e.g. after command line overrides.
func (c *Config) Validate() error {
	return validateConfig(c)
}

func validateConfig(cfg *Config) error {
	switch cfg.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want file, redis or memory)", cfg.Store)
	}
	if cfg.Store == StoreRedis && cfg.Redis.Addr == "" {
		return errors.New("redis.addr is required for the redis store")
	}
	for name, d := range map[string]time.Duration{
		"search_debounce":    cfg.SearchDebounce,
		"load_more_delay":    cfg.LoadMoreDelay,
		"initial_load_delay": cfg.InitialLoadDelay,
		"save_delay":         cfg.SaveDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// LogOptions converts the logging fields for the log package.
func (c *Config) LogOptions() log.Options {
	return log.Options{
		Enabled:    c.LogsEnabled,
		Dir:        c.LogsDir,
		MaxSizeMB:  c.LogMaxSize,
		MaxBackups: c.LogMaxFiles,
		MaxAgeDays: c.LogMaxAge,
		Compress:   c.LogCompress,
	}
}

// OpenStore builds the configured Store. The returned close func releases
// backend resources.
func (c *Config) OpenStore() (Store, func() error, error) {
	switch c.Store {
	case StoreMemory:
		return NewMemoryStore(), func() error { return nil }, nil
	case StoreRedis:
		s := NewRedisStore(NewRedis(c.Redis), c.Redis.Prefix)
		ctx, cancel := context.WithTimeout(context.Background(), defaultRedisTimeout)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("redis store at %s: %w", c.Redis.Addr, err)
		}
		return s, s.Close, nil
	default:
		s, err := NewFileStore(c.StateDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
}
