package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Data     DataConfig     `mapstructure:"data"`
	Logger   LoggerConfig   `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DataConfig selects where the ledger comes from. Source is csv, postgres or
// mongo; the activity and users files are always local.
type DataConfig struct {
	Source          string `mapstructure:"source"`
	CSVFile         string `mapstructure:"csv_file"`
	ActivityFile    string `mapstructure:"activity_file"`
	UsersFile       string `mapstructure:"users_file"`
	CacheDir        string `mapstructure:"cache_dir"`
	DatabaseURL     string `mapstructure:"database_url"`
	DatabaseTable   string `mapstructure:"database_table"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type SecurityConfig struct {
	EnableCSRF      bool     `mapstructure:"csrf_enabled"`
	EnableRateLimit bool     `mapstructure:"rate_limit_enabled"`
	RateLimitRPS    int      `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int      `mapstructure:"rate_limit_burst"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	TrustedProxies  []string `mapstructure:"trusted_proxies"`
}

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceMongo    = "mongo"
)

// setting ties a config key to its environment variable and default.
type setting struct {
	key string
	env string
	def any
}

var settings = []setting{
	{"server.host", "SERVER_HOST", "localhost"},
	{"server.port", "SERVER_PORT", 8084},
	{"server.read_timeout", "SERVER_READ_TIMEOUT", 10 * time.Second},
	{"server.write_timeout", "SERVER_WRITE_TIMEOUT", 10 * time.Second},
	{"server.idle_timeout", "SERVER_IDLE_TIMEOUT", 60 * time.Second},
	{"server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT", 30 * time.Second},

	{"data.source", "DATA_SOURCE", SourceCSV},
	{"data.csv_file", "CSV_FILE", "data.csv"},
	{"data.activity_file", "ACTIVITY_FILE", "performance.csv"},
	{"data.users_file", "USERS_FILE", "users.yaml"},
	{"data.cache_dir", "CACHE_DIR", ".cache"},
	{"data.database_url", "DATABASE_URL", ""},
	{"data.database_table", "DATABASE_TABLE", "transactions"},
	{"data.mongo_uri", "MONGO_URI", ""},
	{"data.mongo_database", "MONGO_DATABASE", "sales"},
	{"data.mongo_collection", "MONGO_COLLECTION", "transactions"},

	{"log.level", "LOG_LEVEL", "info"},
	{"log.format", "LOG_FORMAT", "json"},

	{"auth.session_ttl", "SESSION_TTL", 8 * time.Hour},
	{"auth.secure_cookie", "SESSION_SECURE_COOKIE", false},

	{"security.csrf_enabled", "SECURITY_CSRF_ENABLED", true},
	{"security.rate_limit_enabled", "SECURITY_RATE_LIMIT_ENABLED", true},
	{"security.rate_limit_rps", "SECURITY_RATE_LIMIT_RPS", 100},
	{"security.rate_limit_burst", "SECURITY_RATE_LIMIT_BURST", 10},
	{"security.allowed_origins", "SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8084"}},
	{"security.trusted_proxies", "SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}},
}

// Load reads defaults, the optional file named by CONFIG_FILE and the
// environment, in increasing priority.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file; an empty path falls back to
// CONFIG_FILE.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", s.env, err)
		}
	}
	if err := v.BindEnv("config_file", "CONFIG_FILE"); err != nil {
		return nil, fmt.Errorf("bind CONFIG_FILE: %w", err)
	}

	if path == "" {
		path = v.GetString("config_file")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Security.AllowedOrigins = splitList(cfg.Security.AllowedOrigins)
	cfg.Security.TrustedProxies = splitList(cfg.Security.TrustedProxies)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// splitList accepts both list values and a single comma separated string.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	switch c.Data.Source {
	case SourceCSV:
		if c.Data.CSVFile == "" {
			return fmt.Errorf("CSV file path cannot be empty")
		}
	case SourcePostgres:
		if c.Data.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres source")
		}
	case SourceMongo:
		if c.Data.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo source")
		}
	default:
		return fmt.Errorf("invalid data source %q, must be one of: csv, postgres, mongo", c.Data.Source)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
