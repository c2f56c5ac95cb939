// Package config carga la configuración de la API:
// defaults -> archivo YAML opcional (CONFIG_FILE) -> variables de entorno.
// Antes de leer el entorno se carga .env si existe.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	DB        DBConfig        `yaml:"db"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Populate  PopulateConfig  `yaml:"populate"`
}

type HTTPConfig struct {
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
	CORSAllowedOrigins  []string `yaml:"cors_allowed_origins"`
	// TrustedProxies: IPs o CIDRs cuyos X-Forwarded-For se aceptan.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

type DBConfig struct {
	DSN         string `yaml:"dsn"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"sslmode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type AuthConfig struct {
	Secret          string `yaml:"secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	Required        bool   `yaml:"required"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

type RateLimitConfig struct {
	LoginPerMinute int    `yaml:"login_per_minute"`
	RedisURL       string `yaml:"redis_url"`
	FailOpen       bool   `yaml:"fail_open"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type PopulateConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:                "8080",
			ReadTimeoutSeconds:  5,
			WriteTimeoutSeconds: 10,
		},
		DB: DBConfig{
			Port:    "5432",
			SSLMode: "disable",
		},
		Auth: AuthConfig{
			TokenTTLMinutes: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "dogpass-api",
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: 20,
			FailOpen:       true,
		},
		Kafka: KafkaConfig{
			Topic: "dogpass.timeline",
		},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4317",
			SampleRatio: 1,
		},
	}
}

// Load arma la configuración. path vacío usa CONFIG_FILE; si tampoco hay,
// solo defaults + entorno. Un archivo indicado que no existe es error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Auth.TokenTTLMinutes <= 0 {
		return errors.New("JWT_TOKEN_TIMEOUT_MINS must be positive")
	}
	if c.RateLimit.LoginPerMinute <= 0 {
		return errors.New("LOGIN_RATE_LIMIT_PER_MIN must be positive")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return errors.New("OTEL_SAMPLING_RATIO must be between 0 and 1")
	}
	if c.Auth.Required && strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("AUTH_REQUIRED needs JWT_CRYPT_KEY")
	}
	if _, err := c.HTTP.TrustedProxyPrefixes(); err != nil {
		return err
	}
	return nil
}

// ConnString devuelve DB_DSN o lo arma con las partes POSTGRES_*.
// Sin host ni DSN devuelve "" (modo in-memory).
func (c DBConfig) ConnString() string {
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn
	}
	if strings.TrimSpace(c.Host) == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Name,
	}
	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// TrustedProxyPrefixes parsea TrustedProxies; una IP suelta vale como /32 (o /128).
func (c HTTPConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid CIDR %q", raw)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid IP %q", raw)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func (c HTTPConfig) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = splitList(v)
		}
	}

	var errs []error
	boolean := func(key string, dst *bool) {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: expected true/false, got %q", key, v))
			return
		}
		*dst = b
	}
	integer := func(key string, dst *int) {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: expected integer, got %q", key, v))
			return
		}
		*dst = n
	}
	float := func(key string, dst *float64) {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: expected number, got %q", key, v))
			return
		}
		*dst = f
	}

	str("PORT", &cfg.HTTP.Port)
	list("CORS_ALLOWED_ORIGINS", &cfg.HTTP.CORSAllowedOrigins)
	list("TRUSTED_PROXIES", &cfg.HTTP.TrustedProxies)

	str("DB_DSN", &cfg.DB.DSN)
	str("POSTGRES_USER", &cfg.DB.User)
	str("POSTGRES_PASSWORD", &cfg.DB.Password)
	str("POSTGRES_HOST", &cfg.DB.Host)
	str("POSTGRES_PORT", &cfg.DB.Port)
	str("POSTGRES_DB", &cfg.DB.Name)
	str("POSTGRES_SSLMODE", &cfg.DB.SSLMode)
	boolean("DB_AUTO_MIGRATE", &cfg.DB.AutoMigrate)

	str("JWT_CRYPT_KEY", &cfg.Auth.Secret)
	integer("JWT_TOKEN_TIMEOUT_MINS", &cfg.Auth.TokenTTLMinutes)
	boolean("AUTH_REQUIRED", &cfg.Auth.Required)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("APP_NAME", &cfg.Log.App)

	integer("LOGIN_RATE_LIMIT_PER_MIN", &cfg.RateLimit.LoginPerMinute)
	str("REDIS_URL", &cfg.RateLimit.RedisURL)
	boolean("RATE_LIMIT_FAIL_OPEN", &cfg.RateLimit.FailOpen)

	list("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	str("KAFKA_TOPIC", &cfg.Kafka.Topic)

	boolean("OTEL_ENABLED", &cfg.Telemetry.Enabled)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Telemetry.Endpoint)
	float("OTEL_SAMPLING_RATIO", &cfg.Telemetry.SampleRatio)

	boolean("POPULATE_ENABLED", &cfg.Populate.Enabled)

	return errors.Join(errs...)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
