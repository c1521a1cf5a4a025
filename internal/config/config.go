// Package config loads service settings from the environment, after an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TIME_ZONE must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	GinMode  string `envconfig:"GIN_MODE" default:"debug"`
	TimeZone string `envconfig:"TIME_ZONE" default:"America/Argentina/Buenos_Aires"`

	Log       LogConfig
	Store     StoreConfig
	DB        DBConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Rabbit    RabbitConfig
	Limit     RateLimitConfig
	Bootstrap BootstrapConfig
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"console"` // console | json
}

type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"` // postgres | memory
}

type DBConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"canchas_user"`
	Password        string        `envconfig:"DB_PASSWORD" default:"canchas_password"`
	Name            string        `envconfig:"DB_NAME" default:"canchas_db"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	ApplySchema     bool          `envconfig:"DB_APPLY_SCHEMA" default:"true"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

// DSN builds a lib/pq key=value connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"12h"`
	Issuer string        `envconfig:"JWT_ISSUER" default:"canchas-backend"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// RedisConfig enables the revenue cache and the rate limiter when Addr is set.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TLS      bool          `envconfig:"REDIS_TLS" default:"false"`
	CacheTTL time.Duration `envconfig:"REVENUE_CACHE_TTL" default:"5m"`
	Prefix   string        `envconfig:"REVENUE_CACHE_PREFIX" default:"canchas:revenue"`
}

// RabbitConfig enables reservation events when URL is set.
type RabbitConfig struct {
	URL      string `envconfig:"RABBIT_URL"`
	Exchange string `envconfig:"RESERVATION_EXCHANGE" default:"reservation.exchange"`
}

type RateLimitConfig struct {
	Enabled        bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"60"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"1s"`
	TTL            time.Duration `envconfig:"RATE_LIMIT_TTL" default:"10m"`
	KeyStrategy    string        `envconfig:"RATE_LIMIT_KEY_STRATEGY" default:"ip_user_route"`
	Prefix         string        `envconfig:"RATE_LIMIT_PREFIX" default:"canchas:rl"`
}

// BootstrapConfig seeds the first administrator when both email and password are set.
type BootstrapConfig struct {
	AdminEmail     string `envconfig:"ADMIN_EMAIL"`
	AdminPassword  string `envconfig:"ADMIN_PASSWORD"`
	AdminFirstName string `envconfig:"ADMIN_FIRST_NAME" default:"Admin"`
	AdminLastName  string `envconfig:"ADMIN_LAST_NAME" default:"Canchas"`
}

// Load reads envFiles (missing files are ignored) and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver != StorePostgres && c.Store.Driver != StoreMemory {
		return fmt.Errorf("load config: STORE_DRIVER must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store.Driver)
	}

	l := &c.Limit
	if l.Capacity < 1 {
		l.Capacity = 1
	}
	if l.RefillTokens < 1 {
		l.RefillTokens = 1
	}
	if l.RefillInterval <= 0 {
		l.RefillInterval = time.Second
	}
	if minTTL := 5 * l.RefillInterval; l.TTL < minTTL {
		l.TTL = minTTL
	}

	origins := c.CORS.AllowedOrigins[:0]
	for _, o := range c.CORS.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORS.AllowedOrigins = origins
	return nil
}

// Location resolves TimeZone, the zone that decides what "today" means for bookings.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load config: TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
