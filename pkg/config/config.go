package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	Session   SessionConfig
	HTTP      HTTPConfig
	Business  BusinessConfig
	RateLimit RateLimitConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// IsDevelopment indica si se exponen detalles internos de errores.
func (c AppConfig) IsDevelopment() bool { return c.Env == "development" }

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int
	MinConns       int
	IdleTimeout    time.Duration
	ConnectTimeout time.Duration
	AcquireTimeout time.Duration
	QueryTimeout   time.Duration
	AutoMigrate    bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// SessionConfig duración y mantenimiento de sesiones.
type SessionConfig struct {
	Timeout       time.Duration // vida absoluta de una sesión
	SweepInterval time.Duration // cada cuánto se borran sesiones vencidas
	CacheTTL      time.Duration // cada cuánto el índice en memoria revalida contra la BD
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BusinessConfig parámetros de negocio.
type BusinessConfig struct {
	USDToCUPRate         decimal.Decimal
	NumericPolicy        string // strict | lenient
	LowStockThreshold    int
	MediumStockThreshold int
}

// RateLimitConfig límite de peticiones por usuario. RedisAddr vacío = contador en memoria.
type RateLimitConfig struct {
	Enabled       bool
	Max           int
	Window        time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, SESSION_TIMEOUT_HOURS, etc.
func Load() (*Config, error) {
	// .env al entorno del proceso; no pisa variables ya definidas
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	rate, err := decimal.NewFromString(getString(v, "USD_TO_CUP_RATE", "395"))
	if err != nil || !rate.IsPositive() {
		return nil, fmt.Errorf("USD_TO_CUP_RATE inválido: %q", getString(v, "USD_TO_CUP_RATE", ""))
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-ventas"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "inventario"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MaxConns:       getInt(v, "DB_MAX_CONNS", 20),
			MinConns:       getInt(v, "DB_MIN_CONNS", 2),
			IdleTimeout:    getSeconds(v, "DB_IDLE_TIMEOUT_SECONDS", 30),
			ConnectTimeout: getSeconds(v, "DB_CONNECT_TIMEOUT_SECONDS", 5),
			AcquireTimeout: getSeconds(v, "DB_ACQUIRE_TIMEOUT_SECONDS", 60),
			QueryTimeout:   getSeconds(v, "DB_QUERY_TIMEOUT_SECONDS", 30),
			AutoMigrate:    getBool(v, "MIGRATIONS_AUTO", false),
		},
		Session: SessionConfig{
			Timeout:       time.Duration(getInt(v, "SESSION_TIMEOUT_HOURS", 24)) * time.Hour,
			SweepInterval: time.Duration(getInt(v, "SESSION_SWEEP_MINUTES", 60)) * time.Minute,
			CacheTTL:      getSeconds(v, "SESSION_CACHE_SECONDS", 30),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Business: BusinessConfig{
			USDToCUPRate:         rate,
			NumericPolicy:        strings.ToLower(getString(v, "PRODUCT_NUMERIC_POLICY", "strict")),
			LowStockThreshold:    getInt(v, "LOW_STOCK_THRESHOLD", 5),
			MediumStockThreshold: getInt(v, "MEDIUM_STOCK_THRESHOLD", 20),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getBool(v, "RATE_LIMIT_ENABLED", true),
			Max:           getInt(v, "RATE_LIMIT_MAX", 100),
			Window:        getSeconds(v, "RATE_LIMIT_WINDOW_SECONDS", 60),
			RedisAddr:     getString(v, "REDIS_ADDR", ""),
			RedisPassword: getString(v, "REDIS_PASSWORD", ""),
			RedisDB:       getInt(v, "REDIS_DB", 0),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.MaxConns < 1 || c.DB.MinConns < 0 || c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("pool inválido: min=%d max=%d", c.DB.MinConns, c.DB.MaxConns)
	}
	if c.Session.Timeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT_HOURS debe ser positivo")
	}
	switch c.Business.NumericPolicy {
	case "strict", "lenient":
	default:
		return fmt.Errorf("PRODUCT_NUMERIC_POLICY inválido: %q", c.Business.NumericPolicy)
	}
	if c.Business.LowStockThreshold > c.Business.MediumStockThreshold {
		return fmt.Errorf("LOW_STOCK_THRESHOLD no puede superar MEDIUM_STOCK_THRESHOLD")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v.GetString(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func getSeconds(v *viper.Viper, key string, def int) time.Duration {
	return time.Duration(getInt(v, key, def)) * time.Second
}
