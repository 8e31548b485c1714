package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde
// env y opcionalmente archivo .env / config.env).
type Config struct {
	App   AppConfig
	DB    DBConfig
	JWT   JWTConfig
	HTTP  HTTPConfig
	DHIS2 DHIS2Config
	Cache CacheConfig
	Sync  SyncConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DatabaseURL si está definido,
// si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string de PostgreSQL con URL encoding para
// caracteres especiales en la contraseña.
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

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// DHIS2Config configuración del servidor remoto de reporte. Las credenciales
// son de una cuenta de servicio del establecimiento; el usuario que dispara
// la sincronización solo aporta el código de unidad organizativa.
type DHIS2Config struct {
	BaseURL        string // ej: https://dhis.ejemplo.org/api
	Username       string
	Password       string
	TimeoutSeconds int // timeout de red del cliente HTTP
}

// Timeout devuelve el timeout del transporte remoto.
func (c DHIS2Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheConfig configuración del caché de catálogo (memory o redis).
type CacheConfig struct {
	Type          string // "memory" | "redis"
	TTLMinutes    int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// TTL devuelve la vigencia de las entradas del caché.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SyncConfig configuración del job periódico de sincronización.
// Si IntervalMinutes es 0 el job no se programa y la sincronización queda
// solo manual (POST /api/sync).
type SyncConfig struct {
	IntervalMinutes int
	Username        string // usuario con el que corre el job periódico
}

// Interval devuelve el intervalo del job periódico (0 = deshabilitado).
func (c SyncConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Load lee la configuración desde variables de entorno (y opcionalmente
// desde archivo). Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()

	// Defaults
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "lmis-facility-api")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "lmis")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 480)
	v.SetDefault("JWT_ISSUER", "lmis-facility-api")
	v.SetDefault("DHIS2_TIMEOUT_SECONDS", 60)
	v.SetDefault("CACHE_TYPE", "memory")
	v.SetDefault("CACHE_TTL_MINUTES", 15)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SYNC_INTERVAL_MINUTES", 0)

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetInt("JWT_EXPIRATION_MINUTES"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DHIS2: DHIS2Config{
			BaseURL:        v.GetString("DHIS2_BASE_URL"),
			Username:       v.GetString("DHIS2_USERNAME"),
			Password:       v.GetString("DHIS2_PASSWORD"),
			TimeoutSeconds: v.GetInt("DHIS2_TIMEOUT_SECONDS"),
		},
		Cache: CacheConfig{
			Type:          v.GetString("CACHE_TYPE"),
			TTLMinutes:    v.GetInt("CACHE_TTL_MINUTES"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
		},
		Sync: SyncConfig{
			IntervalMinutes: v.GetInt("SYNC_INTERVAL_MINUTES"),
			Username:        v.GetString("SYNC_USERNAME"),
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	return cfg, nil
}
