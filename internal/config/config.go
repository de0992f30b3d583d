package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage providers understood by the credential issuer factory.
const (
	StorageProviderS3    = "s3"
	StorageProviderMinio = "minio"
)

// MaxPresignTTL is the longest lifetime a SigV4 presigned credential may have.
const MaxPresignTTL = 7 * 24 * time.Hour

// Config holds all application configuration. It is built once by Load and
// passed explicitly to every constructor.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Storage StorageConfig
	ID      IDConfig
	Log     LogConfig
	CORS    CORSConfig
	Cache   CacheConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// IsProduction reports whether the server runs in the production environment.
func (s *ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
	// IAMAuth replaces the static password with an RDS IAM auth token
	// minted per connection.
	IAMAuth bool   `mapstructure:"iam_auth"`
	Region  string `mapstructure:"region"`
}

// DSN returns the PostgreSQL connection string using the static password.
func (d *DBConfig) DSN() string {
	return d.DSNWithPassword(d.Password)
}

// DSNWithPassword returns the connection string with the given password.
func (d *DBConfig) DSNWithPassword(password string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Endpoint returns host:port.
func (d *DBConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// StorageConfig holds object storage and grant settings.
type StorageConfig struct {
	Provider  string `mapstructure:"provider"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`

	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`

	UploadTTL             time.Duration `mapstructure:"upload_ttl"`
	PostUploadDownloadTTL time.Duration `mapstructure:"post_upload_download_ttl"`
	DownloadTTL           time.Duration `mapstructure:"download_ttl"`

	// PublicBaseURL is a stable CDN origin such as dxxxx.cloudfront.net.
	PublicBaseURL       string `mapstructure:"public_base_url"`
	UsePublicReferences bool   `mapstructure:"use_public_references"`
}

// PublicURL returns the stable public reference for key, or "" when no
// public base URL is configured.
func (s *StorageConfig) PublicURL(key string) string {
	base := strings.TrimSpace(s.PublicBaseURL)
	if base == "" {
		return ""
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	escaped := (&url.URL{Path: key}).EscapedPath()
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(escaped, "/")
}

// IDConfig holds short identifier settings.
type IDConfig struct {
	Length int `mapstructure:"length"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheConfig holds the optional Redis metadata cache settings.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	RedisURL string        `mapstructure:"redis_url"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load reads configuration from an optional .env file and environment
// variables with the LINKBOX_ prefix.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LINKBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "dev")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "linkbox_user")
	v.SetDefault("db.password", "linkbox_password")
	v.SetDefault("db.name", "linkbox_dev")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.iam_auth", false)
	v.SetDefault("db.region", "")

	// Storage defaults
	v.SetDefault("storage.provider", StorageProviderS3)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "linkbox-dev-bucket")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.max_upload_bytes", 10*1024*1024)
	v.SetDefault("storage.upload_ttl", "1h")
	v.SetDefault("storage.post_upload_download_ttl", "5m")
	v.SetDefault("storage.download_ttl", "1h")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.use_public_references", false)

	v.SetDefault("id.length", 6)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "*")

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.host", "127.0.0.1")
	v.SetDefault("cache.port", "6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "24h")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "LINKBOX_SERVER_PORT",
		"server.read_timeout":              "LINKBOX_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "LINKBOX_SERVER_WRITE_TIMEOUT",
		"server.environment":               "LINKBOX_SERVER_ENVIRONMENT",
		"db.host":                          "LINKBOX_DB_HOST",
		"db.port":                          "LINKBOX_DB_PORT",
		"db.user":                          "LINKBOX_DB_USER",
		"db.password":                      "LINKBOX_DB_PASSWORD",
		"db.name":                          "LINKBOX_DB_NAME",
		"db.sslmode":                       "LINKBOX_DB_SSLMODE",
		"db.max_open":                      "LINKBOX_DB_MAX_OPEN",
		"db.max_idle":                      "LINKBOX_DB_MAX_IDLE",
		"db.iam_auth":                      "LINKBOX_DB_IAM_AUTH",
		"db.region":                        "LINKBOX_DB_REGION",
		"storage.provider":                 "LINKBOX_STORAGE_PROVIDER",
		"storage.region":                   "LINKBOX_STORAGE_REGION",
		"storage.bucket":                   "LINKBOX_STORAGE_BUCKET",
		"storage.endpoint":                 "LINKBOX_STORAGE_ENDPOINT",
		"storage.access_key":               "LINKBOX_STORAGE_ACCESS_KEY",
		"storage.secret_key":               "LINKBOX_STORAGE_SECRET_KEY",
		"storage.max_upload_bytes":         "LINKBOX_STORAGE_MAX_UPLOAD_BYTES",
		"storage.upload_ttl":               "LINKBOX_STORAGE_UPLOAD_TTL",
		"storage.post_upload_download_ttl": "LINKBOX_STORAGE_POST_UPLOAD_DOWNLOAD_TTL",
		"storage.download_ttl":             "LINKBOX_STORAGE_DOWNLOAD_TTL",
		"storage.public_base_url":          "LINKBOX_STORAGE_PUBLIC_BASE_URL",
		"storage.use_public_references":    "LINKBOX_STORAGE_USE_PUBLIC_REFERENCES",
		"id.length":                        "LINKBOX_ID_LENGTH",
		"log.level":                        "LINKBOX_LOG_LEVEL",
		"log.format":                       "LINKBOX_LOG_FORMAT",
		"cors.allowed_origins":             "LINKBOX_CORS_ALLOWED_ORIGINS",
		"cache.enabled":                    "LINKBOX_CACHE_ENABLED",
		"cache.redis_url":                  "LINKBOX_CACHE_REDIS_URL",
		"cache.host":                       "LINKBOX_CACHE_HOST",
		"cache.port":                       "LINKBOX_CACHE_PORT",
		"cache.password":                   "LINKBOX_CACHE_PASSWORD",
		"cache.db":                         "LINKBOX_CACHE_DB",
		"cache.ttl":                        "LINKBOX_CACHE_TTL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LINKBOX_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LINKBOX_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
		IAMAuth:  v.GetBool("db.iam_auth") || cfg.Server.IsProduction(),
		Region:   v.GetString("db.region"),
	}
	cfg.Storage = StorageConfig{
		Provider:              strings.ToLower(v.GetString("storage.provider")),
		Region:                v.GetString("storage.region"),
		Bucket:                v.GetString("storage.bucket"),
		Endpoint:              v.GetString("storage.endpoint"),
		AccessKey:             v.GetString("storage.access_key"),
		SecretKey:             v.GetString("storage.secret_key"),
		MaxUploadBytes:        v.GetInt64("storage.max_upload_bytes"),
		UploadTTL:             v.GetDuration("storage.upload_ttl"),
		PostUploadDownloadTTL: v.GetDuration("storage.post_upload_download_ttl"),
		DownloadTTL:           v.GetDuration("storage.download_ttl"),
		PublicBaseURL:         v.GetString("storage.public_base_url"),
		UsePublicReferences:   v.GetBool("storage.use_public_references"),
	}
	if cfg.DB.Region == "" {
		cfg.DB.Region = cfg.Storage.Region
	}
	// RDS only accepts IAM tokens over TLS.
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
		if cfg.DB.IAMAuth {
			cfg.DB.SSLMode = "require"
		}
	}
	cfg.ID = IDConfig{
		Length: v.GetInt("id.length"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Cache = CacheConfig{
		Enabled:  v.GetBool("cache.enabled"),
		RedisURL: v.GetString("cache.redis_url"),
		Host:     v.GetString("cache.host"),
		Port:     v.GetString("cache.port"),
		Password: v.GetString("cache.password"),
		DB:       v.GetInt("cache.db"),
		TTL:      v.GetDuration("cache.ttl"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Provider {
	case StorageProviderS3, StorageProviderMinio:
	default:
		errs = append(errs, fmt.Errorf("storage.provider must be %q or %q, got %q",
			StorageProviderS3, StorageProviderMinio, c.Storage.Provider))
	}
	if c.Storage.Bucket == "" {
		errs = append(errs, errors.New("storage.bucket is required"))
	}
	if c.Storage.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("storage.max_upload_bytes must be > 0"))
	}
	errs = append(errs,
		checkTTL("storage.upload_ttl", c.Storage.UploadTTL),
		checkTTL("storage.post_upload_download_ttl", c.Storage.PostUploadDownloadTTL),
		checkTTL("storage.download_ttl", c.Storage.DownloadTTL),
	)
	if c.DB.IAMAuth && c.DB.SSLMode == "disable" {
		errs = append(errs, errors.New("db.sslmode must not be disable when db.iam_auth is set"))
	}
	if c.Storage.UsePublicReferences && c.Storage.PublicBaseURL == "" {
		errs = append(errs, errors.New("storage.use_public_references requires storage.public_base_url"))
	}
	if c.ID.Length <= 0 || c.ID.Length > 12 {
		errs = append(errs, fmt.Errorf("id.length must be in [1, 12], got %d", c.ID.Length))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// checkTTL bounds a presign lifetime. SigV4 rejects expiries over a week.
func checkTTL(name string, ttl time.Duration) error {
	if ttl <= 0 || ttl > MaxPresignTTL {
		return fmt.Errorf("%s must be in (0, %s], got %s", name, MaxPresignTTL, ttl)
	}
	return nil
}
