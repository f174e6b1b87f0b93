package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// URL styles for public object links.
const (
	URLStyleProtocolRelative = "protocol-relative"
	URLStyleSchemeExplicit   = "scheme-explicit"
)

type Config struct {
	Server  ServerConfig
	DB      DatabaseConfig
	Redis   RedisConfig
	Admin   AdminConfig
	Log     LogConfig
	Uploads UploadsConfig
	S3      S3Defaults
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type AdminConfig struct {
	JWTSecret string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadsConfig carries the host-level upload limits. ProfileImageDimension
// is kept raw; it is parsed at use and falls back to 128.
type UploadsConfig struct {
	MaximumFileSize       int // KB
	ProfileImageDimension string
	TmpDir                string
}

// S3Defaults are environment fallbacks. A non-empty persisted value always wins.
type S3Defaults struct {
	Bucket   string
	Host     string
	Path     string
	Region   string
	Endpoint string
	URLStyle string
}

func Load() *Config {
	// .env is optional
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "s3_uploads"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Admin: AdminConfig{
			JWTSecret: getEnv("ADMIN_JWT_SECRET", "admin-super-secret-jwt-key-change-in-production"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Uploads: UploadsConfig{
			MaximumFileSize:       getEnvAsInt("MAXIMUM_FILE_SIZE", 2048),
			ProfileImageDimension: getEnv("PROFILE_IMAGE_DIMENSION", "128"),
			TmpDir:                getEnv("UPLOAD_TMP_DIR", os.TempDir()),
		},
		S3: LoadS3Defaults(),
	}
}

// DefaultRegion is the region used before the first settings refresh.
const DefaultRegion = "us-east-1"

// LoadS3Defaults reads the storage fallbacks straight from the environment.
// Values here never override persisted settings.
func LoadS3Defaults() S3Defaults {
	return S3Defaults{
		Bucket:   os.Getenv("S3_UPLOADS_BUCKET"),
		Host:     os.Getenv("S3_UPLOADS_HOST"),
		Path:     os.Getenv("S3_UPLOADS_PATH"),
		Region:   os.Getenv("AWS_DEFAULT_REGION"),
		Endpoint: os.Getenv("S3_UPLOADS_ENDPOINT"),
		URLStyle: getEnv("S3_UPLOADS_URL_STYLE", URLStyleProtocolRelative),
	}
}

// InitialRegion is the region the storage client starts with.
func (d S3Defaults) InitialRegion() string {
	if d.Region != "" {
		return d.Region
	}
	return DefaultRegion
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// MaxFileSizeBytes is the inclusive byte ceiling for local uploads.
func (u UploadsConfig) MaxFileSizeBytes() int64 {
	return int64(u.MaximumFileSize) * 1024
}

// ImageDimension parses ProfileImageDimension, defaulting to 128 when it is
// missing, unparsable or not positive.
func (u UploadsConfig) ImageDimension() int {
	if n, err := strconv.Atoi(u.ProfileImageDimension); err == nil && n > 0 {
		return n
	}
	return 128
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
