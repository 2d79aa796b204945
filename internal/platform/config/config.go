package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devSessionCookie  = "next-auth.session-token"
	prodSessionCookie = "__Secure-next-auth.session-token"

	defaultJWTSecret = "defaultsecret"
)

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

type Config struct {
	AppEnv  string
	APIPort string

	JWTKey              []byte
	SessionTTL          time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	BcryptCost          int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ActivityQueueName          string
	GamificationLockTTLSeconds int
	LevelUpDisplaySeconds      int

	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOBucket         string
	MinIOUseSSL         bool
	UploadURLExpiryMins int
	UploadDefaultFolder string

	StaticDir string
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() *Config {
	cfg := &Config{
		AppEnv:  strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		APIPort: getEnv("API_PORT", "8080"),

		JWTKey:     []byte(getEnv("JWT_SECRET", defaultJWTSecret)),
		SessionTTL: time.Duration(getEnvAsInt("SESSION_MAX_AGE_DAYS", 30)) * 24 * time.Hour,
		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "skillarena_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ActivityQueueName:          getEnv("ACTIVITY_QUEUE_NAME", "activity_events_queue"),
		GamificationLockTTLSeconds: getEnvAsInt("GAMIFICATION_LOCK_TTL_SECONDS", 5),
		LevelUpDisplaySeconds:      getEnvAsInt("LEVEL_UP_DISPLAY_SECONDS", 3),

		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:         getEnv("MINIO_BUCKET", "skillarena-media"),
		MinIOUseSSL:         getEnvAsBool("MINIO_USE_SSL", false),
		UploadURLExpiryMins: getEnvAsInt("UPLOAD_URL_EXPIRY_MINUTES", 15),
		UploadDefaultFolder: getEnv("UPLOAD_DEFAULT_FOLDER", "freelancer-profiles"),

		StaticDir: getEnv("STATIC_DIR", ""),
	}

	cfg.SessionCookieName = devSessionCookie
	if cfg.IsProduction() {
		cfg.SessionCookieName = prodSessionCookie
		cfg.SessionCookieSecure = true
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode
	return cfg
}

// Validate rejects settings that are only acceptable outside production.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if secret := string(c.JWTKey); strings.TrimSpace(secret) == "" || secret == defaultJWTSecret {
			return ErrInsecureJWTSecret
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) GamificationLockTTL() time.Duration {
	return time.Duration(c.GamificationLockTTLSeconds) * time.Second
}

func (c *Config) LevelUpDisplay() time.Duration {
	return time.Duration(c.LevelUpDisplaySeconds) * time.Second
}

func (c *Config) UploadURLExpiry() time.Duration {
	return time.Duration(c.UploadURLExpiryMins) * time.Minute
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
