package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Game id assignment modes.
const (
	GameIDModeCaller = "caller"
	GameIDModeAuto   = "auto"
)

// Genre deletion policies applied when games still reference the genre.
const (
	GenreDeletePolicyReject  = "reject"
	GenreDeletePolicyCascade = "cascade"
)

// Password digest schemes.
const (
	PasswordHashBcrypt       = "bcrypt"
	PasswordHashLegacySHA256 = "legacy-sha256"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	DBDriver string
	DBDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret        string
	JWTIssuer        string
	JWTAudience      string
	JWTExpiryMinutes int

	LogLevel      string
	AuthRateLimit int
	SwaggerHost   string

	UsernameCaseSensitive bool
	GameIDMode            string
	GenreDeletePolicy     string
	PasswordHash          string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:            getEnv("SERVER_PORT", "8080"),
		DBDriver:              strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:                 getEnv("DB_DSN", "user:password@tcp(localhost:3306)/gamereviews?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		RedisPass:             os.Getenv("REDIS_PASSWORD"),
		JWTSecret:             getEnv("JWT_SECRET", "change-me-to-a-long-random-secret"),
		JWTIssuer:             getEnv("JWT_ISSUER", "GameReviewsAPI"),
		JWTAudience:           getEnv("JWT_AUDIENCE", "GameReviewsClient"),
		JWTExpiryMinutes:      getEnvInt("JWT_EXPIRY_MINUTES", 60),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		AuthRateLimit:         getEnvInt("AUTH_RATE_LIMIT", 10),
		SwaggerHost:           os.Getenv("SWAGGER_HOST"),
		UsernameCaseSensitive: getEnvBool("USERNAME_CASE_SENSITIVE", true),
		GameIDMode:            oneOf(getEnv("GAME_ID_MODE", GameIDModeCaller), GameIDModeCaller, GameIDModeAuto),
		GenreDeletePolicy:     oneOf(getEnv("GENRE_DELETE_POLICY", GenreDeletePolicyReject), GenreDeletePolicyReject, GenreDeletePolicyCascade),
		PasswordHash:          oneOf(getEnv("PASSWORD_HASH", PasswordHashBcrypt), PasswordHashBcrypt, PasswordHashLegacySHA256),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

// oneOf returns v when it is one of allowed, otherwise the first allowed value.
func oneOf(v string, allowed ...string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return allowed[0]
}
