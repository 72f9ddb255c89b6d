package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DatabaseURL string
	DbHost      string
	DbPort      string
	DbUser      string
	DbPass      string
	DbName      string
	DbSSLMode   string
	DbMaxConns  int32

	JWTSecret  string
	BcryptCost int

	GoogleClientID     string
	GoogleClientSecret string
	ServerURL          string
	ClientURL          string

	Log      string
	LogLevel string
	Env      string // dev|prod
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует, чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	port := def(os.Getenv("PORT"), "3001")

	cfg := &Config{
		Port: port,

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DbHost:      os.Getenv("DB_HOST"),
		DbPort:      def(os.Getenv("DB_PORT"), "5432"),
		DbUser:      os.Getenv("DB_USER"),
		DbPass:      os.Getenv("DB_PASSWORD"),
		DbName:      os.Getenv("DB_NAME"),
		DbSSLMode:   def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoogleClientID:     strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
		GoogleClientSecret: strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET")),
		ServerURL:          strings.TrimRight(def(os.Getenv("SERVER_URL"), "http://localhost:"+port), "/"),
		ClientURL:          strings.TrimRight(def(os.Getenv("CLIENT_URL"), "http://localhost:5173"), "/"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),
	}

	cost, err := strconv.Atoi(def(os.Getenv("BCRYPT_COST"), "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	cfg.BcryptCost = cost

	maxConns, err := strconv.ParseInt(def(os.Getenv("DB_MAX_CONNS"), "10"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	cfg.DbMaxConns = int32(maxConns)

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	if c.DatabaseURL == "" && (c.DbHost == "" || c.DbUser == "" || c.DbName == "") {
		return nil, fmt.Errorf("incomplete DB config (DATABASE_URL or DB_HOST/DB_USER/DB_NAME)")
	}

	// Без секрета подпись токенов невозможна
	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}

	if !c.GoogleEnabled() {
		warnings = append(warnings, "Google OAuth is not configured (GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET)")
	}

	if c.DbMaxConns <= 0 {
		warnings = append(warnings, "DB_MAX_CONNS is not positive, pgx default will be used")
	}

	return warnings, nil
}

func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// GoogleCallbackURL адрес, на который Google возвращает пользователя.
func (c *Config) GoogleCallbackURL() string {
	return c.ServerURL + "/api/auth/google/callback"
}

// GetDSN полная DSN (с паролем)
func (c *Config) GetDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	if c.DatabaseURL != "" {
		at := strings.LastIndex(c.DatabaseURL, "@")
		scheme := strings.Index(c.DatabaseURL, "://")
		if at < 0 || scheme < 0 {
			return c.DatabaseURL
		}
		creds := c.DatabaseURL[scheme+3 : at]
		if i := strings.Index(creds, ":"); i >= 0 {
			creds = creds[:i] + ":***"
		}
		return c.DatabaseURL[:scheme+3] + creds + c.DatabaseURL[at:]
	}
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
