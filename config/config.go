package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Port        string
	Environment string
	Secret      string

	MongoURI string
	DBName   string

	AppURL  string
	AppName string

	CookieDomain   string
	AllowedOrigins []string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Secret:      getEnv("SECRET", "not_so_secret_4"),

		MongoURI: os.Getenv("MONGODB_URI"),
		DBName:   getEnv("MONGODB_DB_NAME", "convois-ukraine"),

		AppURL:  getEnv("APP_URL", "http://localhost:3000"),
		AppName: getEnv("APP_NAME", "Convois pour l'Ukraine"),

		CookieDomain:   os.Getenv("COOKIE_DOMAIN"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", getEnv("APP_URL", "http://localhost:3000"))),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASSWORD"),
		MailFrom: getEnv("MAIL_FROM", "no-reply@convois-ukraine.org"),
	}
}

// IsProduction reports whether the production cookie profile applies.
func (c *Config) IsProduction() bool {
	return c.Environment != "development" && c.Environment != "test"
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

func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
