package config

import (
	"os"
	"strconv"
)

type Config struct {
	RedisURL   string
	ListenAddr string

	IMAPHost   string
	IMAPPort   int
	IMAPUser   string
	IMAPPass   string
	IMAPFolder string

	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
	AlertRecipient string

	PhishTankURL        string
	PhishTankKey        string
	CheckTimeoutSeconds int

	PollSeconds         int
	MaxEmailBytes       int
	RateLimitScanPerMin int

	AdminPassword string
	JWTSecret     string
}

func Load() *Config {
	return &Config{
		RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		IMAPHost:   getEnv("IMAP_HOST", ""),
		IMAPPort:   getEnvInt("IMAP_PORT", 993),
		IMAPUser:   getEnv("IMAP_USER", ""),
		IMAPPass:   getEnv("IMAP_PASS", ""),
		IMAPFolder: getEnv("IMAP_FOLDER", "INBOX"),

		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPass:       getEnv("SMTP_PASS", ""),
		AlertRecipient: getEnv("ALERT_RECIPIENT", ""),

		PhishTankURL:        getEnv("PHISHTANK_URL", "https://checkurl.phishtank.com/checkurl/"),
		PhishTankKey:        getEnv("PHISHTANK_API_KEY", ""),
		CheckTimeoutSeconds: getEnvInt("CHECK_TIMEOUT_SECONDS", 5),

		PollSeconds:         getEnvInt("POLL_SECONDS", 60),
		MaxEmailBytes:       getEnvInt("MAX_EMAIL_BYTES", 5242880), // 5MB
		RateLimitScanPerMin: getEnvInt("RATE_LIMIT_SCAN_PER_MIN", 6),

		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
