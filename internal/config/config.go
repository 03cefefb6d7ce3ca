package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime setting of the bot. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	LogLevel string

	ServerPort int

	BotToken       string
	TelegramAPIURL string
	AdminIDs       []int64

	DatabaseURL string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	OpenAIKey string
	OpenAIURL string

	JWTSecret         []byte
	AdminLogin        string
	AdminPasswordHash string

	ReferralThreshold int
	ReferralBonus     int64

	SessionTTL     time.Duration
	BroadcastDelay time.Duration
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		BotToken:       os.Getenv("BOT_TOKEN"),
		TelegramAPIURL: EnvDefault("TELEGRAM_API_URL", "https://api.telegram.org"),
		AdminIDs:       Int64CSV(os.Getenv("ADMIN_IDS")),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIURL: EnvDefault("OPENAI_API_URL", "https://api.openai.com"),

		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
		AdminLogin:        EnvDefault("ADMIN_LOGIN", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		ReferralThreshold: EnvIntDefault("REFERRAL_REQUIRED_FRIENDS", 5),
		ReferralBonus:     int64(EnvIntDefault("REFERRAL_BONUS_AMOUNT", 5000)),

		SessionTTL:     EnvDurationDefault("SESSION_TTL", 30*time.Minute),
		BroadcastDelay: EnvDurationDefault("BROADCAST_DELAY", 100*time.Millisecond),
	}
}

// AIEnabled reports whether the OpenAI-backed analytics may be used.
func (c Config) AIEnabled() bool {
	return c.OpenAIKey != ""
}

func (c Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Int64CSV(v string) []int64 {
	parts := CSV(v)
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// MustNonEmpty aborts startup when a setting the bot cannot run without
// is missing from the environment.
func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("required env %s is not set", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	MustNonEmpty(string(value), envName)
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
