package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config хранит все конфигурации приложения
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string
	JwtSecret      string
	ServerPort     string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	WorkerCacheTTL time.Duration

	// TxTimeout ограничивает одну транзакцию передачи смены.
	TxTimeout time.Duration
	TokenTTL  time.Duration
}

// NewConfig создает и возвращает новый экземпляр Config.
// Сначала подгружается .env (если есть), затем переменные окружения.
func NewConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DATABASE_DRIVER", "sqlite3")
	v.SetDefault("DATABASE_DSN", "./data.db")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("SERVER_PORT", "6066")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("WORKER_CACHE_TTL", 5*time.Minute)
	v.SetDefault("TX_TIMEOUT", 5*time.Second)
	v.SetDefault("TOKEN_TTL", 7*24*time.Hour)

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JwtSecret:      v.GetString("JWT_SECRET"),
		ServerPort:     v.GetString("SERVER_PORT"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		WorkerCacheTTL: v.GetDuration("WORKER_CACHE_TTL"),
		TxTimeout:      v.GetDuration("TX_TIMEOUT"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
	}
}
