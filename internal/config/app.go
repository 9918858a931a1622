package config

import (
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig — конфигурация окружения вне БД: HTTP, Redis, Kafka, identity.
type AppConfig struct {
	HTTPAddr string

	RedisAddr string

	// Список брокеров через запятую; пусто — уведомления выключены.
	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret string
}

func init() {
	// .env подхватываем до чтения окружения; отсутствие файла не ошибка.
	_ = godotenv.Load()
}

func LoadAppConfig() *AppConfig {
	cfg := &AppConfig{
		HTTPAddr:   getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:  getEnv("REDIS_ADDRESS", ""),
		KafkaTopic: getEnv("KAFKA_NOTIFICATIONS_TOPIC", "salon.notifications"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}
