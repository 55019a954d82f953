package config

import (
	"os"

	pkgconfig "github.com/kinoteka/online_cinema/pkg/config"
)

type Config struct {
	Addr         string
	DatabaseURL  string
	RedisURL     string
	JWTSecret    []byte
	KafkaBrokers []string
	LogLevel     string
}

func Load() *Config {
	pkgconfig.LoadDotEnv()

	return &Config{
		Addr:         pkgconfig.EnvDefault("AUTH_ADDR", ":8081"),
		DatabaseURL:  pkgconfig.Must(os.Getenv("DATABASE_URL"), "DATABASE_URL"),
		RedisURL:     pkgconfig.Must(os.Getenv("REDIS_URL"), "REDIS_URL"),
		JWTSecret:    pkgconfig.MustBytes([]byte(os.Getenv("JWT_SECRET")), "JWT_SECRET"),
		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),
		LogLevel:     pkgconfig.EnvDefault("LOG_LEVEL", "info"),
	}
}
