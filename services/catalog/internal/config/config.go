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
	ESURL        string
	ESUser       string
	ESPassword   string
	LogLevel     string
}

func Load() *Config {
	pkgconfig.LoadDotEnv()

	return &Config{
		Addr:         pkgconfig.EnvDefault("CATALOG_ADDR", ":8082"),
		DatabaseURL:  pkgconfig.Must(os.Getenv("DATABASE_URL"), "DATABASE_URL"),
		RedisURL:     pkgconfig.Must(os.Getenv("REDIS_URL"), "REDIS_URL"),
		JWTSecret:    pkgconfig.MustBytes([]byte(os.Getenv("JWT_SECRET")), "JWT_SECRET"),
		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),
		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),
		LogLevel:     pkgconfig.EnvDefault("LOG_LEVEL", "info"),
	}
}
