package config

import (
	"os"

	pkgconfig "github.com/kinoteka/online_cinema/pkg/config"
	"github.com/kinoteka/online_cinema/services/files/internal/storage"
)

type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   []byte
	Storage     storage.Config
	LogLevel    string
}

func Load() *Config {
	pkgconfig.LoadDotEnv()

	return &Config{
		Addr:        pkgconfig.EnvDefault("FILES_ADDR", ":8083"),
		DatabaseURL: pkgconfig.Must(os.Getenv("DATABASE_URL"), "DATABASE_URL"),
		RedisURL:    pkgconfig.Must(os.Getenv("REDIS_URL"), "REDIS_URL"),
		JWTSecret:   pkgconfig.MustBytes([]byte(os.Getenv("JWT_SECRET")), "JWT_SECRET"),
		Storage: storage.Config{
			Endpoint:     os.Getenv("S3_ENDPOINT"),
			Region:       pkgconfig.EnvDefault("S3_REGION", "us-east-1"),
			AccessKey:    os.Getenv("S3_ACCESS_KEY"),
			SecretKey:    os.Getenv("S3_SECRET_KEY"),
			Bucket:       pkgconfig.Must(os.Getenv("S3_BUCKET"), "S3_BUCKET"),
			UsePathStyle: pkgconfig.EnvDefault("S3_USE_PATH_STYLE", "true") == "true",
		},
		LogLevel: pkgconfig.EnvDefault("LOG_LEVEL", "info"),
	}
}
