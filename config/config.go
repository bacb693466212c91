package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	// Непустой DBPath включает историю расчётов.
	DBPath    string
	BandsFile string
	Workers   int
	QueueSize int
}

// LoadConfig читает .env (если есть) и переменные окружения.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	workers, err := intEnv("PAYROLL_WORKERS", 1)
	if err != nil {
		return nil, err
	}
	queue, err := intEnv("PAYROLL_QUEUE", 32)
	if err != nil {
		return nil, err
	}
	return &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DBPath:        os.Getenv("PAYROLL_DB"),
		BandsFile:     os.Getenv("PAYROLL_BANDS"),
		Workers:       workers,
		QueueSize:     queue,
	}, nil
}

// RequireToken нужен только боту, калькулятор работает без Telegram.
func (c *Config) RequireToken() (string, error) {
	if c.TelegramToken == "" {
		return "", ErrNoToken{}
	}
	return c.TelegramToken, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, ErrBadNumber{Key: key, Value: v}
	}
	return n, nil
}

type ErrNoToken struct{}

func (e ErrNoToken) Error() string {
	return "TELEGRAM_TOKEN is not set"
}

type ErrBadNumber struct {
	Key   string
	Value string
}

func (e ErrBadNumber) Error() string {
	return e.Key + " must be a positive integer, got " + strconv.Quote(e.Value)
}
