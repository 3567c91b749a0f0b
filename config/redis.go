// config/redis.go
package config

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient возвращает клиент Redis или nil, если адрес не задан
// (кэш справочника сотрудников тогда отключён).
func NewRedisClient(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
