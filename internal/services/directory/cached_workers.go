// Package directory кэширует справочник сотрудников в Redis.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/evn/shiftpass_backend/internal/services/shiftpass"
	"github.com/redis/go-redis/v9"
)

var _ shiftpass.WorkerDirectory = (*CachedWorkerDirectory)(nil)

// CachedWorkerDirectory читает сотрудника по email через Redis.
// Без клиента Redis или при его недоступности запросы идут напрямую в базу.
type CachedWorkerDirectory struct {
	next   shiftpass.WorkerDirectory
	client *redis.Client
	ttl    time.Duration
}

func NewCachedWorkerDirectory(next shiftpass.WorkerDirectory, client *redis.Client, ttl time.Duration) *CachedWorkerDirectory {
	return &CachedWorkerDirectory{next: next, client: client, ttl: ttl}
}

// EmailKey - ключ Redis для сотрудника с этим email.
func EmailKey(email string) string {
	return "worker:email:" + strings.ToLower(strings.TrimSpace(email))
}

func (d *CachedWorkerDirectory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if d.client == nil {
		return d.next.FindByEmail(ctx, email)
	}

	key := EmailKey(email)
	data, err := d.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var u models.User
		if err := json.Unmarshal(data, &u); err == nil {
			return &u, nil
		}
		log.Printf("[%s] Broken cache entry, dropping", key)
		d.client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		log.Printf("[%s] Redis read failed: %v", key, err)
	}

	u, err := d.next.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(u); err == nil {
		if err := d.client.Set(ctx, key, data, d.ttl).Err(); err != nil {
			log.Printf("[%s] Redis write failed: %v", key, err)
		}
	}
	return u, nil
}

// FindByIDs не кэшируется: кандидаты резолвятся один раз на передачу.
func (d *CachedWorkerDirectory) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return d.next.FindByIDs(ctx, ids)
}
