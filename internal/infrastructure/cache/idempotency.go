// Package cache guarda en Redis las respuestas de requests con Idempotency-Key para que un
// reintento del cliente no registre dos veces el mismo pago o la misma factura.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Cobranza-api/pkg/config"
)

const (
	keyPrefix  = "cobranza:idem:"
	lockSuffix = ":lock"
	lockTTL    = 30 * time.Second
)

// Response respuesta HTTP cacheada. RequestHash identifica el request original: la misma
// clave con otro cuerpo o ruta es un conflicto.
type Response struct {
	RequestHash string `json:"request_hash"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore implementación sobre go-redis.
type IdempotencyStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewClient abre el cliente y verifica la conexión. Addr vacío devuelve (nil, nil): caché deshabilitada.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// NewIdempotencyStore construye el store; ttl <= 0 usa 24h.
func NewIdempotencyStore(rdb *goredis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// Get devuelve la respuesta guardada para key, o (nil, false, nil) si no existe.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*Response, bool, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("decode cached response: %w", err)
	}
	return &resp, true, nil
}

// Lock reserva key mientras se procesa el primer request. false = otro request la tiene.
func (s *IdempotencyStore) Lock(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, keyPrefix+key+lockSuffix, "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Unlock libera la reserva (también cuando el request falló y no se guarda respuesta).
func (s *IdempotencyStore) Unlock(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, keyPrefix+key+lockSuffix).Err()
}

// Save guarda la respuesta durante el TTL configurado.
func (s *IdempotencyStore) Save(ctx context.Context, key string, resp Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+key, raw, s.ttl).Err()
}
