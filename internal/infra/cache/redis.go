package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CourtRentalService/internal/domain"
)

// VenueCache кеширует список активных кортов в Redis.
// Кеш вспомогательный: при ошибках Redis сервис отдает данные из БД.
type VenueCache struct {
	client    *redis.Client
	venuesTTL time.Duration
}

// NewVenueCache создает кеш поверх подключения к Redis
func NewVenueCache(addr, password string, db int, venuesTTL time.Duration) *VenueCache {
	return &VenueCache{
		client:    redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		venuesTTL: venuesTTL,
	}
}

// Ping проверяет доступность Redis при старте сервиса
func (c *VenueCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close закрывает подключение к Redis
func (c *VenueCache) Close() error {
	return c.client.Close()
}

// GetVenues возвращает закешированный список кортов.
// Возвращает (nil, nil) при промахе кеша.
func (c *VenueCache) GetVenues(ctx context.Context) ([]*domain.Venue, error) {
	data, err := c.client.Get(ctx, venuesKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var venues []*domain.Venue
	if err := json.Unmarshal(data, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// SetVenues сохраняет список кортов с TTL
func (c *VenueCache) SetVenues(ctx context.Context, venues []*domain.Venue) error {
	payload, err := json.Marshal(venues)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, venuesKey(), payload, c.venuesTTL).Err()
}

// InvalidateVenues сбрасывает кеш после изменения кортов
func (c *VenueCache) InvalidateVenues(ctx context.Context) error {
	return c.client.Del(ctx, venuesKey()).Err()
}

func venuesKey() string {
	return "cache:venues:active"
}
