package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore shares sessions between service instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Println("Could not connect to Redis:", err)
		client.Close()
		return nil, err
	}
	log.Println("Connected to Redis successfully!")
	return &RedisStore{client: client}, nil
}

func (st *RedisStore) Close() error {
	return st.client.Close()
}

func (st *RedisStore) Save(ctx context.Context, s Session, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("error encoding session: %w", err)
	}
	return st.client.Set(ctx, Key(s.Token), raw, ttl).Err()
}

func (st *RedisStore) Get(ctx context.Context, token string) (Session, error) {
	raw, err := st.client.Get(ctx, Key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("error decoding session: %w", err)
	}
	return s, nil
}

func (st *RedisStore) Delete(ctx context.Context, token string) error {
	return st.client.Del(ctx, Key(token)).Err()
}
