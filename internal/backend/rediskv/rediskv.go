// Package rediskv implements storage.KV on a Redis server.
package rediskv

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Store keeps each key as a Redis string under prefix+key, with no expiry.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	if client == nil {
		panic("rediskv.New: client is nil")
	}
	return &Store{client: client, prefix: prefix}
}

// Dial creates a client from a connection string and wraps it.
// The connection is lazy; no round trip happens until the first command.
func Dial(conn, prefix string) (*Store, error) {
	opts, err := ParseConnection(conn)
	if err != nil {
		return nil, err
	}
	return New(redis.NewClient(opts), prefix), nil
}

// ParseConnection accepts a redis:// or rediss:// URL, or the
// "host:port,password=...,ssl=true" form used by hosted Redis providers.
func ParseConnection(conn string) (*redis.Options, error) {
	conn = strings.TrimSpace(conn)
	if conn == "" {
		return nil, errors.New("redis connection string is empty")
	}
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts, nil
	}

	parts := strings.Split(conn, ",")
	opts := &redis.Options{Addr: strings.TrimSpace(parts[0])}
	if strings.Contains(opts.Addr, "://") {
		return nil, fmt.Errorf("invalid redis connection string: %s", conn)
	}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.EqualFold(strings.TrimSpace(kv[1]), "true") {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts, nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Get implements storage.KV.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set implements storage.KV.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
