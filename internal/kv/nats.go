package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"bistro/internal/config"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

// natsStore implements Store on top of a NATS JetStream key-value bucket.
type natsStore struct {
	conn   *nats.Conn
	bucket jetstream.KeyValue
	logger zerolog.Logger
}

// NewNATS connects to the configured NATS server and ensures the key-value
// bucket exists. The returned store must be closed with Close.
func NewNATS(ctx context.Context, cfg config.NATSConfig, logger zerolog.Logger) (Store, func(), error) {
	logger = logger.With().Str("component", "nats-kv").Logger()

	conn, err := nats.Connect(cfg.URL, nats.Name("bistro-api"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	bucket, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "bistro entity records and indexes",
	})
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to create/update KV bucket %s: %w", cfg.Bucket, err)
	}

	logger.Info().
		Str("url", cfg.URL).
		Str("bucket", cfg.Bucket).
		Msg("NATS key-value store initialised")

	store := &natsStore{
		conn:   conn,
		bucket: bucket,
		logger: logger,
	}

	return store, func() { conn.Close() }, nil
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (s *natsStore) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.bucket.Get(ctx, sanitiseKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to get key")
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return entry.Value(), nil
}

// Put stores value under key, replacing any existing value.
func (s *natsStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.bucket.Put(ctx, sanitiseKey(key), value); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to put key")
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}
	return nil
}

// Delete removes the value under key. Purge is used rather than Delete so the
// key disappears from listings instead of leaving a tombstone.
func (s *natsStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Purge(ctx, sanitiseKey(key)); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to delete key")
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Keys returns all keys starting with prefix, in lexical order.
func (s *natsStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	lister, err := s.bucket.ListKeys(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("prefix", prefix).Msg("failed to list keys")
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer lister.Stop()

	var keys []string
	for key := range lister.Keys() {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// sanitiseKey replaces characters NATS KV keys do not allow. Entity ids are
// UUIDs so this is a no-op in practice, but gateway session ids pass through
// here too.
func sanitiseKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_', r == '/', r == '=':
			return r
		default:
			return '_'
		}
	}, key)
}
