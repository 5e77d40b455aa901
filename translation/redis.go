package translation

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces translation hashes in Redis.
const DefaultKeyPrefix = "fdp:translation:"

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// KeyPrefix is prepended to every term key.
	KeyPrefix string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// RedisStore keeps one hash per term, mapping language code to label.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, prefix: opts.KeyPrefix}, nil
}

// Show implements Store with one pipelined HMGET per term.
func (s *RedisStore) Show(ctx context.Context, terms []string, langs []string) ([]Translation, error) {
	if len(terms) == 0 || len(langs) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.SliceCmd, len(terms))
	for i, term := range terms {
		cmds[i] = pipe.HMGet(ctx, s.prefix+term, langs...)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read translations: %w", err)
	}

	var out []Translation
	for i, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read translations for %s: %w", terms[i], err)
		}
		for j, v := range vals {
			label, ok := v.(string)
			if !ok {
				continue
			}
			out = append(out, Translation{Term: terms[i], TermTranslation: label, LangCode: langs[j]})
		}
	}
	sortRows(out)
	return out, nil
}

// UpdateMany implements Store. With DeferCommit the writes are sent as one
// MULTI/EXEC transaction; otherwise they are pipelined.
func (s *RedisStore) UpdateMany(ctx context.Context, actx ActionContext, translations []Translation) error {
	if err := Validate(translations); err != nil {
		return err
	}
	if len(translations) == 0 {
		return nil
	}

	var pipe redis.Pipeliner
	if actx.DeferCommit {
		pipe = s.client.TxPipeline()
	} else {
		pipe = s.client.Pipeline()
	}
	for _, t := range translations {
		pipe.HSet(ctx, s.prefix+t.Term, t.LangCode, t.TermTranslation)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write translations: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
