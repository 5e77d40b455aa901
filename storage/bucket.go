// Package storage keeps harvest state in NATS KV buckets: the translations
// of vocabulary terms and the summaries of past harvest runs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

// Bucket names.
const (
	BucketTranslations = "FDP_TRANSLATIONS"
	BucketRuns         = "FDP_HARVEST_RUNS"
)

// KeyValue is the part of jetstream.KeyValue the stores use.
type KeyValue interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Keys(ctx context.Context, opts ...jetstream.WatchOpt) ([]string, error)
}

// BucketOpener opens KV buckets, creating missing ones.
// *natsclient.Client implements it.
type BucketOpener interface {
	CreateKeyValueBucket(ctx context.Context, cfg jetstream.KeyValueConfig) (jetstream.KeyValue, error)
}

// OpenBucket returns the named bucket, creating it when it doesn't exist.
func OpenBucket(ctx context.Context, opener BucketOpener, name string, history uint8) (jetstream.KeyValue, error) {
	kv, err := opener.CreateKeyValueBucket(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("fdpharvest %s", strings.ToLower(name)),
		History:     history,
	})
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", name, err)
	}
	return kv, nil
}

// termKey maps a URI onto a valid KV key.
func termKey(term string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(term)).String()
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return natsclient.IsKVNotFoundError(err) || errors.Is(err, jetstream.ErrKeyDeleted)
}
