package valkey

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/recipedex/internal/db"
	"github.com/kailas-cloud/recipedex/internal/db/redis"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store implements db.Store for Valkey with the valkey-search module.
// Hash, index and tag-query commands are shared with the Redis store; only
// match-all listing differs because valkey-search rejects a bare "*" query.
type Store struct {
	*redis.Store
}

// NewStore creates a Valkey store via rueidis.
func NewStore(cfg redis.Config) (*Store, error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Store: redis.WithClient(client)}, nil
}

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{Store: redis.WithClient(c)}
}

// SearchList performs paginated search. query="*" falls back to SCAN + HGETALL.
func (s *Store) SearchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	if query == db.MatchAll {
		return s.scanList(ctx, index, offset, limit, fields)
	}
	return s.Store.SearchList(ctx, index, query, offset, limit, fields)
}

// SearchCount returns document count. Falls back to SCAN for query="*".
func (s *Store) SearchCount(ctx context.Context, index, query string) (int, error) {
	if query == db.MatchAll {
		return s.scanCount(ctx, index)
	}
	return s.Store.SearchCount(ctx, index, query)
}

// ScanAll loads up to limit documents of the index in one SCAN pass.
func (s *Store) ScanAll(ctx context.Context, index string, limit int, fields []string) (*db.SearchResult, error) {
	return s.scanList(ctx, index, 0, limit, fields)
}

func (s *Store) scanList(
	ctx context.Context, index string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	keys, err := s.scanKeys(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("scan for list: %w", err)
	}

	total := len(keys)
	if offset >= total {
		return &db.SearchResult{Total: total}, nil
	}
	end := min(offset+limit, total)
	pageKeys := keys[offset:end]

	hashes, err := s.HGetAllMulti(ctx, pageKeys)
	if err != nil {
		return nil, fmt.Errorf("load listed hashes: %w", err)
	}

	entries := make([]db.SearchEntry, 0, len(pageKeys))
	for i, key := range pageKeys {
		if len(hashes[i]) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: project(hashes[i], fields),
		})
	}

	return &db.SearchResult{Total: total, Entries: entries}, nil
}

func (s *Store) scanCount(ctx context.Context, index string) (int, error) {
	keys, err := s.scanKeys(ctx, index)
	if err != nil {
		return 0, fmt.Errorf("scan for count: %w", err)
	}
	return len(keys), nil
}

// scanKeys returns the index's keys sorted and deduplicated; SCAN may repeat keys.
func (s *Store) scanKeys(ctx context.Context, index string) ([]string, error) {
	keys, err := s.Scan(ctx, indexToKeyPrefix(index)+"*")
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return slices.Compact(keys), nil
}

// project keeps only the requested fields, mirroring FT.SEARCH RETURN.
func project(hash map[string]string, fields []string) map[string]string {
	if len(fields) == 0 {
		return hash
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := hash[f]; ok {
			out[f] = v
		}
	}
	return out
}

// indexToKeyPrefix converts index name to a SCAN prefix.
// "recipedex:recipe:idx" -> "recipedex:recipe:"
func indexToKeyPrefix(index string) string {
	if prefix, ok := strings.CutSuffix(index, ":idx"); ok {
		return prefix + ":"
	}
	return index + ":"
}
