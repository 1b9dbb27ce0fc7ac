// Package rawcache persists raw provider payloads keyed by
// (source, resource_type, resource_id) with SHA-256 content-hash change
// detection. Distinct from internal/cache, which is an
// in-memory TTL cache for HTTP response etagging on the control-plane API.
package rawcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nadavbarak14/hoopsync/internal/types"
)

// Pool is the subset of *db.Pool this store needs.
type Pool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store struct {
	pool Pool
}

func New(pool Pool) *Store {
	return &Store{pool: pool}
}

// CacheResult distinguishes "served from cache" from "fetched fresh but
// unchanged content".
type CacheResult struct {
	Data      []byte
	Changed   bool
	FetchedAt time.Time
	CacheID   uuid.UUID
	FromCache bool
}

// Get returns the cached entry, or nil if no entry exists for the key.
func (s *Store) Get(ctx context.Context, source, resourceType, resourceID string) (*types.SyncCacheEntry, error) {
	var e types.SyncCacheEntry
	e.Source, e.ResourceType, e.ResourceID = source, resourceType, resourceID
	row := s.pool.QueryRow(ctx, "sync_cache_get", source, resourceType, resourceID)
	if err := row.Scan(&e.ID, &e.RawData, &e.ContentHash, &e.FetchedAt, &e.HTTPStatus); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("rawcache get %s/%s/%s: %w", source, resourceType, resourceID, err)
	}
	return &e, nil
}

// Put writes raw through the cache. If the canonical hash of raw matches the
// stored hash, only fetched_at is refreshed and changed=false; otherwise the
// row is replaced and changed=true.
func (s *Store) Put(ctx context.Context, source, resourceType, resourceID string, raw []byte, httpStatus *int) (*types.SyncCacheEntry, bool, error) {
	hash, err := ContentHash(raw)
	if err != nil {
		return nil, false, fmt.Errorf("rawcache hash: %w", err)
	}

	existing, err := s.Get(ctx, source, resourceType, resourceID)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	if existing != nil && existing.ContentHash == hash {
		if _, err := s.pool.Exec(ctx, "sync_cache_touch", source, resourceType, resourceID, now); err != nil {
			return nil, false, fmt.Errorf("rawcache touch %s/%s/%s: %w", source, resourceType, resourceID, err)
		}
		existing.FetchedAt = now
		return existing, false, nil
	}

	id := uuid.New()
	row := s.pool.QueryRow(ctx, "sync_cache_upsert", id, source, resourceType, resourceID, raw, hash, now, httpStatus)
	if err := row.Scan(&id); err != nil {
		return nil, false, fmt.Errorf("rawcache upsert %s/%s/%s: %w", source, resourceType, resourceID, err)
	}

	return &types.SyncCacheEntry{
		ID: id, Source: source, ResourceType: resourceType, ResourceID: resourceID,
		RawData: raw, ContentHash: hash, FetchedAt: now, HTTPStatus: httpStatus,
	}, true, nil
}

// ContentHash computes SHA-256 over a canonical JSON re-serialization of raw
// (sorted keys, stable rendering) so semantically-identical payloads with
// reordered keys hash identically. Non-JSON payloads (e.g. the winner HTML
// player and team pages) are hashed as their raw bytes directly.
func ContentHash(raw []byte) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		sum := sha256.Sum256(raw)
		return hex.EncodeToString(sum[:]), nil
	}
	canon, err := canonicalJSON(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalJSON(v any) ([]byte, error) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf := []byte{'{'}
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, _ := json.Marshal(k)
			buf = append(buf, kb...)
			buf = append(buf, ':')
			vb, err := canonicalJSON(t[k])
			if err != nil {
				return nil, err
			}
			buf = append(buf, vb...)
		}
		buf = append(buf, '}')
		return buf, nil
	case []any:
		buf := []byte{'['}
		for i, item := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			ib, err := canonicalJSON(item)
			if err != nil {
				return nil, err
			}
			buf = append(buf, ib...)
		}
		buf = append(buf, ']')
		return buf, nil
	default:
		return json.Marshal(t)
	}
}
