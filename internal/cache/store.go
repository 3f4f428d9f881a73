package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/testudo-plus/schedule-api/internal/models"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
)

// FetchFunc obtains a fresh section list for a partition. The store treats it
// as an opaque external call; timeout policy belongs to the implementation.
type FetchFunc func(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error)

// ResolveInfo describes how a resolve call was satisfied.
type ResolveInfo struct {
	FromCache bool `json:"fromCache"`
	Stale     bool `json:"stale"`
}

// Snapshotter persists partition records between restarts. Persisted state is
// advisory: correctness never depends on a snapshot being present or valid.
type Snapshotter interface {
	Save(key string, data []byte) error
	Read(key string) ([]byte, error)
	List() ([]string, error)
	Delete(key string) error
}

// Recorder receives cache instrumentation events.
type Recorder interface {
	RecordLookup(hit bool)
	RecordStaleServe()
	ObserveFetch(d time.Duration, success bool)
}

// StoreConfig configures the partition store.
type StoreConfig struct {
	TTL       time.Duration
	Snapshots Snapshotter
	Metrics   Recorder
	Logger    *zap.Logger
	Now       func() time.Time
}

// Store is the process-wide get-or-fetch cache keyed by catalog partition.
// Mutual exclusion is scoped per partition identity; concurrent resolves for
// distinct partitions never serialize behind each other.
type Store struct {
	ttl       time.Duration
	snapshots Snapshotter
	metrics   Recorder
	logger    *zap.Logger
	now       func() time.Time

	flight singleflight.Group

	mu      sync.RWMutex
	entries map[string]*models.CachePartition
}

// NewStore constructs the store. Constructed once at startup; exposes only
// the Resolve contract plus snapshot lifecycle helpers.
func NewStore(cfg StoreConfig) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		ttl:       cfg.TTL,
		snapshots: cfg.Snapshots,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       cfg.Now,
		entries:   make(map[string]*models.CachePartition),
	}
}

// flightResult carries the partition out of a shared fetch along with whether
// the flight was satisfied from an already-fresh entry.
type flightResult struct {
	part      *models.CachePartition
	fromCache bool
}

// Resolve returns the partition for id, fetching when absent or stale. A
// fresh entry short-circuits without invoking fetch. Concurrent resolves for
// the same identity share one in-flight fetch; the shared fetch is not
// cancelled when an individual waiter abandons its request. When the fetch
// fails and a stale entry exists, the stale entry is served with Stale=true.
func (s *Store) Resolve(ctx context.Context, id models.PartitionID, fetch FetchFunc) (*models.CachePartition, ResolveInfo, error) {
	key := id.String()

	if entry := s.lookup(key); entry != nil && !entry.IsStale(s.now(), s.ttl) {
		s.recordLookup(true)
		return entry, ResolveInfo{FromCache: true}, nil
	}

	ch := s.flight.DoChan(key, func() (interface{}, error) {
		// Another waiter may have refreshed the entry while this call was
		// queued behind the previous flight.
		if entry := s.lookup(key); entry != nil && !entry.IsStale(s.now(), s.ttl) {
			return flightResult{part: entry, fromCache: true}, nil
		}
		part, err := s.refetch(ctx, id, fetch)
		if err != nil {
			return nil, err
		}
		return flightResult{part: part}, nil
	})

	select {
	case <-ctx.Done():
		s.recordLookup(false)
		return nil, ResolveInfo{}, appErrors.Wrap(ctx.Err(), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "resolve abandoned")
	case res := <-ch:
		if res.Err != nil {
			s.recordLookup(false)
			if stale := s.lookup(key); stale != nil {
				if s.metrics != nil {
					s.metrics.RecordStaleServe()
				}
				s.logger.Warn("serving stale partition after failed fetch",
					zap.String("partition", key), zap.Error(res.Err))
				return stale, ResolveInfo{FromCache: true, Stale: true}, nil
			}
			return nil, ResolveInfo{}, appErrors.Wrap(res.Err,
				appErrors.ErrPartitionUnavailable.Code,
				appErrors.ErrPartitionUnavailable.Status,
				"failed to fetch partition "+key)
		}
		// A waiter that joined another caller's flight, or whose flight
		// found the entry already refreshed, was served without a fetch of
		// its own.
		fr := res.Val.(flightResult)
		hit := fr.fromCache || res.Shared
		s.recordLookup(hit)
		return fr.part, ResolveInfo{FromCache: hit}, nil
	}
}

// Refresh fetches id unconditionally, replacing even a fresh entry. It shares
// the flight group with Resolve, so a refresh racing a resolve still performs
// one fetch. This is the prewarm path: Resolve alone would short-circuit on
// the fresh entry the prewarm worker wants to renew.
func (s *Store) Refresh(ctx context.Context, id models.PartitionID, fetch FetchFunc) error {
	key := id.String()

	ch := s.flight.DoChan(key, func() (interface{}, error) {
		part, err := s.refetch(ctx, id, fetch)
		if err != nil {
			return nil, err
		}
		return flightResult{part: part}, nil
	})

	select {
	case <-ctx.Done():
		return appErrors.Wrap(ctx.Err(), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "refresh abandoned")
	case res := <-ch:
		if res.Err != nil {
			return appErrors.Wrap(res.Err,
				appErrors.ErrPartitionUnavailable.Code,
				appErrors.ErrPartitionUnavailable.Status,
				"failed to refresh partition "+key)
		}
		return nil
	}
}

// refetch runs the external fetch and installs the result. The fetch must
// survive the departure of any single waiter.
func (s *Store) refetch(ctx context.Context, id models.PartitionID, fetch FetchFunc) (*models.CachePartition, error) {
	fetchCtx := context.WithoutCancel(ctx)
	start := time.Now()
	sections, err := fetch(fetchCtx, id)
	if s.metrics != nil {
		s.metrics.ObserveFetch(time.Since(start), err == nil)
	}
	if err != nil {
		return nil, err
	}

	part := &models.CachePartition{ID: id, Sections: sections, FetchedAt: s.now()}
	s.store(id.String(), part)
	s.persist(part)
	return part, nil
}

// Expiring returns the identities whose remaining TTL is at or below the
// given threshold, for background prewarming.
func (s *Store) Expiring(threshold time.Duration) []models.PartitionID {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []models.PartitionID
	for _, entry := range s.entries {
		if now.Sub(entry.FetchedAt) >= s.ttl-threshold {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

// Load seeds the in-memory store from persisted snapshots. Snapshots past
// TTL or failing to decode are ignored (treated as absent).
func (s *Store) Load() int {
	if s.snapshots == nil {
		return 0
	}
	keys, err := s.snapshots.List()
	if err != nil {
		s.logger.Warn("snapshot listing failed", zap.Error(err))
		return 0
	}
	loaded := 0
	for _, key := range keys {
		data, err := s.snapshots.Read(key)
		if err != nil {
			continue
		}
		var rec snapshotRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			s.logger.Warn("discarding corrupt snapshot", zap.String("key", key), zap.Error(err))
			continue
		}
		part := rec.partition()
		if part.IsStale(s.now(), s.ttl) {
			continue
		}
		s.store(part.ID.String(), part)
		loaded++
	}
	if loaded > 0 {
		s.logger.Info("seeded cache from snapshots", zap.Int("partitions", loaded))
	}
	return loaded
}

// Close flushes every live entry to durable storage.
func (s *Store) Close() error {
	s.mu.RLock()
	entries := make([]*models.CachePartition, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	for _, entry := range entries {
		s.persist(entry)
	}
	return nil
}

func (s *Store) lookup(key string) *models.CachePartition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key]
}

func (s *Store) store(key string, part *models.CachePartition) {
	s.mu.Lock()
	s.entries[key] = part
	s.mu.Unlock()
}

func (s *Store) recordLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordLookup(hit)
	}
}

func (s *Store) persist(part *models.CachePartition) {
	if s.snapshots == nil {
		return
	}
	data, err := json.Marshal(newSnapshotRecord(part))
	if err != nil {
		s.logger.Warn("snapshot encode failed", zap.String("partition", part.ID.String()), zap.Error(err))
		return
	}
	if err := s.snapshots.Save(part.ID.String(), data); err != nil {
		s.logger.Warn("snapshot write failed", zap.String("partition", part.ID.String()), zap.Error(err))
	}
}

// snapshotRecord is the on-disk form of a partition: one file-backed
// key/value record per partition identity.
type snapshotRecord struct {
	Kind      models.PartitionKind   `json:"kind"`
	Key       string                 `json:"key"`
	TermID    string                 `json:"termId"`
	FetchedAt time.Time              `json:"fetchedAt"`
	Sections  []models.CourseSection `json:"sections"`
}

func newSnapshotRecord(part *models.CachePartition) snapshotRecord {
	return snapshotRecord{
		Kind:      part.ID.Kind,
		Key:       part.ID.Key,
		TermID:    part.ID.TermID,
		FetchedAt: part.FetchedAt,
		Sections:  part.Sections,
	}
}

func (r snapshotRecord) partition() *models.CachePartition {
	return &models.CachePartition{
		ID:        models.PartitionID{Kind: r.Kind, Key: r.Key, TermID: r.TermID},
		Sections:  r.Sections,
		FetchedAt: r.FetchedAt,
	}
}
