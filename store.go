package catchment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// NetworkStore keeps street network partitions in memory for the lifetime of
// the hosting process. Partitions are loaded lazily on first access and are
// read-only afterwards, so concurrent readers need no locking beyond the map
// guard. There is deliberately no eviction: the working set of a deployment
// region is assumed to fit in memory.
//
// A cold partition is read from the on-disk cache (one serialized blob per
// coarse cell); a cold-cold partition is pulled from the backing network
// database and written through to disk.
type NetworkStore struct {
	db       NetworkDatabase
	cacheDir string
	log      *slog.Logger

	mu         sync.RWMutex
	partitions map[CellID][]Edge
	loads      singleflight.Group
}

// NewNetworkStore returns a store over given backing database caching blobs under cacheDir
func NewNetworkStore(db NetworkDatabase, cacheDir string, log *slog.Logger) *NetworkStore {
	if log == nil {
		log = slog.Default()
	}
	return &NetworkStore{
		db:       db,
		cacheDir: cacheDir,
		log:      log,
	}
}

// Open prepares the on-disk cache directory
func (s *NetworkStore) Open() error {
	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return errors.Wrap(err, "Can't create partition cache directory")
	}
	s.mu.Lock()
	s.partitions = make(map[CellID][]Edge)
	s.mu.Unlock()
	return nil
}

// Close releases every loaded partition at once
func (s *NetworkStore) Close() error {
	s.mu.Lock()
	s.partitions = nil
	s.mu.Unlock()
	return nil
}

// Partition returns every edge of given coarse cell. The returned slice is
// shared between requests and must be treated as read-only.
func (s *NetworkStore) Partition(ctx context.Context, cell CellID) ([]Edge, error) {
	s.mu.RLock()
	if s.partitions == nil {
		s.mu.RUnlock()
		return nil, errors.New("network store is not open")
	}
	if edges, ok := s.partitions[cell]; ok {
		s.mu.RUnlock()
		return edges, nil
	}
	s.mu.RUnlock()

	// Deduplicate concurrent cold misses of the same cell: duplicate loads
	// would be correct (the result is immutable) but wasteful.
	v, err, _ := s.loads.Do(fmt.Sprintf("%d", cell), func() (interface{}, error) {
		return s.load(ctx, cell)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Edge), nil
}

func (s *NetworkStore) load(ctx context.Context, cell CellID) ([]Edge, error) {
	s.mu.RLock()
	if edges, ok := s.partitions[cell]; ok {
		s.mu.RUnlock()
		return edges, nil
	}
	s.mu.RUnlock()

	edges, cached, err := s.readBlob(cell)
	if err != nil {
		return nil, err
	}
	if !cached {
		edges, err = s.db.FetchPartition(ctx, cell)
		if err != nil {
			return nil, errors.Wrapf(ErrNetworkUnavailable, "fetch partition %d: %v", cell, err)
		}
		if err := s.writeBlob(cell, edges); err != nil {
			return nil, err
		}
		s.log.Debug("partition fetched from database", "cell", uint64(cell), "edges", len(edges))
	} else {
		s.log.Debug("partition read from disk cache", "cell", uint64(cell), "edges", len(edges))
	}

	s.mu.Lock()
	s.partitions[cell] = edges
	s.mu.Unlock()
	return edges, nil
}

func (s *NetworkStore) blobPath(cell CellID) string {
	return filepath.Join(s.cacheDir, fmt.Sprintf("%d.json", cell))
}

// readBlob reads partition blob from disk; second result reports a cache hit
func (s *NetworkStore) readBlob(cell CellID) ([]Edge, bool, error) {
	data, err := os.ReadFile(s.blobPath(cell))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "Can't read partition blob")
	}
	var edges []Edge
	if err := sonic.Unmarshal(data, &edges); err != nil {
		return nil, false, errors.Wrapf(err, "Can't decode partition blob for cell %d", cell)
	}
	return edges, true, nil
}

func (s *NetworkStore) writeBlob(cell CellID, edges []Edge) error {
	data, err := sonic.Marshal(edges)
	if err != nil {
		return errors.Wrap(err, "Can't encode partition blob")
	}
	if err := os.WriteFile(s.blobPath(cell), data, 0o644); err != nil {
		return errors.Wrap(err, "Can't write partition blob")
	}
	return nil
}
