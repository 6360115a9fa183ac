package index

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
	"github.com/johnquangdev/video-chat/internal/infrastructure/storage"
)

// Manager owns one index per video identifier: it builds, persists, loads
// and caches them. Builds for one identifier are serialized; the total
// number of concurrent builds is capped so embedding calls for one video
// cannot starve other requests.
type Manager struct {
	store    storage.FileStore
	embedder Embedder
	chunker  *Chunker
	logger   *zap.Logger

	mu      sync.Mutex
	locks   map[string]*sync.Mutex
	indexes map[string]*Index
	active  string

	buildSlots chan struct{}
}

// NewManager constructs an index manager.
func NewManager(store storage.FileStore, embedder Embedder, chunker *Chunker, maxConcurrentBuilds int, logger *zap.Logger) *Manager {
	if maxConcurrentBuilds <= 0 {
		maxConcurrentBuilds = 2
	}
	return &Manager{
		store:      store,
		embedder:   embedder,
		chunker:    chunker,
		logger:     logger,
		locks:      make(map[string]*sync.Mutex),
		indexes:    make(map[string]*Index),
		buildSlots: make(chan struct{}, maxConcurrentBuilds),
	}
}

// Location returns the persisted index location for a video identifier.
func Location(videoID string) string {
	return "indexes/" + videoID + "/index.json"
}

// CreateOrLoad returns the index for a video, preferring an already loaded
// or persisted index over rebuilding, so reprocessing the same identifier
// is cheap. When nothing is persisted it chunks the documents, embeds them
// and persists the result.
func (m *Manager) CreateOrLoad(ctx context.Context, videoID string, docs []entities.TranscriptDocument) (*Index, error) {
	lock := m.lockFor(videoID)
	lock.Lock()
	defer lock.Unlock()

	if idx, ok := m.cached(videoID); ok {
		m.setActive(videoID)
		return idx, nil
	}

	location := Location(videoID)
	idx, err := Load(ctx, m.store, location, m.embedder, true)
	if err == nil {
		m.logger.Info("index.loaded",
			zap.String("video_id", videoID),
			zap.String("location", location),
			zap.Int("records", idx.Len()),
		)
		m.cache(videoID, idx)
		return idx, nil
	}
	if !errors.Is(err, entities.ErrIndexNotFound) {
		return nil, err
	}

	// Acquire a build slot; blocks if the cap is reached.
	select {
	case m.buildSlots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-m.buildSlots }()

	chunks := m.chunker.Split(docs)
	m.logger.Info("index.building",
		zap.String("video_id", videoID),
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)),
	)

	idx, err = Build(ctx, m.embedder, chunks)
	if err != nil {
		return nil, err
	}
	if err := idx.Persist(ctx, m.store, location); err != nil {
		return nil, err
	}
	m.logger.Info("index.built",
		zap.String("video_id", videoID),
		zap.String("location", location),
		zap.Int("records", idx.Len()),
	)

	m.cache(videoID, idx)
	return idx, nil
}

// Get returns the index for a video, loading a persisted one if needed.
// It never builds.
func (m *Manager) Get(ctx context.Context, videoID string) (*Index, error) {
	lock := m.lockFor(videoID)
	lock.Lock()
	defer lock.Unlock()

	if idx, ok := m.cached(videoID); ok {
		return idx, nil
	}
	idx, err := Load(ctx, m.store, Location(videoID), m.embedder, true)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.indexes[videoID] = idx
	m.mu.Unlock()
	return idx, nil
}

// Active returns the index of the most recently processed video.
func (m *Manager) Active(ctx context.Context) (*Index, error) {
	m.mu.Lock()
	videoID := m.active
	m.mu.Unlock()
	if videoID == "" {
		return nil, entities.ErrIndexNotFound
	}
	return m.Get(ctx, videoID)
}

func (m *Manager) lockFor(videoID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[videoID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[videoID] = lock
	}
	return lock
}

func (m *Manager) cached(videoID string) (*Index, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.indexes[videoID]
	return idx, ok
}

func (m *Manager) cache(videoID string, idx *Index) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexes[videoID] = idx
	m.active = videoID
}

func (m *Manager) setActive(videoID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = videoID
}
