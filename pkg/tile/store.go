package tile

import (
	"slices"
	"sync"

	"github.com/matzehuels/tileboard/pkg/geometry"
)

// Store is an ordered, in-memory collection of tiles.
//
// List returns tiles in insertion order, which is also the paint order.
// All methods are safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	ids   IDGenerator
	tiles []Tile
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{ids: UUIDGenerator{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends t with a freshly generated id and returns that id.
// Any id already set on t is replaced.
func (s *Store) Add(t Tile) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.NewID()
	for s.indexOf(id) >= 0 {
		id = s.ids.NewID()
	}
	t.ID = id
	s.tiles = append(s.tiles, t)
	return id
}

// Update replaces the geometry of tile id and sets its committed flag.
// It reports false, and changes nothing, if id is not in the store.
func (s *Store) Update(id ID, r geometry.Rect, committed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tiles[i].Rect = r
	s.tiles[i].Committed = committed
	return true
}

// Remove deletes tile id. It reports false if id was not in the store.
func (s *Store) Remove(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tiles = slices.Delete(s.tiles, i, i+1)
	return true
}

// Get returns tile id.
func (s *Store) Get(id ID) (Tile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.tiles[i], true
	}
	return Tile{}, false
}

// List returns a copy of all tiles in insertion order.
func (s *Store) List() []Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tiles)
}

// Len returns the number of tiles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tiles)
}

func (s *Store) indexOf(id ID) int {
	return slices.IndexFunc(s.tiles, func(t Tile) bool { return t.ID == id })
}
