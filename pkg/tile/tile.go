// Package tile holds tile records and the ordered store they live in.
//
// A [Store] is the only owner of tile state. Geometry is computed elsewhere
// (see package geometry) and written back through [Store.Update]; the store
// never clamps or validates rectangles itself.
//
// Updates and removals of ids that are not in the store are no-ops rather
// than errors, because a gesture frame can race with the tile's deletion.
package tile

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/tileboard/pkg/geometry"
)

// Default size of a newly added tile, in pixels.
const (
	DefaultWidth  = 100
	DefaultHeight = 100
)

// ID identifies a tile within a session.
type ID string

// Tile is a positioned, image-bearing rectangle on the canvas.
//
// Committed is true when the rectangle is the resting state at the end of an
// interaction, and false for intermediate frames of a gesture in progress.
type Tile struct {
	ID ID `json:"id"`
	geometry.Rect
	Image     string `json:"image"`
	Committed bool   `json:"committed"`
}

// New returns a committed tile for image at the canvas origin with
// the default size. The id is assigned by [Store.Add].
func New(image string) Tile {
	return Tile{
		Rect:      geometry.Rect{Width: DefaultWidth, Height: DefaultHeight},
		Image:     image,
		Committed: true,
	}
}

func (t Tile) String() string {
	return fmt.Sprintf("%s %s", t.ID, t.Rect)
}

// IDGenerator produces tile ids. Implementations must not repeat an id within
// a session.
type IDGenerator interface {
	NewID() ID
}

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID.
func (UUIDGenerator) NewID() ID { return ID(uuid.NewString()) }

// Sequence issues monotonically increasing ids with an optional prefix
// ("tile-1", "tile-2", ...). It is safe for concurrent use.
type Sequence struct {
	mu     sync.Mutex
	Prefix string
	n      uint64
}

// NewID returns the next id in the sequence.
func (s *Sequence) NewID() ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return ID(fmt.Sprintf("%s%d", s.Prefix, s.n))
}
