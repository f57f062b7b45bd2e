package core

import (
	"sync"

	"github.com/dkeye/roomchat/internal/domain"
	"github.com/rs/zerolog/log"
)

type CreateResult int

const (
	Created CreateResult = iota
	AlreadyExists
)

// RoomDirectory is the set of known room names. Rooms are never removed
// when their last member leaves.
type RoomDirectory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomName]struct{}
	order []domain.RoomName
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{rooms: make(map[domain.RoomName]struct{})}
}

func (d *RoomDirectory) Exists(name domain.RoomName) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[name]
	return ok
}

// Create registers name unless it is already present; a failed create
// leaves the directory untouched.
func (d *RoomDirectory) Create(name domain.RoomName) CreateResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.rooms[name]; ok {
		return AlreadyExists
	}
	d.rooms[name] = struct{}{}
	d.order = append(d.order, name)
	log.Info().Str("module", "core.directory").Str("room", string(name)).Msg("room created")
	return Created
}

// List returns room names in creation order.
func (d *RoomDirectory) List() []domain.RoomName {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.RoomName, len(d.order))
	copy(out, d.order)
	return out
}
