package core

import (
	"fmt"

	"godowncore/pkg/domain"
)

// Registry is the static, read-only room catalog for one deployment. It is
// built once from configuration and never mutated afterwards.
type Registry struct {
	rooms map[string]domain.Room
	order []string
}

// NewRegistry validates the configured rooms and builds the catalog,
// preserving configuration order for enumeration.
func NewRegistry(rooms []domain.Room) (*Registry, error) {
	if len(rooms) == 0 {
		return nil, fmt.Errorf("registry requires at least one room")
	}
	r := &Registry{rooms: make(map[string]domain.Room, len(rooms))}
	codes := make(map[string]string, len(rooms))
	for _, room := range rooms {
		if room.ID == "" {
			return nil, fmt.Errorf("room with code %q: missing id", room.Code)
		}
		if room.Code == "" {
			return nil, fmt.Errorf("room %q: missing code", room.ID)
		}
		if room.Rows <= 0 || room.Cols <= 0 {
			return nil, fmt.Errorf("room %q: invalid dimensions %dx%d", room.ID, room.Rows, room.Cols)
		}
		if _, dup := r.rooms[room.ID]; dup {
			return nil, fmt.Errorf("room %q: duplicate id", room.ID)
		}
		if other, dup := codes[room.Code]; dup {
			return nil, fmt.Errorf("room %q: code %q already used by room %q", room.ID, room.Code, other)
		}
		r.rooms[room.ID] = room
		codes[room.Code] = room.ID
		r.order = append(r.order, room.ID)
	}
	return r, nil
}

// Get returns the room for the id. An unknown id is a configuration or caller
// bug, surfaced as UnknownRoomError.
func (r *Registry) Get(id string) (domain.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return domain.Room{}, domain.UnknownRoomError{RoomID: id}
	}
	return room, nil
}

// List enumerates all rooms in configuration order.
func (r *Registry) List() []domain.Room {
	out := make([]domain.Room, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rooms[id])
	}
	return out
}
