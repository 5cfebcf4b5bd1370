// Package registry ties together the transport, the per-room sessions,
// and the reconciliation tick into a single event loop: one execution
// context owns every RoomState, so no room needs its own lock.
package registry

import (
	"fmt"
	"strings"

	"github.com/astrolabio1417/testbot/room"
)

// Registry indexes live sessions by both their server-assigned room id
// and their configured name; both indices are updated atomically
// whenever a room_id is assigned.
type Registry struct {
	byRoomID map[string]*room.Session
	byName   map[string]*room.Session
	ordered  []*room.Session
}

// New builds an empty Registry.
func New() *Registry {
	return &Registry{
		byRoomID: make(map[string]*room.Session),
		byName:   make(map[string]*room.Session),
	}
}

// AddRoom registers a newly constructed session before its room_id is
// known; it becomes addressable by name immediately, and by room_id once
// BindRoomID is called.
func (r *Registry) AddRoom(s *room.Session) {
	name := normalizeRoomName(s.State.Config.Name)
	r.byName[name] = s
	r.ordered = append(r.ordered, s)
}

// BindRoomID assigns the server-confirmed room id to the session
// previously registered under name, updating both indices together.
func (r *Registry) BindRoomID(name, roomID string) (*room.Session, error) {
	s, ok := r.byName[normalizeRoomName(name)]
	if !ok {
		return nil, fmt.Errorf("registry: no configured room matches name %q", name)
	}
	if err := s.State.BindRoomID(roomID); err != nil {
		return nil, err
	}
	r.byRoomID[roomID] = s
	return s, nil
}

// ByRoomID looks up a session by its bound room_id.
func (r *Registry) ByRoomID(roomID string) (*room.Session, bool) {
	s, ok := r.byRoomID[roomID]
	return s, ok
}

// ByName looks up a session by its configured name.
func (r *Registry) ByName(name string) (*room.Session, bool) {
	s, ok := r.byName[normalizeRoomName(name)]
	return s, ok
}

// All returns every registered session, in registration order.
func (r *Registry) All() []*room.Session {
	return r.ordered
}

// ClearConnected drops Connected on every room without touching Created
// or RoomID: a disconnect never forgets a room's identity, only its
// live-join status.
func (r *Registry) ClearConnected() {
	for _, s := range r.ordered {
		s.State.Connected = false
	}
}

func normalizeRoomName(name string) string {
	return strings.TrimSpace(name)
}
