// Package room implements the per-room session state machine: room
// identity, membership, round state, and the AutoHost/AutoPick rotation
// rules that drive a match room through its lifecycle.
package room

import (
	"fmt"
	"strings"

	"github.com/astrolabio1417/testbot/beatmap"
	"github.com/astrolabio1417/testbot/config"
)

// State holds room identity, lifecycle flags, membership, and round
// state for one configured room. A State is owned exclusively by its
// Session — nothing else may mutate it.
type State struct {
	Config config.RoomConfig

	// RoomID is the numeric suffix of the server-assigned #mp_<digits>
	// channel. Empty until BindRoomID is called; it may never be
	// reassigned afterward.
	RoomID string

	Created   bool
	Connected bool
	Configured bool

	// Users is ordered; in AutoHost mode Users[0] is the current host.
	Users []string
	// CheckUsers is the scratch set used by a slot-listing sweep.
	CheckUsers map[string]struct{}
	TotalUsers int

	// CurrentBeatmap is nil until a pick has been accepted or seeded
	// from config.
	CurrentBeatmap *int
	SkipVoters     map[string]struct{}

	// Beatmaps is AutoPick-only: a circular queue, head is next to set.
	Beatmaps []beatmap.Record
}

// New builds the initial State for cfg. For AutoPick rooms, beatmaps must
// already be filtered to [min, max] and pre-shuffled by the caller.
func New(cfg config.RoomConfig, beatmaps []beatmap.Record) *State {
	s := &State{
		Config:     cfg,
		CheckUsers: make(map[string]struct{}),
		SkipVoters: make(map[string]struct{}),
		Beatmaps:   beatmaps,
	}
	if cfg.CurrentBeatmap != 0 {
		cb := cfg.CurrentBeatmap
		s.CurrentBeatmap = &cb
	}
	return s
}

// NormalizeUsername strips outer whitespace and turns interior spaces
// into underscores, so a username is stable across every cue it appears
// in.
func NormalizeUsername(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// BindRoomID assigns the server-confirmed room id exactly once.
func (s *State) BindRoomID(id string) error {
	if s.RoomID != "" {
		return fmt.Errorf("room %q: room_id already bound to %q, refusing to rebind to %q", s.Config.Name, s.RoomID, id)
	}
	s.RoomID = id
	return nil
}

// AddUser normalizes and appends name if not already present. Returns
// true if the user was newly added.
func (s *State) AddUser(name string) bool {
	name = NormalizeUsername(name)
	if s.HasUser(name) {
		return false
	}
	s.Users = append(s.Users, name)
	return true
}

// RemoveUser removes name if present. Returns true if it was removed.
func (s *State) RemoveUser(name string) bool {
	name = NormalizeUsername(name)
	for i, u := range s.Users {
		if u == name {
			s.Users = append(s.Users[:i], s.Users[i+1:]...)
			return true
		}
	}
	return false
}

func (s *State) HasUser(name string) bool {
	name = NormalizeUsername(name)
	for _, u := range s.Users {
		if u == name {
			return true
		}
	}
	return false
}

// Host returns the current host in AutoHost mode, or "" if Users is
// empty.
func (s *State) Host() string {
	if len(s.Users) == 0 {
		return ""
	}
	return s.Users[0]
}

// IsAutoHost reports whether this room cycles host privilege.
func (s *State) IsAutoHost() bool {
	return s.Config.BotMode == config.AutoHost
}

// IsAutoPick reports whether this room cycles a beatmap queue.
func (s *State) IsAutoPick() bool {
	return s.Config.BotMode == config.AutoPick
}

// ClearSkipVoters clears the vote-skip set; called on every round
// boundary (rotate, host_changed, match_started).
func (s *State) ClearSkipVoters() {
	s.SkipVoters = make(map[string]struct{})
}

// CycleUsersLeft rotates Users left by one: the head moves to the tail.
func (s *State) CycleUsersLeft() {
	if len(s.Users) < 2 {
		return
	}
	head := s.Users[0]
	s.Users = append(s.Users[1:], head)
}

// CycleBeatmapsLeft rotates Beatmaps left by one.
func (s *State) CycleBeatmapsLeft() {
	if len(s.Beatmaps) < 2 {
		return
	}
	head := s.Beatmaps[0]
	s.Beatmaps = append(s.Beatmaps[1:], head)
}

// Close resets membership and lifecycle flags on a confirmed room
// close; the reconciler will recreate the room.
func (s *State) Close() {
	s.Users = nil
	s.CheckUsers = make(map[string]struct{})
	s.Created = false
	s.Connected = false
	s.Configured = false
}
