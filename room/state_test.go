package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolabio1417/testbot/config"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "Player_One", NormalizeUsername("  Player One  "))
	assert.Equal(t, "Alice", NormalizeUsername("Alice"))
}

func TestAddUserNoDuplicates(t *testing.T) {
	s := New(config.RoomConfig{Name: "Room"}, nil)
	assert.True(t, s.AddUser("Alice"))
	assert.False(t, s.AddUser("Alice"))
	assert.Equal(t, []string{"Alice"}, s.Users)
}

func TestRemoveUser(t *testing.T) {
	s := New(config.RoomConfig{Name: "Room"}, nil)
	s.AddUser("Alice")
	s.AddUser("Bob")
	assert.True(t, s.RemoveUser("Alice"))
	assert.False(t, s.RemoveUser("Alice"))
	assert.Equal(t, []string{"Bob"}, s.Users)
}

func TestBindRoomIDOnlyOnce(t *testing.T) {
	s := New(config.RoomConfig{Name: "Room"}, nil)
	require.NoError(t, s.BindRoomID("123"))
	err := s.BindRoomID("456")
	require.Error(t, err)
	assert.Equal(t, "123", s.RoomID)
}

func TestCycleUsersLeft(t *testing.T) {
	s := New(config.RoomConfig{Name: "Room"}, nil)
	s.Users = []string{"A", "B", "C"}
	s.CycleUsersLeft()
	assert.Equal(t, []string{"B", "C", "A"}, s.Users)
}

func TestCycleUsersLeftNoOpOnEmpty(t *testing.T) {
	s := New(config.RoomConfig{Name: "Room"}, nil)
	s.CycleUsersLeft()
	assert.Empty(t, s.Users)
}

func TestCloseResetsLifecycleFlags(t *testing.T) {
	s := New(config.RoomConfig{Name: "Room"}, nil)
	s.AddUser("Alice")
	s.Created = true
	s.Connected = true
	s.Configured = true

	s.Close()

	assert.Empty(t, s.Users)
	assert.False(t, s.Created)
	assert.False(t, s.Connected)
	assert.False(t, s.Configured)
}
