package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolabio1417/testbot/beatmap"
	"github.com/astrolabio1417/testbot/config"
)

func TestQueueAutoHostShowsNextFive(t *testing.T) {
	sess, _ := newTestSession(config.RoomConfig{Name: "Room", BotMode: config.AutoHost}, nil)
	sess.State.Users = []string{"A", "B", "C", "D", "E", "F"}
	assert.Equal(t, "A, B, C, D, E", sess.Queue())
}

func TestQueueAutoPickShowsNextFiveAsLinks(t *testing.T) {
	maps := []beatmap.Record{
		{ID: 1, Title: "Song One"},
		{ID: 2, Title: "Song Two"},
	}
	sess, _ := newTestSession(config.RoomConfig{Name: "Room", BotMode: config.AutoPick}, maps)
	got := sess.Queue()
	assert.Contains(t, got, "Song One")
	assert.Contains(t, got, "Song Two")
	assert.Contains(t, got, "https://osu.ppy.sh/b/1")
}

func TestOnSkipIdempotentPerSender(t *testing.T) {
	sess, sender := newTestSession(config.RoomConfig{Name: "Room", BotMode: config.AutoHost}, nil)
	sess.State.Users = []string{"A", "B", "C", "D", "E"}

	require.NoError(t, sess.OnSkip("B"))
	count := len(sender.sent)
	require.NoError(t, sess.OnSkip("B"))

	assert.Equal(t, count, len(sender.sent), "duplicate skip from the same sender must not double-count")
	assert.Len(t, sess.State.SkipVoters, 1)
}

func TestOnSkipFromHostRotatesUnconditionally(t *testing.T) {
	sess, sender := newTestSession(config.RoomConfig{Name: "Room", BotMode: config.AutoHost}, nil)
	sess.State.Users = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

	require.NoError(t, sess.OnSkip("A"))

	assert.True(t, containsSuffix(sender.bodies(), "!mp host B"))
}

func TestWrapAnnouncementSplitsLongText(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "word "
	}
	lines := WrapAnnouncement(long)
	assert.Greater(t, len(lines), 1)
}
