package room

import (
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const queuePreviewSize = 5

// ircLineWidth is the line width WrapAnnouncement wraps at.
const ircLineWidth = 400

// Queue renders the upcoming rotation: the next five users (AutoHost) or
// the next five beatmaps as links (AutoPick).
func (s *Session) Queue() string {
	if s.State.IsAutoHost() {
		n := queuePreviewSize
		if n > len(s.State.Users) {
			n = len(s.State.Users)
		}
		return strings.Join(s.State.Users[:n], ", ")
	}

	n := queuePreviewSize
	if n > len(s.State.Beatmaps) {
		n = len(s.State.Beatmaps)
	}
	links := make([]string, 0, n)
	for _, bm := range s.State.Beatmaps[:n] {
		links = append(links, fmt.Sprintf("[https://osu.ppy.sh/b/%d %s]", bm.ID, bm.Title))
	}
	return strings.Join(links, ", ")
}

// UsersList renders the comma-joined membership for "!users".
func (s *Session) UsersList() string {
	return strings.Join(s.State.Users, ", ")
}

// RoomSummary is the announcement sent on match_finished: a one-line
// queue recap.
func (s *Session) RoomSummary() string {
	return fmt.Sprintf("Queue: %s", s.Queue())
}

// skipThreshold is round(|users| / 2).
func (s *Session) skipThreshold() int {
	return int(math.Round(float64(len(s.State.Users)) / 2))
}

// OnSkip applies one "!skip" vote from sender. Repeat votes from the same
// sender within a round are ignored (idempotent).
func (s *Session) OnSkip(sender string) error {
	sender = NormalizeUsername(sender)
	if _, already := s.State.SkipVoters[sender]; already {
		return nil
	}
	s.State.SkipVoters[sender] = struct{}{}

	if s.State.IsAutoHost() && sender == s.State.Host() {
		return s.Rotate()
	}

	threshold := s.skipThreshold()
	if len(s.State.SkipVoters) >= threshold {
		return s.Rotate()
	}
	return s.send(fmt.Sprintf("Skip voting: %d / %d", len(s.State.SkipVoters), threshold))
}

// WrapAnnouncement splits body into lines no wider than ircLineWidth,
// wrapping at word boundaries. Session sends do not call it: every
// outbound chat line is sent whole, whatever its length.
func WrapAnnouncement(body string) []string {
	wrapped := wordwrap.WrapString(body, ircLineWidth)
	return strings.Split(wrapped, "\n")
}
