package room

import (
	"fmt"
	"time"

	"github.com/astrolabio1417/testbot/beatmap"
)

// Sender emits one outbound chat line (already formatted as the message
// body — the bot's own IRC target prefix is added by the caller).
// Sessions never touch the transport directly; everything they do is a
// call to Sender.
type Sender interface {
	Send(target, body string) error
}

// Pacer delays the room's ~1s bring-up pause between naming the room and
// applying its settings. Tests inject a no-op implementation.
type Pacer interface {
	Pause(d time.Duration)
}

// RealPacer sleeps for real; used outside of tests.
type RealPacer struct{}

func (RealPacer) Pause(d time.Duration) { time.Sleep(d) }

// Session drives one room's State through its lifecycle: cue-triggered
// transitions, rotation, bring-up, and beatmap policy enforcement.
type Session struct {
	State  *State
	Sender Sender
	Pacer  Pacer
	Policy *beatmap.Policy
}

// NewSession constructs a Session for state, wired to sender for outbound
// commands and policy for beatmap-pick enforcement (nil is acceptable for
// AutoHost-only rooms that never see a manual pick).
func NewSession(state *State, sender Sender, pacer Pacer, policy *beatmap.Policy) *Session {
	if pacer == nil {
		pacer = RealPacer{}
	}
	return &Session{State: state, Sender: sender, Pacer: pacer, Policy: policy}
}

func (s *Session) target() string {
	return "#mp_" + s.State.RoomID
}

func (s *Session) send(body string) error {
	return s.Sender.Send(s.target(), body)
}

// BringUp runs the room bring-up sequence: name, password, a pace
// pause, room settings, mods, then an initial rotate to seed host/map.
// Called once, immediately after RoomID is bound.
func (s *Session) BringUp() error {
	cfg := s.State.Config
	if err := s.send(fmt.Sprintf("!mp name %s", cfg.Name)); err != nil {
		return err
	}
	if err := s.send(fmt.Sprintf("!mp password %s", cfg.Password)); err != nil {
		return err
	}
	s.Pacer.Pause(1 * time.Second)
	if err := s.send(fmt.Sprintf("!mp set %d %d %d", cfg.TeamMode, cfg.ScoreMode, cfg.RoomSize)); err != nil {
		return err
	}
	if err := s.send("!mp mods Freemod"); err != nil {
		return err
	}
	s.State.Configured = true
	return s.Rotate()
}

// Rotate advances the round: cycles the host (AutoHost) or the beatmap
// queue (AutoPick) and emits the corresponding command. Empty Users or
// Beatmaps means rotate is a no-op — it never emits a command with
// nothing to point at.
func (s *Session) Rotate() error {
	defer s.State.ClearSkipVoters()

	if s.State.IsAutoHost() {
		if len(s.State.Users) == 0 {
			return nil
		}
		s.State.CycleUsersLeft()
		return s.send(fmt.Sprintf("!mp host %s", s.State.Host()))
	}

	if len(s.State.Beatmaps) == 0 {
		return nil
	}
	next := s.State.Beatmaps[0]
	if err := s.send(fmt.Sprintf("!mp map %d %d", next.ID, s.State.Config.PlayMode)); err != nil {
		return err
	}
	s.State.CycleBeatmapsLeft()
	return nil
}

// resetToCurrentMap re-issues the previously accepted map with a
// violation reason suffixed.
func (s *Session) resetToCurrentMap(category beatmap.Category, reason string) error {
	if s.State.CurrentBeatmap == nil {
		return s.send(fmt.Sprintf("%s: %s", category, reason))
	}
	body := fmt.Sprintf("!mp map %d %d %s: %s", *s.State.CurrentBeatmap, s.State.Config.PlayMode, category, reason)
	return s.send(body)
}

// HandleEvent applies one referee-bot cue to State, emitting whatever
// outbound commands the transition requires. players_count only records
// TotalUsers for the next slot sweep; cues with no state-machine meaning
// (beatmap_auto_set, unknown) are accepted without effect.
func (s *Session) HandleEvent(ev Event) error {
	switch ev.Kind {
	case EventUserJoined:
		return s.onUserJoined(ev.Name)
	case EventUserLeft:
		return s.onUserLeft(ev.Name)
	case EventHostChanged:
		return s.onHostChanged(ev.Name)
	case EventMatchStarted:
		return s.onMatchStarted()
	case EventMatchFinished:
		return s.onMatchFinished()
	case EventMatchReady:
		return s.send("!mp start")
	case EventBeatmapPicked:
		return s.onBeatmapPicked(ev)
	case EventPlayersCount:
		s.State.TotalUsers = ev.Count
		return nil
	case EventSlotLine:
		return s.onSlotLine(ev.Slot)
	case EventRoomClosed:
		s.State.Close()
		return nil
	default:
		return nil
	}
}

func (s *Session) onUserJoined(name string) error {
	wasEmpty := len(s.State.Users) == 0
	added := s.State.AddUser(name)
	if added && wasEmpty && s.State.IsAutoHost() {
		return s.Rotate()
	}
	return nil
}

func (s *Session) onUserLeft(name string) error {
	name = NormalizeUsername(name)
	if s.State.IsAutoHost() && s.State.Host() == name {
		if err := s.Rotate(); err != nil {
			return err
		}
		s.State.RemoveUser(name)
		return nil
	}
	s.State.RemoveUser(name)
	return nil
}

func (s *Session) onHostChanged(name string) error {
	name = NormalizeUsername(name)
	s.State.ClearSkipVoters()

	if !s.State.IsAutoHost() {
		return nil
	}
	if len(s.State.Users) >= 2 && name == s.State.Users[1] {
		s.State.CycleUsersLeft()
		return nil
	}
	if name != s.State.Host() {
		return s.send(fmt.Sprintf("!mp host %s", s.State.Host()))
	}
	return nil
}

func (s *Session) onMatchStarted() error {
	s.State.ClearSkipVoters()
	if s.State.IsAutoHost() {
		return s.Rotate()
	}
	return nil
}

func (s *Session) onMatchFinished() error {
	if err := s.send(s.RoomSummary()); err != nil {
		return err
	}
	if s.State.IsAutoPick() {
		return s.Rotate()
	}
	return nil
}

func (s *Session) onBeatmapPicked(ev Event) error {
	if s.Policy == nil {
		return nil
	}
	outcome := s.Policy.Evaluate(beatmap.PickRequest{
		Title:    ev.Title,
		Version:  ev.Version,
		URL:      ev.URL,
		PlayMode: s.State.Config.PlayMode,
		MinStar:  s.State.Config.MinStar,
		MaxStar:  s.State.Config.MaxStar,
	})
	if !outcome.Accepted {
		return s.resetToCurrentMap(outcome.Category, outcome.Reason)
	}
	id := outcome.AcceptedID
	s.State.CurrentBeatmap = &id
	body := fmt.Sprintf(
		"Stars: %.2f | Status: %s | CircleSize: %.1f | ApproachRate: %.1f | [https://osu.ppy.sh/beatmapsets/%d %s] [https://beatconnect.io/b/%d/ Beatconnect]",
		outcome.DifficultyRating, outcome.Status, outcome.CircleSize, outcome.ApproachRate,
		outcome.BeatmapsetID, outcome.BeatmapsetTitle, outcome.BeatmapsetID,
	)
	return s.send(body)
}

func (s *Session) onSlotLine(slot *SlotInfo) error {
	if slot == nil {
		return nil
	}
	name := NormalizeUsername(slot.Username)
	s.State.AddUser(name)
	s.State.CheckUsers[name] = struct{}{}

	if len(s.State.CheckUsers) >= s.State.TotalUsers {
		var offline []string
		for _, u := range s.State.Users {
			if _, ok := s.State.CheckUsers[u]; !ok {
				offline = append(offline, u)
			}
		}
		for _, u := range offline {
			s.State.RemoveUser(u)
		}
		s.State.CheckUsers = make(map[string]struct{})
	}
	return nil
}
