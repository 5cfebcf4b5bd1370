package room

import (
	"regexp"
	"strconv"
	"strings"
)

// EventKind tags the variant produced by ParseCue.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventUserJoined
	EventUserLeft
	EventHostChanged
	EventMatchStarted
	EventMatchFinished
	EventMatchReady
	EventBeatmapPicked
	EventBeatmapAutoSet
	EventSlotLine
	EventPlayersCount
	EventRoomClosed
)

// Event is the structured result of classifying one referee-bot chat
// line.
type Event struct {
	Kind EventKind

	// Name is set for user_joined, user_left, host_changed.
	Name string

	// Title and URL are set for beatmap_picked and beatmap_auto_set;
	// Version is set for beatmap_picked only.
	Title   string
	Version string
	URL     string

	// Slot is set for slot_line.
	Slot *SlotInfo

	// Count is set for players_count.
	Count int
}

var beatmapPickedPattern = regexp.MustCompile(`Beatmap.*?: (.*?) \[(.*?)\] \((.*?)\)`)

// ParseCue classifies body against the known referee-bot cues, trying
// each in a fixed order and returning the first match. EventUnknown
// means none of them matched.
func ParseCue(body string) Event {
	if idx := strings.Index(body, "joined in slot"); idx >= 0 {
		return Event{Kind: EventUserJoined, Name: strings.TrimSpace(body[:idx])}
	}
	if strings.HasSuffix(body, "left the game.") {
		name := strings.TrimSpace(strings.TrimSuffix(body, "left the game."))
		return Event{Kind: EventUserLeft, Name: name}
	}
	if strings.HasSuffix(body, " became the host.") {
		name := strings.TrimSpace(strings.TrimSuffix(body, " became the host."))
		return Event{Kind: EventHostChanged, Name: name}
	}
	if body == "The match has started!" {
		return Event{Kind: EventMatchStarted}
	}
	if body == "The match has finished!" {
		return Event{Kind: EventMatchFinished}
	}
	if body == "All players are ready" {
		return Event{Kind: EventMatchReady}
	}
	if strings.HasPrefix(body, "Beatmap changed to: ") {
		m := beatmapPickedPattern.FindStringSubmatch(body)
		if m == nil {
			return Event{Kind: EventUnknown}
		}
		return Event{Kind: EventBeatmapPicked, Title: m[1], Version: m[2], URL: m[3]}
	}
	if strings.HasPrefix(body, "Changed beatmap to ") {
		fields := strings.Fields(body)
		if len(fields) < 4 {
			return Event{Kind: EventUnknown}
		}
		return Event{
			Kind:  EventBeatmapAutoSet,
			URL:   fields[3],
			Title: strings.Join(fields[4:], " "),
		}
	}
	if strings.HasPrefix(body, "Slot ") {
		slot, ok := ParseSlotLine(body)
		if !ok {
			return Event{Kind: EventUnknown}
		}
		return Event{Kind: EventSlotLine, Slot: slot}
	}
	if strings.HasPrefix(body, "Players: ") {
		fields := strings.Fields(body)
		n, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return Event{Kind: EventUnknown}
		}
		return Event{Kind: EventPlayersCount, Count: n}
	}
	if body == "Closed the match" {
		return Event{Kind: EventRoomClosed}
	}
	return Event{Kind: EventUnknown}
}
