package registry

import (
	"regexp"
	"strings"

	"github.com/astrolabio1417/testbot/ircnet"
	"github.com/astrolabio1417/testbot/room"
)

// RefereeBotName is the server-side automaton's IRC nick, "BanchoBot".
// Its messages carry room-lifecycle cues; every other room sender is a
// player issuing a command.
const RefereeBotName = "BanchoBot"

var tournamentMatchPattern = regexp.MustCompile(`https://osu\.ppy\.sh/mp/(\d+) (.+)`)

// Dispatcher routes classified ircnet.Line values to the right session.
type Dispatcher struct {
	Registry *Registry
}

// NewDispatcher builds a Dispatcher over reg.
func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{Registry: reg}
}

// Dispatch routes one parsed line. Lines that can't be associated with a
// known room or sender are dropped silently.
func (d *Dispatcher) Dispatch(line ircnet.Line) error {
	switch line.Kind {
	case ircnet.KindServerPrivate:
		return d.dispatchPrivate(line)
	case ircnet.KindRoomMessage:
		return d.dispatchRoomMessage(line)
	default:
		return nil
	}
}

func (d *Dispatcher) dispatchPrivate(line ircnet.Line) error {
	if line.Sender != RefereeBotName {
		return nil
	}
	if !strings.HasPrefix(line.Body, "Created the tournament match") {
		return nil
	}
	m := tournamentMatchPattern.FindStringSubmatch(line.Body)
	if m == nil {
		return nil
	}
	roomID, name := m[1], strings.TrimSpace(m[2])

	if _, ok := d.Registry.ByName(name); !ok {
		return nil
	}
	bound, err := d.Registry.BindRoomID(name, roomID)
	if err != nil {
		return err
	}
	return bound.BringUp()
}

func (d *Dispatcher) dispatchRoomMessage(line ircnet.Line) error {
	s, ok := d.Registry.ByRoomID(line.RoomID)
	if !ok {
		return nil
	}
	if line.Sender == RefereeBotName {
		ev := room.ParseCue(line.Body)
		return s.HandleEvent(ev)
	}
	return s.HandleCommand(line.Sender, line.Body)
}
