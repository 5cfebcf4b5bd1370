package room

import (
	"fmt"
	"strconv"
	"strings"
)

// HandleCommand dispatches one chat line from a non-referee-bot sender.
// Lines that aren't a recognized command are ignored.
func (s *Session) HandleCommand(sender, body string) error {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "!start":
		if len(fields) >= 2 {
			if _, err := strconv.Atoi(fields[1]); err == nil {
				return s.send(fmt.Sprintf("!mp start %s", fields[1]))
			}
		}
		return s.send("!mp start")
	case "!stop":
		return s.send("!mp aborttimer")
	case "!users":
		return s.send(fmt.Sprintf("Users: %s", s.UsersList()))
	case "!queue":
		return s.send(fmt.Sprintf("Queue: %s", s.Queue()))
	case "!skip":
		return s.OnSkip(sender)
	case "!info":
		if s.State.IsAutoPick() {
			return s.send(s.infoLine())
		}
		return nil
	default:
		return nil
	}
}

func (s *Session) infoLine() string {
	cfg := s.State.Config
	return fmt.Sprintf(
		"AutoPick: stars %.2f-%.2f | commands: !queue, !skip, !users, !start, !stop",
		cfg.MinStar, cfg.MaxStar,
	)
}
