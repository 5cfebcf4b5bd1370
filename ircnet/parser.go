package ircnet

import "strings"

// LineKind classifies a raw IRC line by where it's routed.
type LineKind int

const (
	// KindUnknown covers anything the bot has no routing use for:
	// PING, numeric replies, joins/parts of users other than the bot,
	// malformed lines.
	KindUnknown LineKind = iota
	// KindServerPrivate is a PRIVMSG sent directly to the bot's nick
	// (BanchoBot match-creation confirmations, referee-bot replies
	// before a room_id is known).
	KindServerPrivate
	// KindRoomMessage is a PRIVMSG to a #mp_<id> channel: either a cue
	// from the referee bot or a command from a room user.
	KindRoomMessage
)

// Line is a parsed, classified IRC message.
type Line struct {
	Kind   LineKind
	Sender string
	Target string
	Body   string
	// RoomID is the numeric suffix of a #mp_<id> target, present only
	// for KindRoomMessage.
	RoomID string
}

// Parse classifies a single raw line (already stripped of its
// terminator). Any line that isn't a well-formed PRIVMSG is KindUnknown.
func Parse(raw string, botNick string) Line {
	if !strings.HasPrefix(raw, ":") {
		return Line{Kind: KindUnknown, Body: raw}
	}

	// ":sender!ident@host PRIVMSG target :body"
	// sender (an osu! username) may itself contain spaces, so it must be
	// taken up to the first "!", never up to the first space.
	rest := raw[1:]
	bangIdx := strings.IndexByte(rest, '!')
	var sender string
	if bangIdx >= 0 {
		sender = rest[:bangIdx]
	} else if spaceIdx := strings.IndexByte(rest, ' '); spaceIdx >= 0 {
		sender = rest[:spaceIdx]
	}
	sender = strings.ReplaceAll(sender, " ", "_")

	bodySepIdx := strings.Index(raw, " :")
	if bodySepIdx < 0 {
		return Line{Kind: KindUnknown, Sender: sender, Body: raw}
	}
	header := raw[:bodySepIdx]
	body := raw[bodySepIdx+2:]

	fields := strings.Fields(header)
	if len(fields) < 3 || fields[1] != "PRIVMSG" {
		return Line{Kind: KindUnknown, Sender: sender, Body: body}
	}
	target := fields[2]

	if strings.HasPrefix(target, "#mp_") {
		return Line{
			Kind:   KindRoomMessage,
			Sender: sender,
			Target: target,
			Body:   body,
			RoomID: strings.TrimPrefix(target, "#mp_"),
		}
	}

	if strings.EqualFold(target, botNick) {
		return Line{Kind: KindServerPrivate, Sender: sender, Target: target, Body: body}
	}

	return Line{Kind: KindUnknown, Sender: sender, Target: target, Body: body}
}
