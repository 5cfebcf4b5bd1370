package registry

import "fmt"

// RoomJoiner is the subset of transport behavior the reconciler needs:
// a raw JOIN line, and a PRIVMSG to the referee bot requesting a room
// be made.
type RoomJoiner interface {
	Send(target, body string) error
	SendRaw(line string) error
}

// Reconciler ticks the registry: rooms with a bound room_id that aren't
// yet connected get (re)joined; rooms with no room_id yet get a creation
// request sent to the referee bot. Re-running after a reconnect is what
// re-establishes every room without resetting Created.
type Reconciler struct {
	Registry *Registry
	Sender   RoomJoiner
}

// NewReconciler builds a Reconciler over reg, sending JOIN/mp make lines
// through sender.
func NewReconciler(reg *Registry, sender RoomJoiner) *Reconciler {
	return &Reconciler{Registry: reg, Sender: sender}
}

// Tick performs one reconciliation pass over every registered room.
func (r *Reconciler) Tick() error {
	for _, s := range r.Registry.All() {
		state := s.State
		switch {
		case state.RoomID != "" && !state.Connected:
			if err := r.Sender.SendRaw(fmt.Sprintf("JOIN #mp_%s", state.RoomID)); err != nil {
				return err
			}
			state.Connected = true
		case !state.Created:
			if err := r.Sender.Send(RefereeBotName, fmt.Sprintf("mp make %s", state.Config.Name)); err != nil {
				return err
			}
			state.Created = true
		}
	}
	return nil
}
