package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/astrolabio1417/testbot/ircnet"
)

// ErrDisconnected is returned by Run when the transport read loop hits
// an error or an empty read (peer close).
var ErrDisconnected = errors.New("registry: transport disconnected")

// Engine is the single event loop tying a connection together: a reader
// goroutine splits received bytes into lines, and the loop dispatches each
// line and drives the reconciler on every tick. All RoomState mutation for
// every room happens inside this loop.
type Engine struct {
	Conn       ircnet.Conn
	Sender     *ircnet.IRCSender
	Dispatcher *Dispatcher
	Reconciler *Reconciler
	Registry   *Registry
	BotNick    string
	Logger     *zap.Logger

	framer ircnet.Framer
}

// NewEngine wires a connection, sender, dispatcher, and reconciler into
// one runnable loop.
func NewEngine(conn ircnet.Conn, sender *ircnet.IRCSender, dispatcher *Dispatcher, reconciler *Reconciler, reg *Registry, botNick string, logger *zap.Logger) *Engine {
	return &Engine{
		Conn:       conn,
		Sender:     sender,
		Dispatcher: dispatcher,
		Reconciler: reconciler,
		Registry:   reg,
		BotNick:    botNick,
		Logger:     logger,
	}
}

type frameOrErr struct {
	line string
	err  error
}

// Run drives the loop until ctx is cancelled (graceful shutdown) or the
// transport disconnects (ErrDisconnected, or a wrapped read error). The
// caller is responsible for reconnecting: each call to Run owns exactly
// one connection's lifetime.
func (e *Engine) Run(ctx context.Context, reconcileTick <-chan time.Time) error {
	frames := make(chan frameOrErr, 16)
	var g errgroup.Group
	g.Go(func() error {
		e.readLoop(frames)
		return nil
	})

	runErr := e.loop(ctx, frames, reconcileTick)

	// readLoop only exits once Conn.Recv returns an error or an empty
	// read, so the transport is closed here on both the ctx.Done() path
	// (shutdown only sends "!mp close") and the disconnect path, which
	// keeps g.Wait() from blocking forever.
	_ = e.Conn.Close()
	_ = g.Wait()

	return runErr
}

func (e *Engine) loop(ctx context.Context, frames <-chan frameOrErr, reconcileTick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return nil

		case f := <-frames:
			if f.err != nil {
				e.Registry.ClearConnected()
				return fmt.Errorf("%w: %v", ErrDisconnected, f.err)
			}
			line := ircnet.Parse(f.line, e.BotNick)
			if err := e.Dispatcher.Dispatch(line); err != nil {
				e.Logger.Error("dispatch failed", zap.String("line", f.line), zap.Error(err))
			}

		case <-reconcileTick:
			if err := e.Reconciler.Tick(); err != nil {
				e.Logger.Error("reconcile tick failed", zap.Error(err))
			}
		}
	}
}

func (e *Engine) readLoop(out chan<- frameOrErr) {
	for {
		chunk, err := e.Conn.Recv()
		if err != nil {
			out <- frameOrErr{err: err}
			return
		}
		if len(chunk) == 0 {
			out <- frameOrErr{err: errors.New("peer closed connection")}
			return
		}
		for _, line := range e.framer.Feed(chunk) {
			out <- frameOrErr{line: line}
		}
	}
}

// shutdown closes out every bound room with "!mp close" before Run closes
// the transport, so a graceful stop doesn't leave rooms orphaned on the
// server.
func (e *Engine) shutdown() {
	for _, s := range e.Registry.All() {
		if s.State.RoomID == "" {
			continue
		}
		if err := e.Sender.Send("#mp_"+s.State.RoomID, "!mp close"); err != nil {
			e.Logger.Error("failed to close room on shutdown", zap.String("room", s.State.Config.Name), zap.Error(err))
		}
	}
}
