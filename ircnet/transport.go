// Package ircnet implements the IRC transport, line framing, and line
// parser: one duplex connection to the IRC server, a read buffer split at
// line terminators, and classification of each complete line as a room
// message, a private message to the bot, or unknown. There is no separate
// server-notice kind: lines from the server host are classified unknown.
package ircnet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"golang.org/x/time/rate"
)

// Conn is the duplex byte-stream contract the bot requires of its
// transport: any connect/send/recv/close implementation is acceptable,
// not just a real TCP socket — this is what lets tests substitute an
// in-memory pipe.
type Conn interface {
	// Send writes a single line, appending the line terminator, in one
	// atomic write.
	Send(line string) error
	// Recv returns whatever bytes are currently available (a bounded
	// read). An empty read with a nil error signals peer close.
	Recv() ([]byte, error)
	Close() error
}

const recvBufferSize = 2048

// TCPConn is the concrete net.Conn-backed Conn implementation.
type TCPConn struct {
	conn net.Conn
}

// DialTCP connects to addr within timeout and immediately sends PASS and
// NICK. It distinguishes timeout, DNS resolution failure, and
// connection-refused errors in the returned error's wrapped chain; no
// retries happen at this level.
func DialTCP(addr, username, password string, timeout time.Duration) (*TCPConn, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("connect to %s timed out: %w", addr, err)
		}
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return nil, fmt.Errorf("resolve %s failed: %w", addr, err)
		}
		return nil, fmt.Errorf("connect to %s refused: %w", addr, err)
	}

	tc := &TCPConn{conn: conn}
	if err := tc.Send("PASS " + password); err != nil {
		_ = tc.Close()
		return nil, fmt.Errorf("send PASS: %w", err)
	}
	if err := tc.Send("NICK " + username); err != nil {
		_ = tc.Close()
		return nil, fmt.Errorf("send NICK: %w", err)
	}
	return tc, nil
}

func (t *TCPConn) Send(line string) error {
	_, err := io.WriteString(t.conn, line+"\r\n")
	return err
}

func (t *TCPConn) Recv() ([]byte, error) {
	buf := make([]byte, recvBufferSize)
	n, err := t.conn.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return buf[:n], nil
}

func (t *TCPConn) Close() error {
	return t.conn.Close()
}

// PacedSender enforces a minimum inter-send gap: at most one outbound
// line per window, FIFO, as a token-bucket gate rather than a sleep at
// each call site.
type PacedSender struct {
	conn    Conn
	limiter *rate.Limiter
}

// NewPacedSender builds a sender that allows one send per gap, with a
// burst of one (sends never pile up and release in a batch).
func NewPacedSender(conn Conn, gap time.Duration) *PacedSender {
	return &PacedSender{
		conn:    conn,
		limiter: rate.NewLimiter(rate.Every(gap), 1),
	}
}

// Send blocks until the pacing gate admits this line, then writes it.
// Because rate.Limiter.Wait queues reservations FIFO, concurrent callers
// preserve send order.
func (p *PacedSender) Send(line string) error {
	if err := p.limiter.Wait(context.Background()); err != nil {
		return err
	}
	return p.conn.Send(line)
}

// IRCSender is the one outbound edge every higher-level component uses:
// raw control lines (JOIN, NICK) go through SendRaw; chat messages to a
// room or to the referee bot go through Send, which layers the PRIVMSG
// framing. All game control is layered as chat messages to a room or to
// the referee bot user.
type IRCSender struct {
	Paced *PacedSender
}

// NewIRCSender wraps a paced line sender.
func NewIRCSender(paced *PacedSender) *IRCSender {
	return &IRCSender{Paced: paced}
}

// Send formats and sends a PRIVMSG to target.
func (s *IRCSender) Send(target, body string) error {
	return s.Paced.Send(fmt.Sprintf("PRIVMSG %s : %s", target, body))
}

// SendRaw sends line verbatim (JOIN, NICK, and the like).
func (s *IRCSender) SendRaw(line string) error {
	return s.Paced.Send(line)
}
