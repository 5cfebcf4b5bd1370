package ircnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramerSplitsCompleteLines(t *testing.T) {
	var f Framer
	lines := f.Feed([]byte("PING :a\r\nPRIVMSG #mp_1 :hi\r\n"))
	assert.Equal(t, []string{"PING :a", "PRIVMSG #mp_1 :hi"}, lines)
}

func TestFramerHoldsPartialFragment(t *testing.T) {
	var f Framer
	lines := f.Feed([]byte("PRIVMSG #mp_1 :par"))
	assert.Empty(t, lines)

	lines = f.Feed([]byte("tial\r\nPING :b\r\n"))
	assert.Equal(t, []string{"PRIVMSG #mp_1 :partial", "PING :b"}, lines)
}

func TestFramerHandlesLineWithoutCR(t *testing.T) {
	var f Framer
	lines := f.Feed([]byte("PING :a\n"))
	assert.Equal(t, []string{"PING :a"}, lines)
}
