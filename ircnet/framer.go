package ircnet

import "strings"

// Framer accumulates bytes from bounded reads and splits them into
// complete lines at "\n". A trailing fragment with no terminator yet is
// held across calls until more bytes arrive.
type Framer struct {
	buf strings.Builder
}

// Feed appends newly received bytes and returns every complete line now
// available, stripped of its terminator and any trailing "\r". Order is
// preserved; an empty slice means no complete line yet.
func (f *Framer) Feed(chunk []byte) []string {
	f.buf.Write(chunk)
	pending := f.buf.String()

	var lines []string
	for {
		idx := strings.IndexByte(pending, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSuffix(pending[:idx], "\r")
		lines = append(lines, line)
		pending = pending[idx+1:]
	}

	f.buf.Reset()
	f.buf.WriteString(pending)
	return lines
}
