// Package input turns a raw terminal byte stream into per-frame key events.
package input

import (
	"bufio"
)

// Control bytes.
const (
	keyCtrlC  = 0x03
	keyCtrlR  = 0x12
	keyTab    = '\t'
	keyEscape = 0x1b
)

// Input represents the keys pressed since the previous frame.
// Every byte is one press; there is no held-key state.
type Input struct {
	Keys    []rune // Printable keys in the order they were typed
	Enter   bool
	Tab     bool
	Escape  bool
	Up      bool
	Down    bool
	Quit    bool // Ctrl-C
	Restart bool // Ctrl-R
	Number  int  // Last digit typed this frame, or -1
	Closed  bool // The underlying reader is exhausted
	Pressed []byte
}

// Any reports whether anything was pressed this frame.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes read by a background goroutine.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Parse(buf)
	in.Closed = s.closed
	return in
}

// Parse decodes a frame's worth of bytes.
func Parse(buf []byte) Input {
	in := Input{Number: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence ESC [ <code>, or SS3 ESC O <code> in application cursor mode
		if b == keyEscape && i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			switch buf[i+2] {
			case 'A':
				in.Up = true
			case 'B':
				in.Down = true
			}
			i += 2
			continue
		}

		switch {
		case b == keyCtrlC:
			in.Quit = true
		case b == keyCtrlR:
			in.Restart = true
		case b == '\r' || b == '\n':
			in.Enter = true
		case b == keyTab:
			in.Tab = true
		case b == keyEscape:
			in.Escape = true
		case b >= 0x20 && b < 0x7f:
			in.Keys = append(in.Keys, rune(b))
			if b >= '0' && b <= '9' {
				in.Number = int(b - '0')
			}
		}
	}
	return in
}
