package sgr

import "github.com/lixenwraith/vi-arcade/terminal"

// maxCarry bounds the unterminated tail held between writes
const maxCarry = 64

// Stream applies a transform across consecutive writes. A trailing SGR
// prefix without its final 'm' is held back and joined with the next chunk.
// Not safe for concurrent use; the session serializes writes.
type Stream struct {
	t       Transform
	pending string
}

func NewStream(t Transform) *Stream {
	return &Stream{t: t}
}

// SetTransform swaps the transform; a held tail is kept and later rewritten
// with the new one
func (s *Stream) SetTransform(t Transform) {
	s.t = t
}

// Rewrite returns the rewritten text ready to be written out
func (s *Stream) Rewrite(chunk string) string {
	text := chunk
	if s.pending != "" {
		text = s.pending + chunk
		s.pending = ""
	}
	if cut := partialTail(text); cut >= 0 {
		s.pending = text[cut:]
		text = text[:cut]
	}
	return Rewrite(text, s.t)
}

// Flush returns any held tail as-is
func (s *Stream) Flush() string {
	p := s.pending
	s.pending = ""
	return p
}

// Pending reports the number of held bytes
func (s *Stream) Pending() int {
	return len(s.pending)
}

// partialTail returns the index of a trailing incomplete SGR prefix, or -1
func partialTail(text string) int {
	start := -1
	for i := len(text) - 1; i >= 0 && len(text)-i <= maxCarry; i-- {
		if text[i] == terminal.ESC[0] {
			start = i
			break
		}
	}
	if start < 0 {
		return -1
	}

	tail := text[start+1:]
	if tail == "" {
		return start
	}
	if tail[0] != '[' {
		return -1
	}
	for j := 1; j < len(tail); j++ {
		if !isParamByte(tail[j]) {
			return -1
		}
	}
	return start
}
