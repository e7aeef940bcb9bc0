package terminal

import "bytes"

// EventType mirrors the DOM keyboard event type
type EventType string

const (
	KeyDown EventType = "keydown"
	KeyUp   EventType = "keyup"
)

// DomEvent is a browser-style keyboard event descriptor, so game logic
// written against a web terminal widget runs unmodified on a raw tty.
// Modifier flags are always false: raw input cannot report them reliably.
type DomEvent struct {
	Key      string
	Code     string
	KeyCode  int
	Which    int
	CtrlKey  bool
	ShiftKey bool
	AltKey   bool
	MetaKey  bool
	Repeat   bool
	Type     EventType
}

// PreventDefault is a no-op kept for browser event compatibility
func (DomEvent) PreventDefault() {}

// StopPropagation is a no-op kept for browser event compatibility
func (DomEvent) StopPropagation() {}

// StopImmediatePropagation is a no-op kept for browser event compatibility
func (DomEvent) StopImmediatePropagation() {}

// KeyEvent is one logical key press or synthetic release
type KeyEvent struct {
	Key      string
	DomEvent DomEvent
}

// NewKeyEvent builds the event for a decoded logical key
func NewKeyEvent(key string, typ EventType) KeyEvent {
	d := describeKey(key)
	return KeyEvent{
		Key: key,
		DomEvent: DomEvent{
			Key:     key,
			Code:    d.code,
			KeyCode: d.keyCode,
			Which:   d.keyCode,
			Type:    typ,
		},
	}
}

// DecodeKey classifies one input chunk as a logical key name.
// Each chunk is taken to hold exactly one key; no state is kept between chunks.
// Checked in order, first match wins:
//  1. arrow sequences (CSI and SS3 forms)
//  2. CR or LF -> Enter
//  3. lone ESC -> Escape
//  4. space
//  5. DEL or BS -> Backspace
//  6. HT -> Tab
//  7. ETX -> "c" (the session intercepts the raw byte before decoding)
//  8. any other single character, as is
//  9. anything else, verbatim
func DecodeKey(chunk string) string {
	if key, ok := arrowMap[chunk]; ok {
		return key
	}

	if len(chunk) == 1 {
		switch chunk[0] {
		case byteCR, byteLF:
			return KeyEnter
		case byteESC:
			return KeyEscape
		case ' ':
			return KeySpace
		case byteDEL, byteBS:
			return KeyBackspace
		case byteTab:
			return KeyTab
		case byteETX:
			return "c"
		}
	}

	// Printable runes and unrecognized sequences alike pass through
	return chunk
}

// IsInterrupt reports whether the chunk carries a raw Ctrl+C byte
func IsInterrupt(chunk []byte) bool {
	return bytes.IndexByte(chunk, byteETX) >= 0
}
