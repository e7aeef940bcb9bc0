// @focus: #terminal { ansi }
package terminal

// ANSI sequence fragments emitted by the session layer.
// All private modes are best-effort: terminals that lack one ignore it.
const (
	ESC = "\x1b"
	CSI = "\x1b["

	SGRReset = "\x1b[0m"
	Clear    = "\x1b[2J"
	Home     = "\x1b[H"
	RIS      = "\x1bc" // Reset to Initial State (emergency)

	CursorHide = "\x1b[?25l"
	CursorShow = "\x1b[?25h"

	AltScreenEnter = "\x1b[?1049h"
	AltScreenExit  = "\x1b[?1049l"

	// Synchronized output (mode 2026): terminal paints the bracketed batch as one frame
	SyncStart = "\x1b[?2026h"
	SyncEnd   = "\x1b[?2026l"
)

// Composite sequences
const (
	// AltScreenEnterSeq enters the alternate buffer, hides the cursor and clears/homes
	AltScreenEnterSeq = AltScreenEnter + CursorHide + Clear + Home

	// AltScreenExitSeq leaves the alternate buffer and restores the cursor
	AltScreenExitSeq = AltScreenExit + CursorShow

	// RestoreSeq is written on teardown; every part is safe to repeat
	RestoreSeq = AltScreenExit + CursorShow + SGRReset
)

// Frame wraps text in the synchronized-output bracket
func Frame(text string) string {
	return SyncStart + text + SyncEnd
}
