// @focus: #sys { term }
// Package terminal provides the raw ANSI protocol pieces shared by every game session.
//
// Features:
//   - Raw-mode tty backend with poll-based interruptible reads and SIGWINCH
//   - Chunk-to-key decoding with DOM-style key descriptors
//   - Synthetic keyup scheduling for byte streams that only report presses
//   - sRGB / WCAG luminance and contrast math over the xterm 256-color palette
//   - Emergency terminal restoration for crash paths
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
