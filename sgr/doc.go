// Package sgr rewrites SGR (Select Graphic Rendition) color codes in an
// outbound ANSI stream so embedded programs stay readable on the host theme.
//
// Only ESC [ params m sequences are inspected; all other bytes, including
// every other escape sequence, pass through untouched. A sequence that no
// rule changes is reproduced byte-for-byte.
package sgr
