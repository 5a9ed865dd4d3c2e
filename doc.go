// Package tokenline implements a byte-streamed interactive command line
// editor: feed it one input byte at a time, and it echoes VT100 escape
// sequences to keep a terminal's visible line in sync, tab-completes and
// recalls history, and hands each accepted line to a callback as a
// ParsedLine walked against a caller-supplied grammar tree.
package tokenline
