package tokenline

// Control byte values recognized by the input dispatcher. Names follow the
// ASCII control character mnemonics; only the ones the editor actually
// binds a key to are given a symbolic name here, matching the key table.
const (
	ctrlA = 0x01 // start of line
	ctrlC = 0x03 // abort line
	ctrlD = 0x04 // end of transmission / exit on empty line
	ctrlE = 0x05 // end of line
	bs    = 0x08 // backspace
	tab   = 0x09
	lf    = 0x0A
	ctrlK = 0x0B // kill to end of line
	ctrlL = 0x0C // clear screen
	cr    = 0x0D
	ctrlN = 0x0E // history next
	ctrlP = 0x10 // history previous
	ctrlW = 0x17 // kill previous word
	esc   = 0x1B
	del   = 0x7F // treated the same as backspace

	printableLo = 0x20
	printableHi = 0x7E
)

// Output byte sequences the engine writes to the print sink to keep a
// VT100-class terminal's visible state in sync with the line buffer. These
// are the only escape sequences the engine ever emits; §4.3 covers the
// set it recognizes on input.
var (
	seqCursorRight  = []byte{esc, '[', 'C'}
	seqCursorLeft   = []byte{esc, '[', 'D'}
	seqCursorRight1 = []byte{esc, '[', '1', 'C'}
	seqCursorLeft1  = []byte{esc, '[', '1', 'D'}
	seqBackspace    = []byte{esc, '[', 'D', ' ', esc, '[', 'D'}
	seqClearScreen  = []byte{esc, '[', '2', 'J', esc, '[', 'H'}
)

func isPrintable(b byte) bool {
	return b >= printableLo && b <= printableHi
}
