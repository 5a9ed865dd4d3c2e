package tokenline

// maxLine bounds the line buffer, including its trailing NUL (§3).
const maxLine = 128

func (e *Engine) write(p []byte) {
	if e.out == nil {
		return
	}
	_, _ = e.out.Write(p)
}

func (e *Engine) writeByte(b byte) {
	e.write([]byte{b})
}

func (e *Engine) writeString(s string) {
	e.write([]byte(s))
}

// insertChar inserts b at the cursor, shifting the tail right if the
// cursor is interior, and echoes exactly the bytes needed to keep the
// terminal in sync (§4.2).
func (e *Engine) insertChar(b byte) {
	if e.cursor == e.lineLen {
		e.lineBuf[e.lineLen] = b
		e.lineLen++
		e.cursor++
		e.writeByte(b)
		return
	}

	copy(e.lineBuf[e.cursor+1:e.lineLen+1], e.lineBuf[e.cursor:e.lineLen])
	e.lineBuf[e.cursor] = b
	e.lineLen++

	tail := e.lineLen - e.cursor
	e.write(e.lineBuf[e.cursor:e.lineLen])
	for i := 0; i < tail-1; i++ {
		e.write(seqCursorLeft)
	}
	e.cursor++
}

// backspace deletes the byte left of the cursor (§4.2). Caller must ensure
// the cursor is not already at the start of the line.
func (e *Engine) backspace() {
	if e.cursor == e.lineLen {
		e.lineLen--
		e.cursor--
		e.write(seqBackspace)
		e.lineBuf[e.lineLen] = 0
		return
	}

	copy(e.lineBuf[e.cursor-1:e.lineLen-1], e.lineBuf[e.cursor:e.lineLen])
	e.lineLen--
	e.cursor--

	e.write(seqCursorLeft)
	e.write(e.lineBuf[e.cursor:e.lineLen])
	e.writeByte(' ')
	for i := 0; i < e.lineLen-e.cursor+1; i++ {
		e.write(seqCursorLeft)
	}
	e.lineBuf[e.lineLen] = 0
}

// deleteForward removes the byte under the cursor (the ESC [ 3 ~ action).
// A no-op if the cursor is already at end-of-line.
func (e *Engine) deleteForward() {
	if e.cursor == e.lineLen {
		return
	}
	copy(e.lineBuf[e.cursor:e.lineLen-1], e.lineBuf[e.cursor+1:e.lineLen])
	e.lineLen--

	e.write(e.lineBuf[e.cursor:e.lineLen])
	e.writeByte(' ')
	for i := 0; i < e.lineLen-e.cursor+1; i++ {
		e.write(seqCursorLeft)
	}
	e.lineBuf[e.lineLen] = 0
}

func (e *Engine) cursorLeft() {
	if e.cursor == 0 {
		return
	}
	e.cursor--
	e.write(seqCursorLeft1)
}

func (e *Engine) cursorRight() {
	if e.cursor == e.lineLen {
		return
	}
	e.cursor++
	e.write(seqCursorRight1)
}

func (e *Engine) cursorHome() {
	for e.cursor > 0 {
		e.cursor--
		e.write(seqCursorLeft)
	}
}

func (e *Engine) cursorEnd() {
	for e.cursor < e.lineLen {
		e.cursor++
		e.write(seqCursorRight)
	}
}

// killToEnd erases from the cursor to the end of the line (Ctrl-K).
func (e *Engine) killToEnd() {
	if e.lineLen <= e.cursor {
		return
	}
	n := e.lineLen - e.cursor
	for i := 0; i < n; i++ {
		e.writeByte(' ')
	}
	for i := 0; i < n; i++ {
		e.write(seqCursorLeft)
	}
	e.lineLen = e.cursor
	e.lineBuf[e.lineLen] = 0
}

// killPreviousWord deletes a run of trailing whitespace followed by the
// word before it (Ctrl-W).
func (e *Engine) killPreviousWord() {
	for e.cursor > 0 && e.lineBuf[e.cursor-1] == ' ' {
		e.backspace()
	}
	for e.cursor > 0 && e.lineBuf[e.cursor-1] != ' ' {
		e.backspace()
	}
}

// clearScreen redraws the prompt and current line after a Ctrl-L (§4.2).
// cursor and lineLen are left unchanged.
func (e *Engine) clearScreen() {
	e.write(seqClearScreen)
	e.write(e.prompt)
	e.write(e.lineBuf[:e.lineLen])
}

// clearVisibleLine moves to end-of-line and backspaces over every byte,
// leaving both the visible line and the buffer empty (lineLen and cursor
// end at 0); used before replacing the line wholesale on a history walk.
func (e *Engine) clearVisibleLine() {
	for e.cursor < e.lineLen {
		e.cursor++
		e.write(seqCursorRight)
	}
	for e.cursor > 0 {
		e.backspace()
	}
}

// setLine replaces the line buffer's contents with s, echoing it, when the
// cursor is at end-of-line (the only case callers use it for: after
// clearVisibleLine or on a fresh prompt). If s does not fit, it is
// truncated to a single '!' — an explicit, documented policy carried over
// from the source rather than a silent refusal (§9 Open Questions).
func (e *Engine) setLine(s string) {
	if len(s) > maxLine-1 {
		e.insertChar('!')
		return
	}
	if e.cursor != e.lineLen {
		return
	}
	e.write([]byte(s))
	copy(e.lineBuf[e.lineLen:], s)
	e.lineLen += len(s)
	e.cursor = e.lineLen
	e.lineBuf[e.lineLen] = 0
}
