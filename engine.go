package tokenline

import "io"

// Signal reports whether a byte fed to the engine should end the session.
type Signal int

const (
	SignalNone Signal = iota
	SignalExit
)

// Callback receives every line the grammar walker accepts.
type Callback func(*ParsedLine)

// historyCapacity is the ring buffer size backing command recall. It has no
// bearing on maxLine; a busy history simply recalls fewer distinct entries
// once full, per §4.4's eviction rule.
const historyCapacity = 2048

// Engine drives one interactive line-editing session: it consumes input a
// byte at a time (§4.1), echoes exactly enough to keep a VT100-class
// terminal in sync, and delivers each accepted line to a Callback as a
// ParsedLine. An Engine holds no goroutines and does no I/O beyond writing
// to the sink given to New; callers own the read loop.
type Engine struct {
	lineBuf [maxLine]byte
	lineLen int
	cursor  int

	prompt   []byte
	out      io.Writer
	callback Callback

	root TokenList
	dict TokenDict

	hist *history
	esc  escapeAccumulator

	parsed *ParsedLine
	log    Logger
}

// New builds an Engine that walks root against dict and writes echo output
// and diagnostics to out.
func New(root TokenList, dict TokenDict, out io.Writer) *Engine {
	return &Engine{
		out:    out,
		root:   root,
		dict:   dict,
		hist:   newHistory(historyCapacity, nil),
		parsed: newParsedLine(),
		log:    noopLogger{},
	}
}

func (e *Engine) SetPrompt(p string)      { e.prompt = []byte(p) }
func (e *Engine) SetCallback(cb Callback) { e.callback = cb }

// SetGrammar swaps the grammar tree the engine walks. Callers hot-swapping
// a grammar from a background watcher must wait for AtLineStart, since a
// swap mid-line would send later words down a tree the earlier ones were
// never validated against.
func (e *Engine) SetGrammar(root TokenList, dict TokenDict) {
	e.root = root
	e.dict = dict
}

// AtLineStart reports whether the line buffer is empty and the cursor is
// at its start — the only point at which a caller may safely call
// SetGrammar between Feed calls (§4.11).
func (e *Engine) AtLineStart() bool {
	return e.cursor == 0 && e.lineLen == 0
}

// SetLogger routes the engine's diagnostics (history eviction, escape
// overflow) through l. A nil l restores the default no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	e.log = l
	e.hist.log = l
}

// WritePrompt writes the current prompt to the print sink. Callers use it
// once before the first Feed to draw the initial prompt.
func (e *Engine) WritePrompt() { e.write(e.prompt) }

// History returns every stored history entry, newest first.
func (e *Engine) History() []string { return e.hist.all() }

// Feed advances the session by one input byte, echoing whatever the byte
// implies and returning SignalExit only when Ctrl-D arrives on an empty
// line. Every other outcome — a submitted line, a parse error, an escape
// sequence — is handled internally per §7's recovery rule: print, restore
// the prompt, keep accepting input.
func (e *Engine) Feed(b byte) (Signal, error) {
	if e.esc.active() {
		action, resolved, overflow := e.esc.feed(b)
		if !resolved {
			return SignalNone, nil
		}
		if overflow {
			e.log.Debug("escape sequence overflow")
			return SignalNone, nil
		}
		e.dispatchEscape(action)
		return SignalNone, nil
	}

	switch {
	case b == esc:
		e.esc.start()
	case b == cr || b == lf:
		e.submit()
	case b == tab:
		if e.cursor == e.lineLen {
			e.complete()
		}
	case b == ctrlD:
		if e.lineLen == 0 {
			return SignalExit, nil
		}
	case b == ctrlC:
		e.abortLine()
	case b == ctrlA:
		e.cursorHome()
	case b == ctrlE:
		e.cursorEnd()
	case b == ctrlK:
		e.killToEnd()
	case b == ctrlL:
		e.clearScreen()
	case b == ctrlW:
		e.killPreviousWord()
	case b == ctrlP:
		e.historyUp()
	case b == ctrlN:
		e.historyDown()
	case b == bs || b == del:
		if e.cursor > 0 {
			e.backspace()
		}
	case isPrintable(b):
		if e.lineLen < maxLine-1 {
			e.hist.step = noStep
			e.insertChar(b)
		}
	}
	return SignalNone, nil
}

func (e *Engine) dispatchEscape(a escapeAction) {
	switch a {
	case escUp:
		e.historyUp()
	case escDown:
		e.historyDown()
	case escRight:
		e.cursorRight()
	case escLeft:
		e.cursorLeft()
	case escHome:
		e.cursorHome()
	case escEnd:
		e.cursorEnd()
	case escDelete:
		e.deleteForward()
	}
}

func (e *Engine) historyUp() {
	line, ok := e.hist.up()
	if !ok {
		return
	}
	e.clearVisibleLine()
	e.setLine(line)
}

func (e *Engine) historyDown() {
	if e.hist.step == noStep {
		return
	}
	line, ok := e.hist.down()
	e.clearVisibleLine()
	if ok {
		e.setLine(line)
	}
}

func (e *Engine) abortLine() {
	e.writeString("^C\r\n")
	e.resetLine()
}

// resetLine clears the buffer, ends any history walk, and redraws the
// prompt for the next line. Every terminal path through Feed (submit,
// abort) funnels through this so the prompt invariant never drifts.
func (e *Engine) resetLine() {
	for i := 0; i < e.lineLen; i++ {
		e.lineBuf[i] = 0
	}
	e.lineLen = 0
	e.cursor = 0
	e.hist.step = noStep
	e.WritePrompt()
}
