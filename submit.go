package tokenline

import "strconv"

// submit handles CR/LF (§4.9): echo the newline, push non-empty lines onto
// history, split into words, dispatch the two built-in words the grammar
// tree never sees, otherwise walk the grammar and hand a successful parse
// to the callback. Every path ends by resetting the line and redrawing the
// prompt, whether the line parsed or not.
func (e *Engine) submit() {
	e.writeString("\r\n")
	line := string(e.lineBuf[:e.lineLen])
	defer e.resetLine()

	if line == "" {
		return
	}
	e.hist.push(line)

	words := make([]int, maxWords)
	n, err := splitWords(e.lineBuf[:e.lineLen], e.lineLen, words)
	if err != nil {
		e.printError(err)
		return
	}
	if n == 0 {
		return
	}

	wordStrs := make([]string, n)
	for i := 0; i < n; i++ {
		wordStrs[i] = cStrAt(e.lineBuf[:], words[i])
	}

	switch wordStrs[0] {
	case "help":
		e.printHelp(wordStrs)
		return
	case "history":
		e.printHistory()
		return
	}

	e.parsed.reset()
	if perr := tokenize(e.root, e.dict, wordStrs, e.parsed); perr != nil {
		e.printError(perr)
		return
	}
	if e.callback != nil {
		e.callback(e.parsed)
	}
}

func (e *Engine) printError(err error) {
	if pe, ok := err.(*ParseError); ok {
		e.writeString(pe.Kind.message() + "\r\n")
		return
	}
	e.writeString(err.Error() + "\r\n")
}

// cStrAt reads a NUL-terminated string out of buf starting at offset, as
// left behind by splitWords.
func cStrAt(buf []byte, offset int) string {
	end := offset
	for end < len(buf) && buf[end] != 0 {
		end++
	}
	return string(buf[offset:end])
}

// printHelp implements the "help" and "help <command...>" builtins (§4.9).
// Bare help lists the whole top-level grammar. Otherwise it walks the
// remaining words through the grammar exactly as tokenize does, silently
// (any error tokenize would return is discarded — only how far it got
// matters), and reports on whatever entry it last matched: its help text,
// its subtokens, or "No help available." if it has neither.
func (e *Engine) printHelp(words []string) {
	e.writeString("\r\n")
	if len(words) <= 1 {
		e.printGrammarList(e.root)
		return
	}

	scratch := newParsedLine()
	_ = tokenize(e.root, e.dict, words[1:], scratch)
	entry := scratch.LastEntry
	if entry == nil {
		e.writeString("No help available.\r\n")
		return
	}

	printed := false
	if entry.Help != "" {
		e.writeString(entry.Help + "\r\n")
		printed = true
	}
	if len(entry.Sub) > 0 {
		e.printGrammarList(entry.Sub)
		printed = true
	}
	if !printed {
		e.writeString("No help available.\r\n")
	}
}

// printGrammarList lists every entry in list, one per line, with its help
// text right-padded on after a tab when it has one.
func (e *Engine) printGrammarList(list TokenList) {
	for _, entry := range list {
		name := e.dict.display(entry.ID)
		if entry.Help != "" {
			e.writeString(name + "\t" + entry.Help + "\r\n")
		} else {
			e.writeString(name + "\r\n")
		}
	}
}

// printHistory lists every recalled command newest-first, numbered from 1,
// skipping index 0 — the "history" line just pushed by this very call,
// which would otherwise list itself.
func (e *Engine) printHistory() {
	all := e.hist.all()
	e.writeString("\r\n")
	for i := 1; i < len(all); i++ {
		e.writeString(strconv.Itoa(i) + "  " + all[i] + "\r\n")
	}
}
