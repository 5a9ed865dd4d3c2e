package tokenline

import "strings"

// complete implements Tab completion (§4.8 continued): it replays the
// already-typed complete words against the grammar to find the level the
// operator is currently at, then either finishes a uniquely-prefixed word
// in place or lists every legal continuation and redraws the prompt.
//
// It is only ever called with the cursor at end-of-line (Feed enforces
// that), so it can read straight out of lineBuf without needing its own
// copy of the cursor/lineLen split.
func (e *Engine) complete() {
	line := string(e.lineBuf[:e.lineLen])
	trailingSpace := e.lineLen > 0 && line[e.lineLen-1] == ' '

	fields := strings.Fields(line)
	var prefix string
	if trailingSpace || len(fields) == 0 {
		prefix = ""
	} else {
		prefix = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}

	list, argKind, ok := e.replay(fields)
	if !ok {
		return
	}
	if argKind != ArgNone {
		// The grammar wants a free-form value here. If the operator hasn't
		// started typing it yet, name the expected kind; a value already in
		// progress (prefix != "") can't be completion-matched at all.
		if prefix == "" {
			e.printArgPlaceholder(argKind)
		}
		return
	}

	matches := candidates(list, e.dict, prefix)
	switch len(matches) {
	case 0:
		// Nothing legal continues this word: do nothing.
	case 1:
		name := e.dict.display(list[matches[0]].ID)
		for i := len(prefix); i < len(name); i++ {
			e.insertChar(name[i])
		}
		if list[matches[0]].ArgType != ArgHelpOnly {
			e.insertChar(' ')
		}
	default:
		e.printCandidates(list, matches)
	}
}

// replay walks fields (already-complete words) through the grammar exactly
// as tokenize does, but only to find the resulting level. Unlike tokenize
// it never has a value in hand to validate: an ArgToken argument is still
// matched against its value list (so completion can offer the rest of that
// list), but ArgInteger/ArgFloat/ArgString arguments are free-form. If
// fields end exactly where one of those is expected, replay reports the
// expected kind instead of a list, so the caller can name it; the returned
// TokenList is nil in that case.
func (e *Engine) replay(fields []string) (TokenList, ArgKind, bool) {
	list := e.root
	i := 0
	for i < len(fields) {
		if len(list) == 0 {
			return nil, ArgNone, false
		}
		idx := matchToken(list, e.dict, fields[i])
		if idx == -1 {
			return nil, ArgNone, false
		}
		entry := list[idx]
		i++

		switch entry.ArgType {
		case ArgNone:
			list = entry.Sub
		case ArgHelpOnly:
			// Stays on the same list; a HELP_ONLY entry never descends.
		case ArgToken:
			if i == len(fields) {
				return entry.Sub, ArgNone, true
			}
			aidx := matchToken(entry.Sub, e.dict, fields[i])
			if aidx == -1 {
				return nil, ArgNone, false
			}
			list = entry.Sub[aidx].Sub
			i++
		default: // ArgInteger, ArgFloat, ArgString
			if i == len(fields) {
				return nil, entry.ArgType, true
			}
			i++
			list = entry.Sub
		}
	}
	return list, ArgNone, true
}

// argPlaceholder names the free-form value the grammar expects at this
// position, the way tab completion names a token candidate.
func argPlaceholder(kind ArgKind) string {
	switch kind {
	case ArgInteger:
		return "<integer>"
	case ArgFloat:
		return "<float>"
	case ArgString:
		return "<string>"
	default:
		return ""
	}
}

// printArgPlaceholder tells the operator what kind of value is expected
// next, then redraws the prompt and the untouched line beneath it.
func (e *Engine) printArgPlaceholder(kind ArgKind) {
	e.writeString("\r\n" + argPlaceholder(kind) + "\r\n")
	e.write(e.prompt)
	e.write(e.lineBuf[:e.lineLen])
}

// candidates returns the indices of every entry in list whose display name
// carries prefix, exact match included.
func candidates(list TokenList, dict TokenDict, prefix string) []int {
	var out []int
	for i := range list {
		if strings.HasPrefix(dict.display(list[i].ID), prefix) {
			out = append(out, i)
		}
	}
	return out
}

// printCandidates lists every legal continuation on its own line, along
// with its help text if it has one, then redraws the prompt and the
// untouched line beneath it.
func (e *Engine) printCandidates(list TokenList, idxs []int) {
	e.writeString("\r\n")
	for _, i := range idxs {
		name := e.dict.display(list[i].ID)
		if h := list[i].Help; h != "" {
			e.writeString(name + "\t" + h + "\r\n")
		} else {
			e.writeString(name + "\r\n")
		}
	}
	e.write(e.prompt)
	e.write(e.lineBuf[:e.lineLen])
}
