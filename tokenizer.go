package tokenline

import "strconv"

// tokenize walks words against root, resolving each against dict with
// matchToken and descending the grammar tree one level per word (§4.8). It
// is the single-pass equivalent of the source's recursive descent: root is
// the starting level, and after an entry (and its argument, if it takes
// one) entry.Sub is what's legal next. Two kinds differ: for ArgToken,
// entry.Sub supplies the argument's legal values and the matched value's
// own Sub is what's legal next; an ArgHelpOnly entry keeps the current
// level.
func tokenize(root TokenList, dict TokenDict, words []string, parsed *ParsedLine) error {
	list := root
	i := 0

	for i < len(words) {
		if len(list) == 0 {
			return errKind(TooManyArgs)
		}

		idx := matchToken(list, dict, words[i])
		if idx == -1 {
			return errKind(InvalidCommand)
		}
		entry := &list[idx]
		parsed.Tokens = append(parsed.Tokens, entry.ID)
		parsed.LastEntry = entry
		i++

		switch entry.ArgType {
		case ArgNone:
			list = entry.Sub

		case ArgHelpOnly:
			// Documentation-only: matching continues against the same list,
			// not entry.Sub, which is typically nil.

		case ArgToken:
			if i >= len(words) {
				return errKind(MissingArgument)
			}
			aidx := matchToken(entry.Sub, dict, words[i])
			if aidx == -1 {
				return errKind(InvalidValue)
			}
			sub := &entry.Sub[aidx]
			parsed.Tokens = append(parsed.Tokens, sub.ID)
			parsed.LastEntry = sub
			i++
			list = sub.Sub

		case ArgInteger:
			if i >= len(words) {
				return errKind(MissingArgument)
			}
			v, err := strconv.ParseInt(words[i], 0, 64)
			if err != nil {
				return errKind(InvalidValue)
			}
			off := parsed.putInt(v)
			parsed.Tokens = append(parsed.Tokens, int(ArgInteger), off)
			i++
			list = entry.Sub

		case ArgFloat:
			if i >= len(words) {
				return errKind(MissingArgument)
			}
			v, err := strconv.ParseFloat(words[i], 64)
			if err != nil {
				return errKind(InvalidValue)
			}
			off := parsed.putFloat(v)
			parsed.Tokens = append(parsed.Tokens, int(ArgFloat), off)
			i++
			list = entry.Sub

		case ArgString:
			if i >= len(words) {
				return errKind(MissingArgument)
			}
			off := parsed.putString(words[i])
			parsed.Tokens = append(parsed.Tokens, int(ArgString), off)
			i++
			list = entry.Sub
		}
	}

	parsed.Tokens = append(parsed.Tokens, 0)
	return nil
}
