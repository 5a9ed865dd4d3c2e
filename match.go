package tokenline

import "strings"

// matchToken resolves word against list by exact-or-unique-prefix match
// (§4.7). An exact match always wins, even when the word is also a prefix
// of some other entry's display string. Returns -1 if there is no match or
// the prefix match is ambiguous.
func matchToken(list TokenList, dict TokenDict, word string) int {
	for i := range list {
		if dict.display(list[i].ID) == word {
			return i
		}
	}

	partial := -1
	for i := range list {
		name := dict.display(list[i].ID)
		if len(word) >= len(name) {
			continue
		}
		if strings.HasPrefix(name, word) {
			if partial != -1 {
				return -1
			}
			partial = i
		}
	}
	return partial
}
