// Package grammarfile loads a tokenline grammar tree from YAML, the way an
// operator would hand-author or generate one for a specific device's
// command set, and can assemble one out of many fragment files spread
// across a directory (see Load).
package grammarfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/serialconsole/tokenline"
	"github.com/serialconsole/tokenline/internal/symwalk"
)

// entry mirrors tokenline.TokenEntry but in a shape yaml.v2 can decode
// directly: a word's display name rather than a token ID, since IDs are
// only meaningful once assigned by Compile.
type entry struct {
	Word    string  `yaml:"word"`
	Help    string  `yaml:"help,omitempty"`
	Arg     string  `yaml:"arg,omitempty"` // "", "int", "float", "string", "token", "help"
	Entries []entry `yaml:"entries,omitempty"`
}

// Document is the top-level shape of one grammar YAML file: a named
// command set. Load merges the documents of a directory by top-level word
// (later files win); Name is decoded but plays no part in merging.
type Document struct {
	Name    string  `yaml:"name"`
	Entries []entry `yaml:"entries"`
}

// Parse decodes a single YAML document into a Document. It does not assign
// token IDs; call Compile on the result (or use Load, which does both).
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("grammarfile: parse: %w", err)
	}
	return &doc, nil
}

// argKind maps a YAML arg tag to its ArgKind, defaulting to ArgNone for an
// empty tag and reporting an error for anything unrecognized so a typo in
// a hand-edited grammar file fails loudly instead of silently becoming a
// bare token.
func argKind(tag string) (tokenline.ArgKind, error) {
	switch tag {
	case "":
		return tokenline.ArgNone, nil
	case "int":
		return tokenline.ArgInteger, nil
	case "float":
		return tokenline.ArgFloat, nil
	case "string":
		return tokenline.ArgString, nil
	case "token":
		return tokenline.ArgToken, nil
	case "help":
		return tokenline.ArgHelpOnly, nil
	default:
		return 0, fmt.Errorf("grammarfile: unknown arg kind %q", tag)
	}
}

// Compile assigns a stable token ID to every word in doc's tree (depth-first
// in document order, each entry's children numbered before the entry
// itself) and returns the resulting grammar plus the
// dictionary the engine needs to display those IDs back as words.
func Compile(doc *Document) (tokenline.TokenList, tokenline.TokenDict, error) {
	dict := tokenline.TokenDict{}
	nextID := 1
	list, err := compileList(doc.Entries, dict, &nextID)
	if err != nil {
		return nil, nil, err
	}
	return list, dict, nil
}

func compileList(entries []entry, dict tokenline.TokenDict, nextID *int) (tokenline.TokenList, error) {
	list := make(tokenline.TokenList, 0, len(entries))
	for _, en := range entries {
		if en.Word == "" {
			return nil, fmt.Errorf("grammarfile: entry with empty word")
		}
		kind, err := argKind(en.Arg)
		if err != nil {
			return nil, err
		}
		sub, err := compileList(en.Entries, dict, nextID)
		if err != nil {
			return nil, err
		}
		id := *nextID
		*nextID++
		dict[id] = en.Word
		list = append(list, tokenline.TokenEntry{
			ID:      id,
			Help:    en.Help,
			ArgType: kind,
			Sub:     sub,
		})
	}
	return list, nil
}

// Load reads every *.yaml/*.yml file under root (following symlinked
// subtrees via symwalk, so a shared fragment checked out once can be
// linked into several profile directories), merges their top-level
// entries in path order, and compiles the result. A later file's entry
// with the same word as an earlier one replaces it, so a profile
// directory can override a handful of commands from a shared base file
// simply by sorting after it.
func Load(root string) (tokenline.TokenList, tokenline.TokenDict, error) {
	var files []string
	err := symwalk.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("grammarfile: walk %s: %w", root, err)
	}
	sort.Strings(files)

	merged := map[string]entry{}
	var order []string
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, nil, fmt.Errorf("grammarfile: read %s: %w", f, err)
		}
		doc, err := Parse(data)
		if err != nil {
			return nil, nil, fmt.Errorf("grammarfile: %s: %w", f, err)
		}
		for _, en := range doc.Entries {
			if _, seen := merged[en.Word]; !seen {
				order = append(order, en.Word)
			}
			merged[en.Word] = en
		}
	}

	entries := make([]entry, 0, len(order))
	for _, w := range order {
		entries = append(entries, merged[w])
	}
	return Compile(&Document{Entries: entries})
}
