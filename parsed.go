package tokenline

import (
	"encoding/binary"
	"math"
)

// ArgKind tags the type of a parsed argument value, and doubles as one of
// the token stream's non-token-ID entries (§4.8, §6).
type ArgKind int

const (
	// ArgNone means the entry takes no argument.
	ArgNone ArgKind = iota
	// ArgInteger is a signed integer, encoded little-endian as int64.
	ArgInteger
	// ArgFloat is a floating point value, encoded little-endian as float64.
	ArgFloat
	// ArgString is copied verbatim (quotes already stripped by the splitter).
	ArgString
	// ArgToken means the argument is itself resolved against a subtoken list;
	// it never appears in Parsed.Tokens as a kind tag, only as the resolved
	// token ID.
	ArgToken
	// ArgHelpOnly marks a documentation-only entry; it never demands an
	// argument and never descends the grammar stack.
	ArgHelpOnly
)

// ParsedLine is the result of a successful tokenization, delivered to the
// callback registered with Engine.SetCallback. Tokens is an ordered
// sequence of small non-negative integers terminated by a trailing 0: each
// entry is either a grammar token ID or one of the ArgKind tags followed by
// an integer byte offset into ArgStorage where the typed value is encoded.
type ParsedLine struct {
	Tokens     []int
	ArgStorage []byte
	LastEntry  *TokenEntry
}

func newParsedLine() *ParsedLine {
	return &ParsedLine{
		Tokens:     make([]int, 0, maxWords*3),
		ArgStorage: make([]byte, 0, maxLine),
	}
}

func (p *ParsedLine) reset() {
	p.Tokens = p.Tokens[:0]
	p.ArgStorage = p.ArgStorage[:0]
	p.LastEntry = nil
}

// putInt appends a little-endian int64 to ArgStorage and returns the offset
// it was written at. Encoding is explicit rather than a native-width
// reinterpret cast: Go has no safe way to alias a []byte as an int64, and a
// fixed wire width keeps arg_storage's layout independent of host word
// size, matching the source's guidance for languages without that cast.
func (p *ParsedLine) putInt(v int64) int {
	off := len(p.ArgStorage)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	p.ArgStorage = append(p.ArgStorage, buf[:]...)
	return off
}

func (p *ParsedLine) putFloat(v float64) int {
	off := len(p.ArgStorage)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	p.ArgStorage = append(p.ArgStorage, buf[:]...)
	return off
}

func (p *ParsedLine) putString(s string) int {
	off := len(p.ArgStorage)
	p.ArgStorage = append(p.ArgStorage, s...)
	p.ArgStorage = append(p.ArgStorage, 0)
	return off
}

// Int decodes a little-endian int64 previously written by putInt.
func (p *ParsedLine) Int(offset int) int64 {
	return int64(binary.LittleEndian.Uint64(p.ArgStorage[offset : offset+8]))
}

// Float decodes a little-endian float64 previously written by putFloat.
func (p *ParsedLine) Float(offset int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(p.ArgStorage[offset : offset+8]))
}

// String decodes a NUL-terminated string previously written by putString.
func (p *ParsedLine) String(offset int) string {
	end := offset
	for end < len(p.ArgStorage) && p.ArgStorage[end] != 0 {
		end++
	}
	return string(p.ArgStorage[offset:end])
}
