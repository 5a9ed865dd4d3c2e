package tokenline

import (
	"bytes"
	"strings"
	"testing"
)

func testGrammar() (TokenList, TokenDict) {
	dict := TokenDict{
		1: "show",
		2: "version",
		3: "uptime",
		4: "set",
		5: "baud",
		6: "info",
		7: "name",
	}
	root := TokenList{
		{ID: 1, Help: "display status", Sub: TokenList{
			{ID: 2, Help: "firmware version"},
			{ID: 3, Help: "time since boot"},
		}},
		{ID: 4, Help: "change a setting", Sub: TokenList{
			{ID: 5, Help: "serial rate", ArgType: ArgInteger},
			{ID: 7, Help: "device name", ArgType: ArgString},
		}},
		{ID: 6, Help: "show extra info", ArgType: ArgHelpOnly},
	}
	return root, dict
}

func newTestEngine() (*Engine, *bytes.Buffer) {
	root, dict := testGrammar()
	var out bytes.Buffer
	e := New(root, dict, &out)
	e.SetPrompt("> ")
	return e, &out
}

func feedString(t *testing.T, e *Engine, s string) {
	t.Helper()
	for i := 0; i < len(s); i++ {
		if _, err := e.Feed(s[i]); err != nil {
			t.Fatalf("Feed(%q): %v", s[i], err)
		}
	}
}

func TestEngineEchoesPrintableInput(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "show")
	if got := out.String(); got != "show" {
		t.Fatalf("echo = %q, want %q", got, "show")
	}
}

func TestEngineBackspaceErasesLastByte(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "shoz")
	out.Reset()
	feedString(t, e, string(byte(bs)))
	feedString(t, e, "w")
	if e.lineLen != 4 || string(e.lineBuf[:4]) != "show" {
		t.Fatalf("lineBuf = %q, want show", string(e.lineBuf[:e.lineLen]))
	}
}

func TestEngineSubmitDispatchesParsedLine(t *testing.T) {
	e, _ := newTestEngine()
	var got *ParsedLine
	e.SetCallback(func(p *ParsedLine) { got = p })

	feedString(t, e, "show version\r")
	if got == nil {
		t.Fatal("callback was not invoked")
	}
	want := []int{1, 2, 0}
	if len(got.Tokens) != len(want) {
		t.Fatalf("Tokens = %v, want %v", got.Tokens, want)
	}
	for i := range want {
		if got.Tokens[i] != want[i] {
			t.Fatalf("Tokens = %v, want %v", got.Tokens, want)
		}
	}
}

func TestEngineSubmitWithIntegerArgument(t *testing.T) {
	e, _ := newTestEngine()
	var got *ParsedLine
	e.SetCallback(func(p *ParsedLine) { got = p })

	feedString(t, e, "set baud 9600\r")
	if got == nil {
		t.Fatal("callback was not invoked")
	}
	if len(got.Tokens) != 5 {
		t.Fatalf("Tokens = %v, want 5 entries", got.Tokens)
	}
	if got.Tokens[0] != 4 || got.Tokens[1] != 5 || got.Tokens[2] != int(ArgInteger) {
		t.Fatalf("Tokens = %v", got.Tokens)
	}
	if v := got.Int(got.Tokens[3]); v != 9600 {
		t.Fatalf("Int() = %d, want 9600", v)
	}
}

func TestEngineUnknownCommandPrintsError(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "bogus\r")
	if !strings.Contains(out.String(), "Invalid command.") {
		t.Fatalf("output = %q, want it to contain Invalid command.", out.String())
	}
}

func TestEngineMissingArgumentPrintsError(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "set baud\r")
	if !strings.Contains(out.String(), "Missing argument.") {
		t.Fatalf("output = %q, want it to contain Missing argument.", out.String())
	}
}

func TestEngineCtrlDOnEmptyLineExits(t *testing.T) {
	e, _ := newTestEngine()
	sig, err := e.Feed(ctrlD)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if sig != SignalExit {
		t.Fatalf("Feed(ctrlD) = %v, want SignalExit", sig)
	}
}

func TestEngineCtrlDOnNonEmptyLineIsIgnored(t *testing.T) {
	e, _ := newTestEngine()
	feedString(t, e, "shoz")
	e.cursor = 3 // between 'o' and 'z'
	sig, _ := e.Feed(ctrlD)
	if sig != SignalNone {
		t.Fatalf("Feed(ctrlD) mid-line = %v, want SignalNone", sig)
	}
	if e.lineLen != 4 || string(e.lineBuf[:4]) != "shoz" {
		t.Fatalf("lineBuf = %q, want shoz unchanged", string(e.lineBuf[:e.lineLen]))
	}
}

func TestEngineHistoryRecallViaCtrlP(t *testing.T) {
	e, _ := newTestEngine()
	feedString(t, e, "show version\r")
	feedString(t, e, string(byte(ctrlP)))
	if got := string(e.lineBuf[:e.lineLen]); got != "show version" {
		t.Fatalf("recalled line = %q, want show version", got)
	}
}

func TestEngineHistoryDownWithoutWalkLeavesLineAlone(t *testing.T) {
	e, _ := newTestEngine()
	feedString(t, e, "show version\r")
	feedString(t, e, "show up")
	feedString(t, e, string(byte(ctrlN)))
	if got := string(e.lineBuf[:e.lineLen]); got != "show up" {
		t.Fatalf("lineBuf = %q, want show up untouched", got)
	}
}

func TestEngineTypingResetsHistoryWalk(t *testing.T) {
	e, _ := newTestEngine()
	feedString(t, e, "show version\r")
	feedString(t, e, "show uptime\r")
	feedString(t, e, string(byte(ctrlP))) // walk back to "show uptime"
	feedString(t, e, "x")                 // typing restarts the walk
	feedString(t, e, string(byte(ctrlP))) // should recall the newest entry again, not continue past it
	if got := string(e.lineBuf[:e.lineLen]); got != "show uptime" {
		t.Fatalf("recalled line = %q, want show uptime", got)
	}
}

func TestEngineTabCompletesUniquePrefix(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "sho")
	out.Reset()
	feedString(t, e, string(byte(tab)))
	if got := string(e.lineBuf[:e.lineLen]); got != "show " {
		t.Fatalf("lineBuf = %q, want %q", got, "show ")
	}
}

func TestEngineTabListsAmbiguousCandidates(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "show ")
	out.Reset()
	feedString(t, e, string(byte(tab)))
	got := out.String()
	if !strings.Contains(got, "version") || !strings.Contains(got, "uptime") {
		t.Fatalf("candidate listing = %q, want both version and uptime", got)
	}
}

func TestEngineAtLineStart(t *testing.T) {
	e, _ := newTestEngine()
	if !e.AtLineStart() {
		t.Fatal("AtLineStart() = false on a fresh engine, want true")
	}
	feedString(t, e, "sh")
	if e.AtLineStart() {
		t.Fatal("AtLineStart() = true mid-line, want false")
	}
	feedString(t, e, "ow\r")
	if !e.AtLineStart() {
		t.Fatal("AtLineStart() = false after submit, want true")
	}
}

func TestEngineHelpListsTopLevelGrammar(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "help\r")
	got := out.String()
	if !strings.Contains(got, "show") || !strings.Contains(got, "set") {
		t.Fatalf("help output = %q, want it to mention show and set", got)
	}
}

func TestEngineHelpOnCommandShowsItsOwnHelpAndSubtokens(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "help set\r")
	got := out.String()
	if !strings.Contains(got, "change a setting") {
		t.Fatalf("help output = %q, want it to contain set's own help text", got)
	}
	if !strings.Contains(got, "baud") || !strings.Contains(got, "name") {
		t.Fatalf("help output = %q, want it to list baud and name", got)
	}
}

func TestEngineHelpOnUnknownCommandSaysNoHelpAvailable(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "help bogus\r")
	got := out.String()
	if !strings.Contains(got, "No help available.") {
		t.Fatalf("help output = %q, want No help available.", got)
	}
}

func TestTokenizeHelpOnlyEntryDoesNotDescend(t *testing.T) {
	root, dict := testGrammar()
	parsed := newParsedLine()
	if err := tokenize(root, dict, []string{"info", "show", "version"}, parsed); err != nil {
		t.Fatalf("tokenize() error = %v", err)
	}
	want := []int{6, 1, 2, 0}
	if len(parsed.Tokens) != len(want) {
		t.Fatalf("Tokens = %v, want %v", parsed.Tokens, want)
	}
	for i := range want {
		if parsed.Tokens[i] != want[i] {
			t.Fatalf("Tokens = %v, want %v", parsed.Tokens, want)
		}
	}
}

func TestEngineTabAfterCommandWithNoMoreMatchesDoesNothing(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "show version ")
	out.Reset()
	feedString(t, e, string(byte(tab)))
	if got := out.String(); got != "" {
		t.Fatalf("output = %q, want nothing written (no bell, no listing)", got)
	}
}

func TestEngineTabOnPendingStringArgumentPrintsPlaceholder(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "set name ")
	out.Reset()
	feedString(t, e, string(byte(tab)))
	got := out.String()
	if !strings.Contains(got, "<string>") {
		t.Fatalf("output = %q, want it to contain <string>", got)
	}
}

func TestEngineTabWhileTypingArgumentValueDoesNothing(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "set baud 96")
	out.Reset()
	feedString(t, e, string(byte(tab)))
	if got := out.String(); got != "" {
		t.Fatalf("output = %q, want nothing written for a free-form value in progress", got)
	}
}

func TestEngineHistoryCommandListsPastLines(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "show uptime\r")
	out.Reset()
	feedString(t, e, "history\r")
	got := out.String()
	if !strings.Contains(got, "show uptime") {
		t.Fatalf("history output = %q, want it to contain the earlier line", got)
	}
}

func TestEngineHistoryCommandListsNewestFirstAndOmitsItself(t *testing.T) {
	e, out := newTestEngine()
	feedString(t, e, "show version\r")
	feedString(t, e, "show uptime\r")
	feedString(t, e, "history")
	out.Reset() // drop the echo of the typed command; check only the listing
	feedString(t, e, "\r")
	got := out.String()

	if strings.Contains(got, "1  history") || strings.Count(got, "history") != 0 {
		t.Fatalf("history output = %q, must not list the history command itself", got)
	}
	uptimeIdx := strings.Index(got, "show uptime")
	versionIdx := strings.Index(got, "show version")
	if uptimeIdx == -1 || versionIdx == -1 || uptimeIdx > versionIdx {
		t.Fatalf("history output = %q, want show uptime (newest) listed before show version", got)
	}
}
