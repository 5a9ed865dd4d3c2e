package grammarfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/serialconsole/tokenline"
	"github.com/serialconsole/tokenline/grammarfile"
)

const sampleYAML = `
name: base
entries:
  - word: show
    help: display status
    entries:
      - word: version
        help: firmware version
      - word: uptime
  - word: set
    help: change a setting
    entries:
      - word: baud
        arg: int
      - word: name
        arg: string
`

func TestParseAndCompile(t *testing.T) {
	doc, err := grammarfile.Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Name != "base" {
		t.Fatalf("Name = %q, want base", doc.Name)
	}

	list, dict, err := grammarfile.Compile(doc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}

	show := list[0]
	if dict[show.ID] != "show" {
		t.Fatalf("dict[show.ID] = %q, want show", dict[show.ID])
	}
	if len(show.Sub) != 2 || dict[show.Sub[1].ID] != "uptime" {
		t.Fatalf("show.Sub = %+v", show.Sub)
	}

	set := list[1]
	baud := set.Sub[0]
	if baud.ArgType != tokenline.ArgInteger {
		t.Fatalf("baud.ArgType = %v, want ArgInteger", baud.ArgType)
	}
}

func TestCompileRejectsUnknownArgKind(t *testing.T) {
	_, err := grammarfile.Parse([]byte("entries:\n  - word: x\n    arg: bogus\n"))
	if err != nil {
		// Parse itself never validates arg kinds; Compile does.
		t.Fatalf("Parse: unexpected error %v", err)
	}
	doc, _ := grammarfile.Parse([]byte("entries:\n  - word: x\n    arg: bogus\n"))
	if _, _, err := grammarfile.Compile(doc); err == nil {
		t.Fatal("Compile: expected error for unknown arg kind")
	}
}

func TestLoadMergesFragmentsInPathOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "01-base.yaml"), `
entries:
  - word: show
    help: original
  - word: set
`)
	writeFile(t, filepath.Join(dir, "02-override.yaml"), `
entries:
  - word: show
    help: overridden
`)

	list, dict, err := grammarfile.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	var show tokenline.TokenEntry
	for _, e := range list {
		if dict[e.ID] == "show" {
			show = e
		}
	}
	if show.Help != "overridden" {
		t.Fatalf("show.Help = %q, want overridden", show.Help)
	}
}

func TestLoadFollowsSymlinkedFragmentDirs(t *testing.T) {
	shared := t.TempDir()
	writeFile(t, filepath.Join(shared, "shared.yaml"), `
entries:
  - word: reboot
`)

	profile := t.TempDir()
	if err := os.Symlink(shared, filepath.Join(profile, "shared")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	list, dict, err := grammarfile.Load(profile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(list) != 1 || dict[list[0].ID] != "reboot" {
		t.Fatalf("list = %+v", list)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}
