package version

import (
	"strings"
	"testing"
)

func TestResolveNeverEmpty(t *testing.T) {
	if info := Resolve(); info.Version == "" {
		t.Fatal("Resolve returned an empty version")
	}
}

func TestLdflagsWin(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version = "v1.2.3"
	Commit = "0123456789abcdef0123"
	info := Resolve()
	if info.Version != "v1.2.3" || info.Commit != Commit {
		t.Fatalf("got %+v", info)
	}
	if got := String(); got != "v1.2.3 (0123456789ab)" {
		t.Fatalf("String: got %q", got)
	}
}

func TestShortCommit(t *testing.T) {
	t.Parallel()

	if got := shortCommit("abc"); got != "abc" {
		t.Fatalf("short input: got %q", got)
	}
	if got := shortCommit(strings.Repeat("f", 40)); len(got) != 12 {
		t.Fatalf("long input: got %q", got)
	}
}
