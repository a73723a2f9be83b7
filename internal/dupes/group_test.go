package dupes_test

import (
	"testing"

	"imgdedup/internal/dupes"
	"imgdedup/internal/scan"
)

func file(rel string, fp string) scan.File {
	return scan.File{Path: "base/" + rel, Rel: rel, Fingerprint: fingerprintOf(fp)}
}

func TestGroupFilesDropsSingletons(t *testing.T) {
	files := []scan.File{
		file("a.jpg", "aaaa"),
		file("b.jpg", "aaaa"),
		file("unique.jpg", "bbbb"),
	}

	groups := dupes.GroupFiles(files)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Files) != 2 {
		t.Fatalf("expected 2 members, got %d", len(groups[0].Files))
	}
}

func TestGroupFilesNoDuplicates(t *testing.T) {
	files := []scan.File{
		file("a.jpg", "aaaa"),
		file("b.jpg", "bbbb"),
	}
	if groups := dupes.GroupFiles(files); len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}

func TestGroupFilesDeterministicOrder(t *testing.T) {
	files := []scan.File{
		file("z.jpg", "aaaa"),
		file("m.jpg", "bbbb"),
		file("a.jpg", "aaaa"),
		file("b.jpg", "bbbb"),
	}

	groups := dupes.GroupFiles(files)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// groups ordered by first member, members ordered by rel path
	if groups[0].Files[0].Rel != "a.jpg" || groups[0].Files[1].Rel != "z.jpg" {
		t.Fatalf("unexpected first group: %+v", groups[0].Files)
	}
	if groups[1].Files[0].Rel != "b.jpg" || groups[1].Files[1].Rel != "m.jpg" {
		t.Fatalf("unexpected second group: %+v", groups[1].Files)
	}
}
