package toc

import "testing"

func entry(number, title string, page, level int) *Entry {
	return &Entry{Number: number, Title: title, Page: page, Level: level}
}

func TestBuildHierarchy(t *testing.T) {
	t.Run("nests strictly deeper entries", func(t *testing.T) {
		entries := []*Entry{
			entry("1", "Introduction", 5, 1),
			entry("2", "Background", 8, 1),
			entry("2.1", "History", 10, 2),
		}

		roots := BuildHierarchy(entries)
		if len(roots) != 2 {
			t.Fatalf("roots: got %d, want 2", len(roots))
		}
		if roots[0].Title != "Introduction" || roots[1].Title != "Background" {
			t.Errorf("unexpected roots: %q, %q", roots[0].Title, roots[1].Title)
		}
		if len(roots[1].Children) != 1 || roots[1].Children[0].Title != "History" {
			t.Fatalf("Background should have one child History")
		}
		if roots[1].Children[0].Parent() != roots[1] {
			t.Error("child parent back-reference not set")
		}
	})

	t.Run("pops back up on shallower level", func(t *testing.T) {
		entries := []*Entry{
			entry("1", "A", 1, 1),
			entry("1.1", "B", 2, 2),
			entry("1.1.1", "C", 3, 3),
			entry("1.2", "D", 4, 2),
			entry("2", "E", 5, 1),
		}

		roots := BuildHierarchy(entries)
		if len(roots) != 2 {
			t.Fatalf("roots: got %d, want 2", len(roots))
		}
		a := roots[0]
		if len(a.Children) != 2 {
			t.Fatalf("A children: got %d, want 2", len(a.Children))
		}
		if a.Children[0].Title != "B" || a.Children[1].Title != "D" {
			t.Errorf("A children: %q, %q", a.Children[0].Title, a.Children[1].Title)
		}
		if len(a.Children[0].Children) != 1 || a.Children[0].Children[0].Title != "C" {
			t.Error("B should own C")
		}
	})

	t.Run("level jump attaches to nearest shallower ancestor", func(t *testing.T) {
		entries := []*Entry{
			entry("1", "A", 1, 1),
			entry("1.1.1", "Deep", 2, 3), // jumps 1 -> 3
			entry("1.2", "B", 3, 2),
		}

		roots := BuildHierarchy(entries)
		if len(roots) != 1 {
			t.Fatalf("roots: got %d, want 1", len(roots))
		}
		if len(roots[0].Children) != 2 {
			t.Fatalf("A children: got %d, want 2", len(roots[0].Children))
		}
		if roots[0].Children[0].Title != "Deep" {
			t.Error("jump entry should attach to A")
		}
	})

	t.Run("equal levels become siblings", func(t *testing.T) {
		entries := []*Entry{
			entry("1.1", "A", 1, 2),
			entry("1.2", "B", 2, 2),
		}
		roots := BuildHierarchy(entries)
		if len(roots) != 2 {
			t.Errorf("roots: got %d, want 2", len(roots))
		}
	})
}

// Hierarchy invariants: every child is strictly deeper than its parent, and
// the pre-order flattening contains each parsed entry exactly once.
func TestStructureInvariants(t *testing.T) {
	pages := map[int]string{
		0: "Table of Contents\n\n1. Introduction ........... 5\n2. Background ........... 8\n2.1 History ........... 10",
	}

	structure, ok := Parse(pages)
	if !ok {
		t.Fatal("expected parse to succeed")
	}

	flat := structure.FlatEntries()
	if len(flat) != len(structure.Entries) {
		t.Fatalf("flat entries: got %d, want %d", len(flat), len(structure.Entries))
	}

	seen := make(map[*Entry]int)
	for _, e := range flat {
		seen[e]++
		if p := e.Parent(); p != nil && e.Level <= p.Level {
			t.Errorf("entry %q level %d not deeper than parent %q level %d", e.Title, e.Level, p.Title, p.Level)
		}
	}
	for _, e := range structure.Entries {
		if seen[e] != 1 {
			t.Errorf("entry %q appears %d times in flattening", e.Title, seen[e])
		}
	}
}

// End-to-end scenario from the dot-leader corpus: three entries, two roots,
// one nested child.
func TestParse_EndToEnd(t *testing.T) {
	pages := map[int]string{
		0: "Table of Contents\n\n1. Introduction ........... 5\n2. Background ........... 8\n2.1 History ........... 10",
		1: "body text",
	}

	structure, ok := Parse(pages)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if structure.Format != FormatDotLeader {
		t.Errorf("format: got %v, want dot leader", structure.Format)
	}
	if len(structure.Entries) != 3 {
		t.Fatalf("entries: got %d, want 3", len(structure.Entries))
	}
	if len(structure.Roots) != 2 {
		t.Fatalf("roots: got %d, want 2", len(structure.Roots))
	}

	intro, background := structure.Roots[0], structure.Roots[1]
	if intro.Title != "Introduction" || intro.Page != 5 {
		t.Errorf("first root: %+v", intro)
	}
	if background.Title != "Background" || background.Page != 8 {
		t.Errorf("second root: %+v", background)
	}
	if len(background.Children) != 1 {
		t.Fatalf("Background children: got %d, want 1", len(background.Children))
	}
	history := background.Children[0]
	if history.Title != "History" || history.Page != 10 || history.Level != 2 {
		t.Errorf("child: %+v", history)
	}
	if history.FullPath() != "Background > History" {
		t.Errorf("full path: got %q", history.FullPath())
	}
}
