package toc

import "testing"

const tocPageText = `Table of Contents

1. Introduction ........... 5
2. Background ........... 8
2.1 History ........... 10
3. Conclusion ........... 30
`

func TestDetectPages(t *testing.T) {
	t.Run("finds single toc page", func(t *testing.T) {
		pages := map[int]string{
			0: tocPageText,
			1: "Chapter one body text with no listing.",
			2: "More body text.",
		}

		tocPages, text, ok := DetectPages(pages)
		if !ok {
			t.Fatal("expected TOC to be detected")
		}
		if len(tocPages) != 1 || tocPages[0] != 0 {
			t.Errorf("toc pages: got %v, want [0]", tocPages)
		}
		if text == "" {
			t.Error("expected joined text")
		}
	})

	t.Run("requires indicator phrase", func(t *testing.T) {
		pages := map[int]string{
			0: "1. Introduction ..... 5\n2. Background ..... 8\n3. Methods ..... 12",
		}
		if _, _, ok := DetectPages(pages); ok {
			t.Error("page without indicator phrase should not qualify")
		}
	})

	t.Run("requires page number lines", func(t *testing.T) {
		pages := map[int]string{
			0: "Table of Contents\n\nJust a heading, nothing listed yet.",
		}
		if _, _, ok := DetectPages(pages); ok {
			t.Error("page without page-number lines should not qualify")
		}
	})

	t.Run("follows continuation pages", func(t *testing.T) {
		pages := map[int]string{
			0: "Contents\n\n1. One ..... 5\n2. Two ..... 9\n3. Three ..... 14\n(continued)",
			1: "4. Four ..... 20\n5. Five ..... 28\n6. Six ..... 35",
			2: "Chapter one begins here with plain prose and no listing at all",
			3: "more prose",
		}

		tocPages, _, ok := DetectPages(pages)
		if !ok {
			t.Fatal("expected TOC to be detected")
		}
		if len(tocPages) != 2 || tocPages[0] != 0 || tocPages[1] != 1 {
			t.Errorf("toc pages: got %v, want [0 1]", tocPages)
		}
	})

	t.Run("continuation stops at first failing page", func(t *testing.T) {
		pages := map[int]string{
			0: "Contents\n\n1. One ..... 5\n2. Two ..... 9\n3. Three ..... 14\ncont.",
			1: "prose page without listings",
			2: "4. Four ..... 20\n5. Five ..... 28\n6. Six ..... 35",
		}

		tocPages, _, ok := DetectPages(pages)
		if !ok {
			t.Fatal("expected TOC to be detected")
		}
		if len(tocPages) != 1 {
			t.Errorf("toc pages: got %v, want just the first page", tocPages)
		}
	})

	t.Run("no toc anywhere", func(t *testing.T) {
		pages := map[int]string{
			0: "body",
			1: "more body",
		}
		if _, _, ok := DetectPages(pages); ok {
			t.Error("expected detection miss")
		}
	})
}
