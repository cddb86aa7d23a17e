package conversation

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitText_Empty(t *testing.T) {
	chunks := SplitText("", 100)
	if len(chunks) != 0 {
		t.Errorf("Expected no chunks for empty input, got %d", len(chunks))
	}
}

func TestSplitText_ShortTextSingleChunk(t *testing.T) {
	chunks := SplitText("hello there world", 100)
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "hello there world" {
		t.Errorf("Expected original text back, got %q", chunks[0])
	}
}

func TestSplitText_RespectsLimit(t *testing.T) {
	text := strings.Repeat("word ", 200)
	chunks := SplitText(text, 50)

	for i, c := range chunks {
		if utf8.RuneCountInString(c) > 50 {
			t.Errorf("Chunk %d exceeds limit: %d chars", i, utf8.RuneCountInString(c))
		}
	}
}

func TestSplitText_ReconstructsWords(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog again and again"
	chunks := SplitText(text, 15)

	joined := strings.Join(chunks, " ")
	if joined != text {
		t.Errorf("Joining chunks did not reconstruct input:\n got %q\nwant %q", joined, text)
	}
}

func TestSplitText_NormalizesWhitespace(t *testing.T) {
	chunks := SplitText("  hello \t there\n world  ", 100)
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "hello there world" {
		t.Errorf("Expected whitespace-normalized text, got %q", chunks[0])
	}
}

func TestSplitText_OversizedWordKeptWhole(t *testing.T) {
	long := strings.Repeat("a", 40)
	chunks := SplitText("short "+long+" tail", 10)

	found := false
	for _, c := range chunks {
		if c == long {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected oversized word as its own chunk, got %v", chunks)
	}
}

func TestSplitText_NeverSplitsInsideWord(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta"
	words := strings.Fields(text)

	var got []string
	for _, c := range SplitText(text, 12) {
		got = append(got, strings.Fields(c)...)
	}

	if len(got) != len(words) {
		t.Fatalf("Expected %d words, got %d", len(words), len(got))
	}
	for i := range words {
		if got[i] != words[i] {
			t.Errorf("Word %d: expected %q, got %q", i, words[i], got[i])
		}
	}
}

func TestSplitText_CountsRunesNotBytes(t *testing.T) {
	// Ten two-byte runes per word; a byte-based count would overflow the
	// limit even though the rune count fits.
	word := strings.Repeat("é", 10)
	chunks := SplitText(word+" "+word, 21)
	if len(chunks) != 1 {
		t.Errorf("Expected both words in one chunk, got %d chunks", len(chunks))
	}
}
