package patch

import (
	"testing"
)

func TestHighlightLines(t *testing.T) {
	lines := []string{
		"package main",
		"",
		"func main() {",
		`	fmt.Println("hello")`,
		"}",
	}

	highlighted := HighlightLines("main.go", lines)

	if len(highlighted) != len(lines) {
		t.Fatalf("expected %d highlighted lines, got %d", len(lines), len(highlighted))
	}
	if len(highlighted[0].Tokens) == 0 {
		t.Error("expected tokens in first line")
	}
	if highlighted[0].Plain() != "package main" {
		t.Errorf("plain text mismatch: %q", highlighted[0].Plain())
	}
}

func TestHighlightLinesUnknownLanguage(t *testing.T) {
	lines := []string{"some content", "more content"}
	highlighted := HighlightLines("unknown.xyz123", lines)

	if len(highlighted) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(highlighted))
	}
	if highlighted[0].Plain() != "some content" {
		t.Errorf("expected plain passthrough, got %q", highlighted[0].Plain())
	}
}

func TestHighlightPayloads(t *testing.T) {
	lines := FromString("greet.patch", samplePatch).Classify()
	highlighted := HighlightPayloads(lines)

	if len(highlighted) != len(lines) {
		t.Fatalf("expected %d lines, got %d", len(lines), len(highlighted))
	}

	// header lines keep their raw text, content lines lose the diff prefix
	if got := highlighted[0].Plain(); got != lines[0].Raw {
		t.Errorf("expected raw header text, got %q", got)
	}
	if got := highlighted[17].Plain(); got != "void greet() {" {
		t.Errorf("expected added payload, got %q", got)
	}
}
