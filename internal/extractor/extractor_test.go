package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestExtractText_Plain(t *testing.T) {
	path := writeTemp(t, "notes.txt", "Photosynthesis converts light into energy.\n")
	got, err := ExtractText(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "Photosynthesis converts light into energy.\n" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractText_MarkdownStripsSyntax(t *testing.T) {
	md := "# Cells\n\nThe **mitochondrion** is the powerhouse.\n\n- membrane\n- matrix\n"
	path := writeTemp(t, "cells.md", md)

	got, err := ExtractText(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, marker := range []string{"#", "**", "- "} {
		if strings.Contains(got, marker) {
			t.Fatalf("markdown syntax %q leaked into output: %q", marker, got)
		}
	}
	for _, want := range []string{"Cells", "mitochondrion", "membrane", "matrix"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output: %q", want, got)
		}
	}
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "image.png", "not really an image")
	if _, err := ExtractText(path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestExtractText_MissingFile(t *testing.T) {
	if _, err := ExtractText(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
