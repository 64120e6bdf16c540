package main

import (
	"strings"
	"testing"
)

func TestRenderTableRightAlignsNumericColumns(t *testing.T) {
	out := renderTable(
		[]string{"Part", "Recordings"},
		[][]string{{"dev", "7"}, {"train", "1234"}},
		1,
	)
	for _, want := range []string{"Part", "Recordings", "dev", "train", "1234"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	// The short count is padded on the left up to the header width.
	if !strings.Contains(out, "         7 ") {
		t.Fatalf("count column not right-aligned:\n%s", out)
	}
}
