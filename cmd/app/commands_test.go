package main

import "testing"

func TestParseFill(t *testing.T) {
	fill, err := parseFill([]string{"manager=Charlie", "rate=80=90"})
	if err != nil {
		t.Fatalf("parseFill: %v", err)
	}
	if fill["manager"] != "Charlie" {
		t.Errorf("manager = %q", fill["manager"])
	}
	if fill["rate"] != "80=90" {
		t.Errorf("rate = %q, want everything after the first =", fill["rate"])
	}
}

func TestParseFillRejectsBadPairs(t *testing.T) {
	for _, bad := range []string{"novalue", "=empty-key"} {
		if _, err := parseFill([]string{bad}); err == nil {
			t.Errorf("parseFill(%q) should fail", bad)
		}
	}
}

func TestParseFillEmpty(t *testing.T) {
	fill, err := parseFill(nil)
	if err != nil {
		t.Fatalf("parseFill: %v", err)
	}
	if fill != nil {
		t.Errorf("fill = %v, want nil", fill)
	}
}
