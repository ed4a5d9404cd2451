package id

import (
	"strings"
	"testing"
)

func TestGenerateUnique(t *testing.T) {
	g := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := g.GenerateString()
		if seen[s] {
			t.Fatalf("duplicate ULID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestPrefixedIDs(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		prefix string
	}{
		{"surface", NewSurfaceID().String(), "surf_"},
		{"view", NewViewID().String(), "view_"},
		{"content", NewContentID().String(), "content_"},
		{"conn", NewConnID().String(), "conn_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.id, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, tt.id)
			}
			raw := strings.TrimPrefix(tt.id, tt.prefix)
			if !IsValid(raw) {
				t.Errorf("suffix is not a valid ULID: %q", raw)
			}
		})
	}
}

func TestTimestamp(t *testing.T) {
	s := Default().GenerateString()

	ts, err := Timestamp(s)
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if ts.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not-a-ulid"); err == nil {
		t.Error("expected parse error")
	}
	if IsValid("nope") {
		t.Error("expected invalid")
	}
}
