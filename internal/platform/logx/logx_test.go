// internal/platform/logx/logx_test.go
package logx

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"dbg", LevelDebug},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"err", LevelError},
		{"garbage", LevelInfo},
		{"  debug  ", LevelDebug},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKvPairs(t *testing.T) {
	got := kvPairs("key", "value", "count", 3)
	if len(got) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(got))
	}
	if got[0] != "key=value" || got[1] != "count=3" {
		t.Errorf("unexpected pairs: %v", got)
	}

	odd := kvPairs("dangling")
	if len(odd) != 1 || odd[0] != "dangling=(missing)" {
		t.Errorf("odd argument not marked missing: %v", odd)
	}
}

func TestWith(t *testing.T) {
	base := NewSilent()
	scoped := base.With("component", "test")
	if scoped == nil {
		t.Fatal("With returned nil")
	}

	// Scoping must not mutate the parent logger.
	parent, ok := base.(*simpleLogger)
	if !ok {
		t.Fatal("unexpected logger type")
	}
	if len(parent.scope) != 0 {
		t.Errorf("parent scope mutated: %v", parent.scope)
	}

	child, ok := scoped.(*simpleLogger)
	if !ok {
		t.Fatal("unexpected logger type")
	}
	if len(child.scope) != 1 || child.scope[0] != "component=test" {
		t.Errorf("unexpected child scope: %v", child.scope)
	}
}
