package utils

import (
	"strings"
	"testing"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "shorter than limit", input: "hello", maxLen: 10, want: "hello"},
		{name: "exactly at limit", input: "hello", maxLen: 5, want: "hello"},
		{name: "truncated with marker", input: "hello world", maxLen: 5, want: "hello... (truncated, total: 11 chars)"},
		{name: "zero uses default", input: strings.Repeat("a", 600), maxLen: 0, want: strings.Repeat("a", DefaultMaxStringLength) + "... (truncated, total: 600 chars)"},
		{name: "negative uses default", input: "short", maxLen: -1, want: "short"},
		{name: "empty input", input: "", maxLen: 5, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPtr(t *testing.T) {
	f := Ptr(float32(0.4))
	if f == nil || *f != 0.4 {
		t.Errorf("Ptr(0.4) = %v", f)
	}
	n := Ptr(1200)
	if n == nil || *n != 1200 {
		t.Errorf("Ptr(1200) = %v", n)
	}
}
