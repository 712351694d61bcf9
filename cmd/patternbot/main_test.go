package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPromptStrategy(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"1\n", "abcd"},
		{"2\n", "price_action"},
		{"x\n3\n 2 \n", "price_action"}, // re-prompts until valid
		{"", "abcd"},                    // EOF falls back to the default
	}
	for _, tc := range cases {
		var out bytes.Buffer
		got := promptStrategy(strings.NewReader(tc.input), &out)
		if got != tc.want {
			t.Errorf("input %q: got %q, want %q", tc.input, got, tc.want)
		}
	}
	var out bytes.Buffer
	promptStrategy(strings.NewReader("1\n"), &out)
	if !strings.Contains(out.String(), "STRATEGY SELECTION") {
		t.Fatal("menu not printed")
	}
}
