package nlp

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"hello", []string{"hello"}},
		{"Hello, how are you?", []string{"Hello", ",", "how", "are", "you", "?"}},
		{"what's up!", []string{"what", "'s", "up", "!"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"", nil},
		{"build 2 houses.", []string{"build", "2", "houses", "."}},
	}

	n := New()
	for _, tc := range tests {
		got := n.Tokenize(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Running", "run"},
		{"houses", "hous"},
		{"hello", "hello"},
		{"?", "?"},
		{"2", "2"},
	}

	n := New()
	for _, tc := range tests {
		if got := n.Stem(tc.in); got != tc.want {
			t.Errorf("Stem(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
