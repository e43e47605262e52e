package registry

import (
	"testing"

	"github.com/kailas-cloud/intentd/internal/domain"
)

func TestNew_FirstSeenOrder(t *testing.T) {
	r := New(
		domain.Dataset{Intents: []domain.Intent{
			{Tag: "greeting", Responses: []string{"Hi!"}},
			{Tag: "goodbye", Responses: []string{"Bye"}},
		}},
		domain.Dataset{Intents: []domain.Intent{
			{Tag: "thanks", Responses: []string{"Welcome"}},
			{Tag: "greeting", Responses: []string{"Hello!"}},
		}},
	)

	want := []string{"greeting", "goodbye", "thanks"}
	got := r.Tags()
	if len(got) != len(want) {
		t.Fatalf("expected %d tags, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	idx, ok := r.Index("thanks")
	if !ok || idx != 2 {
		t.Errorf("Index(thanks) = %d, %v; want 2, true", idx, ok)
	}
}

func TestNew_LaterDefinitionOverwritesResponses(t *testing.T) {
	r := New(domain.Dataset{Intents: []domain.Intent{
		{Tag: "greeting", Responses: []string{"Hi!"}},
		{Tag: "greeting", Responses: []string{"Hello!", "Hey"}},
	}})

	if r.Len() != 1 {
		t.Fatalf("expected 1 tag, got %d", r.Len())
	}
	resp, ok := r.ResponsesFor("greeting")
	if !ok {
		t.Fatal("expected responses for greeting")
	}
	if len(resp) != 2 || resp[0] != "Hello!" {
		t.Errorf("unexpected responses: %v", resp)
	}
}

func TestNew_SkipsBlankTags(t *testing.T) {
	r := New(domain.Dataset{Intents: []domain.Intent{
		{Tag: "  ", Responses: []string{"x"}},
		{Tag: "greeting", Responses: []string{"Hi!"}},
	}})

	if r.Len() != 1 {
		t.Fatalf("expected 1 tag, got %d", r.Len())
	}
	if tag, _ := r.TagAt(0); tag != "greeting" {
		t.Errorf("TagAt(0) = %q, want greeting", tag)
	}
}

func TestResponsesFor_Unknown(t *testing.T) {
	r := New()
	resp, ok := r.ResponsesFor("missing")
	if ok || resp != nil {
		t.Errorf("expected no responses, got %v, %v", resp, ok)
	}
}

func TestResponsesFor_ReturnsCopy(t *testing.T) {
	r := New(domain.Dataset{Intents: []domain.Intent{
		{Tag: "greeting", Responses: []string{"Hi!"}},
	}})

	resp, _ := r.ResponsesFor("greeting")
	resp[0] = "mutated"

	again, _ := r.ResponsesFor("greeting")
	if again[0] != "Hi!" {
		t.Errorf("registry was mutated through returned slice: %v", again)
	}
}

func TestTagAt_OutOfRange(t *testing.T) {
	r := New(domain.Dataset{Intents: []domain.Intent{{Tag: "a"}}})
	for _, i := range []int{-1, 1, 100} {
		if _, ok := r.TagAt(i); ok {
			t.Errorf("TagAt(%d) should be out of range", i)
		}
	}
}

func TestSameTags(t *testing.T) {
	r := New(domain.Dataset{Intents: []domain.Intent{{Tag: "a"}, {Tag: "b"}}})

	tests := []struct {
		tags []string
		want bool
	}{
		{[]string{"a", "b"}, true},
		{[]string{"b", "a"}, false},
		{[]string{"a"}, false},
		{nil, false},
	}
	for _, tc := range tests {
		if got := r.SameTags(tc.tags); got != tc.want {
			t.Errorf("SameTags(%v) = %v, want %v", tc.tags, got, tc.want)
		}
	}
}
