package decoder

import (
	"testing"

	"github.com/kailas-cloud/intentd/internal/domain"
	"github.com/kailas-cloud/intentd/internal/domain/registry"
)

func newTestRegistry() *registry.Registry {
	return registry.New(domain.Dataset{Intents: []domain.Intent{
		{Tag: "a", Responses: []string{"A1"}},
		{Tag: "b", Responses: []string{"B1", "B2"}},
		{Tag: "c", Responses: []string{"C1"}},
	}})
}

func TestDecode_PicksMax(t *testing.T) {
	pred, ok := Decode([]float64{0.1, 0.7, 0.2}, newTestRegistry())
	if !ok {
		t.Fatal("expected a prediction")
	}
	if pred.Tag != "b" {
		t.Errorf("expected tag b, got %q", pred.Tag)
	}
	if pred.Confidence != 0.7 {
		t.Errorf("expected confidence 0.7, got %v", pred.Confidence)
	}
	if len(pred.Responses) != 2 || pred.Responses[1] != "B2" {
		t.Errorf("unexpected responses: %v", pred.Responses)
	}
}

func TestDecode_TieBreaksOnFirstIndex(t *testing.T) {
	pred, ok := Decode([]float64{0.4, 0.4, 0.2}, newTestRegistry())
	if !ok || pred.Tag != "a" {
		t.Errorf("expected first max index (a), got %q, %v", pred.Tag, ok)
	}
}

func TestDecode_NoResult(t *testing.T) {
	tests := []struct {
		name  string
		probs []float64
	}{
		{"empty", nil},
		{"index outside registry", []float64{0.1, 0.1, 0.1, 0.7}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := Decode(tc.probs, newTestRegistry()); ok {
				t.Error("expected no prediction")
			}
		})
	}
}

type noResponses struct{}

func (noResponses) TagAt(int) (string, bool) { return "ghost", true }
func (noResponses) ResponsesFor(string) ([]string, bool) { return nil, false }

func TestDecode_MissingResponses(t *testing.T) {
	if _, ok := Decode([]float64{1}, noResponses{}); ok {
		t.Error("expected no prediction when responses are absent")
	}
}
