package softmax

import (
	"context"
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/kailas-cloud/intentd/internal/domain"
)

// sentence builds a maxTokens x 2 matrix whose first row is vec.
func sentence(vec ...float64) *mat.Dense {
	m := mat.NewDense(3, 2, nil)
	m.SetRow(0, vec)
	return m
}

func trainingSet() *domain.TrainingSet {
	return &domain.TrainingSet{
		Features: domain.Batch{
			sentence(1, 0),
			sentence(0.9, 0.1),
			sentence(0, 1),
			sentence(0.1, 0.9),
		},
		Labels: mat.NewDense(4, 2, []float64{
			1, 0,
			1, 0,
			0, 1,
			0, 1,
		}),
		Tags:      []string{"greeting", "goodbye"},
		MaxTokens: 3,
	}
}

func TestModel_FitPredict(t *testing.T) {
	m := New(Options{Epochs: 300, LearningRate: 1})
	if err := m.Fit(context.Background(), trainingSet()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	probs, err := m.Predict(context.Background(), domain.Batch{sentence(1, 0), sentence(0, 1)})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	r, c := probs.Dims()
	if r != 2 || c != 2 {
		t.Fatalf("probs are %dx%d, want 2x2", r, c)
	}
	if probs.At(0, 0) < 0.8 {
		t.Errorf("P(greeting|greeting) = %f, want > 0.8", probs.At(0, 0))
	}
	if probs.At(1, 1) < 0.8 {
		t.Errorf("P(goodbye|goodbye) = %f, want > 0.8", probs.At(1, 1))
	}
	for i := 0; i < r; i++ {
		if sum := mat.Sum(probs.RowView(i)); sum < 0.999 || sum > 1.001 {
			t.Errorf("row %d sums to %f", i, sum)
		}
	}
	if m.TrainedAt().IsZero() {
		t.Error("expected TrainedAt to be set")
	}
}

func TestModel_PoolIgnoresPadding(t *testing.T) {
	padded := mat.NewDense(3, 2, []float64{
		2, 4,
		0, 0,
		4, 2,
	})
	x, err := pool(domain.Batch{padded}, 2)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if x.At(0, 0) != 3 || x.At(0, 1) != 3 {
		t.Fatalf("pooled row = %v, want [3 3]", mat.Row(nil, 0, x))
	}
}

func TestModel_NotTrained(t *testing.T) {
	m := New(Options{})
	if _, err := m.Predict(context.Background(), domain.Batch{sentence(1, 0)}); !errors.Is(err, domain.ErrModelNotTrained) {
		t.Errorf("Predict: expected ErrModelNotTrained, got %v", err)
	}
	if _, err := m.MarshalBinary(); !errors.Is(err, domain.ErrModelNotTrained) {
		t.Errorf("MarshalBinary: expected ErrModelNotTrained, got %v", err)
	}
}

func TestModel_FitEmpty(t *testing.T) {
	m := New(Options{})
	err := m.Fit(context.Background(), &domain.TrainingSet{Labels: &mat.Dense{}})
	if !errors.Is(err, domain.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestModel_FitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(Options{Epochs: 10})
	if err := m.Fit(ctx, trainingSet()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestModel_PredictDimMismatch(t *testing.T) {
	m := New(Options{Epochs: 5})
	if err := m.Fit(context.Background(), trainingSet()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	_, err := m.Predict(context.Background(), domain.Batch{mat.NewDense(3, 5, nil)})
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestModel_SnapshotRoundTrip(t *testing.T) {
	m := New(Options{Epochs: 50})
	if err := m.Fit(context.Background(), trainingSet()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	data, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	restored := New(Options{})
	if err := restored.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got := restored.Tags(); len(got) != 2 || got[0] != "greeting" || got[1] != "goodbye" {
		t.Errorf("Tags() = %v", got)
	}
	if restored.MaxTokens() != 3 {
		t.Errorf("MaxTokens() = %d, want 3", restored.MaxTokens())
	}

	batch := domain.Batch{sentence(0.7, 0.3)}
	want, _ := m.Predict(context.Background(), batch)
	got, err := restored.Predict(context.Background(), batch)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if !mat.EqualApprox(want, got, 1e-12) {
		t.Errorf("restored predictions differ: %v vs %v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestModel_UnmarshalRejectsCorrupt(t *testing.T) {
	m := New(Options{})
	if err := m.UnmarshalBinary([]byte("not msgpack")); err == nil {
		t.Fatal("expected error for garbage input")
	}
}
