// Package softmax implements the intent predictor as multinomial logistic
// regression over mean-pooled token vectors.
package softmax

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"

	"github.com/kailas-cloud/intentd/internal/domain"
)

var _ domain.Predictor = (*Model)(nil)

// Options controls gradient descent.
type Options struct {
	Epochs       int
	LearningRate float64
}

// Model is safe for concurrent Predict calls; Fit takes the write lock.
type Model struct {
	opts Options

	mu        sync.RWMutex
	tags      []string
	dims      int
	maxTokens int
	weights   *mat.Dense // dims x classes
	bias      []float64
	trainedAt time.Time
}

// New creates an untrained model.
func New(opts Options) *Model {
	if opts.Epochs <= 0 {
		opts.Epochs = 250
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = 0.5
	}
	return &Model{opts: opts}
}

// Fit trains the weights from scratch with full-batch gradient descent.
func (m *Model) Fit(ctx context.Context, set *domain.TrainingSet) error {
	n, _, dims := set.Features.Shape()
	if n == 0 {
		return domain.ErrEmptyDataset
	}
	classes := len(set.Tags)
	if r, c := set.Labels.Dims(); r != n || c != classes {
		return fmt.Errorf("labels are %dx%d, want %dx%d", r, c, n, classes)
	}

	x, err := pool(set.Features, dims)
	if err != nil {
		return err
	}

	w := mat.NewDense(dims, classes, nil)
	b := make([]float64, classes)
	probs := mat.NewDense(n, classes, nil)
	grad := mat.NewDense(n, classes, nil)
	dw := mat.NewDense(dims, classes, nil)
	scale := m.opts.LearningRate / float64(n)

	for epoch := 0; epoch < m.opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("epoch %d: %w", epoch, err)
		}

		forward(probs, x, w, b)
		grad.Sub(probs, set.Labels)

		dw.Mul(x.T(), grad)
		dw.Scale(scale, dw)
		w.Sub(w, dw)

		for j := range b {
			b[j] -= scale * mat.Sum(grad.ColView(j))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags = append([]string(nil), set.Tags...)
	m.dims = dims
	m.maxTokens = set.MaxTokens
	m.weights = w
	m.bias = b
	m.trainedAt = time.Now().UTC()
	return nil
}

// Predict returns an N x |tags| matrix of class probabilities.
func (m *Model) Predict(_ context.Context, batch domain.Batch) (*mat.Dense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.weights == nil {
		return nil, domain.ErrModelNotTrained
	}
	n, _, dims := batch.Shape()
	if n == 0 {
		return nil, nil
	}
	if dims != m.dims {
		return nil, fmt.Errorf("batch has %d dims, model has %d: %w", dims, m.dims, domain.ErrVectorDimMismatch)
	}

	x, err := pool(batch, dims)
	if err != nil {
		return nil, err
	}
	probs := mat.NewDense(n, len(m.tags), nil)
	forward(probs, x, m.weights, m.bias)
	return probs, nil
}

// Tags returns the label order the model was trained against.
func (m *Model) Tags() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.tags...)
}

// MaxTokens returns the sentence length the model was trained with.
func (m *Model) MaxTokens() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxTokens
}

// TrainedAt returns when Fit completed, or the zero time.
func (m *Model) TrainedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trainedAt
}

// pool averages the non-zero rows of each sentence into one row of x.
// Padding and unknown-token rows are all zeros and do not contribute.
func pool(batch domain.Batch, dims int) (*mat.Dense, error) {
	x := mat.NewDense(len(batch), dims, nil)
	for i, s := range batch {
		rows, cols := s.Dims()
		if cols != dims {
			return nil, fmt.Errorf("sentence %d has %d dims, want %d: %w", i, cols, dims, domain.ErrVectorDimMismatch)
		}
		out := x.RawRowView(i)
		used := 0
		for r := 0; r < rows; r++ {
			row := s.RawRowView(r)
			if isZero(row) {
				continue
			}
			for j, v := range row {
				out[j] += v
			}
			used++
		}
		if used > 1 {
			for j := range out {
				out[j] /= float64(used)
			}
		}
	}
	return x, nil
}

func isZero(row []float64) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}

// forward writes softmax(x*w + b) into dst.
func forward(dst, x, w *mat.Dense, b []float64) {
	dst.Mul(x, w)
	n, _ := dst.Dims()
	for i := 0; i < n; i++ {
		row := dst.RawRowView(i)
		peak := math.Inf(-1)
		for j := range row {
			row[j] += b[j]
			peak = math.Max(peak, row[j])
		}
		var sum float64
		for j := range row {
			row[j] = math.Exp(row[j] - peak)
			sum += row[j]
		}
		for j := range row {
			row[j] /= sum
		}
	}
}

// snapshot is the msgpack wire form of a trained model.
type snapshot struct {
	Tags      []string  `msgpack:"tags"`
	Dims      int       `msgpack:"dims"`
	MaxTokens int       `msgpack:"max_tokens"`
	Weights   []float64 `msgpack:"weights"`
	Bias      []float64 `msgpack:"bias"`
	TrainedAt time.Time `msgpack:"trained_at"`
}

// MarshalBinary encodes the trained model.
func (m *Model) MarshalBinary() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.weights == nil {
		return nil, domain.ErrModelNotTrained
	}
	data, err := msgpack.Marshal(snapshot{
		Tags:      m.tags,
		Dims:      m.dims,
		MaxTokens: m.maxTokens,
		Weights:   m.weights.RawMatrix().Data,
		Bias:      m.bias,
		TrainedAt: m.trainedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalBinary replaces the model state with a decoded snapshot.
func (m *Model) UnmarshalBinary(data []byte) error {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	classes := len(s.Tags)
	if classes == 0 || s.Dims <= 0 {
		return fmt.Errorf("snapshot has %d tags and %d dims", classes, s.Dims)
	}
	if len(s.Weights) != s.Dims*classes || len(s.Bias) != classes {
		return fmt.Errorf("snapshot weights are %d/%d values, want %d/%d",
			len(s.Weights), len(s.Bias), s.Dims*classes, classes)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags = s.Tags
	m.dims = s.Dims
	m.maxTokens = s.MaxTokens
	m.weights = mat.NewDense(s.Dims, classes, s.Weights)
	m.bias = s.Bias
	m.trainedAt = s.TrainedAt
	return nil
}
