// Package wordvec provides word vector sources: an in-memory table loaded from
// a word2vec/GloVe text file and a KV-backed caching decorator.
package wordvec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kailas-cloud/intentd/internal/domain"
	"github.com/kailas-cloud/intentd/internal/metrics"
)

var _ domain.WordVectorSource = (*Table)(nil)

// Table is an immutable token → vector map.
type Table struct {
	dims    int
	vectors map[string][]float64
}

// NewTable builds a Table from an in-memory map. All vectors must share one width.
func NewTable(vectors map[string][]float64) (*Table, error) {
	t := &Table{vectors: make(map[string][]float64, len(vectors))}
	for word, vec := range vectors {
		if t.dims == 0 {
			t.dims = len(vec)
		}
		if len(vec) != t.dims {
			return nil, fmt.Errorf("word %q has %d dims, want %d: %w", word, len(vec), t.dims, domain.ErrVectorDimMismatch)
		}
		t.vectors[word] = append([]float64(nil), vec...)
	}
	return t, nil
}

// LoadFile reads a word2vec/GloVe text file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("word vectors %s: %w", path, domain.ErrDatasetNotFound)
		}
		return nil, fmt.Errorf("open word vectors %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("word vectors %s: %w", path, err)
	}
	return t, nil
}

// Read parses "word v1 v2 ..." lines. A leading "count dims" header line is
// accepted and checked against the rows that follow.
func Read(r io.Reader) (*Table, error) {
	t := &Table{vectors: make(map[string][]float64)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if lineNo == 1 && len(fields) == 2 {
			if dims, ok := parseHeader(fields); ok {
				t.dims = dims
				continue
			}
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: no vector components: %w", lineNo, domain.ErrDatasetMalformed)
		}

		vec := make([]float64, len(fields)-1)
		for i, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v: %w", lineNo, err, domain.ErrDatasetMalformed)
			}
			vec[i] = v
		}
		if t.dims == 0 {
			t.dims = len(vec)
		}
		if len(vec) != t.dims {
			return nil, fmt.Errorf("line %d: %d dims, want %d: %w", lineNo, len(vec), t.dims, domain.ErrVectorDimMismatch)
		}
		t.vectors[fields[0]] = vec
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(t.vectors) == 0 {
		return nil, fmt.Errorf("no vectors: %w", domain.ErrDatasetMalformed)
	}
	return t, nil
}

func parseHeader(fields []string) (int, bool) {
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return 0, false
	}
	dims, err := strconv.Atoi(fields[1])
	if err != nil || dims <= 0 {
		return 0, false
	}
	return dims, true
}

// Dimensions returns the vector width.
func (t *Table) Dimensions() int { return t.dims }

// Len returns the vocabulary size.
func (t *Table) Len() int { return len(t.vectors) }

// VectorFor returns a copy of the token's vector, or ErrTokenNotFound.
func (t *Table) VectorFor(_ context.Context, token string) ([]float64, error) {
	vec, ok := t.vectors[token]
	if !ok {
		metrics.WordVectorLookupsTotal.WithLabelValues("file", "miss").Inc()
		return nil, domain.ErrTokenNotFound
	}
	metrics.WordVectorLookupsTotal.WithLabelValues("file", "hit").Inc()
	return append([]float64(nil), vec...), nil
}
