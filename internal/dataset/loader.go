// Package dataset reads labeled intent documents from disk.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/intentd/internal/domain"
)

// Error wraps a dataset sentinel error with the offending path.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// document mirrors the on-disk format. Pointers detect missing fields.
type document struct {
	Intents *[]intentDTO `json:"intents"`
}

type intentDTO struct {
	Tag       *string   `json:"tag"`
	Patterns  *[]string `json:"patterns"`
	Responses *[]string `json:"responses"`
}

// LoadFile reads and validates a single dataset document.
func LoadFile(path string) (domain.Dataset, error) {
	data, err := readFile(path)
	if err != nil {
		return domain.Dataset{}, err
	}
	intents, err := Parse(data)
	if err != nil {
		return domain.Dataset{}, &Error{Path: path, Err: err}
	}
	return domain.Dataset{Source: path, Intents: intents}, nil
}

// Loader adapts LoadFile to the training.DatasetLoader interface.
type Loader struct{}

// LoadFile reads and validates a single dataset document.
func (Loader) LoadFile(path string) (domain.Dataset, error) { return LoadFile(path) }

// LoadAll reads datasets in order and stops at the first failure.
func LoadAll(paths []string) ([]domain.Dataset, error) {
	out := make([]domain.Dataset, 0, len(paths))
	for _, p := range paths {
		ds, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

// Parse decodes a dataset document. Every intent must carry tag, patterns and responses.
func Parse(data []byte) ([]domain.Intent, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetMalformed, err)
	}
	if doc.Intents == nil {
		return nil, fmt.Errorf("%w: missing intents", domain.ErrDatasetMalformed)
	}

	intents := make([]domain.Intent, 0, len(*doc.Intents))
	for i, dto := range *doc.Intents {
		switch {
		case dto.Tag == nil:
			return nil, fmt.Errorf("%w: intent %d: missing tag", domain.ErrDatasetMalformed, i)
		case dto.Patterns == nil:
			return nil, fmt.Errorf("%w: intent %d: missing patterns", domain.ErrDatasetMalformed, i)
		case dto.Responses == nil:
			return nil, fmt.Errorf("%w: intent %d: missing responses", domain.ErrDatasetMalformed, i)
		}
		intents = append(intents, domain.Intent{
			Tag:       *dto.Tag,
			Patterns:  *dto.Patterns,
			Responses: *dto.Responses,
		})
	}
	return intents, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Path: path, Err: domain.ErrDatasetNotFound}
		}
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: %v", domain.ErrDatasetUnreadable, err)}
	}
	if info.IsDir() {
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: is a directory", domain.ErrDatasetUnreadable)}
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: %v", domain.ErrDatasetUnreadable, err)}
	}
	return data, nil
}
