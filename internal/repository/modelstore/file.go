// Package modelstore persists serialized model snapshots on disk or in the KV store.
package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/intentd/internal/domain"
)

const (
	filePrefix = "classifier-"
	fileSuffix = ".msgpack"
)

// FileStore writes snapshots as classifier-<unix>.msgpack files under a directory.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

// Save writes data atomically and returns the snapshot file name.
func (s *FileStore) Save(_ context.Context, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}
	ref := filePrefix + strconv.FormatInt(s.now().Unix(), 10) + fileSuffix

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+filePrefix+"*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, ref)); err != nil {
		return "", fmt.Errorf("rename snapshot: %w", err)
	}
	return ref, nil
}

// Load reads the snapshot named by ref, or the newest one when ref is empty.
func (s *FileStore) Load(_ context.Context, ref string) ([]byte, string, error) {
	if ref == "" {
		latest, err := s.latest()
		if err != nil {
			return nil, "", err
		}
		ref = latest
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("snapshot %s: %w", ref, domain.ErrModelNotFound)
		}
		return nil, "", fmt.Errorf("read snapshot %s: %w", ref, err)
	}
	return data, ref, nil
}

func (s *FileStore) latest() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("model dir %s: %w", s.dir, domain.ErrModelNotFound)
		}
		return "", fmt.Errorf("list model dir: %w", err)
	}

	var (
		best   string
		bestTS int64 = -1
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		ts, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix), 10, 64)
		if err != nil {
			continue
		}
		if ts > bestTS {
			best, bestTS = name, ts
		}
	}
	if best == "" {
		return "", fmt.Errorf("no snapshots in %s: %w", s.dir, domain.ErrModelNotFound)
	}
	return best, nil
}
