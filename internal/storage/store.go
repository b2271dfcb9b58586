package storage

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"sync"
)

type Storer[T ValidatingSpec] interface {
	Get(string) (T, bool)
	GetAll() map[string]T
	Ids() []string
}

// FileStore holds every asset found under a directory tree. Assets are
// read and validated once at construction; the store is read-only after.
type FileStore[T ValidatingSpec] struct {
	fsys    fs.FS
	records map[string]T

	mu sync.RWMutex
}

// NewFileStore loads the assets under dir.
func NewFileStore[T ValidatingSpec](dir string) (*FileStore[T], error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening asset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset path %s is not a directory", dir)
	}
	return NewFSStore[T](os.DirFS(dir))
}

// NewFSStore loads the assets in fsys.
func NewFSStore[T ValidatingSpec](fsys fs.FS) (*FileStore[T], error) {
	s := &FileStore[T]{
		fsys:    fsys,
		records: map[string]T{},
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path.Ext(p) != ".json" {
			return nil
		}

		asset, err := s.loadAsset(p)
		if err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}

		err = asset.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", p, err)
		}

		id := asset.Id().String()
		if _, ok := s.records[id]; ok {
			return fmt.Errorf("duplicate key detected: %s", id)
		}

		s.records[id] = asset.Spec
		return nil
	})
}

func (s *FileStore[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.records[id]
	return val, ok
}

func (s *FileStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := make(map[string]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}

	return vals
}

// Ids returns the loaded asset ids in sorted order.
func (s *FileStore[T]) Ids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *FileStore[T]) loadAsset(p string) (*Asset[T], error) {
	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	asset := &Asset[T]{}
	err = json.Unmarshal(data, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}
