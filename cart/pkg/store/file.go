package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileRepository keeps a JSON snapshot at Path. It is the single visitor analogue of browser
// local storage, used by the command line tools and tests.
type FileRepository[T any] struct {
	Path string
}

func NewFileRepository[T any](dir string, key string) *FileRepository[T] {
	return &FileRepository[T]{Path: filepath.Join(dir, key+".json")}
}

func (f *FileRepository[T]) Load(c context.Context) (T, error) {
	var value T
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return value, ErrNotFound
	}
	if err != nil {
		return value, fmt.Errorf("failed reading file=%s with error=%w", f.Path, err)
	}
	if err = json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("failed decoding file=%s with error=%w", f.Path, err)
	}
	return value, nil
}

func (f *FileRepository[T]) Save(c context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed encoding state with error=%w", err)
	}
	if err = os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("failed creating dir for file=%s with error=%w", f.Path, err)
	}
	tmp := f.Path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed writing file=%s with error=%w", tmp, err)
	}
	if err = os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("failed replacing file=%s with error=%w", f.Path, err)
	}
	return nil
}
