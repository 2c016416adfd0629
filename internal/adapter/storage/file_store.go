package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
)

const (
	cartFile     = "cart.json"
	overrideFile = "stock_override.json"
	summaryFile  = "summary.json"
)

// FileStore persists the ledger as one JSON file per key in a data
// directory. Writes go through a temp file and rename so a crash never
// leaves a half-written file behind.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) LoadCart(_ context.Context) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := f.read(cartFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (f *FileStore) SaveCart(_ context.Context, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	return f.write(cartFile, items)
}

func (f *FileStore) LoadStockOverrides(_ context.Context) (map[string]int, error) {
	overrides := make(map[string]int)
	if err := f.read(overrideFile, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (f *FileStore) SaveStockOverrides(_ context.Context, overrides map[string]int) error {
	if overrides == nil {
		overrides = map[string]int{}
	}
	return f.write(overrideFile, overrides)
}

func (f *FileStore) SaveSummary(_ context.Context, summary domain.CartSummary) error {
	return f.write(summaryFile, summary)
}

// read unmarshals the named file into v; a missing file leaves v at its
// zero value.
func (f *FileStore) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (f *FileStore) write(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(f.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
