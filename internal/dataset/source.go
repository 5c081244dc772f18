package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

// Source loads one named dataset. A missing artifact is an Absent dataset
// with a nil error; any other failure is returned as an error.
type Source interface {
	Load(ctx context.Context, name domain.Name) (domain.Dataset, error)
}

// FileSource reads artifacts from a base directory.
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Dir is the base directory.
func (s *FileSource) Dir() string { return s.dir }

// Path is the artifact path for name.
func (s *FileSource) Path(name domain.Name) string {
	return filepath.Join(s.dir, name.File())
}

func (s *FileSource) Load(_ context.Context, name domain.Name) (domain.Dataset, error) {
	f, err := os.Open(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Absent(name, "not found"), nil
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open %s: %w", name.File(), err)
	}
	defer f.Close()

	t, err := ParseCSV(f)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("parse %s: %w", name.File(), err)
	}
	return checked(name, t)
}

// Fingerprint identifies the artifact's current content by size and
// modification time. A missing artifact has the fingerprint "absent".
func (s *FileSource) Fingerprint(name domain.Name) (string, error) {
	info, err := os.Stat(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return "absent", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", name.File(), err)
	}
	return fmt.Sprintf("%d@%d", info.Size(), info.ModTime().UnixNano()), nil
}

func checked(name domain.Name, t *domain.Table) (domain.Dataset, error) {
	if err := domain.ContractFor(name).Check(t); err != nil {
		return domain.Dataset{}, fmt.Errorf("%s: %w", name, err)
	}
	return domain.Loaded(name, t), nil
}
