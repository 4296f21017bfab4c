package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sam171002/Text-2-SQL/internal/storage"
)

// ErrUnavailable marks a schema artifact that is missing or unparsable.
// The pipeline aborts before any model or database call when it sees it.
var ErrUnavailable = errors.New("schema unavailable")

// Source yields the raw schema artifact bytes.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

type FileSource struct {
	Path string
}

func (s FileSource) Open(context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open schema file %q: %w", s.Path, err)
	}
	return f, nil
}

type ObjectSource struct {
	Store storage.ObjectStore
	Key   string
}

func (s ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	reader, err := s.Store.Get(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("get schema object %q: %w", s.Key, err)
	}
	return reader, nil
}

type Registry struct {
	source Source
}

func NewRegistry(source Source) (*Registry, error) {
	if source == nil {
		return nil, fmt.Errorf("schema source is required")
	}
	return &Registry{source: source}, nil
}

// Load reads and parses the schema artifact. Re-reading the same
// artifact always yields the same description.
func (r *Registry) Load(ctx context.Context) (Description, error) {
	reader, err := r.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = reader.Close() }()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read artifact: %v", ErrUnavailable, err)
	}

	var desc Description
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, fmt.Errorf("%w: parse artifact: %v", ErrUnavailable, err)
	}
	if len(desc) == 0 {
		return nil, fmt.Errorf("%w: artifact describes no tables", ErrUnavailable)
	}
	return desc, nil
}
