package schema

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sam171002/Text-2-SQL/internal/storage"
)

const artifactJSON = `{
  "patients": [
    {"name": "id", "type": "int", "nullable": false, "default": ""},
    {"name": "name", "type": "varchar(100)", "nullable": false, "default": ""},
    {"name": "region", "type": "varchar(50)", "nullable": true, "default": "'unknown'"}
  ],
  "visits": [
    {"name": "id", "type": "int", "nullable": false, "default": ""},
    {"name": "patient_id", "type": "int", "nullable": false, "default": ""}
  ]
}`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema_info.json")
	if err := os.WriteFile(path, []byte(artifactJSON), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	registry, err := NewRegistry(FileSource{Path: path})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	desc, err := registry.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(desc) != 2 {
		t.Fatalf("table count = %d", len(desc))
	}
	if desc["patients"][2].Name != "region" || !desc["patients"][2].Nullable {
		t.Fatalf("patients columns = %+v", desc["patients"])
	}
}

func TestLoadMissingFileReportsUnavailable(t *testing.T) {
	registry, err := NewRegistry(FileSource{Path: filepath.Join(t.TempDir(), "absent.json")})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if _, err := registry.Load(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Load() error = %v, want ErrUnavailable", err)
	}
}

func TestLoadUnparsableArtifactReportsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema_info.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	registry, err := NewRegistry(FileSource{Path: path})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if _, err := registry.Load(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Load() error = %v, want ErrUnavailable", err)
	}
}

func TestLoadFromObjectSource(t *testing.T) {
	registry, err := NewRegistry(ObjectSource{Store: fakeStore{body: artifactJSON}, Key: "schema/schema_info.json"})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	desc, err := registry.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := desc["visits"]; !ok {
		t.Fatalf("tables = %v", desc.Tables())
	}
}

func TestRenderIsDeterministicAndOrdered(t *testing.T) {
	desc := Description{
		"visits":   {{Name: "id", Type: "int"}},
		"patients": {{Name: "id", Type: "int"}, {Name: "region", Type: "varchar(50)", Nullable: true, Default: "'unknown'"}},
	}

	first := desc.Render()
	if first != desc.Render() {
		t.Fatal("Render() is not deterministic")
	}
	if strings.Index(first, "TABLE patients") > strings.Index(first, "TABLE visits") {
		t.Fatalf("tables not sorted:\n%s", first)
	}
	if !strings.Contains(first, "region varchar(50) NULL DEFAULT 'unknown'") {
		t.Fatalf("column line missing:\n%s", first)
	}
}

type fakeStore struct {
	body string
}

func (f fakeStore) Put(context.Context, string, io.Reader, int64, storage.PutOptions) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, nil
}

func (f fakeStore) Get(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.body)), nil
}
