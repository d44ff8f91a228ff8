package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nemo-from-greece/Mindycalc2/internal/rates/db"
	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

func newTestSyncer(t *testing.T) (*Syncer, *db.DB) {
	t.Helper()
	database, err := db.OpenAndInit(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenAndInit failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return NewSyncer(database), database
}

const pressCatalog = `
resources:
  - {name: Coal, world: serpulo, kind: item}
  - {name: Graphite, world: serpulo, kind: item, producers: [Press, Ghost]}
blocks:
  - name: Press
    world: serpulo
    kind: factory
    factory: {inputs: {Coal: 2}, outputs: {Graphite: 1}, time: 90}
units: []
priorities:
  serpulo: [[Coal], [Graphite]]
  erekir: []
`

func TestImportCatalogFromFile(t *testing.T) {
	ctx := context.Background()
	s, database := newTestSyncer(t)

	path := filepath.Join(t.TempDir(), "press.yaml")
	if err := os.WriteFile(path, []byte(pressCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := s.ImportCatalogFromFile(ctx, path)
	if err != nil {
		t.Fatalf("ImportCatalogFromFile failed: %v", err)
	}
	if res.Blocks != 1 || res.Resources != 2 || res.Units != 0 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Unresolved) != 1 || res.Unresolved[0] != "Ghost" {
		t.Errorf("unresolved = %v, want [Ghost]", res.Unresolved)
	}

	cat, err := s.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if _, err := cat.FindBlock("Press"); err != nil {
		t.Errorf("FindBlock(Press) failed: %v", err)
	}

	if v, _ := database.GetSyncMetadata(ctx, KeySource); v != path {
		t.Errorf("source metadata = %q, want %q", v, path)
	}
}

func TestImportRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSyncer(t)

	if _, err := s.ImportDefault(ctx); err != nil {
		t.Fatalf("ImportDefault failed: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	data := `{"resources":[{"name":"Coal","world":"serpulo","kind":"item"},{"name":"Coal","world":"serpulo","kind":"item"}],"blocks":[],"units":[],"priorities":{"serpulo":[],"erekir":[]}}`
	if err := os.WriteFile(bad, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.ImportCatalogFromFile(ctx, bad); !errors.Is(err, rates.ErrInvalidCatalog) {
		t.Fatalf("import error = %v, want ErrInvalidCatalog", err)
	}

	// The previous catalog is untouched
	cat, err := s.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if _, err := cat.FindBlock("Duo"); err != nil {
		t.Errorf("default catalog lost after a rejected import: %v", err)
	}
}

func TestEnsureSeeded(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSyncer(t)

	seeded, err := s.EnsureSeeded(ctx)
	if err != nil || !seeded {
		t.Fatalf("first EnsureSeeded() = %v, %v, want true", seeded, err)
	}
	seeded, err = s.EnsureSeeded(ctx)
	if err != nil || seeded {
		t.Fatalf("second EnsureSeeded() = %v, %v, want false", seeded, err)
	}

	cat, err := s.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(cat.Units()) != 50 {
		t.Errorf("got %d units, want 50", len(cat.Units()))
	}
}
