package db

import (
	"context"
	"reflect"
	"testing"

	"github.com/nemo-from-greece/Mindycalc2/internal/rates/catalog"
	"github.com/nemo-from-greece/Mindycalc2/pkg/rates"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenAndInit(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenAndInit failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestReplaceAndLoadDefault(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore(openTestDB(t))

	empty, err := store.IsEmpty(ctx)
	if err != nil || !empty {
		t.Fatalf("IsEmpty() = %v, %v, want true", empty, err)
	}

	want, err := catalog.DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig failed: %v", err)
	}
	if err := store.ReplaceConfig(ctx, want); err != nil {
		t.Fatalf("ReplaceConfig failed: %v", err)
	}

	got, err := store.LoadConfig(ctx)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(got.Blocks) != len(want.Blocks) || len(got.Resources) != len(want.Resources) || len(got.Units) != len(want.Units) {
		t.Fatalf("counts = %d/%d/%d, want %d/%d/%d",
			len(got.Blocks), len(got.Resources), len(got.Units),
			len(want.Blocks), len(want.Resources), len(want.Units))
	}
	for i := range want.Blocks {
		if got.Blocks[i].Name != want.Blocks[i].Name {
			t.Fatalf("block %d = %s, want %s (order lost)", i, got.Blocks[i].Name, want.Blocks[i].Name)
		}
	}
	if !reflect.DeepEqual(got.Priorities, want.Priorities) {
		t.Errorf("priorities = %v, want %v", got.Priorities, want.Priorities)
	}

	cat, err := store.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	duo, err := cat.FindBlock("Duo")
	if err != nil {
		t.Fatalf("FindBlock(Duo) failed: %v", err)
	}
	if duo.Turret == nil || duo.Turret.Ammo["Graphite"].AmmoPerShot != 4 {
		t.Errorf("Duo turret = %+v", duo.Turret)
	}
}

func TestBlockStore(t *testing.T) {
	ctx := context.Background()
	blocks := NewBlockStore(openTestDB(t))

	in := []rates.Block{
		{Name: "Press", World: rates.Serpulo, Kind: rates.KindFactory, Power: 0, Factory: &rates.Factory{
			Inputs: rates.Recipe{"Coal": 2}, Outputs: rates.Recipe{"Graphite": 1}, Time: 90,
			HeatScaling: &rates.HeatScaling{Max: 2, Expr: "heat / 10"},
		}},
		{Name: "Fab", World: rates.Erekir, Kind: rates.KindUnitFactory, Power: 90, UnitFactory: &rates.UnitFactory{
			Tree: map[string]string{"Stell": ""}, Recipes: map[string]rates.Recipe{"Stell": {"Silicon": 50}}, BuildTime: 35,
		}},
	}
	if err := blocks.BulkInsertBlocks(ctx, in); err != nil {
		t.Fatalf("BulkInsertBlocks failed: %v", err)
	}

	got, err := blocks.GetBlock(ctx, "Fab")
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if !reflect.DeepEqual(*got, in[1]) {
		t.Errorf("GetBlock(Fab) = %+v, want %+v", *got, in[1])
	}

	missing, err := blocks.GetBlock(ctx, "Nope")
	if err != nil || missing != nil {
		t.Errorf("GetBlock(Nope) = %v, %v, want nil, nil", missing, err)
	}

	names, err := blocks.ListBlocksByKind(ctx, rates.KindFactory)
	if err != nil || !reflect.DeepEqual(names, []string{"Press"}) {
		t.Errorf("ListBlocksByKind(factory) = %v, %v", names, err)
	}

	if err := blocks.ClearBlocks(ctx); err != nil {
		t.Fatalf("ClearBlocks failed: %v", err)
	}
	if n, err := blocks.CountBlocks(ctx); err != nil || n != 0 {
		t.Errorf("CountBlocks() after clear = %d, %v", n, err)
	}
}

func TestResourceStoreCascade(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	resources := NewResourceStore(db)

	in := []rates.Resource{
		{Name: "Water", World: rates.Serpulo, Kind: rates.KindFluid, AllPumps: true, Producers: []string{"Water Extractor"}},
		{Name: "Water", World: rates.Erekir, Kind: rates.KindFluid, Producers: []string{"Vent Condenser", "Turbine Condenser"}},
	}
	if err := resources.BulkInsertResources(ctx, in); err != nil {
		t.Fatalf("BulkInsertResources failed: %v", err)
	}

	got, err := resources.GetAllResources(ctx)
	if err != nil {
		t.Fatalf("GetAllResources failed: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("GetAllResources() = %+v, want %+v", got, in)
	}

	if err := resources.ClearResources(ctx); err != nil {
		t.Fatalf("ClearResources failed: %v", err)
	}
	var producers int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resource_producers`).Scan(&producers); err != nil {
		t.Fatal(err)
	}
	if producers != 0 {
		t.Errorf("%d producer rows survived the cascade", producers)
	}
}

func TestSyncMetadata(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if v, err := db.GetSyncMetadata(ctx, "source"); err != nil || v != "" {
		t.Errorf("GetSyncMetadata(missing) = %q, %v", v, err)
	}
	if err := db.SetSyncMetadata(ctx, "source", "a.yaml"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSyncMetadata(ctx, "source", "b.yaml"); err != nil {
		t.Fatal(err)
	}
	if v, err := db.GetSyncMetadata(ctx, "source"); err != nil || v != "b.yaml" {
		t.Errorf("GetSyncMetadata(source) = %q, %v, want b.yaml", v, err)
	}
}
