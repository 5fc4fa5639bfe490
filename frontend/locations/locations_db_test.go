package locations

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"invapp/infrastructure/apperr"
	"invapp/infrastructure/sqlite"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	_, thisFile, _, _ := runtime.Caller(0)
	migrations := filepath.Join(filepath.Dir(thisFile), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func seedSite(t *testing.T, db *sqlite.DB, name string) int64 {
	t.Helper()
	ctx := context.Background()
	if err := CreateSite(ctx, db, name, "", ""); err != nil {
		t.Fatalf("create site %s: %v", name, err)
	}
	groups, err := GroupedLocations(ctx, db, true)
	if err != nil {
		t.Fatalf("grouped locations: %v", err)
	}
	for _, g := range groups {
		if g.Site.Name == name {
			return g.Site.SiteID
		}
	}
	t.Fatalf("site %s not found after create", name)
	return 0
}

func TestGroupedLocationsOrdersSitesAndLocations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	warehouse := seedSite(t, db, "Warehouse")
	clinic := seedSite(t, db, "Clinic")
	if err := CreateLocation(ctx, db, warehouse, "Shelf B", ""); err != nil {
		t.Fatalf("create location: %v", err)
	}
	if err := CreateLocation(ctx, db, warehouse, "Shelf A", ""); err != nil {
		t.Fatalf("create location: %v", err)
	}

	groups, err := GroupedLocations(ctx, db, false)
	if err != nil {
		t.Fatalf("grouped locations: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("want 2 sites, got %d", len(groups))
	}
	if groups[0].Site.Name != "Clinic" || groups[1].Site.Name != "Warehouse" {
		t.Fatalf("sites out of order: %s, %s", groups[0].Site.Name, groups[1].Site.Name)
	}
	locs := groups[1].Locations
	if len(locs) != 2 || locs[0].Name != "Shelf A" || locs[1].Name != "Shelf B" {
		t.Fatalf("locations out of order: %+v", locs)
	}
	if groups[0].Site.SiteID != clinic {
		t.Fatalf("unexpected clinic id %d", groups[0].Site.SiteID)
	}
}

func TestCreateLocationRequiresActiveSite(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	site := seedSite(t, db, "Depot")
	if err := DeactivateSite(ctx, db, site); err != nil {
		t.Fatalf("deactivate site: %v", err)
	}
	err := CreateLocation(ctx, db, site, "Bay 1", "")
	if !apperr.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestDeactivateSiteCascadesToLocations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	site := seedSite(t, db, "Depot")
	if err := CreateLocation(ctx, db, site, "Bay 1", ""); err != nil {
		t.Fatalf("create location: %v", err)
	}

	if err := DeactivateSite(ctx, db, site); err != nil {
		t.Fatalf("deactivate site: %v", err)
	}

	groups, err := GroupedLocations(ctx, db, true)
	if err != nil {
		t.Fatalf("grouped locations: %v", err)
	}
	if groups[0].Site.IsActive {
		t.Fatal("site should be inactive")
	}
	if groups[0].Locations[0].IsActive {
		t.Fatal("location should be inactive after site cascade")
	}

	if err := ReactivateSite(ctx, db, site); err != nil {
		t.Fatalf("reactivate site: %v", err)
	}
	groups, _ = GroupedLocations(ctx, db, true)
	if !groups[0].Site.IsActive {
		t.Fatal("site should be active again")
	}
	if groups[0].Locations[0].IsActive {
		t.Fatal("location should stay inactive after site reactivation")
	}
}

func TestActiveLocationOptionsLabelsAndFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	site := seedSite(t, db, "Depot")
	if err := CreateLocation(ctx, db, site, "Bay 1", ""); err != nil {
		t.Fatalf("create location: %v", err)
	}
	if err := CreateLocation(ctx, db, site, "Bay 2", ""); err != nil {
		t.Fatalf("create location: %v", err)
	}

	groups, _ := GroupedLocations(ctx, db, false)
	bay2 := groups[0].Locations[1].LocationID
	if err := SetLocationActive(ctx, db, bay2, false); err != nil {
		t.Fatalf("deactivate location: %v", err)
	}

	opts, err := ActiveLocationOptions(ctx, db)
	if err != nil {
		t.Fatalf("active options: %v", err)
	}
	if len(opts) != 1 {
		t.Fatalf("want 1 option, got %d", len(opts))
	}
	if opts[0].Label != "Depot - Bay 1" {
		t.Fatalf("unexpected label %q", opts[0].Label)
	}
}
