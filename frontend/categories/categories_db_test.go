package categories

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

func TestCreateAndListCategories(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := CreateCategory(ctx, db, "Medical", nil, "clinical supplies"); err != nil {
		t.Fatalf("create: %v", err)
	}
	cats, err := ListCategories(ctx, db, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Medical" {
		t.Fatalf("unexpected categories: %+v", cats)
	}

	if err := CreateCategory(ctx, db, "Gloves", &cats[0].ID, ""); err != nil {
		t.Fatalf("create child: %v", err)
	}
	cats, err = ListCategories(ctx, db, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("want 2 categories, got %d", len(cats))
	}
}

func TestCreateCategoryRequiresName(t *testing.T) {
	db := openTestDB(t)
	err := CreateCategory(context.Background(), db, "   ", nil, "")
	if !apperr.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestUpdateCategoryRejectsSelfParent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := CreateCategory(ctx, db, "Medical", nil, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	cats, _ := ListCategories(ctx, db, false)
	id := cats[0].ID

	err := UpdateCategory(ctx, db, id, "Medical", &id, "")
	if !apperr.IsConflict(err) {
		t.Fatalf("want conflict error, got %v", err)
	}
}

func TestUpdateMissingCategory(t *testing.T) {
	db := openTestDB(t)
	err := UpdateCategory(context.Background(), db, 999, "Ghost", nil, "")
	if !apperr.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestDeactivateCascadesOneLevelOnly(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mustCreate := func(name string, parent *int64) int64 {
		t.Helper()
		if err := CreateCategory(ctx, db, name, parent, ""); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		cats, _ := ListCategories(ctx, db, true)
		for _, c := range cats {
			if c.Name == name {
				return c.ID
			}
		}
		t.Fatalf("category %s not found after create", name)
		return 0
	}

	root := mustCreate("Root", nil)
	child := mustCreate("Child", &root)
	_ = mustCreate("Grandchild", &child)

	if err := DeactivateCategory(ctx, db, root); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	cats, err := ListCategories(ctx, db, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	active := map[string]bool{}
	for _, c := range cats {
		active[c.Name] = c.IsActive
	}
	if active["Root"] || active["Child"] {
		t.Fatalf("root and child should be inactive: %+v", active)
	}
	if !active["Grandchild"] {
		t.Fatal("grandchild should stay active")
	}

	count, err := InactiveCount(ctx, db)
	if err != nil {
		t.Fatalf("inactive count: %v", err)
	}
	if count != 2 {
		t.Fatalf("want 2 inactive, got %d", count)
	}
}

func TestReactivateDoesNotRestoreChildren(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := CreateCategory(ctx, db, "Root", nil, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	cats, _ := ListCategories(ctx, db, false)
	root := cats[0].ID
	if err := CreateCategory(ctx, db, "Child", &root, ""); err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := DeactivateCategory(ctx, db, root); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := ReactivateCategory(ctx, db, root); err != nil {
		t.Fatalf("reactivate: %v", err)
	}

	cats, _ = ListCategories(ctx, db, true)
	for _, c := range cats {
		if c.Name == "Root" && !c.IsActive {
			t.Fatal("root should be active again")
		}
		if c.Name == "Child" && c.IsActive {
			t.Fatal("child should remain inactive")
		}
	}
}
