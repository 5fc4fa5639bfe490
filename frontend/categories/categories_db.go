package categories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"invapp/infrastructure/apperr"
	"invapp/infrastructure/sqlite"
	"invapp/models"
)

// ListCategories returns categories for the page, inactive ones included
// only when requested.
func ListCategories(ctx context.Context, db *sqlite.DB, showInactive bool) ([]models.Category, error) {
	cats := make([]models.Category, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(&cats).Order("name ASC")
		if !showInactive {
			q = q.Where("is_active = 1")
		} else {
			q = q.OrderExpr("is_active DESC, name ASC")
		}
		return q.Scan(ctx)
	})
	return cats, err
}

// ActiveCategories returns active categories for parent pickers and item
// category filters.
func ActiveCategories(ctx context.Context, db *sqlite.DB) ([]models.Category, error) {
	cats := make([]models.Category, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&cats).Where("is_active = 1").Order("name ASC").Scan(ctx)
	})
	return cats, err
}

// InactiveCount returns how many categories are deactivated, shown on the
// show-inactive toggle.
func InactiveCount(ctx context.Context, db *sqlite.DB) (int64, error) {
	var count int64
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM categories WHERE is_active = 0`).Scan(ctx, &count)
	})
	return count, err
}

// CreateCategory inserts a new category under an optional parent.
func CreateCategory(ctx context.Context, db *sqlite.DB, name string, parentID *int64, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("category name is required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		cat := &models.Category{
			Name:        name,
			ParentID:    parentID,
			Description: strings.TrimSpace(description),
			IsActive:    true,
		}
		if _, err := tx.NewInsert().Model(cat).Exec(ctx); err != nil {
			return apperr.Persistence("insert category", err)
		}
		return nil
	})
}

// UpdateCategory edits name, parent and description. A category may never
// become its own parent.
func UpdateCategory(ctx context.Context, db *sqlite.DB, id int64, name string, parentID *int64, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("category name is required")
	}
	if parentID != nil && *parentID == id {
		return apperr.Conflict("a category cannot be its own parent")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Category)(nil)).
			Set("name = ?", name).
			Set("parent_id = ?", parentID).
			Set("description = ?", strings.TrimSpace(description)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return apperr.Persistence("update category", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return apperr.NotFound("category %d not found", id)
		}
		return nil
	})
}

// DeactivateCategory soft-deletes the category and its direct children.
// The cascade is one level only; grandchildren stay active.
func DeactivateCategory(ctx context.Context, db *sqlite.DB, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Category)(nil)).
			Set("is_active = 0").
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return apperr.Persistence("deactivate category", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return apperr.NotFound("category %d not found", id)
		}
		if _, err := tx.NewUpdate().Model((*models.Category)(nil)).
			Set("is_active = 0").
			Where("parent_id = ?", id).
			Exec(ctx); err != nil {
			return apperr.Persistence("deactivate child categories", err)
		}
		return nil
	})
}

// ReactivateCategory switches a category back to active. Children are not
// reactivated; they must be restored individually.
func ReactivateCategory(ctx context.Context, db *sqlite.DB, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Category)(nil)).
			Set("is_active = 1").
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return apperr.Persistence("reactivate category", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return apperr.NotFound("category %d not found", id)
		}
		return nil
	})
}

// LoadCategory fetches one category by id.
func LoadCategory(ctx context.Context, db *sqlite.DB, id int64) (models.Category, error) {
	var cat models.Category
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&cat).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, apperr.NotFound("category %d not found", id)
	}
	return cat, err
}
