package locations

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"invapp/infrastructure/apperr"
	"invapp/infrastructure/sqlite"
	"invapp/models"
)

// SiteGroup is a site together with its locations, as shown on the locations
// page and in location pickers.
type SiteGroup struct {
	Site      models.Site
	Locations []models.Location
}

// LocationOption is a flat picker entry labelled "Site - Location".
type LocationOption struct {
	LocationID int64  `bun:"location_id"`
	SiteID     int64  `bun:"site_id"`
	Label      string `bun:"label"`
}

// GroupedLocations returns sites with their locations, ordered by site then
// location name. Inactive rows are included only when requested.
func GroupedLocations(ctx context.Context, db *sqlite.DB, showInactive bool) ([]SiteGroup, error) {
	var groups []SiteGroup
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		sites := make([]models.Site, 0)
		sq := tx.NewSelect().Model(&sites).Order("name ASC")
		if !showInactive {
			sq = sq.Where("is_active = 1")
		}
		if err := sq.Scan(ctx); err != nil {
			return err
		}

		locs := make([]models.Location, 0)
		lq := tx.NewSelect().Model(&locs).Order("name ASC")
		if !showInactive {
			lq = lq.Where("is_active = 1")
		}
		if err := lq.Scan(ctx); err != nil {
			return err
		}

		bySite := make(map[int64][]models.Location, len(sites))
		for _, l := range locs {
			bySite[l.SiteID] = append(bySite[l.SiteID], l)
		}
		groups = make([]SiteGroup, 0, len(sites))
		for _, s := range sites {
			groups = append(groups, SiteGroup{Site: s, Locations: bySite[s.SiteID]})
		}
		return nil
	})
	return groups, err
}

// ActiveLocationOptions returns active locations at active sites as flat
// picker entries.
func ActiveLocationOptions(ctx context.Context, db *sqlite.DB) ([]LocationOption, error) {
	opts := make([]LocationOption, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
			SELECT l.location_id AS location_id, l.site_id AS site_id,
			       si.name || ' - ' || l.name AS label
			FROM locations l
			JOIN sites si ON si.site_id = l.site_id
			WHERE l.is_active = 1 AND si.is_active = 1
			ORDER BY si.name ASC, l.name ASC`).Scan(ctx, &opts)
	})
	return opts, err
}

// CreateSite adds a facility.
func CreateSite(ctx context.Context, db *sqlite.DB, name, address, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("site name is required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		site := &models.Site{
			Name:        name,
			Address:     strings.TrimSpace(address),
			Description: strings.TrimSpace(description),
			IsActive:    true,
		}
		if _, err := tx.NewInsert().Model(site).Exec(ctx); err != nil {
			return apperr.Persistence("insert site", err)
		}
		return nil
	})
}

// UpdateSite edits a facility.
func UpdateSite(ctx context.Context, db *sqlite.DB, siteID int64, name, address, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("site name is required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Site)(nil)).
			Set("name = ?", name).
			Set("address = ?", strings.TrimSpace(address)).
			Set("description = ?", strings.TrimSpace(description)).
			Where("site_id = ?", siteID).
			Exec(ctx)
		if err != nil {
			return apperr.Persistence("update site", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return apperr.NotFound("site %d not found", siteID)
		}
		return nil
	})
}

// DeactivateSite archives a site together with every location in it.
func DeactivateSite(ctx context.Context, db *sqlite.DB, siteID int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Site)(nil)).
			Set("is_active = 0").
			Where("site_id = ?", siteID).
			Exec(ctx)
		if err != nil {
			return apperr.Persistence("deactivate site", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return apperr.NotFound("site %d not found", siteID)
		}
		if _, err := tx.NewUpdate().Model((*models.Location)(nil)).
			Set("is_active = 0").
			Where("site_id = ?", siteID).
			Exec(ctx); err != nil {
			return apperr.Persistence("deactivate site locations", err)
		}
		return nil
	})
}

// ReactivateSite restores a site. Its locations stay inactive and must be
// restored one by one.
func ReactivateSite(ctx context.Context, db *sqlite.DB, siteID int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Site)(nil)).
			Set("is_active = 1").
			Where("site_id = ?", siteID).
			Exec(ctx)
		if err != nil {
			return apperr.Persistence("reactivate site", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return apperr.NotFound("site %d not found", siteID)
		}
		return nil
	})
}

// CreateLocation adds a location to an active site.
func CreateLocation(ctx context.Context, db *sqlite.DB, siteID int64, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("location name is required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().Model((*models.Site)(nil)).
			Where("site_id = ? AND is_active = 1", siteID).
			Count(ctx)
		if err != nil {
			return apperr.Persistence("check site", err)
		}
		if count == 0 {
			return apperr.NotFound("active site %d not found", siteID)
		}
		loc := &models.Location{
			SiteID:      siteID,
			Name:        name,
			Description: strings.TrimSpace(description),
			IsActive:    true,
		}
		if _, err := tx.NewInsert().Model(loc).Exec(ctx); err != nil {
			return apperr.Persistence("insert location", err)
		}
		return nil
	})
}

// UpdateLocation edits a location.
func UpdateLocation(ctx context.Context, db *sqlite.DB, locationID int64, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("location name is required")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Location)(nil)).
			Set("name = ?", name).
			Set("description = ?", strings.TrimSpace(description)).
			Where("location_id = ?", locationID).
			Exec(ctx)
		if err != nil {
			return apperr.Persistence("update location", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return apperr.NotFound("location %d not found", locationID)
		}
		return nil
	})
}

// SetLocationActive archives or restores a single location.
func SetLocationActive(ctx context.Context, db *sqlite.DB, locationID int64, active bool) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Location)(nil)).
			Set("is_active = ?", active).
			Where("location_id = ?", locationID).
			Exec(ctx)
		if err != nil {
			return apperr.Persistence("update location", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return apperr.NotFound("location %d not found", locationID)
		}
		return nil
	})
}
