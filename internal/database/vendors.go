package database

import (
	"context"
	"encoding/json"
	"fmt"

	"eventhorizon/internal/models"
)

const vendorColumns = `id, role, name, company_name, rating, review_count, location, price_range,
	starting_price, description, images, tags, amenities, verified, capacity, blocked_dates,
	packages, menu_items, products_used, venue_type, rooms, parking`

func (db *DB) CreateVendor(ctx context.Context, vendor *models.VendorProfile) error {
	cols, err := marshalVendor(vendor)
	if err != nil {
		return err
	}

	query := `INSERT INTO vendors (` + vendorColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.db.ExecContext(ctx, query,
		vendor.ID,
		vendor.Role,
		vendor.Name,
		vendor.CompanyName,
		vendor.Rating,
		vendor.ReviewCount,
		vendor.Location,
		vendor.PriceRange,
		vendor.StartingPrice,
		vendor.Description,
		cols.images,
		cols.tags,
		cols.amenities,
		vendor.Verified,
		vendor.Capacity,
		cols.blockedDates,
		cols.packages,
		cols.menuItems,
		cols.productsUsed,
		vendor.VenueType,
		vendor.Rooms,
		vendor.Parking,
	)
	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

func (db *DB) UpdateVendor(ctx context.Context, vendor *models.VendorProfile) error {
	cols, err := marshalVendor(vendor)
	if err != nil {
		return err
	}

	query := `UPDATE vendors SET role = ?, name = ?, company_name = ?, rating = ?, review_count = ?,
			location = ?, price_range = ?, starting_price = ?, description = ?, images = ?, tags = ?,
			amenities = ?, verified = ?, capacity = ?, blocked_dates = ?, packages = ?, menu_items = ?,
			products_used = ?, venue_type = ?, rooms = ?, parking = ? WHERE id = ?`
	return db.execAffectingOne(ctx, query,
		vendor.Role,
		vendor.Name,
		vendor.CompanyName,
		vendor.Rating,
		vendor.ReviewCount,
		vendor.Location,
		vendor.PriceRange,
		vendor.StartingPrice,
		vendor.Description,
		cols.images,
		cols.tags,
		cols.amenities,
		vendor.Verified,
		vendor.Capacity,
		cols.blockedDates,
		cols.packages,
		cols.menuItems,
		cols.productsUsed,
		vendor.VenueType,
		vendor.Rooms,
		vendor.Parking,
		vendor.ID,
	)
}

func (db *DB) GetVendor(ctx context.Context, id string) (*models.VendorProfile, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = ?`
	row := db.db.QueryRowContext(ctx, query, id)
	return scanVendor(row)
}

func (db *DB) ListVendors(ctx context.Context) ([]*models.VendorProfile, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors ORDER BY id`
	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*models.VendorProfile
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return vendors, nil
}

func (db *DB) GetBlockedDates(ctx context.Context, vendorID string) ([]string, error) {
	query := `SELECT blocked_dates FROM vendors WHERE id = ?`
	var raw string
	if err := db.db.QueryRowContext(ctx, query, vendorID).Scan(&raw); err != nil {
		return nil, rowErr(err)
	}

	var dates []string
	if err := json.Unmarshal([]byte(raw), &dates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blocked dates: %w", err)
	}
	return dates, nil
}

// ToggleBlockedDate flips membership of the date in the vendor's
// blocked set and reports the new state.
func (db *DB) ToggleBlockedDate(ctx context.Context, vendorID, date string) (bool, error) {
	dates, err := db.GetBlockedDates(ctx, vendorID)
	if err != nil {
		return false, err
	}

	blocked := true
	found := false
	for i, d := range dates {
		if d == date {
			dates = append(dates[:i], dates[i+1:]...)
			blocked = false
			found = true
			break
		}
	}
	if !found {
		dates = append(dates, date)
	}

	raw, err := json.Marshal(dates)
	if err != nil {
		return false, fmt.Errorf("failed to marshal blocked dates: %w", err)
	}

	query := `UPDATE vendors SET blocked_dates = ? WHERE id = ?`
	if err := db.execAffectingOne(ctx, query, string(raw), vendorID); err != nil {
		return false, err
	}
	return blocked, nil
}

func (db *DB) AddPackage(ctx context.Context, vendorID string, pkg models.Package) error {
	return db.mutateVendor(ctx, vendorID, func(v *models.VendorProfile) {
		v.Packages = append(v.Packages, pkg)
	})
}

func (db *DB) AddMenuItem(ctx context.Context, vendorID string, item models.MenuItem) error {
	return db.mutateVendor(ctx, vendorID, func(v *models.VendorProfile) {
		v.MenuItems = append(v.MenuItems, item)
	})
}

func (db *DB) ToggleAmenity(ctx context.Context, vendorID, amenity string) error {
	return db.mutateVendor(ctx, vendorID, func(v *models.VendorProfile) {
		for i, a := range v.Amenities {
			if a == amenity {
				v.Amenities = append(v.Amenities[:i], v.Amenities[i+1:]...)
				return
			}
		}
		v.Amenities = append(v.Amenities, amenity)
	})
}

func (db *DB) AddImage(ctx context.Context, vendorID, imageURL string) error {
	return db.mutateVendor(ctx, vendorID, func(v *models.VendorProfile) {
		v.Images = append(v.Images, imageURL)
	})
}

func (db *DB) mutateVendor(ctx context.Context, vendorID string, mutate func(*models.VendorProfile)) error {
	vendor, err := db.GetVendor(ctx, vendorID)
	if err != nil {
		return err
	}
	mutate(vendor)
	return db.UpdateVendor(ctx, vendor)
}

type vendorJSONColumns struct {
	images       string
	tags         string
	amenities    string
	blockedDates string
	packages     string
	menuItems    string
	productsUsed string
}

func marshalVendor(v *models.VendorProfile) (*vendorJSONColumns, error) {
	cols := &vendorJSONColumns{}
	pairs := []struct {
		dst *string
		src interface{}
	}{
		{&cols.images, emptySlice(v.Images)},
		{&cols.tags, emptySlice(v.Tags)},
		{&cols.amenities, emptySlice(v.Amenities)},
		{&cols.blockedDates, emptySlice(v.BlockedDates)},
		{&cols.packages, v.Packages},
		{&cols.menuItems, v.MenuItems},
		{&cols.productsUsed, emptySlice(v.ProductsUsed)},
	}
	for _, p := range pairs {
		raw, err := json.Marshal(p.src)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal vendor column: %w", err)
		}
		*p.dst = string(raw)
	}
	return cols, nil
}

func emptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVendor(row rowScanner) (*models.VendorProfile, error) {
	var v models.VendorProfile
	var images, tags, amenities, blockedDates, packages, menuItems, productsUsed string
	err := row.Scan(
		&v.ID,
		&v.Role,
		&v.Name,
		&v.CompanyName,
		&v.Rating,
		&v.ReviewCount,
		&v.Location,
		&v.PriceRange,
		&v.StartingPrice,
		&v.Description,
		&images,
		&tags,
		&amenities,
		&v.Verified,
		&v.Capacity,
		&blockedDates,
		&packages,
		&menuItems,
		&productsUsed,
		&v.VenueType,
		&v.Rooms,
		&v.Parking,
	)
	if err != nil {
		return nil, rowErr(err)
	}

	fields := []struct {
		raw string
		dst interface{}
	}{
		{images, &v.Images},
		{tags, &v.Tags},
		{amenities, &v.Amenities},
		{blockedDates, &v.BlockedDates},
		{packages, &v.Packages},
		{menuItems, &v.MenuItems},
		{productsUsed, &v.ProductsUsed},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vendor column: %w", err)
		}
	}
	return &v, nil
}
