// Package profiles exposes the minimal user-profile data the marketplace
// needs: display names, roles and the optional store/buyer geolocation the
// catalog distance ranking depends on.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace/internal/catalog"
)

var ErrNotFound = errors.New("profile not found")

type Profile struct {
	ID           string            `json:"id"`
	FullName     string            `json:"full_name"`
	BusinessName string            `json:"business_name,omitempty"`
	Role         string            `json:"role"`
	Location     *catalog.Location `json:"location,omitempty"`
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

func (c *Conf) GetProfile(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	var business sql.NullString
	var lat, lng sql.NullFloat64
	err := c.db.QueryRowContext(ctx,
		`SELECT id, full_name, business_name, role, location_lat, location_lng
		 FROM profiles WHERE id = $1`,
		userID,
	).Scan(&p.ID, &p.FullName, &business, &p.Role, &lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("querying profile: %w", err)
	}
	p.BusinessName = business.String
	if lat.Valid && lng.Valid {
		p.Location = &catalog.Location{Lat: lat.Float64, Lng: lng.Float64}
	}
	return p, nil
}

// UpdateLocation stores the user's geolocation. Absence of a location is
// tolerated everywhere, so this is the only profile mutation exposed.
func (c *Conf) UpdateLocation(ctx context.Context, userID string, loc catalog.Location) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE profiles SET location_lat = $1, location_lng = $2, updated_at = NOW() WHERE id = $3`,
		loc.Lat, loc.Lng, userID,
	)
	if err != nil {
		return fmt.Errorf("updating location: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	return nil
}
