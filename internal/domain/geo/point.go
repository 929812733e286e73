package geo

import (
	"errors"
	"time"
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// Point is a single GPS sample.
type Point struct {
	Latitude  float64
	Longitude float64
	UpdatedAt time.Time
}

// NewPoint validates the coordinate ranges and returns a Point.
func NewPoint(latitude, longitude float64, at time.Time) (*Point, error) {
	if latitude < -90 || latitude > 90 {
		return nil, ErrInvalidLatitude
	}
	if longitude < -180 || longitude > 180 {
		return nil, ErrInvalidLongitude
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return &Point{Latitude: latitude, Longitude: longitude, UpdatedAt: at}, nil
}
