// Package device defines the platform capabilities the report flow relies on
// (location, media picking, file reading) and the implementations used by the
// terminal front-end.
package device

import (
	"context"
	"strings"
)

// Permission is the outcome of a permission prompt.
type Permission int

const (
	Denied Permission = iota
	Granted
)

func (p Permission) String() string {
	if p == Granted {
		return "granted"
	}
	return "denied"
}

// Position is a WGS84 coordinate pair.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Address holds reverse-geocoded components. Any of them may be empty.
type Address struct {
	Name    string
	Street  string
	City    string
	Region  string
	Country string
}

// Label joins the non-empty components, most specific first.
func (a Address) Label() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Name, a.Street, a.City, a.Region, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// IsZero reports whether no component is set.
func (a Address) IsZero() bool { return a.Label() == "" }

// Locator wraps the platform location service.
type Locator interface {
	RequestPermission(ctx context.Context) (Permission, error)
	CurrentPosition(ctx context.Context) (Position, error)
	// ReverseGeocode returns an empty Address when nothing is known.
	ReverseGeocode(ctx context.Context, pos Position) (Address, error)
}

// PickResult is the outcome of a picker. URI is empty when Cancelled.
type PickResult struct {
	Cancelled bool
	URI       string
}

// ImagePicker wraps the media library and camera.
type ImagePicker interface {
	PickFromLibrary(ctx context.Context) (PickResult, error)
	CaptureFromCamera(ctx context.Context) (PickResult, error)
}

// FileEncoder reads a file as base64.
type FileEncoder interface {
	ReadAsBase64(ctx context.Context, uri string) (string, error)
}
