package data

import (
	"errors"
	"net"
)

// ErrNotFound is returned by lookups when the database has no entry for
// the address. Callers distinguish it from real reader failures with
// errors.Is.
var ErrNotFound = errors.New("address not found in database")

// ASNRecord holds the ownership fields extracted from the ASN database.
type ASNRecord struct {
	Number       uint
	Organization string
}

// CityRecord holds the location fields extracted from the City database.
// String fields are empty when the database carries no value for them;
// coordinates are always populated for a found record.
type CityRecord struct {
	City           string
	Subdivision    string
	SubdivisionISO string
	Country        string
	CountryISO     string
	Latitude       float64
	Longitude      float64
}

// GeoLookup defines the interface for IP ownership and location lookups.
// Implementations must be safe for concurrent use.
type GeoLookup interface {
	// LookupASN returns the ASN record for the given IP address, or
	// ErrNotFound when the database has no entry for it.
	LookupASN(ip net.IP) (ASNRecord, error)

	// LookupCity returns the city record for the given IP address, or
	// ErrNotFound when the database has no entry for it.
	LookupCity(ip net.IP) (CityRecord, error)

	// Close releases any resources held by the lookup implementation.
	Close() error
}
