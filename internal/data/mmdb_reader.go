package data

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// MmdbReader implements GeoLookup using a pair of MaxMind MMDB files,
// one GeoLite2-ASN and one GeoLite2-City. The underlying readers are
// safe for concurrent use, so one MmdbReader can be shared across
// workers for the life of the process.
type MmdbReader struct {
	asn  *geoip2.Reader
	city *geoip2.Reader
}

// NewMmdbReader opens the ASN and City MMDB files at the given paths and
// returns a reader. Failure to open either file is a startup error; no
// lookups can proceed without both databases.
func NewMmdbReader(asnPath, cityPath string) (*MmdbReader, error) {
	asn, err := geoip2.Open(asnPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASN MMDB file: %w", err)
	}
	city, err := geoip2.Open(cityPath)
	if err != nil {
		asn.Close()
		return nil, fmt.Errorf("failed to open City MMDB file: %w", err)
	}
	return &MmdbReader{asn: asn, city: city}, nil
}

// LookupASN returns the ASN record for the given IP address.
//
// geoip2 returns a zero-valued record rather than an error for addresses
// the database does not cover; that case is mapped to ErrNotFound here so
// callers see one consistent signal.
func (r *MmdbReader) LookupASN(ip net.IP) (ASNRecord, error) {
	record, err := r.asn.ASN(ip)
	if err != nil {
		return ASNRecord{}, fmt.Errorf("ASN lookup failed: %w", err)
	}
	if record.AutonomousSystemNumber == 0 && record.AutonomousSystemOrganization == "" {
		return ASNRecord{}, ErrNotFound
	}
	return ASNRecord{
		Number:       record.AutonomousSystemNumber,
		Organization: record.AutonomousSystemOrganization,
	}, nil
}

// LookupCity returns the city record for the given IP address, mapping
// the zero-valued geoip2 record to ErrNotFound as LookupASN does.
func (r *MmdbReader) LookupCity(ip net.IP) (CityRecord, error) {
	record, err := r.city.City(ip)
	if err != nil {
		return CityRecord{}, fmt.Errorf("city lookup failed: %w", err)
	}
	if cityEmpty(record) {
		return CityRecord{}, ErrNotFound
	}
	out := CityRecord{
		City:       record.City.Names["en"],
		Country:    record.Country.Names["en"],
		CountryISO: record.Country.IsoCode,
		Latitude:   record.Location.Latitude,
		Longitude:  record.Location.Longitude,
	}
	// MaxMind orders subdivisions from least to most specific.
	if n := len(record.Subdivisions); n > 0 {
		out.Subdivision = record.Subdivisions[n-1].Names["en"]
		out.SubdivisionISO = record.Subdivisions[n-1].IsoCode
	}
	return out, nil
}

// Close releases both MMDB readers.
func (r *MmdbReader) Close() error {
	asnErr := r.asn.Close()
	cityErr := r.city.Close()
	if asnErr != nil {
		return asnErr
	}
	return cityErr
}

func cityEmpty(record *geoip2.City) bool {
	return record.Country.GeoNameID == 0 &&
		record.City.GeoNameID == 0 &&
		len(record.Subdivisions) == 0 &&
		record.Location.Latitude == 0 &&
		record.Location.Longitude == 0
}
