package lookup

import (
	"strings"

	"github.com/TomasB/ipresolve/internal/data"
)

// Merge combines the raw ASN and City records for an address into one
// Result. Empty string fields from the databases become nulls; the
// location string joins whichever of city, subdivision, and country are
// present with ", ", and is the empty string (not null) when all three
// are absent.
func Merge(address string, asn data.ASNRecord, city data.CityRecord) Result {
	result := Result{
		IPAddress:      address,
		ASN:            &asn.Number,
		Organization:   optString(asn.Organization),
		City:           optString(city.City),
		Subdivision:    optString(city.Subdivision),
		Country:        optString(city.Country),
		SubdivisionISO: optString(city.SubdivisionISO),
		CountryISO:     optString(city.CountryISO),
		Latitude:       &city.Latitude,
		Longitude:      &city.Longitude,
	}

	var parts []string
	for _, part := range []*string{result.City, result.Subdivision, result.Country} {
		if part != nil {
			parts = append(parts, *part)
		}
	}
	location := strings.Join(parts, ", ")
	result.LocationString = &location

	return result
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
