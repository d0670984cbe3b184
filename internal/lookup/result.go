// Package lookup implements the address resolution pipeline: private
// address short-circuiting, database reads, record merging, and bulk
// processing over a bounded worker pool.
package lookup

import "strconv"

// Result is one resolved address. Field order is the serialization
// order for both JSON and CSV output. Pointer fields are null when the
// database carries no value; every field except IPAddress is null for a
// private or unknown address.
type Result struct {
	IPAddress      string   `json:"ip_address"`
	ASN            *uint    `json:"asn"`
	Organization   *string  `json:"organization"`
	LocationString *string  `json:"location_string"`
	City           *string  `json:"city"`
	Subdivision    *string  `json:"subdivision"`
	Country        *string  `json:"country"`
	SubdivisionISO *string  `json:"subdivision_iso"`
	CountryISO     *string  `json:"country_iso"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

// FieldNames returns the column names in serialization order, matching
// the Result JSON keys. Used as the CSV header.
func FieldNames() []string {
	return []string{
		"ip_address",
		"asn",
		"organization",
		"location_string",
		"city",
		"subdivision",
		"country",
		"subdivision_iso",
		"country_iso",
		"latitude",
		"longitude",
	}
}

// CSVRow renders the result as one CSV record in field order, with null
// fields as empty cells.
func (r Result) CSVRow() []string {
	return []string{
		r.IPAddress,
		uintCell(r.ASN),
		stringCell(r.Organization),
		stringCell(r.LocationString),
		stringCell(r.City),
		stringCell(r.Subdivision),
		stringCell(r.Country),
		stringCell(r.SubdivisionISO),
		stringCell(r.CountryISO),
		floatCell(r.Latitude),
		floatCell(r.Longitude),
	}
}

// nullResult is the record produced for private and unknown addresses:
// the exact input echoed back with every other field null.
func nullResult(address string) Result {
	return Result{IPAddress: address}
}

func stringCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func uintCell(n *uint) string {
	if n == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*n), 10)
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
